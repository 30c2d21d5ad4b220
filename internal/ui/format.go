package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/javiermolinar/blockweek/internal/schedule"
	"github.com/javiermolinar/blockweek/internal/task"
)

// blockLabel formats a block as "#4 Workshop 3h", with a marker for alternatives.
func blockLabel(blk task.ScheduleBlock) string {
	label := fmt.Sprintf("#%d %s %sh", blk.ID, blk.Title, task.FormatHours(blk.Hours))
	if blk.IsAlternative() {
		label = "↳ " + label
	}
	return label
}

// taskLabel formats a task as "#1 Write docs".
func taskLabel(t task.TaskBlock) string {
	return fmt.Sprintf("#%d %s", t.ID, t.Title)
}

// truncate shortens s to width display cells, ANSI sequences included.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return ansi.Truncate(s, width, "…")
}

// padRight pads s with spaces to width display cells.
func padRight(s string, width int) string {
	w := ansi.StringWidth(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

// BudgetBar draws how much of a task budget is placed.
func BudgetBar(used, total float64, width int) string {
	if total <= 0 || width <= 0 {
		return "[" + strings.Repeat("░", max(width, 0)) + "]"
	}
	filled := int(used / total * float64(width))
	filled = min(max(filled, 0), width)
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + "]"
}

// printTaskRow prints one line of the task pool.
func printTaskRow(w io.Writer, ts schedule.TaskSummary, maxTitle int) {
	t := ts.Task
	tag := formatProcess(t.Process, "["+t.Process.Short()+"]")
	title := padRight(truncate(t.Title, maxTitle), maxTitle)
	hours := fmt.Sprintf("%s/%sh", task.FormatHours(ts.RemainingHours), task.FormatHours(t.TotalHours))
	if !task.HoursPositive(ts.RemainingHours) {
		hours = formatMuted(hours)
	}
	fmt.Fprintf(w, "  %4s  %s  %s  %s %s  %s\n",
		fmt.Sprintf("#%d", t.ID), tag, title,
		BudgetBar(ts.UsedHours, t.TotalHours, 10), hours,
		formatMuted("suggest "+task.FormatHours(t.SuggestedHours)+"h"))
}

// printOutcome prints what a command changed and any soft warnings.
func printOutcome(w io.Writer, verb string, o schedule.Outcome) {
	switch {
	case o.Block != nil:
		fmt.Fprintf(w, "%s %s at %s\n", verb, blockLabel(*o.Block), o.Block.Slot)
	case len(o.Removed) == 0 && o.Promoted == nil:
		fmt.Fprintf(w, "%s\n", verb)
	}
	if len(o.Removed) > 0 {
		ids := make([]string, len(o.Removed))
		for i, id := range o.Removed {
			ids[i] = fmt.Sprintf("#%d", id)
		}
		fmt.Fprintf(w, "Removed %s\n", strings.Join(ids, ", "))
	}
	if o.Promoted != nil {
		fmt.Fprintf(w, "Promoted %s to primary\n", blockLabel(*o.Promoted))
	}
	printWarnings(w, o)
}

func printWarnings(w io.Writer, o schedule.Outcome) {
	for _, msg := range o.Warnings {
		fmt.Fprintf(w, "%s %s\n", formatWarning("warning:"), msg)
	}
	for _, inc := range o.Inconsistencies {
		fmt.Fprintf(w, "%s %s\n", formatWarning("warning:"), inc)
	}
}

package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/blockweek/internal/schedule"
	"github.com/javiermolinar/blockweek/internal/summary"
	"github.com/javiermolinar/blockweek/internal/task"
)

const (
	weekLabelWidth = 16
	weekMinColW    = 14
)

func (a *App) weekCmd() *cobra.Command {
	var noColor bool

	cmd := &cobra.Command{
		Use:   "week",
		Short: "Print the week grid",
		Long: `Print the week grid: five days by three priority rows, with the
blocks placed in each slot and the hours they add up to.

Alternatives are listed under their primary with a ↳ marker.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if noColor {
				DisableColor()
			}
			if err := a.ensureEngine(cmd.Context()); err != nil {
				return err
			}

			printWeek(cmd.OutOrStdout(), a.engine.Board(), a.engine.Report(), weekColumnWidth())
			return nil
		},
	}

	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable color output")
	return cmd
}

func weekColumnWidth() int {
	return max(weekMinColW, (termWidth()-weekLabelWidth)/task.NumDays-1)
}

// printWeek renders the grid row by row. Each cell lists its blocks, every
// primary followed by its alternatives, and ends with the slot total.
func printWeek(w io.Writer, b *schedule.Board, r *summary.Report, colW int) {
	rule := strings.Repeat("─", weekLabelWidth+task.NumDays*(colW+1))

	header := padRight("", weekLabelWidth)
	for _, d := range task.Days() {
		header += " " + padRight(formatHeader(d.String()), colW)
	}
	fmt.Fprintln(w, header)
	fmt.Fprintln(w, rule)

	capHours := b.Config().ImportantCapHours
	for _, row := range task.Rows() {
		var cells [task.NumDays][]string
		height := 1
		for _, d := range task.Days() {
			slot := task.Slot{Day: d, Row: row}
			lines := cellLines(b, slot, colW)
			lines = append(lines, slotTotal(r.Cells[d][row], row, capHours))
			cells[d] = lines
			height = max(height, len(lines))
		}

		for i := range height {
			label := ""
			if i == 0 {
				label = formatHeader(row.Label())
			}
			line := padRight(label, weekLabelWidth)
			for _, d := range task.Days() {
				cell := ""
				if i < len(cells[d]) {
					cell = cells[d][i]
				}
				line += " " + padRight(cell, colW)
			}
			fmt.Fprintln(w, strings.TrimRight(line, " "))
		}
		fmt.Fprintln(w, rule)
	}

	totals := padRight("Total", weekLabelWidth)
	for _, d := range task.Days() {
		totals += " " + padRight(formatStats(task.FormatHours(r.DayTotals[d])+"h"), colW)
	}
	fmt.Fprintln(w, strings.TrimRight(totals, " "))
	fmt.Fprintf(w, "Week: %s\n", formatStats(task.FormatHours(r.Total)+"h"))
}

func cellLines(b *schedule.Board, slot task.Slot, colW int) []string {
	var lines []string
	for _, p := range b.PrimariesAt(slot) {
		lines = append(lines, formatProcess(p.Process, truncate(blockLabel(p), colW)))
		for _, alt := range b.Alternatives(p.ID) {
			lines = append(lines, formatProcess(alt.Process, truncate(blockLabel(alt), colW)))
		}
	}
	if len(lines) == 0 {
		lines = append(lines, formatMuted("·"))
	}
	return lines
}

// slotTotal shows the committed hours of a slot. The Important row also
// shows the soft daily cap and flags when it is exceeded.
func slotTotal(hours float64, row task.Row, capHours float64) string {
	if row != task.RowImportant || capHours <= 0 {
		return formatMuted(task.FormatHours(hours) + "h")
	}
	s := task.FormatHours(hours) + "/" + task.FormatHours(capHours) + "h"
	if task.HoursLess(capHours, hours) {
		return formatWarning(s + " !")
	}
	return formatMuted(s)
}

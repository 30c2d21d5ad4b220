// Package summary derives hour totals from a schedule snapshot.
package summary

import (
	"context"
	"fmt"
	"strings"

	"github.com/javiermolinar/blockweek/internal/task"
)

// ProcessTotal is the committed time of one process.
type ProcessTotal struct {
	Process task.Process
	Hours   float64
}

// CapWarning flags a day whose Important row is over the soft cap.
type CapWarning struct {
	Day   task.Day
	Hours float64
	Cap   float64
}

func (w CapWarning) String() string {
	return fmt.Sprintf("%s: cap exceeded: %s/%sh", w.Day, task.FormatHours(w.Hours), task.FormatHours(w.Cap))
}

// Mismatch is an alternative left larger than its primary.
type Mismatch struct {
	PrimaryID        int64
	AlternativeID    int64
	PrimaryHours     float64
	AlternativeHours float64
}

func (m Mismatch) String() string {
	return fmt.Sprintf("alternative #%d (%sh) exceeds primary #%d (%sh)",
		m.AlternativeID, task.FormatHours(m.AlternativeHours), m.PrimaryID, task.FormatHours(m.PrimaryHours))
}

// Report holds the totals shown next to the grid.
//
// An alternative group counts once, with its primary's hours and process,
// since only one of its outcomes happens in a given week.
type Report struct {
	ProcessTotals []ProcessTotal                  // every process, in display order
	RowTotals     [task.NumRows]float64           // per row, whole week
	Cells         [task.NumDays][task.NumRows]float64
	DayTotals     [task.NumDays]float64
	Total         float64

	Blocks       int // placed blocks, alternatives included
	Alternatives int
	CapExceeded  []CapWarning
	Mismatches   []Mismatch
}

// Options configures the aggregation.
type Options struct {
	ImportantCapHours float64 // <= 0 disables cap warnings
}

// Summarize builds a report from a snapshot. A nil snapshot gives an empty report.
func Summarize(snap *task.Snapshot, opts Options) *Report {
	r := &Report{}
	byProcess := make(map[task.Process]float64)

	var blocks []task.ScheduleBlock
	if snap != nil {
		blocks = snap.Blocks
	}
	primaries := make(map[int64]task.ScheduleBlock, len(blocks))
	for _, b := range blocks {
		if b.AlternativeGroupID == nil {
			primaries[b.ID] = b
		}
	}

	for _, b := range blocks {
		r.Blocks++
		if b.AlternativeGroupID != nil {
			r.Alternatives++
			if p, ok := primaries[*b.AlternativeGroupID]; ok && task.HoursLess(p.Hours, b.Hours) {
				r.Mismatches = append(r.Mismatches, Mismatch{
					PrimaryID:        p.ID,
					AlternativeID:    b.ID,
					PrimaryHours:     p.Hours,
					AlternativeHours: b.Hours,
				})
			}
			continue
		}
		if !b.Slot.Day.Valid() || !b.Slot.Row.Valid() {
			continue
		}
		byProcess[b.Process] += b.Hours
		r.Cells[b.Slot.Day][b.Slot.Row] += b.Hours
		r.RowTotals[b.Slot.Row] += b.Hours
		r.DayTotals[b.Slot.Day] += b.Hours
		r.Total += b.Hours
	}

	for _, p := range task.Processes() {
		r.ProcessTotals = append(r.ProcessTotals, ProcessTotal{Process: p, Hours: byProcess[p]})
	}

	if opts.ImportantCapHours > 0 {
		for _, d := range task.Days() {
			if h := r.Cells[d][task.RowImportant]; task.HoursLess(opts.ImportantCapHours, h) {
				r.CapExceeded = append(r.CapExceeded, CapWarning{Day: d, Hours: h, Cap: opts.ImportantCapHours})
			}
		}
	}
	return r
}

// ProcessHours returns the total of one process.
func (r *Report) ProcessHours(p task.Process) float64 {
	for _, pt := range r.ProcessTotals {
		if pt.Process == p {
			return pt.Hours
		}
	}
	return 0
}

// Load reads the stored snapshot and summarizes it.
func Load(ctx context.Context, repo task.Repository, opts Options) (*Report, error) {
	snap, err := repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading snapshot: %w", err)
	}
	return Summarize(snap, opts), nil
}

// Text renders the report as plain text, suitable for the clipboard.
func (r *Report) Text() string {
	var sb strings.Builder
	sb.WriteString("Week totals\n")
	fmt.Fprintf(&sb, "  Total: %sh in %d blocks", task.FormatHours(r.Total), r.Blocks)
	if r.Alternatives > 0 {
		fmt.Fprintf(&sb, " (%d alternatives)", r.Alternatives)
	}
	sb.WriteString("\n\nBy process\n")
	for _, pt := range r.ProcessTotals {
		fmt.Fprintf(&sb, "  %-12s %sh\n", pt.Process.Label(), task.FormatHours(pt.Hours))
	}
	sb.WriteString("\nBy row\n")
	for _, row := range task.Rows() {
		fmt.Fprintf(&sb, "  %-15s %sh\n", row.Label(), task.FormatHours(r.RowTotals[row]))
	}
	if len(r.CapExceeded) > 0 || len(r.Mismatches) > 0 {
		sb.WriteString("\nWarnings\n")
		for _, w := range r.CapExceeded {
			sb.WriteString("  " + w.String() + "\n")
		}
		for _, m := range r.Mismatches {
			sb.WriteString("  " + m.String() + "\n")
		}
	}
	return sb.String()
}

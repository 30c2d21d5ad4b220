package tui

import (
	"fmt"
	"strings"

	"github.com/javiermolinar/blockweek/internal/task"
)

// renderReportModal renders the week totals. The same numbers are copied as
// plain text with y.
func (m Model) renderReportModal() string {
	r := m.report
	var lines []string

	lines = append(lines, m.styles.ModalTitleStyle.Render("Week totals"))
	meta := fmt.Sprintf("%sh in %d blocks", task.FormatHours(r.Total), r.Blocks)
	if r.Alternatives > 0 {
		meta += fmt.Sprintf(", %d alternatives counted once per group", r.Alternatives)
	}
	lines = append(lines, m.styles.ModalMetaStyle.Render(meta), "")

	lines = append(lines, m.styles.ModalTitleStyle.Render("By process"))
	for _, pt := range r.ProcessTotals {
		label := m.styles.ProcessLabel(pt.Process).Render(fmt.Sprintf("%-12s", pt.Process.Label()))
		lines = append(lines, fmt.Sprintf("  %s %6sh", label, task.FormatHours(pt.Hours)))
	}
	lines = append(lines, "")

	lines = append(lines, m.styles.ModalTitleStyle.Render("By row"))
	for _, row := range task.Rows() {
		lines = append(lines, fmt.Sprintf("  %-15s %6sh", row.Label(), task.FormatHours(r.RowTotals[row])))
	}

	if len(r.CapExceeded) > 0 || len(r.Mismatches) > 0 {
		lines = append(lines, "", m.styles.ModalTitleStyle.Render("Warnings"))
		for _, w := range r.CapExceeded {
			lines = append(lines, m.styles.WarningStyle.Render("  "+w.String()))
		}
		for _, mm := range r.Mismatches {
			lines = append(lines, m.styles.WarningStyle.Render("  "+mm.String()))
		}
	}

	lines = append(lines, "", m.styles.ModalMetaStyle.Render("[y] Copy  [Esc] Close"))
	if m.statusMsg != "" {
		lines = append(lines, m.renderStatus())
	}
	return m.styles.ModalStyle.Render(strings.Join(lines, "\n"))
}

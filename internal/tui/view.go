package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/javiermolinar/blockweek/internal/task"
	"github.com/javiermolinar/blockweek/internal/tui/input"
)

const (
	labelWidth = 16
	poolWidth  = 32
	minColW    = 12
)

// View renders the TUI.
func (m Model) View() string {
	if m.mode == ModeReport {
		modal := m.renderReportModal()
		if m.width > 0 && m.height > 0 {
			return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal)
		}
		return modal
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top, m.renderGrid(), "  ", m.renderPool())
	content := lipgloss.JoinVertical(lipgloss.Left, m.renderHeader(), "", body, "", m.renderFooter())
	return m.styles.AppStyle.Render(content)
}

func (m Model) calculateColWidth() int {
	if m.width <= 0 {
		return defaultColWidth
	}
	// Each cell adds two border columns around its width.
	avail := m.width - 2 - labelWidth - poolWidth - 2 - 5*2
	return max(minColW, avail/task.NumDays)
}

func (m Model) renderHeader() string {
	title := m.styles.TitleStyle.Render("blockweek")
	totals := m.styles.StatusStyle.Render(fmt.Sprintf("  %sh in %d blocks",
		task.FormatHours(m.report.Total), m.report.Blocks))
	header := title + totals

	if m.mode == ModeDrag {
		header += "  " + m.styles.DragStyle.Render(m.dragLabel())
	}
	return header
}

// dragLabel describes the gesture in progress.
func (m Model) dragLabel() string {
	p, ok := m.engine.DragPayload()
	if !ok {
		return "dragging"
	}
	label := "dragging " + p.String()
	if _, forming := m.engine.DragState(); forming {
		return label + " → alternative of " + m.hoverTarget().String()
	}
	return label + " → " + m.cursor.Slot().String()
}

func (m Model) renderGrid() string {
	cellW := m.colWidth + 2

	header := []string{lipgloss.NewStyle().Width(labelWidth).Render("")}
	for _, d := range task.Days() {
		header = append(header, m.styles.DayHeaderStyle.Width(cellW).Render(task.DayName(d)))
	}
	lines := []string{lipgloss.JoinHorizontal(lipgloss.Top, header...)}

	for _, row := range task.Rows() {
		height := 1
		for _, d := range task.Days() {
			height = max(height, len(m.cellLines(task.Slot{Day: d, Row: row})))
		}

		cols := []string{m.styles.RowLabelStyle.Width(labelWidth).Render(row.Label())}
		for _, d := range task.Days() {
			cols = append(cols, m.renderCell(task.Slot{Day: d, Row: row}, height))
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, cols...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) renderCell(slot task.Slot, height int) string {
	return m.cellStyle(slot).
		Width(m.colWidth).
		Height(height).
		Render(strings.Join(m.cellLines(slot), "\n"))
}

func (m Model) cellStyle(slot task.Slot) lipgloss.Style {
	if m.focus != focusGrid || slot != m.cursor.Slot() {
		return m.styles.CellStyle
	}
	if m.mode == ModeDrag {
		if _, forming := m.engine.DragState(); forming {
			return m.styles.CellGroupStyle
		}
		return m.styles.CellTargetStyle
	}
	return m.styles.CellCursorStyle
}

// cellLines renders the blocks of a slot, one per line, then the slot total.
func (m Model) cellLines(slot task.Slot) []string {
	inner := max(1, m.colWidth-2)
	blocks := m.cellBlocks(slot)

	lines := make([]string, 0, len(blocks)+1)
	for i, blk := range blocks {
		text := fmt.Sprintf("#%d %s %sh", blk.ID, blk.Title, task.FormatHours(blk.Hours))
		prefix := ""
		if blk.IsAlternative() {
			prefix = m.styles.AltMarkerStyle.Render("↳ ")
		}
		text = ansi.Truncate(text, inner-ansi.StringWidth(prefix), "…")
		selected := m.focus == focusGrid && slot == m.cursor.Slot() && i == m.cursor.Item
		style := m.styles.Block(blk.Process, blk.IsAlternative(), selected)
		lines = append(lines, prefix+style.Width(inner-ansi.StringWidth(prefix)).Render(text))
	}

	if len(blocks) == 0 {
		lines = append(lines, m.styles.CellTotalStyle.Render("·"))
		return lines
	}
	lines = append(lines, m.slotTotal(slot))
	return lines
}

// slotTotal renders the committed hours of a slot. The Important row shows
// them against the daily cap.
func (m Model) slotTotal(slot task.Slot) string {
	hours := m.board.SlotHours(slot)
	limit := m.board.Config().ImportantCapHours
	if slot.Row != task.RowImportant || limit <= 0 {
		return m.styles.CellTotalStyle.Render(task.FormatHours(hours) + "h")
	}
	text := fmt.Sprintf("%s/%sh", task.FormatHours(hours), task.FormatHours(limit))
	if task.HoursLess(limit, hours) {
		return m.styles.CellOverStyle.Render(text + " !")
	}
	return m.styles.CellTotalStyle.Render(text)
}

func (m Model) renderPool() string {
	lines := []string{m.styles.PoolTitleStyle.Render("Tasks")}
	inner := poolWidth - 2

	pool := m.board.TaskSummaries()
	if len(pool) == 0 {
		lines = append(lines, m.styles.PoolMutedStyle.Render("no tasks, press n"))
	}
	for i, s := range pool {
		tag := m.styles.ProcessLabel(s.Task.Process).Render(s.Task.Process.Short())
		text := fmt.Sprintf("#%d %s %s/%sh", s.Task.ID, s.Task.Title,
			task.FormatHours(s.RemainingHours), task.FormatHours(s.Task.TotalHours))
		text = ansi.Truncate(text, inner-4, "…")

		style := m.styles.PoolItemStyle
		switch {
		case m.focus == focusPool && i == m.poolIndex:
			style = m.styles.PoolSelectedStyle
		case !task.HoursPositive(s.RemainingHours):
			style = m.styles.PoolMutedStyle
		}
		lines = append(lines, tag+" "+style.Render(text))
	}
	return lipgloss.NewStyle().Width(poolWidth).Render(strings.Join(lines, "\n"))
}

func (m Model) renderFooter() string {
	var parts []string

	switch m.mode {
	case ModePrompt:
		box := m.styles.PromptFocusedStyle.Render(m.prompt.View())
		parts = append(parts, box)
		for _, c := range input.PromptMatchingCommands(m.prompt.Value(), promptCommands) {
			parts = append(parts, m.styles.HelpStyle.Render(fmt.Sprintf("  %-8s %s", c.Name, c.Description)))
		}
	case ModeConfirm:
		if m.confirm != nil {
			parts = append(parts, m.styles.WarningStyle.Render(m.confirm.message))
		}
	}

	parts = append(parts, m.renderStatus())
	if m.mode == ModeDrag {
		parts = append(parts, m.help.ShortHelpView(m.keys.dragHelp()))
	} else {
		parts = append(parts, m.help.View(m.keys))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) renderStatus() string {
	if m.statusMsg == "" {
		return " "
	}
	if m.statusWarn {
		return m.styles.WarningStyle.Render(m.statusMsg)
	}
	return m.styles.StatusStyle.Render(m.statusMsg)
}

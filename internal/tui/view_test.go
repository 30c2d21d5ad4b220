package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"

	"github.com/javiermolinar/blockweek/internal/schedule"
	"github.com/javiermolinar/blockweek/internal/task"
	"github.com/javiermolinar/blockweek/internal/tui/theme"
)

func withTrueColor(t *testing.T) {
	t.Helper()
	prevProfile := lipgloss.ColorProfile()
	lipgloss.SetColorProfile(termenv.TrueColor)
	t.Cleanup(func() {
		lipgloss.SetColorProfile(prevProfile)
	})
}

func resize(m Model, w, h int) Model {
	updated, _ := m.Update(tea.WindowSizeMsg{Width: w, Height: h})
	return updated.(Model)
}

func TestView_GridLayout(t *testing.T) {
	e := newTestEngine(t)
	tk := mustTask(t, e, "Newsletter", task.ProcessMarketing, 4, 2)
	mustPlace(t, e, schedule.FromTask(tk.ID), task.Slot{Day: task.Wednesday, Row: task.RowMustBeDone})
	m := resize(newTestModel(e), 200, 40)

	out := ansi.Strip(m.View())
	for _, want := range []string{
		"blockweek", "Monday", "Friday",
		"Important", "Must be done", "Not every week",
		"#2 Newsletter 2h", "Tasks", "#1 Newsletter 2/4h",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}

func TestView_AlternativesAreMarked(t *testing.T) {
	e := newTestEngine(t)
	a := mustTask(t, e, "Talk", task.ProcessMarketing, 3, 3)
	b := mustTask(t, e, "Workshop", task.ProcessClientWork, 3, 3)
	slot := task.Slot{Day: task.Monday, Row: task.RowNotEveryWeek}
	primary := mustPlace(t, e, schedule.FromTask(a.ID), slot)
	if _, err := e.CreateAlternative(t.Context(), primary.ID, schedule.FromTask(b.ID)); err != nil {
		t.Fatalf("CreateAlternative() error = %v", err)
	}
	m := resize(newTestModel(e), 200, 40)

	lines := ansi.Strip(strings.Join(m.cellLines(slot), "\n"))
	if !strings.Contains(lines, "↳ #4 Workshop 3h") {
		t.Errorf("cellLines() = %q, want marked alternative", lines)
	}
}

func TestView_ImportantCapWarning(t *testing.T) {
	e := newTestEngine(t)
	slot := task.Slot{Day: task.Tuesday, Row: task.RowImportant}
	mustPlace(t, e, schedule.FromAdHoc("Deep work", task.ProcessDevelopment, 3), slot)
	mustPlace(t, e, schedule.FromAdHoc("Review", task.ProcessDevelopment, 2), slot)
	m := resize(newTestModel(e), 200, 40)

	if got := ansi.Strip(m.slotTotal(slot)); got != "5/4h !" {
		t.Errorf("slotTotal() = %q, want over-cap marker", got)
	}
	other := task.Slot{Day: task.Tuesday, Row: task.RowMustBeDone}
	if got := ansi.Strip(m.slotTotal(other)); got != "0h" {
		t.Errorf("slotTotal(must) = %q, want plain total", got)
	}
}

func TestView_TruncatesLongTitles(t *testing.T) {
	e := newTestEngine(t)
	slot := task.Slot{Day: task.Monday, Row: task.RowImportant}
	mustPlace(t, e, schedule.FromAdHoc(strings.Repeat("long title ", 10), task.ProcessAdmin, 1), slot)
	m := resize(newTestModel(e), 120, 40)

	for _, line := range m.cellLines(slot) {
		if w := ansi.StringWidth(line); w > m.colWidth-2 {
			t.Errorf("cell line width = %d, want <= %d: %q", w, m.colWidth-2, ansi.Strip(line))
		}
	}
}

func TestView_SelectedBlockIsHighlighted(t *testing.T) {
	withTrueColor(t)
	e := newTestEngine(t)
	slot := task.Slot{Day: task.Monday, Row: task.RowImportant}
	mustPlace(t, e, schedule.FromAdHoc("Standup", task.ProcessOperations, 1), slot)
	m := newTestModel(e)

	plain := m.cellLines(slot)[0]
	m, _ = press(t, m, "]")
	selected := m.cellLines(slot)[0]

	if !strings.Contains(plain, "\x1b[") {
		t.Fatalf("expected styled output under true color: %q", plain)
	}
	if selected == plain {
		t.Errorf("selected block renders like an unselected one: %q", selected)
	}
	if ansi.Strip(selected) != ansi.Strip(plain) {
		t.Errorf("selection changed the text: %q vs %q", ansi.Strip(selected), ansi.Strip(plain))
	}
}

func TestView_DragHeader(t *testing.T) {
	e := newTestEngine(t)
	mustTask(t, e, "Ship feature", task.ProcessDevelopment, 6, 2)
	m := resize(newTestModel(e), 200, 40)

	m, _ = press(t, m, "tab", " ", "j")
	header := ansi.Strip(m.renderHeader())
	if !strings.Contains(header, "dragging task:1 → Mon/must") {
		t.Errorf("renderHeader() = %q", header)
	}
}

func TestView_ReportModal(t *testing.T) {
	e := newTestEngine(t)
	slot := task.Slot{Day: task.Tuesday, Row: task.RowImportant}
	mustPlace(t, e, schedule.FromAdHoc("Deep work", task.ProcessDevelopment, 5), slot)
	m := resize(newTestModel(e), 120, 40)

	m, _ = press(t, m, "r")
	out := ansi.Strip(m.View())
	for _, want := range []string{"Week totals", "By process", "Development", "By row", "Tue: cap exceeded: 5/4h", "[y] Copy"} {
		if !strings.Contains(out, want) {
			t.Errorf("report view missing %q", want)
		}
	}
}

func TestView_PromptSuggestions(t *testing.T) {
	m := resize(newTestModel(newTestEngine(t)), 160, 40)
	m, _ = press(t, m, "/", "e")

	out := ansi.Strip(m.renderFooter())
	if !strings.Contains(out, "/edit") || strings.Contains(out, "/report") {
		t.Errorf("renderFooter() = %q, want only /edit suggested", out)
	}
}

func TestStyles_BlockColorsFollowProcess(t *testing.T) {
	th, err := theme.Load("mocha")
	if err != nil {
		t.Fatalf("theme.Load() error = %v", err)
	}
	s := NewStyles(th)
	p := theme.NewPalette(th)

	for _, proc := range task.Processes() {
		shades := p.Process(proc)
		if got := s.Block(proc, false, false).GetBackground(); got != shades.Bg {
			t.Errorf("Block(%s) background = %v, want %v", proc, got, shades.Bg)
		}
		if got := s.Block(proc, true, false).GetBackground(); got != shades.BgAlt {
			t.Errorf("Block(%s, alternative) background = %v, want %v", proc, got, shades.BgAlt)
		}
	}
	if !s.Block(task.ProcessAdmin, false, true).GetUnderline() {
		t.Error("selected block should be underlined")
	}
}

func TestCalculateColWidth(t *testing.T) {
	tests := []struct {
		width int
		want  int
	}{
		{width: 0, want: defaultColWidth},
		{width: 60, want: minColW},
		{width: 200, want: 27},
	}
	for _, tt := range tests {
		m := Model{width: tt.width}
		if got := m.calculateColWidth(); got != tt.want {
			t.Errorf("calculateColWidth(%d) = %d, want %d", tt.width, got, tt.want)
		}
	}
}

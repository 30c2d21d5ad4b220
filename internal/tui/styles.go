// Package tui provides the terminal user interface for blockweek.
package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/blockweek/internal/task"
	"github.com/javiermolinar/blockweek/internal/tui/theme"
)

// Default column width - will be recalculated dynamically.
const defaultColWidth = 18

// Styles holds all lipgloss styles for the TUI, derived from a theme.
type Styles struct {
	palette *theme.Palette

	// Title style
	TitleStyle lipgloss.Style

	// Header styles
	DayHeaderStyle lipgloss.Style
	RowLabelStyle  lipgloss.Style

	// Cell styles
	CellStyle       lipgloss.Style
	CellCursorStyle lipgloss.Style // cursor on the cell itself
	CellTargetStyle lipgloss.Style // drop target while dragging
	CellGroupStyle  lipgloss.Style // hovering a block that would form a group
	CellTotalStyle  lipgloss.Style
	CellOverStyle   lipgloss.Style // Important row over the daily cap

	// Alternative marker prefix
	AltMarkerStyle lipgloss.Style

	// Pool sidebar
	PoolTitleStyle    lipgloss.Style
	PoolItemStyle     lipgloss.Style
	PoolSelectedStyle lipgloss.Style
	PoolMutedStyle    lipgloss.Style

	// Status and footer
	StatusStyle  lipgloss.Style
	WarningStyle lipgloss.Style
	HelpStyle    lipgloss.Style
	DragStyle    lipgloss.Style

	// Prompt box
	PromptStyle        lipgloss.Style
	PromptFocusedStyle lipgloss.Style

	// Report modal
	ModalStyle      lipgloss.Style
	ModalTitleStyle lipgloss.Style
	ModalMetaStyle  lipgloss.Style

	// App container
	AppStyle lipgloss.Style
}

// NewStyles creates a new Styles instance from a theme.
func NewStyles(t *theme.Theme) *Styles {
	p := theme.NewPalette(t)
	s := &Styles{palette: p}

	s.TitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Accent)

	s.DayHeaderStyle = lipgloss.NewStyle().
		Bold(true).
		Align(lipgloss.Center).
		Foreground(p.Fg).
		Width(defaultColWidth)

	s.RowLabelStyle = lipgloss.NewStyle().
		Foreground(p.FgMuted).
		Bold(true)

	s.CellStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.BgSelection).
		Padding(0, 1)
	s.CellCursorStyle = s.CellStyle.BorderForeground(p.Accent)
	s.CellTargetStyle = s.CellStyle.
		Border(lipgloss.DoubleBorder()).
		BorderForeground(p.Accent)
	s.CellGroupStyle = s.CellStyle.
		Border(lipgloss.DoubleBorder()).
		BorderForeground(p.Group)

	s.CellTotalStyle = lipgloss.NewStyle().Foreground(p.FgMuted)
	s.CellOverStyle = lipgloss.NewStyle().Foreground(p.Warning).Bold(true)
	s.AltMarkerStyle = lipgloss.NewStyle().Foreground(p.Group)

	s.PoolTitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Accent).
		MarginBottom(1)
	s.PoolItemStyle = lipgloss.NewStyle().Foreground(p.Fg)
	s.PoolSelectedStyle = lipgloss.NewStyle().
		Foreground(p.TextOnAccent).
		Background(p.Accent)
	s.PoolMutedStyle = lipgloss.NewStyle().Foreground(p.FgMuted)

	s.StatusStyle = lipgloss.NewStyle().Foreground(p.FgMuted)
	s.WarningStyle = lipgloss.NewStyle().Foreground(p.Warning)
	s.HelpStyle = lipgloss.NewStyle().Foreground(p.FgMuted)
	s.DragStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.TextOnGroup).
		Background(p.Group).
		Padding(0, 1)

	s.PromptStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.BgSelection).
		Padding(0, 1)
	s.PromptFocusedStyle = s.PromptStyle.BorderForeground(p.Accent)

	s.ModalStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Border).
		Padding(1, 2)
	s.ModalTitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Accent)
	s.ModalMetaStyle = lipgloss.NewStyle().Foreground(p.FgMuted)

	s.AppStyle = lipgloss.NewStyle().Padding(0, 1)

	return s
}

// Block returns the style a block of process p is drawn with.
func (s *Styles) Block(p task.Process, alternative, selected bool) lipgloss.Style {
	shades := s.palette.Process(p)
	bg := shades.Bg
	if alternative {
		bg = shades.BgAlt
	}
	st := lipgloss.NewStyle().Foreground(shades.TextOn).Background(bg)
	if selected {
		st = st.Bold(true).Underline(true)
	}
	return st
}

// ProcessLabel returns the style for a process name in totals.
func (s *Styles) ProcessLabel(p task.Process) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(s.palette.Process(p).Fg)
}

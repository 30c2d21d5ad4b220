package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Debug events go to the structured logger, which writes the debug log
// file when --debug is set and discards them otherwise.

func (m Model) logKeyPress(msg tea.KeyMsg) {
	m.logger.Debug("key press", "key", msg.String(), "mode", m.mode.String())
}

func (m Model) logModeChange(from, to Mode, reason string) {
	m.logger.Debug("mode change", "from", from.String(), "to", to.String(), "reason", reason)
}

func (m Model) logCursorMove(reason string) {
	m.logger.Debug("cursor move",
		"day", m.cursor.Day.String(),
		"row", m.cursor.Row.String(),
		"item", m.cursor.Item,
		"reason", reason)
}

func (m Model) logError(context string, err error) {
	m.logger.Debug("error", "context", context, "error", err)
}

// String returns a lowercase name for the mode.
func (mode Mode) String() string {
	switch mode {
	case ModeNormal:
		return "normal"
	case ModeDrag:
		return "drag"
	case ModePrompt:
		return "prompt"
	case ModeConfirm:
		return "confirm"
	case ModeReport:
		return "report"
	default:
		return "unknown"
	}
}

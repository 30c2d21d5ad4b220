package tui

import (
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/blockweek/internal/drag"
	"github.com/javiermolinar/blockweek/internal/task"
	"github.com/javiermolinar/blockweek/internal/tui/commands"
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.colWidth = m.calculateColWidth()
		m.help.Width = msg.Width
		m.prompt.Width = max(10, msg.Width-8)
		return m, nil

	case commands.UpdatedMsg:
		m.refresh()
		m.logger.Debug("tui update", "command", msg.Update.Command, "blocks", m.board.Len())
		return m, nil

	case commands.ResultMsg:
		m.refresh()
		if errors.Is(msg.Err, task.ErrConfirmationRequired) {
			if s, ok := m.selectedTask(); ok {
				return m.askConfirmation(s.Task.ID)
			}
		}
		if msg.Err != nil {
			m.logError(msg.Name, msg.Err)
			return m, m.setStatus(msg.Status()+errorHint(msg.Err), true)
		}
		m.followBlock(msg.Outcome.Block)
		return m, m.setStatus(msg.Status(), len(msg.Outcome.Warnings) > 0)

	case commands.DropMsg:
		m.refresh()
		switch {
		case msg.Err != nil:
			m.logError("drop", msg.Err)
			return m, m.setStatus(fmt.Sprintf("%s: %v%s", msg.Command.Kind, msg.Err, errorHint(msg.Err)), true)
		case msg.Command.Kind == drag.Cancel:
			return m, m.setStatus("nothing changed: "+msg.Command.Reason, false)
		}
		m.followBlock(msg.Outcome.Block)
		res := commands.ResultMsg{Name: msg.Command.Kind.String(), Outcome: msg.Outcome}
		return m, m.setStatus(res.Status(), len(msg.Outcome.Warnings) > 0)

	case commands.ErrMsg:
		m.logError("command", msg.Err)
		return m, m.setStatus(fmt.Sprintf("Error: %v", msg.Err), true)

	case commands.StatusMsgCmd:
		m.refresh()
		return m, m.setStatus(msg.Msg, false)

	case commands.ClearStatusMsg:
		if time.Now().After(m.statusTime) {
			m.statusMsg = ""
			m.statusWarn = false
		}
		return m, nil
	}

	if m.mode == ModePrompt {
		var cmd tea.Cmd
		m.prompt, cmd = m.prompt.Update(msg)
		return m, cmd
	}
	return m, nil
}

// followBlock moves the grid cursor onto a block that a command just
// created or moved.
func (m *Model) followBlock(b *task.ScheduleBlock) {
	if b == nil {
		return
	}
	slot := b.Slot
	for i, blk := range m.cellBlocks(slot) {
		if blk.ID == b.ID {
			m.cursor = Position{Day: slot.Day, Row: slot.Row, Item: i}
			return
		}
	}
}

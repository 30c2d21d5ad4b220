package tui

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/blockweek/internal/drag"
	"github.com/javiermolinar/blockweek/internal/task"
	"github.com/javiermolinar/blockweek/internal/tui/commands"
	"github.com/javiermolinar/blockweek/internal/tui/input"
)

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	NextItem key.Binding
	PrevItem key.Binding
	Focus    key.Binding
	Pick     key.Binding
	Drop     key.Binding
	Cancel   key.Binding
	New      key.Binding
	Edit     key.Binding
	Delete   key.Binding
	Report   key.Binding
	Copy     key.Binding
	Prompt   key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:       key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("↓/j", "down")),
		Left:     key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("←/h", "prev day")),
		Right:    key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("→/l", "next day")),
		NextItem: key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next block")),
		PrevItem: key.NewBinding(key.WithKeys("["), key.WithHelp("[", "prev block")),
		Focus:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "grid/pool")),
		Pick:     key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "pick up")),
		Drop:     key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "drop")),
		Cancel:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		New:      key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new task")),
		Edit:     key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit hours")),
		Delete:   key.NewBinding(key.WithKeys("d", "x"), key.WithHelp("d", "delete")),
		Report:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "report")),
		Copy:     key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy")),
		Prompt:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "command")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Focus, k.Pick, k.New, k.Edit, k.Delete, k.Report, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.NextItem, k.PrevItem},
		{k.Focus, k.Pick, k.Drop, k.Cancel},
		{k.New, k.Edit, k.Delete, k.Prompt},
		{k.Report, k.Copy, k.Help, k.Quit},
	}
}

// dragHelp is shown while something is picked up.
func (k keyMap) dragHelp() []key.Binding {
	return []key.Binding{k.Left, k.Right, k.Up, k.Down, k.NextItem, k.Drop, k.Cancel}
}

// handleKeyMsg handles keyboard input.
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.logKeyPress(msg)

	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	switch m.mode {
	case ModePrompt:
		return m.handlePromptKeys(msg)
	case ModeDrag:
		return m.handleDragKeys(msg)
	case ModeConfirm:
		return m.handleConfirmKeys(msg)
	case ModeReport:
		return m.handleReportKeys(msg)
	default:
		return m.handleNormalKeys(msg)
	}
}

// handleNormalKeys handles keys in normal mode.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Focus):
		if m.focus == focusGrid {
			m.focus = focusPool
		} else {
			m.focus = focusGrid
		}

	case key.Matches(msg, m.keys.Up, m.keys.Down, m.keys.Left, m.keys.Right, m.keys.NextItem, m.keys.PrevItem):
		if m.focus == focusPool {
			m.movePool(msg)
		} else {
			m.moveCursor(msg)
		}

	case key.Matches(msg, m.keys.Pick):
		return m.pickUp()

	case key.Matches(msg, m.keys.New):
		return m.openPrompt("/task ")

	case key.Matches(msg, m.keys.Edit):
		if m.focus == focusPool {
			if s, ok := m.selectedTask(); ok {
				return m.openPrompt(fmt.Sprintf("/hours %d ", s.Task.ID))
			}
			return m, nil
		}
		if blk, ok := m.selectedBlock(); ok {
			return m.openPrompt(fmt.Sprintf("/edit %d ", blk.ID))
		}
		return m, m.setStatus("select a block with ] first", true)

	case key.Matches(msg, m.keys.Delete):
		return m.deleteSelected()

	case key.Matches(msg, m.keys.Report):
		m.mode = ModeReport
		m.logModeChange(ModeNormal, ModeReport, "report")

	case key.Matches(msg, m.keys.Prompt):
		return m.openPrompt("/")

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

func (m *Model) moveCursor(msg tea.KeyMsg) {
	c := m.cursor
	switch {
	case key.Matches(msg, m.keys.Left):
		if c.Day > task.Monday {
			c.Day--
		}
		c.Item = noItem
	case key.Matches(msg, m.keys.Right):
		if c.Day < task.Friday {
			c.Day++
		}
		c.Item = noItem
	case key.Matches(msg, m.keys.Up):
		if c.Row > task.RowImportant {
			c.Row--
		}
		c.Item = noItem
	case key.Matches(msg, m.keys.Down):
		if c.Row < task.RowNotEveryWeek {
			c.Row++
		}
		c.Item = noItem
	case key.Matches(msg, m.keys.NextItem):
		if c.Item < len(m.cellBlocks(c.Slot()))-1 {
			c.Item++
		}
	case key.Matches(msg, m.keys.PrevItem):
		if c.Item > noItem {
			c.Item--
		}
	}
	m.cursor = c
	m.logCursorMove("key")
}

func (m *Model) movePool(msg tea.KeyMsg) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.poolIndex > 0 {
			m.poolIndex--
		}
	case key.Matches(msg, m.keys.Down):
		if m.poolIndex < len(m.board.TaskSummaries())-1 {
			m.poolIndex++
		}
	}
}

// pickUp starts a drag from the selected pool task or grid block.
func (m Model) pickUp() (tea.Model, tea.Cmd) {
	var p drag.Payload
	switch m.focus {
	case focusPool:
		s, ok := m.selectedTask()
		if !ok {
			return m, nil
		}
		if !task.HoursPositive(s.RemainingHours) {
			return m, m.setStatus(fmt.Sprintf("task %d: %v", s.Task.ID, task.ErrNoBudget), true)
		}
		p = drag.TaskPayload(s.Task.ID)
	default:
		blk, ok := m.selectedBlock()
		if !ok {
			return m, m.setStatus("nothing to pick up here", true)
		}
		p = drag.BlockPayload(blk.ID)
	}

	m.engine.DragStartPayload(p)
	m.focus = focusGrid
	m.logModeChange(m.mode, ModeDrag, p.String())
	m.mode = ModeDrag
	m.engine.DragOver(m.hoverTarget())
	return m, nil
}

// handleDragKeys moves the hover target and drops or cancels.
func (m Model) handleDragKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.engine.DragEnd()
		m.logModeChange(ModeDrag, ModeNormal, "cancel")
		m.mode = ModeNormal
		return m, m.setStatus("drag cancelled", false)

	case key.Matches(msg, m.keys.Drop):
		m.logModeChange(ModeDrag, ModeNormal, "drop")
		m.mode = ModeNormal
		return m, commands.Drop(m.engine)

	case key.Matches(msg, m.keys.Up, m.keys.Down, m.keys.Left, m.keys.Right, m.keys.NextItem, m.keys.PrevItem):
		m.moveCursor(msg)
		m.engine.DragLeave()
		m.engine.DragOver(m.hoverTarget())

	case key.Matches(msg, m.keys.Quit):
		m.engine.DragEnd()
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) deleteSelected() (tea.Model, tea.Cmd) {
	if m.focus == focusPool {
		s, ok := m.selectedTask()
		if !ok {
			return m, nil
		}
		return m, commands.DeleteTask(m.engine, s.Task.ID, false)
	}
	blk, ok := m.selectedBlock()
	if !ok {
		return m, m.setStatus("select a block with ] first", true)
	}
	return m, commands.DeleteBlock(m.engine, blk.ID)
}

// askConfirmation switches to confirm mode for a task delete that would
// take placed blocks with it.
func (m Model) askConfirmation(taskID int64) (Model, tea.Cmd) {
	refs := len(m.board.ReferencingBlocks(taskID))
	m.confirm = &confirmation{
		message: fmt.Sprintf("Delete task %d and its %d placed blocks? [y/N]", taskID, refs),
		cmd:     commands.DeleteTask(m.engine, taskID, true),
	}
	m.logModeChange(m.mode, ModeConfirm, "delete task")
	m.mode = ModeConfirm
	return m, nil
}

func (m Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	c := m.confirm
	m.confirm = nil
	m.mode = ModeNormal
	if c != nil && (msg.String() == "y" || msg.String() == "Y") {
		return m, c.cmd
	}
	return m, m.setStatus("cancelled", false)
}

func (m Model) handleReportKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Copy):
		return m, commands.CopyReport(m.report.Text())
	case key.Matches(msg, m.keys.Cancel, m.keys.Report, m.keys.Quit):
		m.mode = ModeNormal
		m.logModeChange(ModeReport, ModeNormal, "close")
	}
	return m, nil
}

func (m Model) openPrompt(value string) (tea.Model, tea.Cmd) {
	m.logModeChange(m.mode, ModePrompt, "prompt")
	m.mode = ModePrompt
	m.prompt.SetValue(value)
	m.prompt.CursorEnd()
	m.prompt.Focus()
	return m, textinput.Blink
}

// handlePromptKeys handles keys in prompt mode.
func (m Model) handlePromptKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closePrompt()
		return m, nil
	case "tab":
		if value, ok := input.PromptAutocomplete(m.prompt.Value(), promptCommands); ok {
			m.prompt.SetValue(value)
			m.prompt.CursorEnd()
		}
		return m, nil
	case "enter":
		line := m.prompt.Value()
		m.closePrompt()
		return m.runPrompt(line)
	}

	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

func (m *Model) closePrompt() {
	m.prompt.Blur()
	m.prompt.SetValue("")
	m.logModeChange(ModePrompt, ModeNormal, "close prompt")
	m.mode = ModeNormal
}

// errorHint adds what the user can do next for rejections that need input.
func errorHint(err error) string {
	switch {
	case errors.Is(err, task.ErrResolutionRequired):
		return " (append cascade or keep)"
	case errors.Is(err, task.ErrGroupNotEmpty):
		return " (a primary with alternatives stays in place)"
	default:
		return ""
	}
}

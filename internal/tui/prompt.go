package tui

import (
	"fmt"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/blockweek/internal/schedule"
	"github.com/javiermolinar/blockweek/internal/task"
	"github.com/javiermolinar/blockweek/internal/tui/commands"
	"github.com/javiermolinar/blockweek/internal/tui/input"
)

var promptCommands = []input.PromptCommand{
	{Name: "/task", Description: `"Title" process hours [suggested]`},
	{Name: "/hours", Description: "TASK hours: change a task budget"},
	{Name: "/edit", Description: "BLOCK hours [cascade|keep]"},
	{Name: "/adhoc", Description: `"Title" process hours: one-off block at the cursor`},
	{Name: "/rmtask", Description: "TASK: delete a task"},
	{Name: "/report", Description: "Show week totals"},
	{Name: "/help", Description: "Show available commands"},
}

// runPrompt executes a slash command typed into the prompt.
func (m Model) runPrompt(line string) (tea.Model, tea.Cmd) {
	name, args, err := input.Split(line)
	if err != nil {
		return m, m.setStatus(err.Error(), true)
	}
	m.logger.Debug("prompt", "command", name, "args", len(args))

	switch name {
	case "":
		return m, nil

	case "/task":
		if len(args) < 3 || len(args) > 4 {
			return m, m.setStatus(`usage: /task "Title" process hours [suggested]`, true)
		}
		process, err := task.ParseProcess(args[1])
		if err != nil {
			return m, m.setStatus(err.Error(), true)
		}
		total, err := parseHours(args[2])
		if err != nil {
			return m, m.setStatus(err.Error(), true)
		}
		var suggested float64
		if len(args) == 4 {
			if suggested, err = parseHours(args[3]); err != nil {
				return m, m.setStatus(err.Error(), true)
			}
		}
		m.focus = focusPool
		m.poolIndex = len(m.board.Tasks())
		return m, commands.CreateTask(m.engine, args[0], process, total, suggested)

	case "/hours":
		if len(args) != 2 {
			return m, m.setStatus("usage: /hours TASK hours", true)
		}
		id, err := parseID(args[0])
		if err != nil {
			return m, m.setStatus(err.Error(), true)
		}
		hours, err := parseHours(args[1])
		if err != nil {
			return m, m.setStatus(err.Error(), true)
		}
		return m, commands.SetTotalHours(m.engine, id, hours)

	case "/edit":
		if len(args) < 2 || len(args) > 3 {
			return m, m.setStatus("usage: /edit BLOCK hours [cascade|keep]", true)
		}
		id, err := parseID(args[0])
		if err != nil {
			return m, m.setStatus(err.Error(), true)
		}
		hours, err := parseHours(args[1])
		if err != nil {
			return m, m.setStatus(err.Error(), true)
		}
		res := schedule.ResolveUnset
		if len(args) == 3 {
			if res = schedule.ParseResolution(args[2]); res == schedule.ResolveUnset {
				return m, m.setStatus(fmt.Sprintf("unknown resolution %q, use cascade or keep", args[2]), true)
			}
		}
		return m, commands.EditHours(m.engine, id, hours, res)

	case "/adhoc":
		if len(args) != 3 {
			return m, m.setStatus(`usage: /adhoc "Title" process hours`, true)
		}
		process, err := task.ParseProcess(args[1])
		if err != nil {
			return m, m.setStatus(err.Error(), true)
		}
		hours, err := parseHours(args[2])
		if err != nil {
			return m, m.setStatus(err.Error(), true)
		}
		return m, commands.PlaceAdHoc(m.engine, args[0], process, hours, m.cursor.Slot())

	case "/rmtask":
		if len(args) != 1 {
			return m, m.setStatus("usage: /rmtask TASK", true)
		}
		id, err := parseID(args[0])
		if err != nil {
			return m, m.setStatus(err.Error(), true)
		}
		m.selectTask(id)
		return m, commands.DeleteTask(m.engine, id, false)

	case "/report":
		m.mode = ModeReport
		return m, nil

	case "/help":
		m.help.ShowAll = true
		return m, nil
	}
	return m, m.setStatus(fmt.Sprintf("unknown command %s", name), true)
}

// selectTask moves the pool cursor to a task, so a follow-up confirmation
// applies to it.
func (m *Model) selectTask(id int64) {
	for i, s := range m.board.TaskSummaries() {
		if s.Task.ID == id {
			m.poolIndex = i
			m.focus = focusPool
			return
		}
	}
}

func parseHours(s string) (float64, error) {
	h, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("hours must be a number, got %q", s)
	}
	return h, nil
}

func parseID(s string) (int64, error) {
	if len(s) > 0 && s[0] == '#' {
		s = s[1:]
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("id must be a number, got %q", s)
	}
	return id, nil
}

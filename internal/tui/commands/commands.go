// Package commands provides TUI command constructors and message types.
package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/blockweek/internal/drag"
	"github.com/javiermolinar/blockweek/internal/engine"
	"github.com/javiermolinar/blockweek/internal/schedule"
	"github.com/javiermolinar/blockweek/internal/task"
)

// ResultMsg is sent when a command against the engine finishes. Err is set
// when the command was rejected, in which case nothing changed.
type ResultMsg struct {
	Name    string
	Outcome schedule.Outcome
	Err     error
}

// Status renders a one-line description of the result for the status bar.
func (r ResultMsg) Status() string {
	if r.Err != nil {
		return fmt.Sprintf("%s: %v", r.Name, r.Err)
	}
	parts := []string{r.Name}
	if b := r.Outcome.Block; b != nil {
		parts = append(parts, fmt.Sprintf("#%d %s (%sh)", b.ID, b.Title, task.FormatHours(b.Hours)))
	}
	if p := r.Outcome.Promoted; p != nil {
		parts = append(parts, fmt.Sprintf("promoted #%d", p.ID))
	}
	if n := len(r.Outcome.Removed); n > 0 {
		parts = append(parts, fmt.Sprintf("removed %d", n))
	}
	parts = append(parts, r.Outcome.Warnings...)
	return strings.Join(parts, " · ")
}

// DropMsg is sent after a drag gesture was released.
type DropMsg struct {
	Command drag.Command
	Outcome schedule.Outcome
	Err     error
}

// UpdatedMsg carries an engine update to the program.
type UpdatedMsg struct {
	Update engine.Update
}

// ErrMsg is sent when an error occurs.
type ErrMsg struct {
	Err error
}

// StatusMsgCmd is sent for temporary status messages.
type StatusMsgCmd struct {
	Msg string
}

// ClearStatusMsg is sent to clear the status message.
type ClearStatusMsg struct{}

// Status returns a command that shows msg in the status bar.
func Status(msg string) tea.Cmd {
	return func() tea.Msg { return StatusMsgCmd{Msg: msg} }
}

func outcome(name string, out schedule.Outcome, err error) tea.Msg {
	return ResultMsg{Name: name, Outcome: out, Err: err}
}

// CreateTask adds a task to the pool.
func CreateTask(e *engine.Engine, title string, process task.Process, total, suggested float64) tea.Cmd {
	return func() tea.Msg {
		t, err := e.CreateTask(context.Background(), title, process, total, suggested)
		if err != nil {
			return ResultMsg{Name: "new task", Err: err}
		}
		return StatusMsgCmd{Msg: fmt.Sprintf("task %d %q: %sh", t.ID, t.Title, task.FormatHours(t.TotalHours))}
	}
}

// SetTotalHours changes a task budget.
func SetTotalHours(e *engine.Engine, taskID int64, hours float64) tea.Cmd {
	return func() tea.Msg {
		t, err := e.SetTotalHours(context.Background(), taskID, hours)
		if err != nil {
			return ResultMsg{Name: "set hours", Err: err}
		}
		return StatusMsgCmd{Msg: fmt.Sprintf("task %d budget: %sh", t.ID, task.FormatHours(t.TotalHours))}
	}
}

// DeleteTask removes a task. Referencing blocks go with it once confirmed.
func DeleteTask(e *engine.Engine, taskID int64, confirmed bool) tea.Cmd {
	return func() tea.Msg {
		out, err := e.DeleteTask(context.Background(), taskID, confirmed)
		return outcome("delete task", out, err)
	}
}

// DeleteBlock removes a placed block, promoting an alternative if needed.
func DeleteBlock(e *engine.Engine, blockID int64) tea.Cmd {
	return func() tea.Msg {
		out, err := e.DeleteBlock(context.Background(), blockID)
		return outcome("delete", out, err)
	}
}

// EditHours changes a block's hours.
func EditHours(e *engine.Engine, blockID int64, hours float64, res schedule.Resolution) tea.Cmd {
	return func() tea.Msg {
		out, err := e.EditHours(context.Background(), blockID, hours, res)
		return outcome("edit", out, err)
	}
}

// PlaceAdHoc places a one-off block that draws from no task.
func PlaceAdHoc(e *engine.Engine, title string, process task.Process, hours float64, slot task.Slot) tea.Cmd {
	return func() tea.Msg {
		out, err := e.Place(context.Background(), schedule.FromAdHoc(title, process, hours), slot)
		return outcome("place", out, err)
	}
}

// Drop releases the current drag gesture.
func Drop(e *engine.Engine) tea.Cmd {
	return func() tea.Msg {
		cmd, out, err := e.Drop(context.Background())
		e.DragEnd()
		return DropMsg{Command: cmd, Outcome: out, Err: err}
	}
}

// CopyReport writes the report text to the system clipboard.
func CopyReport(text string) tea.Cmd {
	return func() tea.Msg {
		if err := clipboard.WriteAll(text); err != nil {
			return ErrMsg{Err: fmt.Errorf("copying report: %w", err)}
		}
		return StatusMsgCmd{Msg: "report copied to clipboard"}
	}
}

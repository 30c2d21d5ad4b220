package schedule

import (
	"fmt"

	"github.com/javiermolinar/blockweek/internal/task"
)

// TaskSummary is a task with its derived budget accounting.
type TaskSummary struct {
	Task           task.TaskBlock
	UsedHours      float64
	RemainingHours float64
}

// Task returns the task with the given id.
func (b *Board) Task(id int64) (task.TaskBlock, bool) {
	i := b.taskIndex(id)
	if i < 0 {
		return task.TaskBlock{}, false
	}
	return b.tasks[i], true
}

// Tasks returns the catalog in creation order.
func (b *Board) Tasks() []task.TaskBlock {
	out := make([]task.TaskBlock, len(b.tasks))
	copy(out, b.tasks)
	return out
}

// UsedHours sums the hours of every block drawn from the task.
func (b *Board) UsedHours(taskID int64) float64 {
	var used float64
	for _, blk := range b.blocks {
		if blk.BelongsTo(taskID) {
			used += blk.Hours
		}
	}
	return used
}

// RemainingHours returns the task budget not yet committed to blocks.
func (b *Board) RemainingHours(taskID int64) (float64, error) {
	t, ok := b.Task(taskID)
	if !ok {
		return 0, fmt.Errorf("%w: #%d", task.ErrTaskNotFound, taskID)
	}
	return t.TotalHours - b.UsedHours(taskID), nil
}

// TaskSummaries returns every task with its accounting.
func (b *Board) TaskSummaries() []TaskSummary {
	out := make([]TaskSummary, 0, len(b.tasks))
	for _, t := range b.tasks {
		used := b.UsedHours(t.ID)
		out = append(out, TaskSummary{Task: t, UsedHours: used, RemainingHours: t.TotalHours - used})
	}
	return out
}

// DraggableTasks returns the tasks that can still be placed.
// Exhausted tasks are filtered out, not deleted.
func (b *Board) DraggableTasks() []TaskSummary {
	var out []TaskSummary
	for _, s := range b.TaskSummaries() {
		if task.HoursPositive(s.RemainingHours) {
			out = append(out, s)
		}
	}
	return out
}

// ReferencingBlocks returns the blocks drawn from a task.
func (b *Board) ReferencingBlocks(taskID int64) []task.ScheduleBlock {
	var out []task.ScheduleBlock
	for _, blk := range b.blocks {
		if blk.BelongsTo(taskID) {
			out = append(out, blk.Clone())
		}
	}
	return out
}

// CreateTask adds a task to the catalog. suggested <= 0 uses the configured
// default block size.
func (b *Board) CreateTask(title string, process task.Process, totalHours, suggested float64) (*Board, task.TaskBlock, error) {
	if suggested <= 0 {
		suggested = b.cfg.DefaultBlockHours
	}
	t, err := task.NewTaskBlock(title, process, totalHours, suggested)
	if err != nil {
		return nil, task.TaskBlock{}, err
	}

	next := b.clone()
	t.ID = next.allocID()
	next.tasks = append(next.tasks, *t)
	return next, *t, nil
}

// SetTotalHours changes a task budget. It can never drop below what is
// already placed.
func (b *Board) SetTotalHours(taskID int64, hours float64) (*Board, task.TaskBlock, error) {
	if !task.HoursPositive(hours) {
		return nil, task.TaskBlock{}, fmt.Errorf("total hours: %w", task.ErrInvalidHours)
	}
	i := b.taskIndex(taskID)
	if i < 0 {
		return nil, task.TaskBlock{}, fmt.Errorf("%w: #%d", task.ErrTaskNotFound, taskID)
	}
	if used := b.UsedHours(taskID); task.HoursLess(hours, used) {
		return nil, task.TaskBlock{}, fmt.Errorf("%w: %q already has %sh placed, cannot set budget to %sh",
			task.ErrBudgetViolation, b.tasks[i].Title, task.FormatHours(used), task.FormatHours(hours))
	}

	next := b.clone()
	t := &next.tasks[i]
	t.TotalHours = hours
	if t.SuggestedHours > hours {
		t.SuggestedHours = hours
	}
	return next, *t, nil
}

// DeleteTask removes a task and every block drawn from it. When blocks
// reference the task the caller must pass confirmed; deleting a referenced
// primary promotes its earliest alternative.
func (b *Board) DeleteTask(taskID int64, confirmed bool) (*Board, Outcome, error) {
	i := b.taskIndex(taskID)
	if i < 0 {
		return nil, Outcome{}, fmt.Errorf("%w: #%d", task.ErrTaskNotFound, taskID)
	}
	refs := b.ReferencingBlocks(taskID)
	if len(refs) > 0 && !confirmed {
		return nil, Outcome{}, fmt.Errorf("%w: %d blocks are placed from %q",
			task.ErrConfirmationRequired, len(refs), b.tasks[i].Title)
	}

	next := b.clone()
	next.tasks = append(next.tasks[:i], next.tasks[i+1:]...)

	var out Outcome
	for _, ref := range refs {
		if promoted := next.deleteBlock(ref.ID); promoted != nil {
			out.Promoted = promoted
		}
		out.Removed = append(out.Removed, ref.ID)
	}
	if out.Promoted != nil {
		if blk, ok := next.Block(out.Promoted.ID); ok {
			out.Promoted = ptr(blk)
		} else {
			out.Promoted = nil
		}
	}
	return next, out, nil
}

func (b *Board) taskIndex(id int64) int {
	for i := range b.tasks {
		if b.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

package engine

import (
	"context"
	"fmt"

	"github.com/javiermolinar/blockweek/internal/drag"
	"github.com/javiermolinar/blockweek/internal/schedule"
	"github.com/javiermolinar/blockweek/internal/task"
)

// CreateTask adds a task to the pool.
func (e *Engine) CreateTask(ctx context.Context, title string, process task.Process, totalHours, suggested float64) (task.TaskBlock, error) {
	var created task.TaskBlock
	_, err := e.run(ctx, "create-task", func(b *schedule.Board) (*schedule.Board, schedule.Outcome, error) {
		next, t, err := b.CreateTask(title, process, totalHours, suggested)
		created = t
		return next, schedule.Outcome{}, err
	})
	return created, err
}

// SetTotalHours changes a task budget.
func (e *Engine) SetTotalHours(ctx context.Context, taskID int64, hours float64) (task.TaskBlock, error) {
	var updated task.TaskBlock
	_, err := e.run(ctx, "set-total-hours", func(b *schedule.Board) (*schedule.Board, schedule.Outcome, error) {
		next, t, err := b.SetTotalHours(taskID, hours)
		updated = t
		return next, schedule.Outcome{}, err
	})
	return updated, err
}

// DeleteTask removes a task and, once confirmed, every block drawn from it.
func (e *Engine) DeleteTask(ctx context.Context, taskID int64, confirmed bool) (schedule.Outcome, error) {
	return e.run(ctx, "delete-task", func(b *schedule.Board) (*schedule.Board, schedule.Outcome, error) {
		return b.DeleteTask(taskID, confirmed)
	})
}

// Place creates a block in a slot.
func (e *Engine) Place(ctx context.Context, src schedule.Source, slot task.Slot) (schedule.Outcome, error) {
	return e.run(ctx, "place", func(b *schedule.Board) (*schedule.Board, schedule.Outcome, error) {
		return b.Place(src, slot)
	})
}

// CreateAlternative files a block under targetID.
func (e *Engine) CreateAlternative(ctx context.Context, targetID int64, src schedule.Source) (schedule.Outcome, error) {
	return e.run(ctx, "create-alternative", func(b *schedule.Board) (*schedule.Board, schedule.Outcome, error) {
		return b.CreateAlternative(targetID, src)
	})
}

// Move relocates a block to a slot.
func (e *Engine) Move(ctx context.Context, blockID int64, dest task.Slot) (schedule.Outcome, error) {
	return e.run(ctx, "move", func(b *schedule.Board) (*schedule.Board, schedule.Outcome, error) {
		return b.Move(blockID, dest)
	})
}

// MoveOnto drops a block directly onto another block.
func (e *Engine) MoveOnto(ctx context.Context, blockID, targetID int64) (schedule.Outcome, error) {
	return e.run(ctx, "move-onto", func(b *schedule.Board) (*schedule.Board, schedule.Outcome, error) {
		return b.MoveOnto(blockID, targetID)
	})
}

// DeleteBlock removes a block, promoting an alternative if it was a primary.
func (e *Engine) DeleteBlock(ctx context.Context, blockID int64) (schedule.Outcome, error) {
	return e.run(ctx, "delete-block", func(b *schedule.Board) (*schedule.Board, schedule.Outcome, error) {
		return b.DeleteBlock(blockID)
	})
}

// EditHours changes the hours of a block.
func (e *Engine) EditHours(ctx context.Context, blockID int64, hours float64, res schedule.Resolution) (schedule.Outcome, error) {
	return e.run(ctx, "edit-hours", func(b *schedule.Board) (*schedule.Board, schedule.Outcome, error) {
		return b.EditHours(blockID, hours, res)
	})
}

// Apply runs a command produced by the drag interpreter. Cancel is a no-op.
func (e *Engine) Apply(ctx context.Context, cmd drag.Command) (schedule.Outcome, error) {
	switch cmd.Kind {
	case drag.Cancel:
		e.logger.Debug("drag cancelled", "reason", cmd.Reason)
		return schedule.Outcome{}, nil
	case drag.Place:
		return e.Place(ctx, schedule.FromTask(cmd.TaskID), cmd.Slot)
	case drag.Move:
		return e.Move(ctx, cmd.BlockID, cmd.Slot)
	case drag.CreateAlternative:
		src := schedule.FromBlock(cmd.BlockID)
		if cmd.TaskID != 0 {
			src = schedule.FromTask(cmd.TaskID)
		}
		return e.CreateAlternative(ctx, cmd.TargetID, src)
	case drag.Reparent:
		return e.run(ctx, "reparent", func(b *schedule.Board) (*schedule.Board, schedule.Outcome, error) {
			return b.CreateAlternative(cmd.TargetID, schedule.FromBlock(cmd.BlockID))
		})
	default:
		return schedule.Outcome{}, fmt.Errorf("unknown drag command %v", cmd.Kind)
	}
}

// Replace swaps the whole state for snap, as an import does. The snapshot
// must satisfy every board invariant.
func (e *Engine) Replace(ctx context.Context, snap *task.Snapshot) (schedule.Outcome, error) {
	return e.run(ctx, "replace", func(b *schedule.Board) (*schedule.Board, schedule.Outcome, error) {
		next, err := schedule.FromSnapshot(b.Config(), snap)
		if err != nil {
			return nil, schedule.Outcome{}, err
		}
		return next, schedule.Outcome{Inconsistencies: next.Inconsistencies()}, nil
	})
}

package schedule

import (
	"errors"
	"fmt"
	"strings"

	"github.com/javiermolinar/blockweek/internal/task"
)

// Validate checks the invariants of the board: every task and block is well
// formed, budgets are never overdrawn, groups share a slot, groups are flat
// and only live in the NotEveryWeek row. It returns every violation found,
// joined.
func (b *Board) Validate() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvariantViolation}, args...)...))
	}

	ids := make(map[int64]bool, len(b.tasks)+len(b.blocks))
	for _, t := range b.tasks {
		if ids[t.ID] || t.ID <= 0 {
			fail("duplicate or invalid id %d", t.ID)
		}
		ids[t.ID] = true
		if strings.TrimSpace(t.Title) == "" {
			fail("task #%d: %v", t.ID, task.ErrEmptyTitle)
		}
		if !t.Process.Valid() {
			fail("task #%d: %v %q", t.ID, task.ErrInvalidProcess, t.Process)
		}
		if !task.HoursPositive(t.TotalHours) {
			fail("task #%d has a budget of %sh", t.ID, task.FormatHours(t.TotalHours))
		}
		if used := b.UsedHours(t.ID); task.HoursLess(t.TotalHours, used) {
			fail("task #%d %q uses %sh of %sh", t.ID, t.Title, task.FormatHours(used), task.FormatHours(t.TotalHours))
		}
	}

	for _, blk := range b.blocks {
		if ids[blk.ID] || blk.ID <= 0 {
			fail("duplicate or invalid id %d", blk.ID)
		}
		ids[blk.ID] = true
		if strings.TrimSpace(blk.Title) == "" {
			fail("block #%d: %v", blk.ID, task.ErrEmptyTitle)
		}
		if !blk.Process.Valid() {
			fail("block #%d: %v %q", blk.ID, task.ErrInvalidProcess, blk.Process)
		}
		if err := blk.Slot.Validate(); err != nil {
			fail("block #%d: %v", blk.ID, err)
		}
		if !task.HoursPositive(blk.Hours) {
			fail("block #%d has %sh", blk.ID, task.FormatHours(blk.Hours))
		}
		if blk.TaskID != nil {
			if _, ok := b.Task(*blk.TaskID); !ok {
				fail("block #%d references missing task #%d", blk.ID, *blk.TaskID)
			}
		}
		if blk.AlternativeGroupID == nil {
			continue
		}

		pid := *blk.AlternativeGroupID
		if pid == blk.ID {
			fail("block #%d is its own alternative", blk.ID)
			continue
		}
		p, ok := b.Block(pid)
		switch {
		case !ok:
			fail("block #%d points to missing primary #%d", blk.ID, pid)
		case p.AlternativeGroupID != nil:
			fail("block #%d points to #%d which is itself an alternative", blk.ID, pid)
		case p.Slot != blk.Slot:
			fail("block #%d is in %s but its primary #%d is in %s", blk.ID, blk.Slot, pid, p.Slot)
		case !blk.Slot.Row.AllowsAlternatives():
			fail("block #%d is an alternative in row %s", blk.ID, blk.Slot.Row.Label())
		}
	}

	return errors.Join(errs...)
}

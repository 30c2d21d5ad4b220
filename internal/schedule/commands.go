package schedule

import (
	"fmt"
	"strings"

	"github.com/javiermolinar/blockweek/internal/task"
)

// Source names where the work of a new placement comes from.
// Exactly one field is set.
type Source struct {
	TaskID  int64  // draw from a task budget
	BlockID int64  // an existing block (alternatives only)
	AdHoc   *AdHoc // a block typed directly into the grid
}

// AdHoc describes a block that does not draw from any task budget.
type AdHoc struct {
	Title   string
	Process task.Process
	Hours   float64
}

// FromTask returns a Source drawing from a task budget.
func FromTask(id int64) Source { return Source{TaskID: id} }

// FromBlock returns a Source for an existing block.
func FromBlock(id int64) Source { return Source{BlockID: id} }

// FromAdHoc returns a Source for a block with no task behind it.
func FromAdHoc(title string, process task.Process, hours float64) Source {
	return Source{AdHoc: &AdHoc{Title: title, Process: process, Hours: hours}}
}

// newBlock builds an unplaced block from a task or ad-hoc source.
func (b *Board) newBlock(src Source) (task.ScheduleBlock, error) {
	switch {
	case src.TaskID != 0:
		t, ok := b.Task(src.TaskID)
		if !ok {
			return task.ScheduleBlock{}, fmt.Errorf("%w: #%d", task.ErrTaskNotFound, src.TaskID)
		}
		remaining := t.TotalHours - b.UsedHours(t.ID)
		if !task.HoursPositive(remaining) {
			return task.ScheduleBlock{}, fmt.Errorf("%w: %q", task.ErrNoBudget, t.Title)
		}
		hours := remaining
		if task.HoursPositive(t.SuggestedHours) {
			hours = min(remaining, t.SuggestedHours)
		}
		return task.ScheduleBlock{
			TaskID:  task.Ref(t.ID),
			Title:   t.Title,
			Hours:   hours,
			Process: t.Process,
		}, nil

	case src.AdHoc != nil:
		title := strings.TrimSpace(src.AdHoc.Title)
		if title == "" {
			return task.ScheduleBlock{}, task.ErrEmptyTitle
		}
		if !src.AdHoc.Process.Valid() {
			return task.ScheduleBlock{}, fmt.Errorf("%w: %q", task.ErrInvalidProcess, src.AdHoc.Process)
		}
		if !task.HoursPositive(src.AdHoc.Hours) {
			return task.ScheduleBlock{}, task.ErrInvalidHours
		}
		return task.ScheduleBlock{Title: title, Hours: src.AdHoc.Hours, Process: src.AdHoc.Process}, nil

	default:
		return task.ScheduleBlock{}, ErrInvalidSource
	}
}

// Place creates a new block in a slot. A task source claims
// min(remaining, suggested) hours. Dropping into a NotEveryWeek slot that
// already holds a primary files the new block as that primary's alternative,
// clamped to its hours.
func (b *Board) Place(src Source, slot task.Slot) (*Board, Outcome, error) {
	if err := slot.Validate(); err != nil {
		return nil, Outcome{}, err
	}
	if src.BlockID != 0 {
		return nil, Outcome{}, fmt.Errorf("%w: existing blocks are moved, not placed", ErrInvalidSource)
	}
	blk, err := b.newBlock(src)
	if err != nil {
		return nil, Outcome{}, err
	}
	blk.Slot = slot

	if slot.Row.AllowsAlternatives() {
		if primaries := b.PrimariesAt(slot); len(primaries) > 0 {
			p := primaries[0]
			blk.Hours = min(p.Hours, blk.Hours)
			blk.AlternativeGroupID = task.Ref(p.ID)
		}
	}

	next := b.clone()
	placed := next.appendBlock(blk)
	return next, Outcome{Block: ptr(placed), Warnings: next.capWarnings(slot)}, nil
}

// CreateAlternative files a block under target as a mutually exclusive
// option for the same slot. The target must be a primary or standalone block
// in the NotEveryWeek row. An existing source block is removed and re-created
// under the target's group, so no duplicate remains.
func (b *Board) CreateAlternative(targetID int64, src Source) (*Board, Outcome, error) {
	target, ok := b.Block(targetID)
	if !ok {
		return nil, Outcome{}, fmt.Errorf("%w: #%d", task.ErrBlockNotFound, targetID)
	}
	if !target.Slot.Row.AllowsAlternatives() {
		return nil, Outcome{}, fmt.Errorf("%w: #%d is in row %q", task.ErrInvalidTarget, targetID, target.Slot.Row.Label())
	}
	if target.IsAlternative() {
		return nil, Outcome{}, fmt.Errorf("%w: #%d is itself an alternative of #%d",
			task.ErrInvalidTarget, targetID, *target.AlternativeGroupID)
	}

	next := b.clone()
	var blk task.ScheduleBlock
	if src.BlockID != 0 {
		source, ok := b.Block(src.BlockID)
		if !ok {
			return nil, Outcome{}, fmt.Errorf("%w: #%d", task.ErrBlockNotFound, src.BlockID)
		}
		if source.ID == target.ID {
			return nil, Outcome{}, fmt.Errorf("%w: #%d", task.ErrSelfReference, source.ID)
		}
		if source.AlternativeGroupID != nil && *source.AlternativeGroupID == target.ID {
			return nil, Outcome{}, fmt.Errorf("%w: #%d already belongs to #%d", task.ErrAlreadyMember, source.ID, target.ID)
		}
		if b.IsPrimary(source.ID) {
			return nil, Outcome{}, fmt.Errorf("%w: #%d", task.ErrGroupNotEmpty, source.ID)
		}
		blk = source
		blk.Hours = min(target.Hours, source.Hours)
		next.removeBlock(source.ID)
	} else {
		var err error
		blk, err = b.newBlock(src)
		if err != nil {
			return nil, Outcome{}, err
		}
		blk.Hours = min(target.Hours, blk.Hours)
	}

	blk.Slot = target.Slot
	blk.AlternativeGroupID = task.Ref(target.ID)
	created := next.appendBlock(blk)

	out := Outcome{Block: ptr(created)}
	if src.BlockID != 0 {
		out.Removed = []int64{src.BlockID}
	}
	return next, out, nil
}

// Move relocates a block to another slot.
//
// A primary with alternatives can only move within NotEveryWeek, and then
// takes its whole group along. An alternative moved anywhere else leaves its
// group and becomes a standalone block. Moving to the current slot is a
// no-op that returns the same board.
func (b *Board) Move(blockID int64, dest task.Slot) (*Board, Outcome, error) {
	if err := dest.Validate(); err != nil {
		return nil, Outcome{}, err
	}
	blk, ok := b.Block(blockID)
	if !ok {
		return nil, Outcome{}, fmt.Errorf("%w: #%d", task.ErrBlockNotFound, blockID)
	}
	if blk.Slot == dest {
		return b, Outcome{Block: ptr(blk)}, nil
	}

	next := b.clone()
	if alts := b.Alternatives(blockID); len(alts) > 0 {
		if !dest.Row.AllowsAlternatives() || dest.Row != blk.Slot.Row {
			return nil, Outcome{}, fmt.Errorf("%w: #%d has %d alternatives", task.ErrGroupNotEmpty, blockID, len(alts))
		}
		for _, member := range append(alts, blk) {
			member.Slot = dest
			next.replaceBlock(member)
		}
		moved, _ := next.Block(blockID)
		return next, Outcome{Block: ptr(moved)}, nil
	}

	var warnings []string
	if blk.IsAlternative() {
		warnings = append(warnings, fmt.Sprintf("#%d left the group of #%d", blk.ID, *blk.AlternativeGroupID))
		blk.AlternativeGroupID = nil
	}
	blk.Slot = dest
	next.replaceBlock(blk)

	return next, Outcome{Block: ptr(blk), Warnings: append(warnings, next.capWarnings(dest)...)}, nil
}

// MoveOnto handles a block dropped directly onto another block. In the
// NotEveryWeek row that makes it an alternative of the target's group;
// elsewhere it is a plain move to the target's slot.
func (b *Board) MoveOnto(blockID, targetID int64) (*Board, Outcome, error) {
	target, ok := b.Block(targetID)
	if !ok {
		return nil, Outcome{}, fmt.Errorf("%w: #%d", task.ErrBlockNotFound, targetID)
	}
	if target.Slot.Row.AllowsAlternatives() {
		return b.CreateAlternative(target.GroupRoot(), FromBlock(blockID))
	}
	return b.Move(blockID, target.Slot)
}

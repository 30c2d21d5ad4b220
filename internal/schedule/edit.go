package schedule

import (
	"fmt"

	"github.com/javiermolinar/blockweek/internal/task"
)

// Resolution tells EditHours what to do when a primary is edited below some
// of its alternatives.
type Resolution int

const (
	// ResolveUnset rejects the edit with ErrResolutionRequired.
	ResolveUnset Resolution = iota
	// ResolveCascade clamps every larger alternative down to the new hours.
	ResolveCascade
	// ResolveKeep leaves the alternatives alone and flags the mismatch.
	ResolveKeep
)

// ParseResolution maps "cascade" and "keep"; anything else is unset.
func ParseResolution(s string) Resolution {
	switch s {
	case "cascade":
		return ResolveCascade
	case "keep":
		return ResolveKeep
	default:
		return ResolveUnset
	}
}

// EditHours changes the hours of a placed block.
//
// Blocks drawn from a task can claim at most the task budget once their own
// current hours are given back. An alternative can never exceed its primary.
// A primary edited below its alternatives needs a Resolution.
func (b *Board) EditHours(blockID int64, hours float64, res Resolution) (*Board, Outcome, error) {
	if !task.HoursPositive(hours) {
		return nil, Outcome{}, task.ErrInvalidHours
	}
	blk, ok := b.Block(blockID)
	if !ok {
		return nil, Outcome{}, fmt.Errorf("%w: #%d", task.ErrBlockNotFound, blockID)
	}

	if blk.TaskID != nil {
		remaining, err := b.RemainingHours(*blk.TaskID)
		if err != nil {
			return nil, Outcome{}, err
		}
		if available := remaining + blk.Hours; task.HoursLess(available, hours) {
			return nil, Outcome{}, fmt.Errorf("%w: #%d asks for %sh, only %sh available",
				task.ErrBudgetViolation, blockID, task.FormatHours(hours), task.FormatHours(available))
		}
	}

	if blk.AlternativeGroupID != nil {
		if p, ok := b.Block(*blk.AlternativeGroupID); ok && task.HoursLess(p.Hours, hours) {
			return nil, Outcome{}, fmt.Errorf("%w: #%d asks for %sh, primary #%d has %sh",
				task.ErrAlternativeExceedsPrimary, blockID, task.FormatHours(hours), p.ID, task.FormatHours(p.Hours))
		}
	}

	next := b.clone()
	blk.Hours = hours
	next.replaceBlock(blk)

	var out Outcome
	var larger []task.ScheduleBlock
	for _, alt := range b.Alternatives(blockID) {
		if task.HoursLess(hours, alt.Hours) {
			larger = append(larger, alt)
		}
	}
	if len(larger) > 0 {
		switch res {
		case ResolveCascade:
			for _, alt := range larger {
				alt.Hours = hours
				next.replaceBlock(alt)
			}
		case ResolveKeep:
			if !b.cfg.AllowMismatchedAlternatives {
				return nil, Outcome{}, fmt.Errorf("%w: %d alternatives of #%d are larger than %sh",
					task.ErrAlternativeExceedsPrimary, len(larger), blockID, task.FormatHours(hours))
			}
		default:
			return nil, Outcome{}, fmt.Errorf("%w: %d alternatives of #%d", task.ErrResolutionRequired, len(larger), blockID)
		}
	}

	out.Block = ptr(blk)
	out.Warnings = next.capWarnings(blk.Slot)
	for _, inc := range next.Inconsistencies() {
		if inc.PrimaryID == blockID {
			out.Inconsistencies = append(out.Inconsistencies, inc)
			out.Warnings = append(out.Warnings, inc.String())
		}
	}
	return next, out, nil
}

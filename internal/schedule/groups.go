package schedule

import (
	"fmt"

	"github.com/javiermolinar/blockweek/internal/task"
)

// Groups are never stored. An alternative holds a single backward reference to
// its primary, and membership is derived by scanning the blocks.

// Inconsistency flags an alternative whose hours exceed its primary's.
// It only exists after a primary edit the user chose not to cascade.
type Inconsistency struct {
	PrimaryID        int64
	AlternativeID    int64
	PrimaryHours     float64
	AlternativeHours float64
}

func (i Inconsistency) String() string {
	return fmt.Sprintf("alternative #%d (%sh) exceeds primary #%d (%sh)",
		i.AlternativeID, task.FormatHours(i.AlternativeHours),
		i.PrimaryID, task.FormatHours(i.PrimaryHours))
}

// Alternatives returns the blocks filed under a primary, in creation order.
func (b *Board) Alternatives(primaryID int64) []task.ScheduleBlock {
	var out []task.ScheduleBlock
	for _, blk := range b.blocks {
		if blk.AlternativeGroupID != nil && *blk.AlternativeGroupID == primaryID {
			out = append(out, blk.Clone())
		}
	}
	return out
}

// IsPrimary returns true if at least one block is an alternative of id.
func (b *Board) IsPrimary(id int64) bool {
	for _, blk := range b.blocks {
		if blk.AlternativeGroupID != nil && *blk.AlternativeGroupID == id {
			return true
		}
	}
	return false
}

// Group returns the alternative group a block belongs to, primary first.
// A standalone block forms a group of one.
func (b *Board) Group(id int64) []task.ScheduleBlock {
	blk, ok := b.Block(id)
	if !ok {
		return nil
	}
	root, ok := b.Block(blk.GroupRoot())
	if !ok {
		return nil
	}
	return append([]task.ScheduleBlock{root}, b.Alternatives(root.ID)...)
}

// PrimariesAt returns the blocks of a slot that are not alternatives:
// primaries and standalone placements, in creation order.
func (b *Board) PrimariesAt(slot task.Slot) []task.ScheduleBlock {
	var out []task.ScheduleBlock
	for _, blk := range b.blocks {
		if blk.Slot == slot && blk.AlternativeGroupID == nil {
			out = append(out, blk.Clone())
		}
	}
	return out
}

// Inconsistencies lists every alternative that exceeds its primary.
func (b *Board) Inconsistencies() []Inconsistency {
	var out []Inconsistency
	for _, blk := range b.blocks {
		if blk.AlternativeGroupID == nil {
			continue
		}
		p, ok := b.Block(*blk.AlternativeGroupID)
		if !ok {
			continue
		}
		if task.HoursLess(p.Hours, blk.Hours) {
			out = append(out, Inconsistency{
				PrimaryID:        p.ID,
				AlternativeID:    blk.ID,
				PrimaryHours:     p.Hours,
				AlternativeHours: blk.Hours,
			})
		}
	}
	return out
}

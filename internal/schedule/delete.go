package schedule

import (
	"fmt"

	"github.com/javiermolinar/blockweek/internal/task"
)

// DeleteBlock removes a block. Deleting a primary promotes its earliest
// alternative so the rest of the group stays connected.
func (b *Board) DeleteBlock(blockID int64) (*Board, Outcome, error) {
	return b.DeletePrimaryWithPromotion(blockID)
}

// DeletePrimaryWithPromotion removes a block. If other blocks are its
// alternatives, the earliest created one becomes the new primary and the
// remaining ones are repointed to it. Without alternatives it is a plain delete.
func (b *Board) DeletePrimaryWithPromotion(blockID int64) (*Board, Outcome, error) {
	if _, ok := b.Block(blockID); !ok {
		return nil, Outcome{}, fmt.Errorf("%w: #%d", task.ErrBlockNotFound, blockID)
	}

	next := b.clone()
	promoted := next.deleteBlock(blockID)
	return next, Outcome{Promoted: promoted, Removed: []int64{blockID}}, nil
}

// deleteBlock removes a block in place and returns the promoted alternative,
// if any. Only called on clones.
func (b *Board) deleteBlock(blockID int64) *task.ScheduleBlock {
	alts := b.Alternatives(blockID)
	b.removeBlock(blockID)
	if len(alts) == 0 {
		return nil
	}

	// Alternatives are returned in creation order; the first one takes over.
	head := alts[0]
	head.AlternativeGroupID = nil
	b.replaceBlock(head)
	for _, alt := range alts[1:] {
		alt.AlternativeGroupID = task.Ref(head.ID)
		b.replaceBlock(alt)
	}
	return ptr(head)
}

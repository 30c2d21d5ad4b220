package schedule

import (
	"github.com/javiermolinar/blockweek/internal/task"
)

// Outcome describes what an accepted command did.
type Outcome struct {
	Block    *task.ScheduleBlock // created or affected block, if any
	Promoted *task.ScheduleBlock // alternative promoted to primary by a delete
	Removed  []int64             // ids of deleted blocks

	// Warnings are soft violations: the command was applied anyway.
	Warnings        []string
	Inconsistencies []Inconsistency
}

// Block returns the block with the given id.
func (b *Board) Block(id int64) (task.ScheduleBlock, bool) {
	i := b.blockIndex(id)
	if i < 0 {
		return task.ScheduleBlock{}, false
	}
	return b.blocks[i].Clone(), true
}

// Blocks returns every placed block in creation order.
func (b *Board) Blocks() []task.ScheduleBlock {
	out := make([]task.ScheduleBlock, len(b.blocks))
	for i, blk := range b.blocks {
		out[i] = blk.Clone()
	}
	return out
}

// BlocksAt returns the blocks placed in a slot, in creation order.
func (b *Board) BlocksAt(slot task.Slot) []task.ScheduleBlock {
	var out []task.ScheduleBlock
	for _, blk := range b.blocks {
		if blk.Slot == slot {
			out = append(out, blk.Clone())
		}
	}
	return out
}

// SlotHours sums the hours placed in a slot.
func (b *Board) SlotHours(slot task.Slot) float64 {
	var total float64
	for _, blk := range b.blocks {
		if blk.Slot == slot {
			total += blk.Hours
		}
	}
	return total
}

// Len returns the number of placed blocks.
func (b *Board) Len() int {
	return len(b.blocks)
}

func (b *Board) blockIndex(id int64) int {
	for i := range b.blocks {
		if b.blocks[i].ID == id {
			return i
		}
	}
	return -1
}

// replaceBlock overwrites the block with the same id. Only called on clones.
func (b *Board) replaceBlock(blk task.ScheduleBlock) {
	if i := b.blockIndex(blk.ID); i >= 0 {
		b.blocks[i] = blk
	}
}

// removeBlock drops a block without any group bookkeeping. Only called on clones.
func (b *Board) removeBlock(id int64) {
	if i := b.blockIndex(id); i >= 0 {
		b.blocks = append(b.blocks[:i], b.blocks[i+1:]...)
	}
}

// appendBlock stores a new block under a fresh id. Only called on clones.
func (b *Board) appendBlock(blk task.ScheduleBlock) task.ScheduleBlock {
	blk.ID = b.allocID()
	b.blocks = append(b.blocks, blk)
	return blk.Clone()
}

// capWarnings reports the Important row soft cap for the slot's day.
func (b *Board) capWarnings(slot task.Slot) []string {
	if slot.Row != task.RowImportant || b.cfg.ImportantCapHours <= 0 {
		return nil
	}
	total := b.SlotHours(slot)
	if !task.HoursLess(b.cfg.ImportantCapHours, total) {
		return nil
	}
	return []string{capWarning(total, b.cfg.ImportantCapHours)}
}

func capWarning(total, limit float64) string {
	return "cap exceeded: " + task.FormatHours(total) + "/" + task.FormatHours(limit) + "h"
}

func ptr(blk task.ScheduleBlock) *task.ScheduleBlock {
	return &blk
}

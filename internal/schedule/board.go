// Package schedule holds the task pool and the schedule grid.
//
// A Board is immutable: every command returns a new Board (or an error and no
// Board), so a rejected command can never leave partial changes behind. The
// caller swaps its reference on success.
package schedule

import (
	"errors"
	"fmt"
	"slices"

	"github.com/javiermolinar/blockweek/internal/task"
)

// Board errors.
var (
	ErrInvalidSource      = errors.New("source must be a task, an existing block or an ad-hoc block")
	ErrInvariantViolation = errors.New("invariant violation")
)

const (
	// DefaultImportantCapHours is the soft per-day cap of the Important row.
	DefaultImportantCapHours = 4
	// DefaultBlockHours is the suggested size of a placement when a task does not set one.
	DefaultBlockHours = 2
)

// Config holds the rules the board enforces.
type Config struct {
	ImportantCapHours float64 // <= 0 disables the cap warning
	DefaultBlockHours float64

	// AllowMismatchedAlternatives lets a primary be edited below its
	// alternatives when the caller asks to keep them as they are.
	AllowMismatchedAlternatives bool
}

// DefaultConfig returns the board defaults.
func DefaultConfig() Config {
	return Config{
		ImportantCapHours:           DefaultImportantCapHours,
		DefaultBlockHours:           DefaultBlockHours,
		AllowMismatchedAlternatives: true,
	}
}

// Board is the authoritative store of tasks and placed blocks.
type Board struct {
	cfg    Config
	tasks  []task.TaskBlock     // sorted by ID
	blocks []task.ScheduleBlock // sorted by ID, which is creation order
	nextID int64
}

// NewBoard creates an empty board.
func NewBoard(cfg Config) *Board {
	return &Board{cfg: cfg, nextID: 1}
}

// FromSnapshot rebuilds a board from a persisted snapshot.
// A nil snapshot yields an empty board. The snapshot must satisfy every
// structural invariant, otherwise it is rejected.
func FromSnapshot(cfg Config, snap *task.Snapshot) (*Board, error) {
	b := NewBoard(cfg)
	if snap == nil {
		return b, nil
	}

	c := snap.Clone()
	b.tasks = c.Tasks
	b.blocks = c.Blocks
	slices.SortFunc(b.tasks, func(x, y task.TaskBlock) int { return cmpID(x.ID, y.ID) })
	slices.SortFunc(b.blocks, func(x, y task.ScheduleBlock) int { return cmpID(x.ID, y.ID) })
	b.nextID = snap.MaxID() + 1

	if err := b.Validate(); err != nil {
		return nil, fmt.Errorf("loading snapshot: %w", err)
	}
	return b, nil
}

// Config returns the board rules.
func (b *Board) Config() Config {
	return b.cfg
}

// Snapshot returns a deep copy of the board contents.
func (b *Board) Snapshot() *task.Snapshot {
	snap := &task.Snapshot{Tasks: b.tasks, Blocks: b.blocks}
	return snap.Clone()
}

// clone creates a copy of the board whose slices can be mutated freely.
func (b *Board) clone() *Board {
	c := &Board{
		cfg:    b.cfg,
		tasks:  make([]task.TaskBlock, len(b.tasks)),
		blocks: make([]task.ScheduleBlock, len(b.blocks)),
		nextID: b.nextID,
	}
	copy(c.tasks, b.tasks)
	for i, blk := range b.blocks {
		c.blocks[i] = blk.Clone()
	}
	return c
}

// allocID hands out the next id. Tasks and blocks share one sequence.
func (b *Board) allocID() int64 {
	id := b.nextID
	b.nextID++
	return id
}

func cmpID(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

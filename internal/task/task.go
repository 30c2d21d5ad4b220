// Package task defines the core domain types for blockweek.
package task

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Validation errors.
var (
	ErrEmptyTitle     = errors.New("title cannot be empty")
	ErrInvalidHours   = errors.New("hours must be greater than zero")
	ErrInvalidProcess = errors.New("unknown process")
	ErrInvalidDay     = errors.New("day must be one of Mon, Tue, Wed, Thu, Fri")
	ErrInvalidRow     = errors.New("row must be one of important, must, noteveryweek")
)

// Domain errors. These are the categorical rejections surfaced to the host.
var (
	ErrNoBudget                  = errors.New("task has no remaining hours")
	ErrBudgetViolation           = errors.New("budget violation")
	ErrSelfReference             = errors.New("block cannot be an alternative of itself")
	ErrAlreadyMember             = errors.New("block is already an alternative of the target")
	ErrAlternativeExceedsPrimary = errors.New("alternative hours exceed primary hours")
	ErrGroupNotEmpty             = errors.New("block has alternatives, delete them first")
	ErrMalformedPayload          = errors.New("malformed drag payload")

	ErrTaskNotFound         = errors.New("task not found")
	ErrBlockNotFound        = errors.New("block not found")
	ErrInvalidTarget        = errors.New("target cannot hold alternatives")
	ErrConfirmationRequired = errors.New("confirmation required")
	ErrResolutionRequired   = errors.New("alternatives exceed the new hours, choose cascade or keep")
)

// TaskBlock is a reservoir of budgeted work that ScheduleBlocks draw from.
type TaskBlock struct {
	ID             int64
	Title          string
	Process        Process
	TotalHours     float64
	SuggestedHours float64 // hours a single placement claims, capped by what remains
	CreatedAt      time.Time
}

// NewTaskBlock creates a TaskBlock with validation.
// suggested <= 0 means "use the whole budget".
func NewTaskBlock(title string, process Process, totalHours, suggested float64) (*TaskBlock, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}
	if !process.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidProcess, process)
	}
	if totalHours <= 0 {
		return nil, fmt.Errorf("total hours: %w", ErrInvalidHours)
	}
	if suggested <= 0 || suggested > totalHours {
		suggested = totalHours
	}

	return &TaskBlock{
		Title:          title,
		Process:        process,
		TotalHours:     totalHours,
		SuggestedHours: suggested,
		CreatedAt:      time.Now(),
	}, nil
}

// ScheduleBlock is one placed instance of work occupying a slot.
type ScheduleBlock struct {
	ID      int64
	TaskID  *int64 // nil for ad-hoc blocks
	Title   string
	Hours   float64
	Process Process
	Slot    Slot

	// AlternativeGroupID names the primary this block is an alternative of.
	AlternativeGroupID *int64
}

// IsAdHoc returns true if the block does not draw from a TaskBlock budget.
func (b *ScheduleBlock) IsAdHoc() bool {
	return b.TaskID == nil
}

// IsAlternative returns true if the block is filed under a primary.
func (b *ScheduleBlock) IsAlternative() bool {
	return b.AlternativeGroupID != nil
}

// GroupRoot returns the id of the primary of the block's group, which is the
// block itself unless it is an alternative.
func (b *ScheduleBlock) GroupRoot() int64 {
	if b.AlternativeGroupID != nil {
		return *b.AlternativeGroupID
	}
	return b.ID
}

// BelongsTo returns true if the block references the given task.
func (b *ScheduleBlock) BelongsTo(taskID int64) bool {
	return b.TaskID != nil && *b.TaskID == taskID
}

// Clone returns a copy that shares no pointers with b.
func (b ScheduleBlock) Clone() ScheduleBlock {
	if b.TaskID != nil {
		id := *b.TaskID
		b.TaskID = &id
	}
	if b.AlternativeGroupID != nil {
		id := *b.AlternativeGroupID
		b.AlternativeGroupID = &id
	}
	return b
}

// Ref returns a pointer to a copy of id, for the optional id fields.
func Ref(id int64) *int64 {
	return &id
}

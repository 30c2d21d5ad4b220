package schedule

import (
	"errors"
	"reflect"
	"strconv"
	"testing"

	"github.com/javiermolinar/blockweek/internal/task"
)

func slot(day task.Day, row task.Row) task.Slot {
	return task.Slot{Day: day, Row: row}
}

// mustTask creates a task or fails the test.
func mustTask(t *testing.T, b *Board, title string, process task.Process, total, suggested float64) (*Board, task.TaskBlock) {
	t.Helper()
	next, tb, err := b.CreateTask(title, process, total, suggested)
	if err != nil {
		t.Fatalf("CreateTask(%q): %v", title, err)
	}
	return next, tb
}

// mustPlace places a source or fails the test.
func mustPlace(t *testing.T, b *Board, src Source, s task.Slot) (*Board, task.ScheduleBlock) {
	t.Helper()
	next, out, err := b.Place(src, s)
	if err != nil {
		t.Fatalf("Place(%+v, %s): %v", src, s, err)
	}
	if out.Block == nil {
		t.Fatal("Place returned no block")
	}
	return next, *out.Block
}

// mustAlternative creates an alternative or fails the test.
func mustAlternative(t *testing.T, b *Board, targetID int64, src Source) (*Board, task.ScheduleBlock) {
	t.Helper()
	next, out, err := b.CreateAlternative(targetID, src)
	if err != nil {
		t.Fatalf("CreateAlternative(%d, %+v): %v", targetID, src, err)
	}
	return next, *out.Block
}

// mustValid fails the test if the board breaks an invariant.
func mustValid(t *testing.T, b *Board) {
	t.Helper()
	if err := b.Validate(); err != nil {
		t.Fatalf("invariants broken: %v", err)
	}
}

// assertRejected checks that a command failed with want and left b untouched.
func assertRejected(t *testing.T, b *Board, before *task.Snapshot, next *Board, err, want error) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v, got success", want)
	}
	if want != nil && !errors.Is(err, want) {
		t.Fatalf("expected %v, got %v", want, err)
	}
	if next != nil {
		t.Error("rejected command returned a board")
	}
	if !reflect.DeepEqual(before, b.Snapshot()) {
		t.Error("rejected command changed the board")
	}
}

// gridString renders the grid compactly for assertions:
// "Mon/important:1(2h) 3(1h>1)" lists block ids, hours and the group target.
func gridString(b *Board, s task.Slot) string {
	out := ""
	for _, blk := range b.BlocksAt(s) {
		if out != "" {
			out += " "
		}
		out += strconv.FormatInt(blk.ID, 10) + "(" + task.FormatHours(blk.Hours) + "h"
		if blk.AlternativeGroupID != nil {
			out += ">" + strconv.FormatInt(*blk.AlternativeGroupID, 10)
		}
		out += ")"
	}
	return out
}

package schedule

import (
	"errors"
	"reflect"
	"testing"

	"github.com/javiermolinar/blockweek/internal/task"
)

func TestPlace_DeductsSuggestedHours(t *testing.T) {
	b := NewBoard(DefaultConfig())
	b, tb := mustTask(t, b, "Feature Development", task.ProcessDevelopment, 12, 4)

	b, blk := mustPlace(t, b, FromTask(tb.ID), slot(task.Tuesday, task.RowMustBeDone))

	if blk.Hours != 4 {
		t.Errorf("placed %vh, want 4", blk.Hours)
	}
	if blk.TaskID == nil || *blk.TaskID != tb.ID {
		t.Errorf("block not linked to task %d", tb.ID)
	}
	if blk.Title != "Feature Development" || blk.Process != task.ProcessDevelopment {
		t.Errorf("block did not inherit task identity: %+v", blk)
	}
	remaining, err := b.RemainingHours(tb.ID)
	if err != nil {
		t.Fatalf("RemainingHours: %v", err)
	}
	if remaining != 8 {
		t.Errorf("remaining = %v, want 8", remaining)
	}
	mustValid(t, b)
}

func TestPlace_ClaimsWhatRemains(t *testing.T) {
	b := NewBoard(DefaultConfig())
	b, tb := mustTask(t, b, "Newsletter", task.ProcessMarketing, 5, 4)

	b, _ = mustPlace(t, b, FromTask(tb.ID), slot(task.Monday, task.RowMustBeDone))
	b, second := mustPlace(t, b, FromTask(tb.ID), slot(task.Monday, task.RowMustBeDone))

	if second.Hours != 1 {
		t.Errorf("second placement = %vh, want the remaining 1h", second.Hours)
	}
	if len(b.DraggableTasks()) != 0 {
		t.Error("exhausted task should not be draggable")
	}
	if len(b.Tasks()) != 1 {
		t.Error("exhausted task must stay in the catalog")
	}
}

func TestPlace_NoBudget(t *testing.T) {
	b := NewBoard(DefaultConfig())
	b, tb := mustTask(t, b, "Invoices", task.ProcessAdmin, 2, 2)
	b, _ = mustPlace(t, b, FromTask(tb.ID), slot(task.Friday, task.RowMustBeDone))

	before := b.Snapshot()
	next, _, err := b.Place(FromTask(tb.ID), slot(task.Friday, task.RowMustBeDone))
	assertRejected(t, b, before, next, err, task.ErrNoBudget)
}

func TestPlace_SameTaskSameCellTwice(t *testing.T) {
	b := NewBoard(DefaultConfig())
	b, tb := mustTask(t, b, "Support", task.ProcessClientWork, 10, 2)
	cell := slot(task.Wednesday, task.RowMustBeDone)

	b, first := mustPlace(t, b, FromTask(tb.ID), cell)
	b, second := mustPlace(t, b, FromTask(tb.ID), cell)

	if first.ID == second.ID {
		t.Fatal("placements share an id")
	}
	if got := b.UsedHours(tb.ID); got != 4 {
		t.Errorf("used = %v, want 4", got)
	}
	if got := gridString(b, cell); got != "2(2h) 3(2h)" {
		t.Errorf("cell = %q", got)
	}
}

func TestPlace_AdHoc(t *testing.T) {
	b := NewBoard(DefaultConfig())
	b, blk := mustPlace(t, b, FromAdHoc("Dentist", task.ProcessAdmin, 1.5), slot(task.Monday, task.RowMustBeDone))

	if !blk.IsAdHoc() {
		t.Error("ad-hoc block should have no task")
	}
	if blk.Hours != 1.5 {
		t.Errorf("hours = %v, want 1.5", blk.Hours)
	}

	before := b.Snapshot()
	next, _, err := b.Place(FromAdHoc("", task.ProcessAdmin, 1), slot(task.Monday, task.RowImportant))
	assertRejected(t, b, before, next, err, task.ErrEmptyTitle)
	next, _, err = b.Place(FromAdHoc("x", task.ProcessAdmin, 0), slot(task.Monday, task.RowImportant))
	assertRejected(t, b, before, next, err, task.ErrInvalidHours)
	next, _, err = b.Place(FromBlock(blk.ID), slot(task.Monday, task.RowImportant))
	assertRejected(t, b, before, next, err, ErrInvalidSource)
	next, _, err = b.Place(FromAdHoc("x", task.ProcessAdmin, 1), task.Slot{Day: 9})
	assertRejected(t, b, before, next, err, task.ErrInvalidDay)
}

func TestPlace_ImportantCapWarning(t *testing.T) {
	b := NewBoard(DefaultConfig())
	mon := slot(task.Monday, task.RowImportant)
	b, _ = mustPlace(t, b, FromAdHoc("Planning", task.ProcessAdmin, 3.5), mon)
	b, tb := mustTask(t, b, "Review", task.ProcessDevelopment, 6, 1)

	next, out, err := b.Place(FromTask(tb.ID), mon)
	if err != nil {
		t.Fatalf("over-cap placement must be accepted: %v", err)
	}
	want := []string{"cap exceeded: 4.5/4h"}
	if !reflect.DeepEqual(out.Warnings, want) {
		t.Errorf("warnings = %v, want %v", out.Warnings, want)
	}
	if next.SlotHours(mon) != 4.5 {
		t.Errorf("slot hours = %v, want 4.5", next.SlotHours(mon))
	}
}

func TestPlace_CapDoesNotApplyToOtherRows(t *testing.T) {
	b := NewBoard(DefaultConfig())
	_, out, err := b.Place(FromAdHoc("Ops", task.ProcessOperations, 9), slot(task.Monday, task.RowMustBeDone))
	if err != nil {
		t.Fatal(err)
	}
	if len(out.Warnings) != 0 {
		t.Errorf("unexpected warnings %v", out.Warnings)
	}
}

func TestPlace_NotEveryWeekSlotWithPrimaryFilesAlternative(t *testing.T) {
	b := NewBoard(DefaultConfig())
	thu := slot(task.Thursday, task.RowNotEveryWeek)
	b, primary := mustPlace(t, b, FromAdHoc("Workshop", task.ProcessClientWork, 2), thu)
	b, tb := mustTask(t, b, "Blog post", task.ProcessMarketing, 10, 5)

	b, alt := mustPlace(t, b, FromTask(tb.ID), thu)

	if alt.AlternativeGroupID == nil || *alt.AlternativeGroupID != primary.ID {
		t.Fatalf("slot drop should file under primary %d, got %+v", primary.ID, alt.AlternativeGroupID)
	}
	if alt.Hours != 2 {
		t.Errorf("alternative clamped to %vh, want 2", alt.Hours)
	}
	if got := b.UsedHours(tb.ID); got != 2 {
		t.Errorf("used = %v, want the clamped 2h", got)
	}
	mustValid(t, b)
}

func TestCreateAlternative_FromTask(t *testing.T) {
	b := NewBoard(DefaultConfig())
	b, t1 := mustTask(t, b, "Conference", task.ProcessMarketing, 10, 3)
	b, t2 := mustTask(t, b, "Hackathon", task.ProcessDevelopment, 10, 5)
	b, a := mustPlace(t, b, FromTask(t1.ID), slot(task.Thursday, task.RowNotEveryWeek))

	b, alt := mustAlternative(t, b, a.ID, FromTask(t2.ID))

	if alt.Hours != 3 {
		t.Errorf("hours = %v, want min(3,5) = 3", alt.Hours)
	}
	if alt.AlternativeGroupID == nil || *alt.AlternativeGroupID != a.ID {
		t.Errorf("group = %v, want %d", alt.AlternativeGroupID, a.ID)
	}
	if alt.Slot != a.Slot {
		t.Errorf("slot = %v, want %v", alt.Slot, a.Slot)
	}
	if !b.IsPrimary(a.ID) {
		t.Error("target should now be a primary")
	}
	if g := b.Group(alt.ID); len(g) != 2 || g[0].ID != a.ID {
		t.Errorf("group = %+v", g)
	}
	mustValid(t, b)
}

func TestCreateAlternative_FromExistingBlock(t *testing.T) {
	b := NewBoard(DefaultConfig())
	b, target := mustPlace(t, b, FromAdHoc("Offsite", task.ProcessOperations, 2), slot(task.Friday, task.RowNotEveryWeek))
	b, src := mustPlace(t, b, FromAdHoc("Audit", task.ProcessAdmin, 3), slot(task.Monday, task.RowImportant))
	count := b.Len()

	b, alt := mustAlternative(t, b, target.ID, FromBlock(src.ID))

	if _, ok := b.Block(src.ID); ok {
		t.Error("source block should be removed")
	}
	if alt.ID == src.ID {
		t.Error("re-created block should get a fresh id")
	}
	if alt.Title != "Audit" || alt.Hours != 2 || alt.Slot != target.Slot {
		t.Errorf("unexpected alternative %+v", alt)
	}
	if b.Len() != count {
		t.Errorf("block count = %d, want %d", b.Len(), count)
	}
	if len(b.BlocksAt(slot(task.Monday, task.RowImportant))) != 0 {
		t.Error("old slot still holds the block")
	}
	mustValid(t, b)
}

func TestCreateAlternative_Rejections(t *testing.T) {
	b := NewBoard(DefaultConfig())
	thu := slot(task.Thursday, task.RowNotEveryWeek)
	b, p := mustPlace(t, b, FromAdHoc("Primary", task.ProcessAdmin, 2), thu)
	b, alt := mustPlace(t, b, FromAdHoc("Alt", task.ProcessAdmin, 2), thu)
	b, other := mustPlace(t, b, FromAdHoc("Other", task.ProcessAdmin, 1), slot(task.Monday, task.RowNotEveryWeek))
	b, _ = mustAlternative(t, b, other.ID, FromAdHoc("Other alt", task.ProcessAdmin, 1))
	b, row1 := mustPlace(t, b, FromAdHoc("Row one", task.ProcessAdmin, 1), slot(task.Monday, task.RowImportant))

	tests := []struct {
		name   string
		target int64
		src    Source
		want   error
	}{
		{"self reference", p.ID, FromBlock(p.ID), task.ErrSelfReference},
		{"already member", p.ID, FromBlock(alt.ID), task.ErrAlreadyMember},
		{"target outside NotEveryWeek", row1.ID, FromBlock(p.ID), task.ErrInvalidTarget},
		{"target is an alternative", alt.ID, FromBlock(row1.ID), task.ErrInvalidTarget},
		{"source has its own alternatives", p.ID, FromBlock(other.ID), task.ErrGroupNotEmpty},
		{"missing target", 999, FromBlock(row1.ID), task.ErrBlockNotFound},
		{"missing source", p.ID, FromBlock(999), task.ErrBlockNotFound},
		{"missing task", p.ID, FromTask(999), task.ErrTaskNotFound},
		{"empty source", p.ID, Source{}, ErrInvalidSource},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := b.Snapshot()
			next, _, err := b.CreateAlternative(tt.target, tt.src)
			assertRejected(t, b, before, next, err, tt.want)
		})
	}
}

func TestCreateAlternative_ReparentAcrossGroups(t *testing.T) {
	b := NewBoard(DefaultConfig())
	mon := slot(task.Monday, task.RowNotEveryWeek)
	tue := slot(task.Tuesday, task.RowNotEveryWeek)
	b, p1 := mustPlace(t, b, FromAdHoc("A", task.ProcessAdmin, 3), mon)
	b, a1 := mustAlternative(t, b, p1.ID, FromAdHoc("B", task.ProcessAdmin, 3))
	b, p2 := mustPlace(t, b, FromAdHoc("C", task.ProcessAdmin, 1), tue)

	b, moved := mustAlternative(t, b, p2.ID, FromBlock(a1.ID))

	if b.IsPrimary(p1.ID) {
		t.Error("old group should be empty")
	}
	if *moved.AlternativeGroupID != p2.ID || moved.Slot != tue || moved.Hours != 1 {
		t.Errorf("unexpected reparented block %+v", moved)
	}
	mustValid(t, b)
}

func TestDeletePrimaryWithPromotion_SingleAlternative(t *testing.T) {
	b := NewBoard(DefaultConfig())
	thu := slot(task.Thursday, task.RowNotEveryWeek)
	b, a := mustPlace(t, b, FromAdHoc("A", task.ProcessAdmin, 3), thu)
	b, alt := mustAlternative(t, b, a.ID, FromAdHoc("B", task.ProcessAdmin, 5))
	count := b.Len()

	next, out, err := b.DeletePrimaryWithPromotion(a.ID)
	if err != nil {
		t.Fatal(err)
	}
	if out.Promoted == nil || out.Promoted.ID != alt.ID {
		t.Fatalf("promoted = %+v, want %d", out.Promoted, alt.ID)
	}
	got, _ := next.Block(alt.ID)
	if got.AlternativeGroupID != nil {
		t.Error("promoted block should have no group id")
	}
	if next.Len() != count-1 {
		t.Errorf("count = %d, want %d", next.Len(), count-1)
	}
	mustValid(t, next)
}

func TestDeletePrimaryWithPromotion_PreservesGroupSize(t *testing.T) {
	for n := 1; n <= 4; n++ {
		b := NewBoard(DefaultConfig())
		thu := slot(task.Thursday, task.RowNotEveryWeek)
		b, p := mustPlace(t, b, FromAdHoc("P", task.ProcessAdmin, 4), thu)
		var alts []task.ScheduleBlock
		for i := 0; i < n; i++ {
			var alt task.ScheduleBlock
			b, alt = mustAlternative(t, b, p.ID, FromAdHoc("alt", task.ProcessAdmin, 1))
			alts = append(alts, alt)
		}
		count := b.Len()

		next, out, err := b.DeleteBlock(p.ID)
		if err != nil {
			t.Fatal(err)
		}
		head := alts[0].ID
		if out.Promoted == nil || out.Promoted.ID != head {
			t.Fatalf("n=%d: earliest alternative should be promoted", n)
		}
		if got := len(next.Alternatives(head)); got != n-1 {
			t.Errorf("n=%d: new primary has %d alternatives, want %d", n, got, n-1)
		}
		if next.Len() != count-1 {
			t.Errorf("n=%d: count = %d, want %d", n, next.Len(), count-1)
		}
		if len(next.PrimariesAt(thu)) != 1 {
			t.Errorf("n=%d: want exactly one primary", n)
		}
		mustValid(t, next)
	}
}

func TestDeleteBlock_Plain(t *testing.T) {
	b := NewBoard(DefaultConfig())
	b, tb := mustTask(t, b, "T", task.ProcessAdmin, 4, 2)
	b, blk := mustPlace(t, b, FromTask(tb.ID), slot(task.Monday, task.RowImportant))

	next, out, err := b.DeleteBlock(blk.ID)
	if err != nil {
		t.Fatal(err)
	}
	if out.Promoted != nil {
		t.Error("nothing to promote")
	}
	if r, _ := next.RemainingHours(tb.ID); r != 4 {
		t.Errorf("remaining = %v, want the budget back", r)
	}

	before := b.Snapshot()
	next, _, err = b.DeleteBlock(999)
	assertRejected(t, b, before, next, err, task.ErrBlockNotFound)
}

func TestMove(t *testing.T) {
	t.Run("plain relocation", func(t *testing.T) {
		b := NewBoard(DefaultConfig())
		b, blk := mustPlace(t, b, FromAdHoc("x", task.ProcessAdmin, 1), slot(task.Monday, task.RowMustBeDone))
		next, out, err := b.Move(blk.ID, slot(task.Friday, task.RowImportant))
		if err != nil {
			t.Fatal(err)
		}
		if out.Block.Slot != slot(task.Friday, task.RowImportant) {
			t.Errorf("slot = %v", out.Block.Slot)
		}
		mustValid(t, next)
	})

	t.Run("same slot is a no-op", func(t *testing.T) {
		b := NewBoard(DefaultConfig())
		b, blk := mustPlace(t, b, FromAdHoc("x", task.ProcessAdmin, 1), slot(task.Monday, task.RowMustBeDone))
		next, _, err := b.Move(blk.ID, blk.Slot)
		if err != nil {
			t.Fatal(err)
		}
		if next != b {
			t.Error("no-op move should return the same board")
		}
	})

	t.Run("primary with alternatives cannot leave row 3", func(t *testing.T) {
		b := NewBoard(DefaultConfig())
		b, a := mustPlace(t, b, FromAdHoc("A", task.ProcessAdmin, 3), slot(task.Thursday, task.RowNotEveryWeek))
		b, _ = mustAlternative(t, b, a.ID, FromAdHoc("B", task.ProcessAdmin, 3))

		before := b.Snapshot()
		next, _, err := b.Move(a.ID, slot(task.Thursday, task.RowMustBeDone))
		assertRejected(t, b, before, next, err, task.ErrGroupNotEmpty)
	})

	t.Run("primary with alternatives moves its group within row 3", func(t *testing.T) {
		b := NewBoard(DefaultConfig())
		b, a := mustPlace(t, b, FromAdHoc("A", task.ProcessAdmin, 3), slot(task.Thursday, task.RowNotEveryWeek))
		b, alt := mustAlternative(t, b, a.ID, FromAdHoc("B", task.ProcessAdmin, 3))

		next, _, err := b.Move(a.ID, slot(task.Tuesday, task.RowNotEveryWeek))
		if err != nil {
			t.Fatal(err)
		}
		moved, _ := next.Block(alt.ID)
		if moved.Slot != slot(task.Tuesday, task.RowNotEveryWeek) {
			t.Errorf("alternative left behind in %v", moved.Slot)
		}
		mustValid(t, next)
	})

	t.Run("alternative moved out of row 3 is promoted", func(t *testing.T) {
		b := NewBoard(DefaultConfig())
		b, a := mustPlace(t, b, FromAdHoc("A", task.ProcessAdmin, 3), slot(task.Thursday, task.RowNotEveryWeek))
		b, alt := mustAlternative(t, b, a.ID, FromAdHoc("B", task.ProcessAdmin, 3))

		next, out, err := b.Move(alt.ID, slot(task.Monday, task.RowImportant))
		if err != nil {
			t.Fatal(err)
		}
		if out.Block.AlternativeGroupID != nil {
			t.Error("moved alternative should be standalone")
		}
		if next.IsPrimary(a.ID) {
			t.Error("old primary should have no alternatives left")
		}
		mustValid(t, next)
	})

	t.Run("alternative moved to another row 3 cell detaches", func(t *testing.T) {
		b := NewBoard(DefaultConfig())
		b, a := mustPlace(t, b, FromAdHoc("A", task.ProcessAdmin, 3), slot(task.Thursday, task.RowNotEveryWeek))
		b, alt := mustAlternative(t, b, a.ID, FromAdHoc("B", task.ProcessAdmin, 3))

		next, out, err := b.Move(alt.ID, slot(task.Friday, task.RowNotEveryWeek))
		if err != nil {
			t.Fatal(err)
		}
		if out.Block.AlternativeGroupID != nil {
			t.Error("detached block should be standalone")
		}
		mustValid(t, next)
	})

	t.Run("move into Important warns over cap", func(t *testing.T) {
		b := NewBoard(DefaultConfig())
		b, _ = mustPlace(t, b, FromAdHoc("A", task.ProcessAdmin, 3), slot(task.Monday, task.RowImportant))
		b, blk := mustPlace(t, b, FromAdHoc("B", task.ProcessAdmin, 2), slot(task.Monday, task.RowMustBeDone))
		_, out, err := b.Move(blk.ID, slot(task.Monday, task.RowImportant))
		if err != nil {
			t.Fatal(err)
		}
		if len(out.Warnings) != 1 || out.Warnings[0] != "cap exceeded: 5/4h" {
			t.Errorf("warnings = %v", out.Warnings)
		}
	})
}

func TestMoveOnto(t *testing.T) {
	b := NewBoard(DefaultConfig())
	b, p := mustPlace(t, b, FromAdHoc("P", task.ProcessAdmin, 2), slot(task.Monday, task.RowNotEveryWeek))
	b, alt := mustAlternative(t, b, p.ID, FromAdHoc("Alt", task.ProcessAdmin, 1))
	b, src := mustPlace(t, b, FromAdHoc("S", task.ProcessAdmin, 3), slot(task.Friday, task.RowMustBeDone))
	b, row1 := mustPlace(t, b, FromAdHoc("R", task.ProcessAdmin, 1), slot(task.Tuesday, task.RowImportant))

	// Dropping on an alternative joins the group of its primary.
	next, out, err := b.MoveOnto(src.ID, alt.ID)
	if err != nil {
		t.Fatal(err)
	}
	if *out.Block.AlternativeGroupID != p.ID || out.Block.Hours != 2 {
		t.Errorf("unexpected block %+v", out.Block)
	}
	mustValid(t, next)

	next, out, err = b.MoveOnto(src.ID, row1.ID)
	if err != nil {
		t.Fatal(err)
	}
	if out.Block.Slot != row1.Slot || out.Block.AlternativeGroupID != nil {
		t.Errorf("unexpected block %+v", out.Block)
	}
	mustValid(t, next)
}

func TestEditHours(t *testing.T) {
	setup := func(t *testing.T, cfg Config) (*Board, task.TaskBlock, task.ScheduleBlock, task.ScheduleBlock) {
		b := NewBoard(cfg)
		b, tb := mustTask(t, b, "T", task.ProcessDevelopment, 6, 3)
		b, p := mustPlace(t, b, FromTask(tb.ID), slot(task.Wednesday, task.RowNotEveryWeek))
		b, alt := mustAlternative(t, b, p.ID, FromAdHoc("Alt", task.ProcessAdmin, 3))
		return b, tb, p, alt
	}

	t.Run("within budget", func(t *testing.T) {
		b, tb, p, _ := setup(t, DefaultConfig())
		next, _, err := b.EditHours(p.ID, 6, ResolveUnset)
		if err != nil {
			t.Fatal(err)
		}
		if r, _ := next.RemainingHours(tb.ID); r != 0 {
			t.Errorf("remaining = %v, want 0", r)
		}
	})

	t.Run("past budget", func(t *testing.T) {
		b, _, p, _ := setup(t, DefaultConfig())
		before := b.Snapshot()
		next, _, err := b.EditHours(p.ID, 6.5, ResolveUnset)
		assertRejected(t, b, before, next, err, task.ErrBudgetViolation)
	})

	t.Run("alternative above primary", func(t *testing.T) {
		b, _, _, alt := setup(t, DefaultConfig())
		before := b.Snapshot()
		next, _, err := b.EditHours(alt.ID, 4, ResolveUnset)
		assertRejected(t, b, before, next, err, task.ErrAlternativeExceedsPrimary)
	})

	t.Run("primary below alternative needs a resolution", func(t *testing.T) {
		b, _, p, _ := setup(t, DefaultConfig())
		before := b.Snapshot()
		next, _, err := b.EditHours(p.ID, 2, ResolveUnset)
		assertRejected(t, b, before, next, err, task.ErrResolutionRequired)
	})

	t.Run("cascade clamps alternatives", func(t *testing.T) {
		b, _, p, alt := setup(t, DefaultConfig())
		next, out, err := b.EditHours(p.ID, 2, ResolveCascade)
		if err != nil {
			t.Fatal(err)
		}
		got, _ := next.Block(alt.ID)
		if got.Hours != 2 {
			t.Errorf("alternative = %vh, want 2", got.Hours)
		}
		if len(out.Inconsistencies) != 0 || len(next.Inconsistencies()) != 0 {
			t.Error("cascade should leave no inconsistency")
		}
	})

	t.Run("keep flags the mismatch", func(t *testing.T) {
		b, _, p, alt := setup(t, DefaultConfig())
		next, out, err := b.EditHours(p.ID, 2, ResolveKeep)
		if err != nil {
			t.Fatal(err)
		}
		want := []Inconsistency{{PrimaryID: p.ID, AlternativeID: alt.ID, PrimaryHours: 2, AlternativeHours: 3}}
		if !reflect.DeepEqual(out.Inconsistencies, want) {
			t.Errorf("inconsistencies = %+v, want %+v", out.Inconsistencies, want)
		}
		if !reflect.DeepEqual(next.Inconsistencies(), want) {
			t.Error("board should keep reporting the mismatch")
		}
		mustValid(t, next)
	})

	t.Run("keep disallowed by config", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.AllowMismatchedAlternatives = false
		b, _, p, _ := setup(t, cfg)
		before := b.Snapshot()
		next, _, err := b.EditHours(p.ID, 2, ResolveKeep)
		assertRejected(t, b, before, next, err, task.ErrAlternativeExceedsPrimary)
	})

	t.Run("invalid hours", func(t *testing.T) {
		b, _, p, _ := setup(t, DefaultConfig())
		before := b.Snapshot()
		next, _, err := b.EditHours(p.ID, 0, ResolveUnset)
		assertRejected(t, b, before, next, err, task.ErrInvalidHours)
	})
}

func TestSetTotalHours(t *testing.T) {
	b := NewBoard(DefaultConfig())
	b, tb := mustTask(t, b, "T", task.ProcessAdmin, 10, 4)
	b, _ = mustPlace(t, b, FromTask(tb.ID), slot(task.Monday, task.RowMustBeDone))

	before := b.Snapshot()
	next, _, err := b.SetTotalHours(tb.ID, 3)
	assertRejected(t, b, before, next, err, task.ErrBudgetViolation)

	next, updated, err := b.SetTotalHours(tb.ID, 4)
	if err != nil {
		t.Fatalf("setting budget to exactly the used hours: %v", err)
	}
	if updated.TotalHours != 4 {
		t.Errorf("total = %v", updated.TotalHours)
	}
	if len(next.DraggableTasks()) != 0 {
		t.Error("task with nothing left should not be draggable")
	}

	next, _, err = b.SetTotalHours(999, 4)
	assertRejected(t, b, before, next, err, task.ErrTaskNotFound)
}

func TestDeleteTask(t *testing.T) {
	b := NewBoard(DefaultConfig())
	b, tb := mustTask(t, b, "T", task.ProcessAdmin, 10, 2)
	b, other := mustTask(t, b, "Other", task.ProcessAdmin, 10, 2)
	thu := slot(task.Thursday, task.RowNotEveryWeek)
	b, p := mustPlace(t, b, FromTask(tb.ID), thu)
	b, alt := mustPlace(t, b, FromTask(other.ID), thu)
	b, _ = mustPlace(t, b, FromTask(tb.ID), slot(task.Monday, task.RowImportant))

	before := b.Snapshot()
	next, _, err := b.DeleteTask(tb.ID, false)
	assertRejected(t, b, before, next, err, task.ErrConfirmationRequired)

	next, out, err := b.DeleteTask(tb.ID, true)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := next.Task(tb.ID); ok {
		t.Error("task should be gone")
	}
	if len(next.ReferencingBlocks(tb.ID)) != 0 {
		t.Error("referencing blocks should be gone")
	}
	if len(out.Removed) != 2 {
		t.Errorf("removed = %v", out.Removed)
	}
	if out.Promoted == nil || out.Promoted.ID != alt.ID {
		t.Errorf("alternative of deleted primary %d should be promoted, got %+v", p.ID, out.Promoted)
	}
	mustValid(t, next)
}

func TestDeleteTask_WithoutBlocksNeedsNoConfirmation(t *testing.T) {
	b := NewBoard(DefaultConfig())
	b, tb := mustTask(t, b, "T", task.ProcessAdmin, 10, 2)
	next, _, err := b.DeleteTask(tb.ID, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(next.Tasks()) != 0 {
		t.Error("task should be deleted")
	}
}

func TestFromSnapshot(t *testing.T) {
	b := NewBoard(DefaultConfig())
	b, tb := mustTask(t, b, "T", task.ProcessAdmin, 10, 2)
	b, p := mustPlace(t, b, FromTask(tb.ID), slot(task.Monday, task.RowNotEveryWeek))
	b, _ = mustAlternative(t, b, p.ID, FromAdHoc("A", task.ProcessAdmin, 1))

	restored, err := FromSnapshot(DefaultConfig(), b.Snapshot())
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(restored.Snapshot(), b.Snapshot()) {
		t.Error("round trip changed the board")
	}
	_, created, err := restored.CreateTask("New", task.ProcessAdmin, 1, 0)
	if err != nil {
		t.Fatal(err)
	}
	if want := b.Snapshot().MaxID() + 1; created.ID != want {
		t.Errorf("new id = %d, want %d", created.ID, want)
	}

	empty, err := FromSnapshot(DefaultConfig(), nil)
	if err != nil || empty.Len() != 0 {
		t.Errorf("nil snapshot should give an empty board, got %v", err)
	}
}

func TestFromSnapshot_RejectsBrokenInvariants(t *testing.T) {
	tests := []struct {
		name string
		snap *task.Snapshot
	}{
		{
			name: "overdrawn budget",
			snap: &task.Snapshot{
				Tasks:  []task.TaskBlock{{ID: 1, Title: "T", Process: task.ProcessAdmin, TotalHours: 1}},
				Blocks: []task.ScheduleBlock{{ID: 2, TaskID: task.Ref(1), Title: "T", Process: task.ProcessAdmin, Hours: 2, Slot: slot(task.Monday, task.RowImportant)}},
			},
		},
		{
			name: "group split across slots",
			snap: &task.Snapshot{Blocks: []task.ScheduleBlock{
				{ID: 1, Title: "B", Process: task.ProcessAdmin, Hours: 1, Slot: slot(task.Monday, task.RowNotEveryWeek)},
				{ID: 2, Title: "B", Process: task.ProcessAdmin, Hours: 1, Slot: slot(task.Tuesday, task.RowNotEveryWeek), AlternativeGroupID: task.Ref(1)},
			}},
		},
		{
			name: "nested group",
			snap: &task.Snapshot{Blocks: []task.ScheduleBlock{
				{ID: 1, Title: "B", Process: task.ProcessAdmin, Hours: 1, Slot: slot(task.Monday, task.RowNotEveryWeek)},
				{ID: 2, Title: "B", Process: task.ProcessAdmin, Hours: 1, Slot: slot(task.Monday, task.RowNotEveryWeek), AlternativeGroupID: task.Ref(1)},
				{ID: 3, Title: "B", Process: task.ProcessAdmin, Hours: 1, Slot: slot(task.Monday, task.RowNotEveryWeek), AlternativeGroupID: task.Ref(2)},
			}},
		},
		{
			name: "self reference",
			snap: &task.Snapshot{Blocks: []task.ScheduleBlock{
				{ID: 1, Title: "B", Process: task.ProcessAdmin, Hours: 1, Slot: slot(task.Monday, task.RowNotEveryWeek), AlternativeGroupID: task.Ref(1)},
			}},
		},
		{
			name: "group outside NotEveryWeek",
			snap: &task.Snapshot{Blocks: []task.ScheduleBlock{
				{ID: 1, Title: "B", Process: task.ProcessAdmin, Hours: 1, Slot: slot(task.Monday, task.RowImportant)},
				{ID: 2, Title: "B", Process: task.ProcessAdmin, Hours: 1, Slot: slot(task.Monday, task.RowImportant), AlternativeGroupID: task.Ref(1)},
			}},
		},
		{
			name: "dangling task reference",
			snap: &task.Snapshot{Blocks: []task.ScheduleBlock{
				{ID: 1, TaskID: task.Ref(7), Title: "B", Process: task.ProcessAdmin, Hours: 1, Slot: slot(task.Monday, task.RowImportant)},
			}},
		},
		{
			name: "task without title",
			snap: &task.Snapshot{Tasks: []task.TaskBlock{{ID: 1, Title: "  ", Process: task.ProcessAdmin, TotalHours: 5}}},
		},
		{
			name: "task with unknown process",
			snap: &task.Snapshot{Tasks: []task.TaskBlock{{ID: 1, Title: "T", Process: "sales", TotalHours: 5}}},
		},
		{
			name: "task without budget",
			snap: &task.Snapshot{Tasks: []task.TaskBlock{{ID: 1, Title: "T", Process: task.ProcessAdmin, TotalHours: 0}}},
		},
		{
			name: "block without title",
			snap: &task.Snapshot{Blocks: []task.ScheduleBlock{
				{ID: 1, Process: task.ProcessAdmin, Hours: 1, Slot: slot(task.Monday, task.RowImportant)},
			}},
		},
		{
			name: "block with unknown process",
			snap: &task.Snapshot{Blocks: []task.ScheduleBlock{
				{ID: 1, Title: "B", Process: "bogus", Hours: 1, Slot: slot(task.Monday, task.RowImportant)},
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromSnapshot(DefaultConfig(), tt.snap)
			if !errors.Is(err, ErrInvariantViolation) {
				t.Errorf("expected ErrInvariantViolation, got %v", err)
			}
		})
	}
}

func TestSeed(t *testing.T) {
	b := Seed(DefaultConfig())
	if got := len(b.Tasks()); got != len(task.Processes()) {
		t.Errorf("seeded %d tasks, want one per process", got)
	}
	if b.Len() != 0 {
		t.Error("seed should not place blocks")
	}
	for _, tb := range b.Tasks() {
		if tb.SuggestedHours > DefaultBlockHours {
			t.Errorf("%q suggests %vh", tb.Title, tb.SuggestedHours)
		}
	}
	mustValid(t, b)
}

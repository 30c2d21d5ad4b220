package integration

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/javiermolinar/blockweek/internal/db"
	"github.com/javiermolinar/blockweek/internal/drag"
	"github.com/javiermolinar/blockweek/internal/engine"
	"github.com/javiermolinar/blockweek/internal/schedule"
	"github.com/javiermolinar/blockweek/internal/task"
)

// openEngine opens an engine over the SQLite database at path. Closing it
// again at cleanup is harmless.
func openEngine(t *testing.T, path string) *engine.Engine {
	t.Helper()
	repo, err := db.New(path)
	if err != nil {
		t.Fatalf("failed to open repo: %v", err)
	}
	return openEngineOn(t, repo)
}

func openEngineOn(t *testing.T, repo task.Repository) *engine.Engine {
	t.Helper()
	e, err := engine.Open(context.Background(), repo, engine.Options{Board: schedule.DefaultConfig()})
	if err != nil {
		t.Fatalf("failed to open engine: %v", err)
	}
	t.Cleanup(func() { _ = e.Close() })
	return e
}

func dbPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "test.db")
}

func slot(day task.Day, row task.Row) task.Slot {
	return task.Slot{Day: day, Row: row}
}

// createTask is a helper to create a task through the engine.
func createTask(t *testing.T, e *engine.Engine, title string, process task.Process, total, suggested float64) task.TaskBlock {
	t.Helper()
	tb, err := e.CreateTask(context.Background(), title, process, total, suggested)
	if err != nil {
		t.Fatalf("failed to create task: %v", err)
	}
	return tb
}

func place(t *testing.T, e *engine.Engine, src schedule.Source, s task.Slot) task.ScheduleBlock {
	t.Helper()
	out, err := e.Place(context.Background(), src, s)
	if err != nil {
		t.Fatalf("failed to place: %v", err)
	}
	return *out.Block
}

// sameWeek compares two snapshots. Timestamps compare as instants.
func sameWeek(t *testing.T, got, want *task.Snapshot) {
	t.Helper()
	if len(got.Tasks) != len(want.Tasks) {
		t.Fatalf("tasks: got %d, want %d", len(got.Tasks), len(want.Tasks))
	}
	for i := range want.Tasks {
		g, w := got.Tasks[i], want.Tasks[i]
		if !g.CreatedAt.Equal(w.CreatedAt) {
			t.Errorf("task #%d CreatedAt: got %v, want %v", w.ID, g.CreatedAt, w.CreatedAt)
		}
		g.CreatedAt, w.CreatedAt = time.Time{}, time.Time{}
		if g != w {
			t.Errorf("task %d: got %+v, want %+v", i, g, w)
		}
	}
	if (len(got.Blocks) > 0 || len(want.Blocks) > 0) && !reflect.DeepEqual(got.Blocks, want.Blocks) {
		t.Errorf("blocks:\n got %+v\nwant %+v", got.Blocks, want.Blocks)
	}
}

func TestWeekSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	path := dbPath(t)

	e := openEngine(t, path)
	docs := createTask(t, e, "Write docs", task.ProcessDevelopment, 6, 2)
	news := createTask(t, e, "Newsletter", task.ProcessMarketing, 4, 4)
	place(t, e, schedule.FromTask(docs.ID), slot(task.Monday, task.RowImportant))
	primary := place(t, e, schedule.FromTask(news.ID), slot(task.Friday, task.RowNotEveryWeek))
	if _, err := e.CreateAlternative(ctx, primary.ID, schedule.FromAdHoc("Conference", task.ProcessClientWork, 3)); err != nil {
		t.Fatalf("CreateAlternative: %v", err)
	}
	want := e.Snapshot()
	if err := e.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened := openEngine(t, path)
	sameWeek(t, reopened.Snapshot(), want)

	// The id sequence continues after the highest stored id.
	next := createTask(t, reopened, "Follow-up", task.ProcessAdmin, 1, 0)
	if next.ID != want.MaxID()+1 {
		t.Errorf("next id: got %d, want %d", next.ID, want.MaxID()+1)
	}
}

func TestEmptyWeekIsNotReseeded(t *testing.T) {
	ctx := context.Background()
	path := dbPath(t)

	repo, err := db.New(path)
	if err != nil {
		t.Fatal(err)
	}
	e, err := engine.Open(ctx, repo, engine.Options{Board: schedule.DefaultConfig(), Seed: true})
	if err != nil {
		t.Fatal(err)
	}
	seeded := len(e.Board().Tasks())
	if seeded == 0 {
		t.Fatal("expected sample tasks in a new database")
	}
	for _, tb := range e.Board().Tasks() {
		if _, err := e.DeleteTask(ctx, tb.ID, true); err != nil {
			t.Fatalf("DeleteTask: %v", err)
		}
	}
	_ = e.Close()

	repo, err = db.New(path)
	if err != nil {
		t.Fatal(err)
	}
	e, err = engine.Open(ctx, repo, engine.Options{Board: schedule.DefaultConfig(), Seed: true})
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = e.Close() }()
	if n := len(e.Board().Tasks()); n != 0 {
		t.Errorf("emptied week was reseeded with %d tasks", n)
	}
}

func TestPromotionPersists(t *testing.T) {
	ctx := context.Background()
	path := dbPath(t)

	e := openEngine(t, path)
	primary := place(t, e, schedule.FromAdHoc("Offsite", task.ProcessOperations, 4), slot(task.Wednesday, task.RowNotEveryWeek))
	var alts []int64
	for _, title := range []string{"Training", "Retro", "Hackday"} {
		out, err := e.CreateAlternative(ctx, primary.ID, schedule.FromAdHoc(title, task.ProcessOperations, 2))
		if err != nil {
			t.Fatalf("CreateAlternative(%s): %v", title, err)
		}
		alts = append(alts, out.Block.ID)
	}

	out, err := e.DeleteBlock(ctx, primary.ID)
	if err != nil {
		t.Fatalf("DeleteBlock: %v", err)
	}
	if out.Promoted == nil || out.Promoted.ID != alts[0] {
		t.Fatalf("promoted %+v, want #%d", out.Promoted, alts[0])
	}
	_ = e.Close()

	reopened := openEngine(t, path)
	b := reopened.Board()
	if b.Len() != 3 {
		t.Fatalf("blocks after promotion: got %d, want 3", b.Len())
	}
	got := b.Alternatives(alts[0])
	if len(got) != 2 || got[0].ID != alts[1] || got[1].ID != alts[2] {
		t.Errorf("alternatives of the new primary: %+v", got)
	}
}

func TestRejectedCommandIsNotPersisted(t *testing.T) {
	ctx := context.Background()
	path := dbPath(t)

	e := openEngine(t, path)
	tb := createTask(t, e, "Budgeted", task.ProcessAdmin, 2, 2)
	place(t, e, schedule.FromTask(tb.ID), slot(task.Tuesday, task.RowMustBeDone))
	before := e.Snapshot()

	_, err := e.Place(ctx, schedule.FromTask(tb.ID), slot(task.Thursday, task.RowMustBeDone))
	if !errors.Is(err, task.ErrNoBudget) {
		t.Fatalf("Place with exhausted budget: err = %v, want ErrNoBudget", err)
	}
	_ = e.Close()

	sameWeek(t, openEngine(t, path).Snapshot(), before)
}

func TestDebouncedSavesFlushOnClose(t *testing.T) {
	ctx := context.Background()
	path := dbPath(t)

	sqlite, err := db.New(path)
	if err != nil {
		t.Fatal(err)
	}
	repo := db.NewDebounced(sqlite, time.Hour, nil)
	e := openEngineOn(t, repo)
	for i := range 5 {
		createTask(t, e, "Task", task.ProcessDevelopment, float64(i+1), 0)
	}
	if !repo.Pending() {
		t.Fatal("expected pending snapshot before close")
	}
	want := e.Snapshot()
	if err := e.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	check, err := db.New(path)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = check.Close() }()
	got, err := check.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	sameWeek(t, got, want)
}

func TestBackendsAgree(t *testing.T) {
	dir := t.TempDir()
	jsonRepo, err := db.NewJSONFile(filepath.Join(dir, "week.json"))
	if err != nil {
		t.Fatal(err)
	}
	sqliteRepo, err := db.New(filepath.Join(dir, "week.db"))
	if err != nil {
		t.Fatal(err)
	}

	var snaps []*task.Snapshot
	for _, repo := range []task.Repository{jsonRepo, sqliteRepo} {
		e := openEngineOn(t, repo)
		tb := createTask(t, e, "Sales calls", task.ProcessClientWork, 5, 2)
		p := place(t, e, schedule.FromTask(tb.ID), slot(task.Thursday, task.RowNotEveryWeek))
		if _, err := e.CreateAlternative(context.Background(), p.ID, schedule.FromTask(tb.ID)); err != nil {
			t.Fatal(err)
		}
		snap, err := repo.Load(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		for i := range snap.Tasks {
			snap.Tasks[i].CreatedAt = time.Time{}
		}
		snaps = append(snaps, snap)
	}
	sameWeek(t, snaps[0], snaps[1])
}

func TestFullWorkflow(t *testing.T) {
	ctx := context.Background()
	path := dbPath(t)
	e := openEngine(t, path)

	// Budget a task and spread it over the week.
	dev := createTask(t, e, "Feature work", task.ProcessDevelopment, 8, 3)
	b1 := place(t, e, schedule.FromTask(dev.ID), slot(task.Monday, task.RowImportant))
	b2 := place(t, e, schedule.FromTask(dev.ID), slot(task.Tuesday, task.RowImportant))
	b3 := place(t, e, schedule.FromTask(dev.ID), slot(task.Wednesday, task.RowImportant))
	if b3.Hours != 2 {
		t.Errorf("third placement claims what remains: got %vh, want 2h", b3.Hours)
	}
	if _, err := e.Place(ctx, schedule.FromTask(dev.ID), slot(task.Thursday, task.RowImportant)); !errors.Is(err, task.ErrNoBudget) {
		t.Errorf("fourth placement: err = %v, want ErrNoBudget", err)
	}

	// Drag the Tuesday block to Thursday.
	payload := drag.BlockPayload(b2.ID).String()
	target := drag.CellTarget(slot(task.Thursday, task.RowImportant)).String()
	cmd, _, err := e.Gesture(ctx, payload, target)
	if err != nil || cmd.Kind != drag.Move {
		t.Fatalf("gesture: %v, %v", cmd, err)
	}

	// Giving hours back lets the task be placed again.
	if _, err := e.EditHours(ctx, b1.ID, 1, schedule.ResolveUnset); err != nil {
		t.Fatalf("EditHours: %v", err)
	}
	b4 := place(t, e, schedule.FromTask(dev.ID), slot(task.Friday, task.RowMustBeDone))
	if b4.Hours != 2 {
		t.Errorf("placement after shrinking: got %vh, want 2h", b4.Hours)
	}

	r := e.Report()
	if r.ProcessHours(task.ProcessDevelopment) != 8 {
		t.Errorf("development hours: got %v, want 8", r.ProcessHours(task.ProcessDevelopment))
	}
	if r.RowTotals[task.RowImportant] != 6 {
		t.Errorf("important row: got %v, want 6", r.RowTotals[task.RowImportant])
	}
	_ = e.Close()

	reopened := openEngine(t, path)
	if got := reopened.Report(); !reflect.DeepEqual(got, r) {
		t.Errorf("report after restart:\n got %+v\nwant %+v", got, r)
	}
	if moved, ok := reopened.Board().Block(b2.ID); !ok || moved.Slot != slot(task.Thursday, task.RowImportant) {
		t.Errorf("moved block after restart: %+v", moved)
	}
}

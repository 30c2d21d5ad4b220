package ui

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/javiermolinar/blockweek/internal/config"
	"github.com/javiermolinar/blockweek/internal/db"
	"github.com/javiermolinar/blockweek/internal/task"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Storage.Backend = db.BackendMemory
	cfg.Storage.DBPath = ""
	cfg.Storage.JSONPath = ""
	cfg.Schedule.SeedDefaults = false
	return cfg
}

// run executes one command line against repo with a fresh App, the way
// separate invocations of the binary share storage.
func run(t *testing.T, repo task.Repository, cfg *config.Config, args ...string) (string, error) {
	t.Helper()
	DisableColor()

	app := NewApp(repo, cfg)
	var out bytes.Buffer
	app.root.SetOut(&out)
	app.root.SetErr(&out)
	app.root.SetArgs(args)
	err := app.Execute()
	if cerr := app.Close(); cerr != nil {
		t.Fatalf("Close: %v", cerr)
	}
	return out.String(), err
}

func mustRun(t *testing.T, repo task.Repository, cfg *config.Config, args ...string) string {
	t.Helper()
	out, err := run(t, repo, cfg, args...)
	if err != nil {
		t.Fatalf("%v: %v\n%s", args, err, out)
	}
	return out
}

func TestVersion(t *testing.T) {
	out := mustRun(t, db.NewMemory(nil), testConfig(t), "version")
	if !strings.HasPrefix(out, "blockweek dev") {
		t.Errorf("version output = %q", out)
	}
}

func TestTaskLifecycle(t *testing.T) {
	repo := db.NewMemory(nil)
	cfg := testConfig(t)

	out := mustRun(t, repo, cfg, "task", "add", "Write docs", "--process=development", "--hours=6", "--suggested=2")
	if !strings.Contains(out, "Created task #1 Write docs [Development] 6h (2h per placement)") {
		t.Errorf("task add output = %q", out)
	}

	out = mustRun(t, repo, cfg, "place", "--task=1", "Mon/important")
	if !strings.Contains(out, "Placed #2 Write docs 2h at Mon/important") {
		t.Errorf("place output = %q", out)
	}

	out = mustRun(t, repo, cfg, "task", "list")
	if !strings.Contains(out, "#1") || !strings.Contains(out, "4/6h") {
		t.Errorf("task list output = %q", out)
	}

	mustRun(t, repo, cfg, "task", "set-hours", "1", "8")
	snap, _ := repo.Load(context.Background())
	if snap.Tasks[0].TotalHours != 8 {
		t.Errorf("TotalHours = %v, want 8", snap.Tasks[0].TotalHours)
	}

	_, err := run(t, repo, cfg, "task", "set-hours", "1", "1")
	if !errors.Is(err, task.ErrBudgetViolation) {
		t.Errorf("set-hours below placed: err = %v, want ErrBudgetViolation", err)
	}

	_, err = run(t, repo, cfg, "task", "rm", "1")
	if err == nil || !strings.Contains(err.Error(), "--yes") {
		t.Fatalf("task rm without --yes: err = %v", err)
	}

	out = mustRun(t, repo, cfg, "task", "rm", "#1", "--yes")
	if !strings.Contains(out, "Removed #2") {
		t.Errorf("task rm output = %q", out)
	}
	snap, _ = repo.Load(context.Background())
	if len(snap.Tasks) != 0 || len(snap.Blocks) != 0 {
		t.Errorf("after rm: %d tasks, %d blocks", len(snap.Tasks), len(snap.Blocks))
	}
}

func TestTaskAdd_Validation(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown process", []string{"task", "add", "x", "--process=sales", "--hours=2"}},
		{"missing hours", []string{"task", "add", "x", "--process=admin"}},
		{"zero hours", []string{"task", "add", "x", "--process=admin", "--hours=0"}},
		{"blank title", []string{"task", "add", "  ", "--process=admin", "--hours=2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := run(t, db.NewMemory(nil), testConfig(t), tt.args...); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestAlternativesAndPromotion(t *testing.T) {
	repo := db.NewMemory(nil)
	cfg := testConfig(t)

	mustRun(t, repo, cfg, "task", "add", "Newsletter", "--process=marketing", "--hours=4", "--suggested=4")
	mustRun(t, repo, cfg, "task", "add", "Workshop", "--process=clientwork", "--hours=3", "--suggested=3")
	mustRun(t, repo, cfg, "place", "--task=1", "Fri/noteveryweek")

	out := mustRun(t, repo, cfg, "alt", "3", "--task=2")
	if !strings.Contains(out, "↳ #4 Workshop 3h at Fri/noteveryweek") {
		t.Errorf("alt output = %q", out)
	}

	out = mustRun(t, repo, cfg, "week")
	if !strings.Contains(out, "#3 News") || !strings.Contains(out, "↳ #4 Work") {
		t.Errorf("week output misses the group:\n%s", out)
	}

	_, err := run(t, repo, cfg, "move", "3", "Mon/must")
	if !errors.Is(err, task.ErrGroupNotEmpty) {
		t.Errorf("moving a primary: err = %v, want ErrGroupNotEmpty", err)
	}

	out = mustRun(t, repo, cfg, "rm", "3")
	if !strings.Contains(out, "Promoted #4 Workshop 3h to primary") {
		t.Errorf("rm output = %q", out)
	}
}

func TestPlace_AdHocAndFlags(t *testing.T) {
	repo := db.NewMemory(nil)
	cfg := testConfig(t)

	out := mustRun(t, repo, cfg, "place", "--title=Standup", "--process=operations", "--hours=1", "tue/2")
	if !strings.Contains(out, "Placed #1 Standup 1h at Tue/must") {
		t.Errorf("place output = %q", out)
	}

	for _, args := range [][]string{
		{"place", "Mon/important"},
		{"place", "--task=1", "--title=x", "Mon/important"},
		{"place", "--task=1", "Sat/important"},
		{"move", "1"},
		{"move", "1", "Mon/must", "--onto=2"},
		{"edit", "1", "2", "--cascade", "--keep"},
	} {
		if _, err := run(t, repo, cfg, args...); err == nil {
			t.Errorf("%v: expected error", args)
		}
	}
}

func TestEdit_NeedsResolution(t *testing.T) {
	repo := db.NewMemory(nil)
	cfg := testConfig(t)

	mustRun(t, repo, cfg, "place", "--title=Primary", "--hours=4", "Wed/noteveryweek")
	mustRun(t, repo, cfg, "place", "--title=Other", "--hours=3", "Thu/noteveryweek")
	mustRun(t, repo, cfg, "move", "2", "--onto=1")

	_, err := run(t, repo, cfg, "edit", "1", "2")
	if !errors.Is(err, task.ErrResolutionRequired) {
		t.Fatalf("edit without resolution: err = %v", err)
	}

	mustRun(t, repo, cfg, "edit", "1", "2", "--cascade")
	snap, _ := repo.Load(context.Background())
	for _, blk := range snap.Blocks {
		if blk.Hours != 2 {
			t.Errorf("block #%d has %vh after cascade, want 2", blk.ID, blk.Hours)
		}
	}
}

func TestDrop(t *testing.T) {
	repo := db.NewMemory(nil)
	cfg := testConfig(t)

	mustRun(t, repo, cfg, "task", "add", "Review", "--process=admin", "--hours=2")
	out := mustRun(t, repo, cfg, "drop", "task:1", "cell:Mon/must")
	if !strings.Contains(out, "place #2 Review 2h at Mon/must") {
		t.Errorf("drop output = %q", out)
	}

	saves := repo.Saves()
	out = mustRun(t, repo, cfg, "drop", "block:2", "Mon/must")
	if !strings.Contains(out, "move #2 Review 2h at Mon/must") {
		t.Errorf("same slot drop output = %q", out)
	}
	if repo.Saves() != saves {
		t.Errorf("same slot drop saved the board")
	}

	_, err := run(t, repo, cfg, "drop", "nonsense", "Mon/must")
	if !errors.Is(err, task.ErrMalformedPayload) {
		t.Errorf("malformed payload: err = %v", err)
	}
}

func TestReport(t *testing.T) {
	repo := db.NewMemory(nil)
	cfg := testConfig(t)
	cfg.Schedule.ImportantCapHours = 4

	mustRun(t, repo, cfg, "place", "--title=Deep work", "--process=development", "--hours=5", "Mon/important")
	out := mustRun(t, repo, cfg, "report")
	for _, want := range []string{"Week totals", "Development", "5h", "Warnings", "Mon: cap exceeded: 5/4h"} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}

func TestParseID(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"4", 4, false},
		{"#12", 12, false},
		{"0", 0, true},
		{"-1", 0, true},
		{"abc", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := parseID(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("parseID(%q) = %d, %v", tt.in, got, err)
		}
	}
}

func TestRoot_PrintsWeekWithoutTerminal(t *testing.T) {
	DisableColor()
	repo := db.NewMemory(nil)
	cfg := testConfig(t)
	mustRun(t, repo, cfg, "place", "--title=Standup", "--hours=1", "Tue/must")

	app := NewApp(repo, cfg)
	app.isInteractive = func() bool { return false }
	var out bytes.Buffer
	app.root.SetOut(&out)
	app.root.SetArgs([]string{})
	if err := app.Execute(); err != nil {
		t.Fatal(err)
	}
	if err := app.Close(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "#1 Standup") || !strings.Contains(out.String(), "Week: 1h") {
		t.Errorf("root output:\n%s", out.String())
	}
}

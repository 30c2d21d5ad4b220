// Package engine is the store that hosts talk to. It owns the current
// schedule board, applies commands to it, persists every accepted change and
// notifies subscribers with the new snapshot and its report.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/javiermolinar/blockweek/internal/drag"
	"github.com/javiermolinar/blockweek/internal/schedule"
	"github.com/javiermolinar/blockweek/internal/summary"
	"github.com/javiermolinar/blockweek/internal/task"
)

// Update is sent to subscribers after every accepted change.
type Update struct {
	Command         string
	Snapshot        *task.Snapshot
	Report          *summary.Report
	Warnings        []string
	Inconsistencies []schedule.Inconsistency
}

// Options configures an Engine.
type Options struct {
	Board  schedule.Config
	Seed   bool // seed sample tasks when storage is empty
	Logger *slog.Logger
}

// Engine serializes commands against one board. It is safe for concurrent
// use, though hosts normally drive it from a single goroutine.
type Engine struct {
	repo   task.Repository
	logger *slog.Logger

	mu     sync.Mutex
	board  *schedule.Board
	drag   *drag.Interpreter
	subs   map[int]func(Update)
	nextID int
}

// Open loads the stored snapshot into a new engine. Empty storage yields an
// empty board, seeded when opts.Seed is set. A stored snapshot that breaks
// the board invariants is an error.
func Open(ctx context.Context, repo task.Repository, opts Options) (*Engine, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	snap, err := repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading snapshot: %w", err)
	}

	var board *schedule.Board
	switch {
	case snap != nil:
		board, err = schedule.FromSnapshot(opts.Board, snap)
		if err != nil {
			return nil, err
		}
	case opts.Seed:
		board = schedule.Seed(opts.Board)
		logger.Info("seeded empty storage", "tasks", len(board.Tasks()))
	default:
		board = schedule.NewBoard(opts.Board)
	}

	logger.Debug("engine opened", "tasks", len(board.Tasks()), "blocks", board.Len())
	return &Engine{
		repo:   repo,
		logger: logger,
		board:  board,
		drag:   drag.New(),
		subs:   make(map[int]func(Update)),
	}, nil
}

// Close flushes and closes the repository.
func (e *Engine) Close() error {
	return e.repo.Close()
}

// Subscribe registers fn to receive updates. The returned func unsubscribes.
// fn is called synchronously after the change is committed and must not
// call back into the engine's commands.
func (e *Engine) Subscribe(fn func(Update)) func() {
	e.mu.Lock()
	defer e.mu.Unlock()
	id := e.nextID
	e.nextID++
	e.subs[id] = fn
	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		delete(e.subs, id)
	}
}

// Board returns the current board. Boards are immutable, so the caller can
// keep and query it freely.
func (e *Engine) Board() *schedule.Board {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.board
}

// Snapshot returns a copy of the current state.
func (e *Engine) Snapshot() *task.Snapshot {
	return e.Board().Snapshot()
}

// Report returns the totals of the current state.
func (e *Engine) Report() *summary.Report {
	b := e.Board()
	return summary.Summarize(b.Snapshot(), summary.Options{ImportantCapHours: b.Config().ImportantCapHours})
}

// DraggableTasks returns the tasks that can still be placed.
func (e *Engine) DraggableTasks() []schedule.TaskSummary {
	return e.Board().DraggableTasks()
}

type command func(*schedule.Board) (*schedule.Board, schedule.Outcome, error)

// run applies cmd to the current board. A rejected command changes nothing.
// An accepted command that returns the same board is a no-op and is not
// persisted. Otherwise the new snapshot is saved before it becomes current,
// so a failed save also leaves the engine untouched.
func (e *Engine) run(ctx context.Context, name string, cmd command) (schedule.Outcome, error) {
	start := time.Now()

	e.mu.Lock()
	cur := e.board
	next, out, err := cmd(cur)
	if err != nil {
		e.mu.Unlock()
		e.logger.Info("command rejected", "command", name, "error", err)
		return schedule.Outcome{}, err
	}
	if next == cur {
		e.mu.Unlock()
		e.logger.Debug("command", "command", name, "changed", false)
		return out, nil
	}

	snap := next.Snapshot()
	if err := e.repo.Save(ctx, snap); err != nil {
		e.mu.Unlock()
		e.logger.Error("saving snapshot failed", "command", name, "error", err)
		return schedule.Outcome{}, fmt.Errorf("saving snapshot: %w", err)
	}
	e.board = next

	upd := Update{
		Command:         name,
		Snapshot:        snap,
		Report:          summary.Summarize(snap, summary.Options{ImportantCapHours: next.Config().ImportantCapHours}),
		Warnings:        out.Warnings,
		Inconsistencies: out.Inconsistencies,
	}
	subs := make([]func(Update), 0, len(e.subs))
	for _, fn := range e.subs {
		subs = append(subs, fn)
	}
	e.mu.Unlock()

	for _, fn := range subs {
		fn(upd)
	}

	e.logger.Debug("command",
		"command", name,
		"changed", true,
		"warnings", len(out.Warnings),
		"duration_ms", time.Since(start).Milliseconds())
	for _, w := range out.Warnings {
		e.logger.Warn("command warning", "command", name, "warning", w)
	}
	return out, nil
}

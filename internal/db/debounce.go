package db

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/javiermolinar/blockweek/internal/task"
)

// Debounced coalesces bursts of saves into one write to the underlying
// repository. The latest snapshot always wins: a save issued during a
// burst replaces the pending one, and Flush or Close writes whatever is
// still pending.
type Debounced struct {
	repo   task.Repository
	delay  time.Duration
	logger *slog.Logger

	saveMu sync.Mutex // serializes writes to repo

	mu      sync.Mutex
	pending *task.Snapshot
	timer   *time.Timer
	lastErr error
}

// NewDebounced wraps repo. A delay <= 0 makes every Save synchronous.
func NewDebounced(repo task.Repository, delay time.Duration, logger *slog.Logger) *Debounced {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Debounced{repo: repo, delay: delay, logger: logger}
}

// Load returns the pending snapshot if there is one, else the stored one.
func (d *Debounced) Load(ctx context.Context) (*task.Snapshot, error) {
	d.mu.Lock()
	pending := d.pending.Clone()
	d.mu.Unlock()
	if pending != nil {
		return pending, nil
	}
	return d.repo.Load(ctx)
}

// Save schedules snap to be written after the debounce delay.
func (d *Debounced) Save(ctx context.Context, snap *task.Snapshot) error {
	if d.delay <= 0 {
		d.saveMu.Lock()
		defer d.saveMu.Unlock()
		return d.repo.Save(ctx, snap)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.pending = snap.Clone()
	if d.pending == nil {
		d.pending = &task.Snapshot{}
	}
	if d.timer == nil {
		d.timer = time.AfterFunc(d.delay, d.flushAsync)
	} else {
		d.timer.Reset(d.delay)
	}
	return nil
}

func (d *Debounced) flushAsync() {
	if err := d.Flush(context.Background()); err != nil {
		d.logger.Error("debounced save failed", "error", err)
	}
}

// Flush writes the pending snapshot now.
func (d *Debounced) Flush(ctx context.Context) error {
	d.saveMu.Lock()
	defer d.saveMu.Unlock()

	d.mu.Lock()
	snap := d.pending
	d.pending = nil
	if d.timer != nil {
		d.timer.Stop()
	}
	d.mu.Unlock()

	if snap == nil {
		return nil
	}
	start := time.Now()
	if err := d.repo.Save(ctx, snap); err != nil {
		d.mu.Lock()
		if d.pending == nil {
			d.pending = snap // retried on the next flush
		}
		d.lastErr = err
		d.mu.Unlock()
		return fmt.Errorf("saving snapshot: %w", err)
	}

	d.mu.Lock()
	d.lastErr = nil
	d.mu.Unlock()
	d.logger.Debug("snapshot saved",
		"tasks", len(snap.Tasks),
		"blocks", len(snap.Blocks),
		"duration", time.Since(start))
	return nil
}

// Pending returns true if a snapshot is waiting to be written.
func (d *Debounced) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending != nil
}

// Err returns the error of the last failed background write, if the
// snapshot has not been written since.
func (d *Debounced) Err() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastErr
}

// Close flushes and closes the underlying repository.
func (d *Debounced) Close() error {
	flushErr := d.Flush(context.Background())
	closeErr := d.repo.Close()
	if flushErr != nil {
		return flushErr
	}
	return closeErr
}

package db

import (
	"context"
	"sync"

	"github.com/javiermolinar/blockweek/internal/task"
)

// Memory keeps the snapshot in process memory. It backs tests and the
// "memory" storage backend.
type Memory struct {
	mu    sync.RWMutex
	snap  *task.Snapshot
	saves int
}

// NewMemory creates an empty in-memory repository. A non-nil snapshot is
// returned by the first Load.
func NewMemory(initial *task.Snapshot) *Memory {
	return &Memory{snap: initial.Clone()}
}

// Load returns a copy of the last saved snapshot.
func (m *Memory) Load(ctx context.Context) (*task.Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snap.Clone(), nil
}

// Save stores a copy of snap.
func (m *Memory) Save(ctx context.Context, snap *task.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if snap == nil {
		snap = &task.Snapshot{}
	}
	m.snap = snap.Clone()
	m.saves++
	return nil
}

// Saves returns how many times Save succeeded.
func (m *Memory) Saves() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.saves
}

// Close does nothing.
func (m *Memory) Close() error {
	return nil
}

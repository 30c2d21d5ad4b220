package task

import "context"

// Repository defines the storage interface for snapshots.
// The engine is agnostic to the backing technology.
type Repository interface {
	// Load returns the last saved snapshot, or nil if nothing was saved yet.
	Load(ctx context.Context) (*Snapshot, error)

	// Save replaces the stored snapshot. The latest call wins.
	Save(ctx context.Context, snap *Snapshot) error

	// Close releases any resources held by the repository.
	Close() error
}

package db

import (
	"fmt"

	"github.com/javiermolinar/blockweek/internal/task"
)

// Storage backends.
const (
	BackendSQLite = "sqlite"
	BackendJSON   = "json"
	BackendMemory = "memory"
)

// Options selects and locates a storage backend.
type Options struct {
	Backend  string
	DBPath   string
	JSONPath string
}

// Open returns the repository for the configured backend.
func Open(opts Options) (task.Repository, error) {
	switch opts.Backend {
	case BackendSQLite, "":
		return New(opts.DBPath)
	case BackendJSON:
		return NewFile(opts.JSONPath)
	case BackendMemory:
		return NewMemory(nil), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", opts.Backend)
	}
}

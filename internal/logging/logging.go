// Package logging builds the application logger.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// DebugLogPath is the fixed path of the --debug log, easy to find next to
// where the command was run.
const DebugLogPath = "blockweek-debug.log"

// RunKey is the attribute that tags every record with the id of the
// invocation that wrote it.
const RunKey = "run_id"

// Options configures the logger.
type Options struct {
	Level string // "debug", "info", "warn", "error"
	File  string // append text logs here; empty discards them
	Debug bool   // JSON lines at debug level to DebugLogPath, overrides File
}

// New returns a logger and the closer of its output file. The closer is a
// no-op when nothing was opened. Records carry a fresh RunKey so appended
// logs from separate invocations can be told apart.
func New(opts Options) (*slog.Logger, io.Closer, error) {
	if opts.Debug {
		f, err := os.Create(DebugLogPath)
		if err != nil {
			return nil, nil, fmt.Errorf("creating debug log: %w", err)
		}
		h := slog.NewJSONHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug})
		return slog.New(h).With(RunKey, uuid.NewString()), f, nil
	}

	if opts.File == "" {
		return Discard(), nopCloser{}, nil
	}

	if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
		return nil, nil, fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	h := slog.NewTextHandler(f, &slog.HandlerOptions{Level: ParseLevel(opts.Level)})
	return slog.New(h).With(RunKey, uuid.NewString()), f, nil
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// ParseLevel maps a level name to a slog level. Unknown names mean info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Package db provides the storage backends for schedule snapshots.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/javiermolinar/blockweek/internal/task"
)

// SQLite implements task.Repository using SQLite.
// Every Save replaces the stored snapshot inside one transaction.
type SQLite struct {
	db *sql.DB
}

// New creates a new SQLite repository and runs migrations.
func New(path string) (*SQLite, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	for _, pragma := range []string{"PRAGMA journal_mode=WAL;", "PRAGMA foreign_keys=ON;"} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("setting %q: %w", pragma, err)
		}
	}
	// One writer; also keeps an in-memory database on a single connection.
	db.SetMaxOpenConns(1)

	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Load returns the stored snapshot, or nil if nothing was ever saved.
func (s *SQLite) Load(ctx context.Context) (*task.Snapshot, error) {
	var savedAt string
	err := s.db.QueryRowContext(ctx, `SELECT saved_at FROM snapshot_meta WHERE id = 1`).Scan(&savedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying snapshot meta: %w", err)
	}

	tasks, err := s.loadTasks(ctx)
	if err != nil {
		return nil, err
	}
	blocks, err := s.loadBlocks(ctx)
	if err != nil {
		return nil, err
	}
	return &task.Snapshot{Tasks: tasks, Blocks: blocks}, nil
}

func (s *SQLite) loadTasks(ctx context.Context) ([]task.TaskBlock, error) {
	query := `
		SELECT id, title, process, total_hours, suggested_hours, created_at
		FROM task_blocks
		ORDER BY id
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying task blocks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var tasks []task.TaskBlock
	for rows.Next() {
		var (
			t         task.TaskBlock
			process   string
			createdAt sql.NullString
		)
		if err := rows.Scan(&t.ID, &t.Title, &process, &t.TotalHours, &t.SuggestedHours, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning task block: %w", err)
		}
		t.Process = task.Process(process)
		if createdAt.Valid {
			t.CreatedAt, err = parseTimestamp(createdAt.String)
			if err != nil {
				return nil, fmt.Errorf("parsing created_at of task #%d: %w", t.ID, err)
			}
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating task blocks: %w", err)
	}
	return tasks, nil
}

func (s *SQLite) loadBlocks(ctx context.Context) ([]task.ScheduleBlock, error) {
	query := `
		SELECT id, task_id, title, hours, process, slot_day, slot_row, alternative_group_id
		FROM schedule_blocks
		ORDER BY id
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying schedule blocks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var blocks []task.ScheduleBlock
	for rows.Next() {
		var (
			b             task.ScheduleBlock
			process       string
			taskID, altID sql.NullInt64
			day, row      int
		)
		if err := rows.Scan(&b.ID, &taskID, &b.Title, &b.Hours, &process, &day, &row, &altID); err != nil {
			return nil, fmt.Errorf("scanning schedule block: %w", err)
		}
		b.Process = task.Process(process)
		b.Slot = task.Slot{Day: task.Day(day), Row: task.Row(row)}
		if taskID.Valid {
			b.TaskID = task.Ref(taskID.Int64)
		}
		if altID.Valid {
			b.AlternativeGroupID = task.Ref(altID.Int64)
		}
		blocks = append(blocks, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating schedule blocks: %w", err)
	}
	return blocks, nil
}

// Save replaces the stored snapshot.
func (s *SQLite) Save(ctx context.Context, snap *task.Snapshot) error {
	if snap == nil {
		snap = &task.Snapshot{}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"schedule_blocks", "task_blocks"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}

	if err := insertTasks(ctx, tx, snap.Tasks); err != nil {
		return err
	}
	if err := insertBlocks(ctx, tx, snap.Blocks); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO snapshot_meta (id, saved_at) VALUES (1, ?)
		ON CONFLICT(id) DO UPDATE SET saved_at = excluded.saved_at
	`, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("updating snapshot meta: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func insertTasks(ctx context.Context, tx *sql.Tx, tasks []task.TaskBlock) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO task_blocks (id, title, process, total_hours, suggested_hours, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing task insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, t := range tasks {
		var createdAt any
		if !t.CreatedAt.IsZero() {
			createdAt = t.CreatedAt.UTC().Format(time.RFC3339Nano)
		}
		if _, err := stmt.ExecContext(ctx, t.ID, t.Title, string(t.Process), t.TotalHours, t.SuggestedHours, createdAt); err != nil {
			return fmt.Errorf("inserting task #%d: %w", t.ID, err)
		}
	}
	return nil
}

func insertBlocks(ctx context.Context, tx *sql.Tx, blocks []task.ScheduleBlock) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO schedule_blocks (id, task_id, title, hours, process, slot_day, slot_row, alternative_group_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing block insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, b := range blocks {
		_, err := stmt.ExecContext(ctx, b.ID, nullID(b.TaskID), b.Title, b.Hours, string(b.Process),
			int(b.Slot.Day), int(b.Slot.Row), nullID(b.AlternativeGroupID))
		if err != nil {
			return fmt.Errorf("inserting block #%d: %w", b.ID, err)
		}
	}
	return nil
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

func nullID(id *int64) sql.NullInt64 {
	if id == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *id, Valid: true}
}

// parseTimestamp accepts the RFC 3339 form written by Save and the
// "YYYY-MM-DD HH:MM:SS" form of CURRENT_TIMESTAMP.
func parseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	return time.Parse(time.DateTime, s)
}

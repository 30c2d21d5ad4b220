package db

import "fmt"

// migrate runs database migrations.
func (s *SQLite) migrate() error {
	query := `
		CREATE TABLE IF NOT EXISTS task_blocks (
			id              INTEGER PRIMARY KEY,
			title           TEXT NOT NULL,
			process         TEXT NOT NULL CHECK(process IN ('marketing', 'development', 'clientwork', 'operations', 'admin')),
			total_hours     REAL NOT NULL CHECK(total_hours > 0),
			suggested_hours REAL NOT NULL,
			created_at      DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS schedule_blocks (
			id                   INTEGER PRIMARY KEY,
			task_id              INTEGER REFERENCES task_blocks(id),
			title                TEXT NOT NULL,
			hours                REAL NOT NULL CHECK(hours > 0),
			process              TEXT NOT NULL,
			slot_day             INTEGER NOT NULL CHECK(slot_day BETWEEN 0 AND 4),
			slot_row             INTEGER NOT NULL CHECK(slot_row BETWEEN 0 AND 2),
			alternative_group_id INTEGER
		);

		CREATE INDEX IF NOT EXISTS idx_schedule_blocks_task ON schedule_blocks(task_id);
		CREATE INDEX IF NOT EXISTS idx_schedule_blocks_slot ON schedule_blocks(slot_day, slot_row);

		CREATE TABLE IF NOT EXISTS snapshot_meta (
			id       INTEGER PRIMARY KEY CHECK(id = 1),
			saved_at DATETIME NOT NULL
		);
	`

	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("creating schedule tables: %w", err)
	}

	return nil
}

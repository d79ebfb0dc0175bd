package storage

import "database/sql"

// migrateV001 creates the initial lectern schema: all tables and indexes.
// Every statement uses IF NOT EXISTS for idempotency.
func migrateV001(tx *sql.Tx) error {
	stmts := []string{
		// ── Tables ──────────────────────────────────────────────

		`CREATE TABLE IF NOT EXISTS reads (
			id         TEXT PRIMARY KEY,
			path       TEXT NOT NULL,
			title      TEXT NOT NULL DEFAULT '',
			category   TEXT NOT NULL DEFAULT '',
			ts         DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			seconds    INTEGER NOT NULL DEFAULT 0,
			source     TEXT NOT NULL DEFAULT 'cli',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS documents (
			path          TEXT PRIMARY KEY,
			title         TEXT NOT NULL DEFAULT '',
			category      TEXT NOT NULL DEFAULT '',
			first_read_at DATETIME NOT NULL,
			last_read_at  DATETIME NOT NULL,
			total_seconds INTEGER NOT NULL DEFAULT 0,
			read_count    INTEGER NOT NULL DEFAULT 0
		)`,

		`CREATE TABLE IF NOT EXISTS todos (
			id       INTEGER PRIMARY KEY AUTOINCREMENT,
			path     TEXT NOT NULL,
			title    TEXT NOT NULL DEFAULT '',
			added_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			done     BOOLEAN NOT NULL DEFAULT 0,
			done_at  DATETIME
		)`,

		`CREATE TABLE IF NOT EXISTS achievements (
			id          TEXT PRIMARY KEY,
			unlocked_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS settings (
			key        TEXT PRIMARY KEY,
			value      TEXT NOT NULL,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		// ── Indexes ────────────────────────────────────────────

		`CREATE INDEX IF NOT EXISTS idx_reads_ts          ON reads(ts)`,
		`CREATE INDEX IF NOT EXISTS idx_reads_path        ON reads(path)`,
		`CREATE INDEX IF NOT EXISTS idx_reads_category    ON reads(category)`,
		`CREATE INDEX IF NOT EXISTS idx_reads_ts_category ON reads(ts, category)`,
		`CREATE INDEX IF NOT EXISTS idx_documents_category ON documents(category)`,
		`CREATE INDEX IF NOT EXISTS idx_todos_done        ON todos(done)`,
	}

	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return err
		}
	}

	return nil
}

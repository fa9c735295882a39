package tracestore

// schema contains the DDL for the trace database. Each statement uses IF
// NOT EXISTS for idempotency, so Migrate is safe to call on every startup.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS runs (
		id         TEXT PRIMARY KEY,
		scenario   TEXT NOT NULL DEFAULT '',
		started_at TEXT NOT NULL,
		ended_at   TEXT
	)`,

	`CREATE TABLE IF NOT EXISTS ticks (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id     TEXT NOT NULL,
		seq        INTEGER NOT NULL,
		now        TEXT NOT NULL,
		delta_ns   INTEGER NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS events (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id       TEXT NOT NULL,
		tick_seq     INTEGER NOT NULL,
		generator_id TEXT NOT NULL,
		name         TEXT NOT NULL DEFAULT '',
		kind         TEXT NOT NULL,
		detail       TEXT NOT NULL DEFAULT '',
		recorded_at  TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_ticks_run_id ON ticks(run_id)`,
	`CREATE INDEX IF NOT EXISTS idx_events_run_id ON events(run_id)`,
	`CREATE INDEX IF NOT EXISTS idx_events_generator_id ON events(generator_id)`,
}

func migrateStatements() []string {
	return schema
}

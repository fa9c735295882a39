// Package tracestore persists a SQLite-backed record of a Kernel run: one
// row per tick, plus caller-supplied lifecycle events, so a scenario run
// can be replayed or inspected after the fact.
package tracestore

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cschladetsch/asyncflow-go/timeframe"
)

// Store persists tick and event records for one or more runs to SQLite.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath. Use
// ":memory:" for an ephemeral store, e.g. in tests.
func NewSQLiteStore(dbPath string, logger *slog.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("tracestore: open sqlite %s: %w", dbPath, err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("tracestore: pragma wal: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("tracestore: pragma fk: %w", err)
	}

	return &Store{db: db, logger: logger.With("component", "tracestore")}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Migrate creates every table and index the store needs, idempotently.
func (s *Store) Migrate(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("tracestore: begin migrate: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range migrateStatements() {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("tracestore: migrate: %w", err)
		}
	}
	return tx.Commit()
}

// StartRun inserts a new run row under the caller-supplied runID.
func (s *Store) StartRun(ctx context.Context, runID, scenario string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, scenario, started_at) VALUES (?, ?, ?)`,
		runID, scenario, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("tracestore: start run: %w", err)
	}
	return nil
}

// EndRun stamps a run's completion time.
func (s *Store) EndRun(ctx context.Context, runID string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE runs SET ended_at = ? WHERE id = ?`,
		time.Now().UTC().Format(time.RFC3339Nano), runID)
	if err != nil {
		return fmt.Errorf("tracestore: end run: %w", err)
	}
	return nil
}

// RecordTick inserts one row per Kernel tick.
func (s *Store) RecordTick(ctx context.Context, runID string, seq int64, tf timeframe.TimeFrame) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO ticks (run_id, seq, now, delta_ns) VALUES (?, ?, ?, ?)`,
		runID, seq, tf.Now.UTC().Format(time.RFC3339Nano), tf.Delta.Nanoseconds())
	if err != nil {
		return fmt.Errorf("tracestore: record tick: %w", err)
	}
	return nil
}

// RecordEvent inserts a caller-supplied Generator lifecycle event, e.g. a
// state transition or a callback firing.
func (s *Store) RecordEvent(ctx context.Context, runID string, tickSeq int64, generatorID, name, kind, detail string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO events (run_id, tick_seq, generator_id, name, kind, detail, recorded_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		runID, tickSeq, generatorID, name, kind, detail, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("tracestore: record event: %w", err)
	}
	return nil
}

// TickCount returns how many ticks have been recorded for a run, mainly
// used by tests to assert an Observer actually fired.
func (s *Store) TickCount(ctx context.Context, runID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM ticks WHERE run_id = ?`, runID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("tracestore: tick count: %w", err)
	}
	return n, nil
}

// Recorder adapts a Store into a kernel.Observer bound to one run id.
type Recorder struct {
	store *Store
	runID string
	ctx   context.Context
}

// NewRecorder returns an Observer that writes every tick it sees to store
// under runID.
func NewRecorder(ctx context.Context, store *Store, runID string) *Recorder {
	return &Recorder{store: store, runID: runID, ctx: ctx}
}

// OnTick implements kernel.Observer.
func (r *Recorder) OnTick(seq int64, tf timeframe.TimeFrame) {
	if err := r.store.RecordTick(r.ctx, r.runID, seq, tf); err != nil {
		r.store.logger.Error("failed to record tick", "run_id", r.runID, "seq", seq, "error", err)
	}
}

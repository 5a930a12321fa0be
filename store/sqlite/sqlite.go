/*
Package sqlite provides a SQLite-backed implementation of history.Store.

PURPOSE:
  Persists saved calculations (kind, input JSON, result JSON) and the log
  of retention runs, so that the calculation history survives restarts.

KEY TABLES:
  calculations:    One row per saved calculation, keyed by ULID
  retention_runs:  One row per pruning pass of the retention scheduler

INDEXES:
  - idx_calculations_kind_id: history filtered by kind, newest first
  - idx_calculations_created_at: retention pruning by age

CONCURRENCY:
  Uses sync.RWMutex for thread-safety on top of SQLite's own locking.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging):
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  store, err := sqlite.New("./data/finance.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  rec, _ := history.NewRecord("mortgage", input, result, time.Now())
  err = store.Save(ctx, rec)

MIGRATION:
  Schema is auto-migrated on New().

SEE ALSO:
  - history/history.go: Store interface and Record
  - history/memory.go: in-memory implementation
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/warp/finance-engine/history"
)

// timeLayout is fixed-width so that text comparison orders timestamps.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store implements history.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var _ history.Store = (*Store)(nil)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		// each pooled connection would otherwise get its own empty database
		db.SetMaxOpenConns(1)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Saved calculations
	CREATE TABLE IF NOT EXISTS calculations (
		id TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		input_json TEXT NOT NULL,
		result_json TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_calculations_kind_id
		ON calculations(kind, id DESC);
	CREATE INDEX IF NOT EXISTS idx_calculations_created_at
		ON calculations(created_at);

	-- Retention runs
	CREATE TABLE IF NOT EXISTS retention_runs (
		id TEXT PRIMARY KEY,
		cutoff TEXT NOT NULL,
		removed INTEGER DEFAULT 0,
		error TEXT,
		started_at TEXT NOT NULL,
		completed_at TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_retention_runs_started
		ON retention_runs(started_at DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// CALCULATIONS
// =============================================================================

// Save persists a calculation record.
func (s *Store) Save(ctx context.Context, rec history.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO calculations (id, kind, input_json, result_json, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		rec.ID, rec.Kind, string(rec.InputJSON), string(rec.ResultJSON),
		rec.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("failed to save calculation %s: %w", rec.ID, err)
	}
	return nil
}

// Get retrieves a calculation by ID. Returns nil, nil when absent.
func (s *Store) Get(ctx context.Context, id string) (*history.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var rec history.Record
	var input, result, createdAt string

	err := s.db.QueryRowContext(ctx,
		"SELECT id, kind, input_json, result_json, created_at FROM calculations WHERE id = ?",
		id,
	).Scan(&rec.ID, &rec.Kind, &input, &result, &createdAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	rec.InputJSON = []byte(input)
	rec.ResultJSON = []byte(result)
	rec.CreatedAt, _ = time.Parse(timeLayout, createdAt)
	return &rec, nil
}

// List returns calculations newest first, optionally filtered by kind.
func (s *Store) List(ctx context.Context, kind string, limit int) ([]history.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = history.DefaultListLimit
	}

	var query string
	var args []any

	if kind != "" {
		query = `
			SELECT id, kind, input_json, result_json, created_at
			FROM calculations
			WHERE kind = ?
			ORDER BY id DESC
			LIMIT ?
		`
		args = []any{kind, limit}
	} else {
		query = `
			SELECT id, kind, input_json, result_json, created_at
			FROM calculations
			ORDER BY id DESC
			LIMIT ?
		`
		args = []any{limit}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []history.Record
	for rows.Next() {
		var rec history.Record
		var input, result, createdAt string
		if err := rows.Scan(&rec.ID, &rec.Kind, &input, &result, &createdAt); err != nil {
			return nil, err
		}
		rec.InputJSON = []byte(input)
		rec.ResultJSON = []byte(result)
		rec.CreatedAt, _ = time.Parse(timeLayout, createdAt)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// DeleteBefore removes calculations created before cutoff.
func (s *Store) DeleteBefore(ctx context.Context, cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		"DELETE FROM calculations WHERE created_at < ?",
		cutoff.UTC().Format(timeLayout),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to prune calculations: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// Count returns the number of saved calculations.
func (s *Store) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM calculations").Scan(&n)
	return n, err
}

// =============================================================================
// RETENTION RUNS
// =============================================================================

// RetentionRun records one pruning pass.
type RetentionRun struct {
	ID          string     `json:"id"`
	Cutoff      time.Time  `json:"cutoff"`
	Removed     int        `json:"removed"`
	Error       string     `json:"error,omitempty"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// SaveRetentionRun inserts or updates a retention run.
func (s *Store) SaveRetentionRun(ctx context.Context, r RetentionRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO retention_runs (id, cutoff, removed, error, started_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			removed = excluded.removed,
			error = excluded.error,
			completed_at = excluded.completed_at
	`

	var completedAt *string
	if r.CompletedAt != nil {
		ts := r.CompletedAt.UTC().Format(time.RFC3339)
		completedAt = &ts
	}

	_, err := s.db.ExecContext(ctx, query,
		r.ID, r.Cutoff.UTC().Format(time.RFC3339), r.Removed, r.Error,
		r.StartedAt.UTC().Format(time.RFC3339), completedAt,
	)
	return err
}

// GetRetentionRuns returns the most recent retention runs first.
func (s *Store) GetRetentionRuns(ctx context.Context, limit int) ([]RetentionRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = history.DefaultListLimit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, cutoff, removed, error, started_at, completed_at
		FROM retention_runs
		ORDER BY started_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []RetentionRun
	for rows.Next() {
		var r RetentionRun
		var cutoff, startedAt string
		var errText, completedAt sql.NullString
		if err := rows.Scan(&r.ID, &cutoff, &r.Removed, &errText, &startedAt, &completedAt); err != nil {
			return nil, err
		}

		r.Cutoff, _ = time.Parse(time.RFC3339, cutoff)
		r.StartedAt, _ = time.Parse(time.RFC3339, startedAt)
		r.Error = errText.String
		if completedAt.Valid {
			t, _ := time.Parse(time.RFC3339, completedAt.String)
			r.CompletedAt = &t
		}
		runs = append(runs, r)
	}

	return runs, rows.Err()
}

// Package history keeps a local log of insertion runs: what was written,
// how it was paced, and how it ended (completed, cancelled, accepted,
// rejected). Documents themselves are never persisted here.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Run kinds.
const (
	KindWrite   = "write"
	KindStream  = "stream"
	KindPreview = "preview"
)

// Run outcomes.
const (
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
	StatusAccepted  = "accepted"
	StatusRejected  = "rejected"
	StatusFailed    = "failed"
)

// Entry is one recorded run.
type Entry struct {
	ID          int64
	Kind        string
	Status      string
	Granularity string
	UnitsTotal  int
	UnitsDone   int
	Chars       int
	Rejected    int
	PreviewID   string
	CreatedAt   time.Time
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    kind TEXT NOT NULL,
    status TEXT NOT NULL,
    granularity TEXT,
    units_total INTEGER DEFAULT 0,
    units_done INTEGER DEFAULT 0,
    chars INTEGER DEFAULT 0,
    rejected INTEGER DEFAULT 0,
    preview_id TEXT,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at DESC);
`

// Store is a SQLite-backed run log.
type Store struct {
	db *sql.DB
}

// DefaultPath returns the run log location under the user config dir.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("history: config dir: %w", err)
	}
	return filepath.Join(dir, "scribe", "history.db"), nil
}

// Open opens (creating if needed) the run log at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("history: create data directory: %w", err)
	}
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("history: open database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: initialize schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record appends one run.
func (s *Store) Record(ctx context.Context, e Entry) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (kind, status, granularity, units_total, units_done, chars, rejected, preview_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Kind, e.Status, e.Granularity, e.UnitsTotal, e.UnitsDone, e.Chars, e.Rejected, e.PreviewID,
	)
	if err != nil {
		return fmt.Errorf("history: record run: %w", err)
	}
	return nil
}

// List returns the most recent runs, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, kind, status, COALESCE(granularity, ''), units_total, units_done,
		       chars, rejected, COALESCE(preview_id, ''), created_at
		FROM runs ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("history: list runs: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Kind, &e.Status, &e.Granularity, &e.UnitsTotal,
			&e.UnitsDone, &e.Chars, &e.Rejected, &e.PreviewID, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("history: scan run: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

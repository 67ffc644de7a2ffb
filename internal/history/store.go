// Package history records conversion jobs in a SQLite database.
//
// Uses modernc.org/sqlite (pure Go, no CGO). A single connection is kept
// open since SQLite allows one writer at a time.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Job statuses.
const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

const schema = `
CREATE TABLE IF NOT EXISTS jobs (
	id          TEXT PRIMARY KEY,
	source      TEXT NOT NULL,
	kind        TEXT NOT NULL,
	format      TEXT NOT NULL DEFAULT '',
	status      TEXT NOT NULL,
	placemarks  INTEGER NOT NULL DEFAULT 0,
	row_count   INTEGER NOT NULL DEFAULT 0,
	col_count   INTEGER NOT NULL DEFAULT 0,
	error       TEXT NOT NULL DEFAULT '',
	created_at  INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_jobs_created ON jobs(created_at);
`

// Job is one recorded conversion.
type Job struct {
	ID         string    `json:"id"`
	Source     string    `json:"source"`
	Kind       string    `json:"kind"`
	Format     string    `json:"format"`
	Status     string    `json:"status"`
	Placemarks int       `json:"placemarks"`
	Rows       int       `json:"rows"`
	Columns    int       `json:"columns"`
	Error      string    `json:"error,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Store is the job log.
type Store struct {
	db *sql.DB
}

// Open opens or creates the job database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA busy_timeout = 5000",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("set pragma %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record stores a job. ID and CreatedAt are filled in when empty.
// The stored job is returned.
func (s *Store) Record(ctx context.Context, job Job) (Job, error) {
	if job.ID == "" {
		job.ID = uuid.New().String()
	}
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO jobs (id, source, kind, format, status, placemarks, row_count, col_count, error, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		job.ID, job.Source, job.Kind, job.Format, job.Status,
		job.Placemarks, job.Rows, job.Columns, job.Error, job.CreatedAt.UnixNano(),
	)
	if err != nil {
		return job, fmt.Errorf("insert job: %w", err)
	}
	return job, nil
}

// Recent returns up to limit jobs, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Job, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, source, kind, format, status, placemarks, row_count, col_count, error, created_at
		FROM jobs ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query jobs: %w", err)
	}
	defer rows.Close()

	var jobs []Job
	for rows.Next() {
		var j Job
		var created int64
		if err := rows.Scan(&j.ID, &j.Source, &j.Kind, &j.Format, &j.Status,
			&j.Placemarks, &j.Rows, &j.Columns, &j.Error, &created); err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		j.CreatedAt = time.Unix(0, created).UTC()
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

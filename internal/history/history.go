// Package history records generation runs in a local SQLite database so
// past applications can be listed from the CLI and the API.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id            TEXT PRIMARY KEY,
	company       TEXT NOT NULL,
	role          TEXT NOT NULL,
	folder        TEXT NOT NULL,
	cv_ok         INTEGER NOT NULL,
	cover_ok      INTEGER,
	pdf_path      TEXT,
	message       TEXT,
	created_at    TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);
`

// Run is one recorded generation request. CoverOK is nil when no cover
// letter was requested.
type Run struct {
	ID        uuid.UUID
	Company   string
	Role      string
	Folder    string
	CVOK      bool
	CoverOK   *bool
	PDFPath   string
	Message   string
	CreatedAt time.Time
}

// Store wraps the SQLite run-history database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the history database with WAL and a
// busy timeout, the pragmas a single-writer local store wants.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history db %s: %w", path, err)
	}

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 10000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA foreign_keys = ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create history schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record inserts one run. Callers treat a failure as non-fatal; losing a
// history row never fails a generation that already happened.
func (s *Store) Record(ctx context.Context, r Run) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}

	var coverOK any
	if r.CoverOK != nil {
		coverOK = boolToInt(*r.CoverOK)
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, company, role, folder, cv_ok, cover_ok, pdf_path, message, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID.String(), r.Company, r.Role, r.Folder,
		boolToInt(r.CVOK), coverOK, r.PDFPath, r.Message,
		r.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}
	return nil
}

// List returns the most recent runs, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, company, role, folder, cv_ok, cover_ok, pdf_path, message, created_at
		 FROM runs ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []Run
	for rows.Next() {
		var (
			r         Run
			id        string
			cvOK      int
			coverOK   sql.NullInt64
			createdAt string
		)
		if err := rows.Scan(&id, &r.Company, &r.Role, &r.Folder, &cvOK, &coverOK, &r.PDFPath, &r.Message, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		r.ID, err = uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("invalid run id %q: %w", id, err)
		}
		r.CVOK = cvOK != 0
		if coverOK.Valid {
			v := coverOK.Int64 != 0
			r.CoverOK = &v
		}
		if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
			r.CreatedAt = t
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

package persist

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/randalmurphal/flowchart/pkg/flowchart"
	"github.com/randalmurphal/flowchart/pkg/flowchart/export"
)

// SQLiteAdapter persists flowchart documents to SQLite.
// It is suitable for single-process production use.
type SQLiteAdapter struct {
	db     *sql.DB
	mu     sync.RWMutex
	closed bool
}

// Compile-time interface checks.
var (
	_ Adapter             = (*SQLiteAdapter)(nil)
	_ flowchart.Persister = (*SQLiteAdapter)(nil)
)

// NewSQLiteAdapter creates a new SQLite adapter.
// The path should be a file path (e.g., "./flowcharts.db") or ":memory:"
// for testing.
func NewSQLiteAdapter(path string) (*SQLiteAdapter, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Enable WAL mode for better concurrent read performance
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS flowcharts (
			project_id TEXT NOT NULL PRIMARY KEY,
			title TEXT NOT NULL,
			saved_at TEXT NOT NULL,
			document BLOB NOT NULL
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create table: %w", err)
	}

	return &SQLiteAdapter{db: db}, nil
}

// Load implements Adapter.
func (s *SQLiteAdapter) Load(ctx context.Context, projectID string) (*flowchart.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrAdapterClosed
	}

	var blob []byte
	err := s.db.QueryRowContext(ctx, `
		SELECT document FROM flowcharts
		WHERE project_id = ?
	`, projectID).Scan(&blob)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, &PersistError{Op: "load", ProjectID: projectID, Err: err}
	}

	doc, err := export.Decode(blob)
	if err != nil {
		return nil, &PersistError{Op: "load", ProjectID: projectID, Err: err}
	}
	return doc, nil
}

// Save implements Adapter.
func (s *SQLiteAdapter) Save(ctx context.Context, projectID string, doc *flowchart.Document) error {
	blob, err := export.Encode(doc, nil)
	if err != nil {
		return &PersistError{Op: "save", ProjectID: projectID, Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrAdapterClosed
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO flowcharts (project_id, title, saved_at, document)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(project_id) DO UPDATE SET
			title = excluded.title,
			saved_at = excluded.saved_at,
			document = excluded.document
	`, projectID, doc.Metadata.Title, time.Now().UTC().Format(time.RFC3339Nano), blob)

	if err != nil {
		return &PersistError{Op: "save", ProjectID: projectID, Err: err}
	}
	return nil
}

// Delete implements Adapter.
func (s *SQLiteAdapter) Delete(ctx context.Context, projectID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrAdapterClosed
	}

	if _, err := s.db.ExecContext(ctx, `
		DELETE FROM flowcharts WHERE project_id = ?
	`, projectID); err != nil {
		return &PersistError{Op: "delete", ProjectID: projectID, Err: err}
	}
	return nil
}

// List implements Adapter.
func (s *SQLiteAdapter) List(ctx context.Context) ([]Info, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrAdapterClosed
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT project_id, title, saved_at, LENGTH(document)
		FROM flowcharts
		ORDER BY saved_at DESC
	`)
	if err != nil {
		return nil, &PersistError{Op: "list", Err: err}
	}
	defer rows.Close()

	infos := []Info{}
	for rows.Next() {
		var info Info
		var savedAt string
		if err := rows.Scan(&info.ProjectID, &info.Title, &savedAt, &info.Size); err != nil {
			return nil, &PersistError{Op: "list", Err: err}
		}
		info.SavedAt, _ = time.Parse(time.RFC3339Nano, savedAt)
		infos = append(infos, info)
	}

	if err := rows.Err(); err != nil {
		return nil, &PersistError{Op: "list", Err: err}
	}

	return infos, nil
}

// Close implements Adapter.
func (s *SQLiteAdapter) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

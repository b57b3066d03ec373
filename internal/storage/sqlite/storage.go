// Package sqlite provides a SQLite-backed history store.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS history (
	position INTEGER PRIMARY KEY,
	command  TEXT NOT NULL
);`

// Storage keeps the history as ordered rows. Entries containing newlines
// survive a round trip unchanged.
type Storage struct {
	db   *sql.DB
	path string
}

// NewStorage opens (creating when needed) the database at dbPath.
func NewStorage(dbPath string) (*Storage, error) {
	if strings.TrimSpace(dbPath) == "" {
		return nil, ErrEmptyDBPath
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("sqlite storage: create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite storage: open db: %w", err)
	}

	s := &Storage{db: db, path: dbPath}
	if err := s.init(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Storage) init() error {
	if _, err := s.db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		return fmt.Errorf("sqlite storage: set busy timeout: %w", err)
	}
	if _, err := s.db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("sqlite storage: create schema: %w", err)
	}
	return nil
}

// Path returns the database file location.
func (s *Storage) Path() string { return s.path }

// Name returns "sqlite".
func (s *Storage) Name() string { return "sqlite" }

// Close closes the underlying connection.
func (s *Storage) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Load returns every entry ordered by position.
func (s *Storage) Load() ([]string, error) {
	rows, err := s.db.QueryContext(context.Background(), "SELECT command FROM history ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("sqlite storage: load history: %w", err)
	}
	defer rows.Close()

	var entries []string
	for rows.Next() {
		var command string
		if err := rows.Scan(&command); err != nil {
			return nil, fmt.Errorf("sqlite storage: scan history: %w", err)
		}
		entries = append(entries, command)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite storage: iterate history: %w", err)
	}
	return entries, nil
}

// Save replaces the table contents in a single transaction.
func (s *Storage) Save(entries []string) error {
	ctx := context.Background()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite storage: begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM history"); err != nil {
		return fmt.Errorf("sqlite storage: clear history: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO history (position, command) VALUES (?, ?)")
	if err != nil {
		return fmt.Errorf("sqlite storage: prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, entry := range entries {
		if _, err := stmt.ExecContext(ctx, i, entry); err != nil {
			return fmt.Errorf("sqlite storage: insert entry %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite storage: commit: %w", err)
	}
	return nil
}

// Count returns the number of stored entries.
func (s *Storage) Count() (int, error) {
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM history").Scan(&n); err != nil {
		return 0, fmt.Errorf("sqlite storage: count history: %w", err)
	}
	return n, nil
}

// Package storage persists the command history. The default backend is a
// plain newline-delimited file; an SQLite backend and a dual-writing backend
// are available for users who want the history in a queryable database.
package storage

import "errors"

// Backend reads and writes the whole history as an ordered list, oldest first.
type Backend interface {
	// Load returns every stored entry. A missing store is an empty history.
	Load() ([]string, error)
	// Save replaces the stored history with entries.
	Save(entries []string) error
	// Close releases resources held by the backend.
	Close() error
	// Name identifies the backend in logs.
	Name() string
}

// ErrEmptyPath is returned when a backend is created without a location.
var ErrEmptyPath = errors.New("storage path cannot be empty")

package storage

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cristianoliveira/myterm/internal/colors"
	"github.com/cristianoliveira/myterm/internal/config"
	"github.com/cristianoliveira/myterm/internal/storage/sqlite"
)

const (
	// BackendFile selects the newline-delimited history file.
	BackendFile = "file"
	// BackendSQLite selects SQLite-backed history.
	BackendSQLite = "sqlite"
	// BackendDual writes both the file and SQLite, reading from the file.
	BackendDual = "dual"
)

// Options locates the backing stores.
type Options struct {
	FilePath string
	DBPath   string
}

var importHistoryFile = sqlite.ImportHistoryFile

// NewFromConfig creates the backend selected by history_backend in the
// loaded configuration.
func NewFromConfig() (Backend, error) {
	return NewForBackend(config.Get("history_backend", BackendFile), Options{
		FilePath: config.Get("history_file", ""),
		DBPath:   config.Get("history_db", ""),
	})
}

// NewForBackend creates the named backend. SQLite problems degrade to the
// file backend with a warning instead of failing.
func NewForBackend(backend string, opts Options) (Backend, error) {
	fileBackend, err := NewFileBackend(opts.FilePath)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendFile:
		return fileBackend, nil
	case BackendSQLite:
		db, err := openSQLite(opts)
		if err != nil {
			colors.Warning(fmt.Sprintf("failed to initialize sqlite backend, falling back to file: %v", err))
			return fileBackend, nil
		}
		return db, nil
	case BackendDual:
		db, err := openSQLite(opts)
		if err != nil {
			colors.Warning(fmt.Sprintf("failed to initialize sqlite backend for dual writer, using file only: %v", err))
			return fileBackend, nil
		}
		return NewDualWriter(fileBackend, db), nil
	default:
		colors.Warning(fmt.Sprintf("unknown history backend %q, using file", backend))
		return fileBackend, nil
	}
}

func openSQLite(opts Options) (*sqlite.Storage, error) {
	if strings.TrimSpace(opts.DBPath) == "" {
		return nil, sqlite.ErrEmptyDBPath
	}
	stats, err := importHistoryFile(opts.FilePath, opts.DBPath)
	switch {
	case errors.Is(err, sqlite.ErrNotEmpty):
	case err != nil:
		return nil, fmt.Errorf("import history file: %w", err)
	case stats.Imported > 0:
		colors.Debug(fmt.Sprintf("imported %d history entries into %s", stats.Imported, opts.DBPath))
	}
	return sqlite.NewStorage(opts.DBPath)
}

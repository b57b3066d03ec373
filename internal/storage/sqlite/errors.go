package sqlite

import "errors"

var (
	// ErrEmptyDBPath indicates that no database location was given.
	ErrEmptyDBPath = errors.New("sqlite storage: db path cannot be empty")
	// ErrNotEmpty indicates that a migration target already holds history.
	ErrNotEmpty = errors.New("sqlite storage: database already contains history")
)

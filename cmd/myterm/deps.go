package main

import (
	"fmt"
	"time"

	"github.com/cristianoliveira/myterm/internal/config"
	"github.com/cristianoliveira/myterm/internal/engine"
	"github.com/cristianoliveira/myterm/internal/history"
	"github.com/cristianoliveira/myterm/internal/logging"
	"github.com/cristianoliveira/myterm/internal/session"
	"github.com/cristianoliveira/myterm/internal/storage"
)

// openHistory opens the configured backend and loads the stored history.
func openHistory(log logging.Logger) (*history.Store, error) {
	backend, err := storage.NewFromConfig()
	if err != nil {
		return nil, fmt.Errorf("open history backend: %w", err)
	}
	store := history.New(backend, config.GetInt("max_history", history.DefaultCapacity), log)
	if err := store.Load(); err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	return store, nil
}

// engineOptions builds engine options from the loaded configuration.
func engineOptions() engine.Options {
	return engine.Options{
		MaxSessions: config.GetInt("max_sessions", engine.DefaultMaxSessions),
		Session: session.Options{
			MaxLines:     config.GetInt("max_lines", session.DefaultMaxLines),
			LineCapacity: config.GetInt("line_capacity", session.DefaultLineCapacity),
		},
		Prompt:             config.Get("prompt", engine.DefaultPrompt),
		ContinuationMarker: config.Get("continuation_marker", engine.DefaultContinuationMarker),
		Shell:              config.Get("shell", ""),
		PollInterval:       time.Duration(config.GetInt("poll_interval_ms", 200)) * time.Millisecond,
		WatchInterval:      watchInterval(),
	}
}

func watchInterval() time.Duration {
	return time.Duration(config.GetInt("watch_interval_seconds", 2)) * time.Second
}

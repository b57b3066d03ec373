/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/cristianoliveira/myterm/cmd"
	"github.com/cristianoliveira/myterm/internal/config"
	"github.com/cristianoliveira/myterm/internal/engine"
	"github.com/cristianoliveira/myterm/internal/logging"
	"github.com/cristianoliveira/myterm/internal/tui"
	"github.com/spf13/cobra"
)

var (
	historyFileFlag string
	shellFlag       string
)

// runTUI is swapped in tests.
var runTUI = func(ctx context.Context, runner tui.Runner) error {
	return tui.Run(ctx, runner)
}

// applyShellFlags copies --history-file and --shell over the loaded config.
func applyShellFlags() {
	if historyFileFlag != "" {
		config.Set("history_file", historyFileFlag)
	}
	if shellFlag != "" {
		config.Set("shell", shellFlag)
	}
}

func runShell(c *cobra.Command, args []string) error {
	applyShellFlags()
	log := logging.With("command", "shell")

	store, err := openHistory(log)
	if err != nil {
		return err
	}
	eng := engine.New(engineOptions(), store, log)

	ctx, stop := signal.NotifyContext(c.Context(), syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	if err := runTUI(ctx, eng); err != nil {
		eng.Shutdown()
		return fmt.Errorf("run terminal: %w", err)
	}
	return nil
}

func init() {
	cmd.RootCmd.RunE = runShell
	cmd.RootCmd.Args = cobra.NoArgs
	cmd.RootCmd.Flags().StringVar(&historyFileFlag, "history-file", "", "History file to use")
	cmd.RootCmd.Flags().StringVar(&shellFlag, "shell", "", "Shell that runs commands")
}

/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package main

import (
	"fmt"
	"io"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/cristianoliveira/myterm/cmd"
	"github.com/cristianoliveira/myterm/internal/command"
	"github.com/cristianoliveira/myterm/internal/config"
	"github.com/cristianoliveira/myterm/internal/event"
	"github.com/cristianoliveira/myterm/internal/logging"
	"github.com/cristianoliveira/myterm/internal/watch"
	"github.com/spf13/cobra"
)

var watchIntervalFlag time.Duration

// writerMonitor prints supervisor output to a writer. There is no input
// surface, so notices are dropped.
type writerMonitor struct {
	w io.Writer
}

func (m writerMonitor) Output(text string) { fmt.Fprint(m.w, text) }
func (m writerMonitor) Notice(event.Event) {}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run commands periodically and print their output",
	Long: `Run a multiWatch list without the interactive front-end.

USAGE:
    myterm watch '["cmd1", "cmd2", ...]' [OPTIONS]

Each cycle starts every command, prints a timestamped block for each chunk
of output and terminates whatever is still running when the interval ends.
Interrupt with Ctrl+C.

OPTIONS:
    --interval DURATION   Cycle length (default from watch_interval_seconds)
    --shell PATH          Shell that runs commands

EXAMPLES:
    myterm watch '["date", "uptime"]' --interval 5s`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(c *cobra.Command, args []string) error {
		applyShellFlags()
		interval := watchIntervalFlag
		if interval <= 0 {
			interval = watchInterval()
		}

		line := command.MultiWatchKeyword + " " + strings.Join(args, " ")
		sup, err := watch.FromLine(line, watch.Options{
			Shell:    config.Get("shell", ""),
			Interval: interval,
		}, logging.With("command", "watch"))
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(c.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return sup.Run(ctx, nil, writerMonitor{w: c.OutOrStdout()})
	},
}

func init() {
	cmd.RootCmd.AddCommand(watchCmd)

	watchCmd.Flags().DurationVar(&watchIntervalFlag, "interval", 0, "Cycle length")
	watchCmd.Flags().StringVar(&shellFlag, "shell", "", "Shell that runs commands")
}

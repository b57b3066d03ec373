/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package main

import (
	"fmt"

	"github.com/cristianoliveira/myterm/cmd"
	"github.com/cristianoliveira/myterm/internal/errors"
	"github.com/cristianoliveira/myterm/internal/history"
	"github.com/cristianoliveira/myterm/internal/logging"
	"github.com/spf13/cobra"
)

var (
	historySearchFlag string
	historyClearFlag  bool
)

// historyMessages reports --clear and failed searches.
var historyMessages errors.ErrorHandler = errors.NewDefaultCLIHandler()

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show or search command history",
	Long: `Show, search or clear the persisted command history.

USAGE:
    myterm history [OPTIONS]

OPTIONS:
    --search TERM   Print the best match for TERM
    --clear         Remove every entry
    --history-file  History file to use

EXAMPLES:
    # Print the last 1000 commands
    myterm history

    # Find the command closest to "git push"
    myterm history --search "git push"`,
	Args: cobra.NoArgs,
	RunE: func(c *cobra.Command, args []string) error {
		if historySearchFlag != "" && historyClearFlag {
			return fmt.Errorf("history: --search cannot be combined with --clear")
		}
		applyShellFlags()

		store, err := openHistory(logging.With("command", "history"))
		if err != nil {
			return err
		}

		switch {
		case historyClearFlag:
			if err := store.Clear(); err != nil {
				return fmt.Errorf("history: %w", err)
			}
			historyMessages.Success("history cleared")
		case historySearchFlag != "":
			result := store.Search(historySearchFlag)
			if result.Kind == history.NoMatch {
				historyMessages.Info(result.Message())
				return nil
			}
			fmt.Fprintln(c.OutOrStdout(), result.Message())
		default:
			fmt.Fprint(c.OutOrStdout(), store.RenderAll())
		}
		return nil
	},
}

func init() {
	cmd.RootCmd.AddCommand(historyCmd)

	historyCmd.Flags().StringVar(&historySearchFlag, "search", "", "Print the best match for TERM")
	historyCmd.Flags().BoolVar(&historyClearFlag, "clear", false, "Remove every entry")
	historyCmd.Flags().StringVar(&historyFileFlag, "history-file", "", "History file to use")
}

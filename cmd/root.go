/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/cristianoliveira/myterm/internal/config"
	"github.com/cristianoliveira/myterm/internal/logging"
	"github.com/cristianoliveira/myterm/internal/version"
	"github.com/spf13/cobra"
)

// configPathFlag is the --config override of the config file location.
var configPathFlag string

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "myterm",
	Short: "A tabbed shell front-end with history, completion and multiWatch.",
	Long:  `A tabbed shell front-end with history, completion and multiWatch.`,
	// Subcommands share one config load and logger.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return Setup()
	},
	SilenceUsage: true,
}

// Setup loads configuration and starts the global logger. The --config
// flag, when given, takes precedence over MYTERM_CONFIG_PATH.
func Setup() error {
	if configPathFlag != "" {
		if err := os.Setenv(config.EnvPrefix+"CONFIG_PATH", configPathFlag); err != nil {
			return fmt.Errorf("setup: set config path: %w", err)
		}
	}
	config.Load()
	if err := logging.InitGlobal(); err != nil {
		return fmt.Errorf("setup: init logging: %w", err)
	}
	return nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() error {
	defer func() {
		_ = logging.ShutdownGlobal()
	}()
	return RootCmd.Execute()
}

func init() {
	// Set version for use in help output
	RootCmd.Version = version.String()

	// Hide the completion command
	RootCmd.CompletionOptions.HiddenDefaultCmd = true

	RootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		if cmd != RootCmd {
			fmt.Fprint(cmd.OutOrStdout(), cmd.UsageString())
			return
		}
		fmt.Fprint(cmd.OutOrStdout(), helpText(cmd))
	})

	RootCmd.PersistentFlags().StringVar(&configPathFlag, "config", "", "config file (default is $XDG_CONFIG_HOME/myterm/config.toml)")
}

// commandOrder is the order commands are listed in the help text.
var commandOrder = []string{
	"history",
	"watch",
	"migrate",
	"version",
}

func helpText(cmd *cobra.Command) string {
	var cmdLines []string
	for _, name := range commandOrder {
		var found *cobra.Command
		for _, c := range cmd.Commands() {
			if c.Name() == name {
				found = c
				break
			}
		}
		if found == nil {
			continue
		}
		cmdLines = append(cmdLines, fmt.Sprintf("    %-16s %s", found.Use, found.Short))
	}

	return fmt.Sprintf(`myterm %s

A tabbed shell front-end with history, completion and multiWatch.

USAGE:
    myterm [COMMAND] [OPTIONS]

Without a command, myterm starts the interactive front-end.

COMMANDS:
%s

OPTIONS:
    --config FILE         Config file to load
    --history-file FILE   History file to use
    --shell PATH          Shell that runs commands
    -h, --help            Show help message
`, version.String(), strings.Join(cmdLines, "\n"))
}

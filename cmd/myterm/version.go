/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/cristianoliveira/myterm/cmd"
	"github.com/cristianoliveira/myterm/internal/version"
	"github.com/spf13/cobra"
)

var versionOutputWriter io.Writer = os.Stdout

// PrintVersion prints the version banner.
func PrintVersion() {
	fmt.Fprintln(versionOutputWriter, version.Banner())
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long:  `Show the current version of myterm.`,
	Args:  cobra.NoArgs,
	// Version needs neither config nor logging.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	Run: func(cmd *cobra.Command, args []string) {
		PrintVersion()
	},
}

func init() {
	cmd.RootCmd.AddCommand(versionCmd)
}

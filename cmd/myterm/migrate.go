/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package main

import (
	"fmt"

	"github.com/cristianoliveira/myterm/cmd"
	"github.com/cristianoliveira/myterm/internal/config"
	"github.com/cristianoliveira/myterm/internal/storage/sqlite"
	"github.com/spf13/cobra"
)

var (
	migrateFilePathFlag   string
	migrateSQLitePathFlag string
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Import the history file into SQLite",
	Long: `Import the plain-text history file into the SQLite history database.

Empty lines are skipped. The import refuses to run against a database that
already holds history. Set history_backend = "sqlite" (or "dual") afterwards
to use the database.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		filePath := migrateFilePathFlag
		if filePath == "" {
			filePath = config.Get("history_file", "")
		}
		dbPath := migrateSQLitePathFlag
		if dbPath == "" {
			dbPath = config.Get("history_db", "")
		}
		if filePath == "" || dbPath == "" {
			return fmt.Errorf("migrate: history file and database paths are required")
		}

		stats, err := sqlite.ImportHistoryFile(filePath, dbPath)
		if err != nil {
			return fmt.Errorf("migrate: %w", err)
		}

		cmd.Printf("migration completed\n")
		cmd.Printf("total=%d imported=%d skipped=%d\n", stats.TotalRows, stats.Imported, stats.SkippedEmpty)
		return nil
	},
}

func init() {
	cmd.RootCmd.AddCommand(migrateCmd)

	migrateCmd.Flags().StringVar(&migrateFilePathFlag, "file-path", "", "Path to the source history file")
	migrateCmd.Flags().StringVar(&migrateSQLitePathFlag, "sqlite-path", "", "Path to the destination SQLite database")
}

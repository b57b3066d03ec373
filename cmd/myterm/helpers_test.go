package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/cristianoliveira/myterm/internal/config"
	"github.com/spf13/cobra"
)

// useTempHistory points the history backend at a fresh file.
func useTempHistory(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".myterm_history")
	config.Set("history_backend", "file")
	config.Set("history_file", path)
	return path
}

func resetFlags() {
	historyFileFlag = ""
	shellFlag = ""
	historySearchFlag = ""
	historyClearFlag = false
	watchIntervalFlag = 0
	migrateFilePathFlag = ""
	migrateSQLitePathFlag = ""
}

func newTestCommand() (*cobra.Command, *bytes.Buffer) {
	c := &cobra.Command{}
	var out bytes.Buffer
	c.SetOut(&out)
	c.SetContext(context.Background())
	return c, &out
}

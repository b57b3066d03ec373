//go:build integration
// +build integration

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestConfigLoadingPrecedence verifies env > file > defaults end to end
// through the XDG config location rather than MYTERM_CONFIG_PATH.
func TestConfigLoadingPrecedence(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)
	t.Setenv("XDG_CONFIG_HOME", tmpDir)
	t.Setenv("XDG_STATE_HOME", filepath.Join(tmpDir, "state"))

	configDir := filepath.Join(tmpDir, "myterm")
	require.NoError(t, os.MkdirAll(configDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.toml"), []byte(`
max_sessions = 8
watch_interval_seconds = 5
shell = "/bin/bash"
`), 0644))

	t.Setenv("MYTERM_WATCH_INTERVAL_SECONDS", "3")

	Load()

	require.Equal(t, "3", Get("watch_interval_seconds", ""), "environment should override config file")
	require.Equal(t, "8", Get("max_sessions", ""), "config file value should be used when not overridden")
	require.Equal(t, "/bin/bash", Get("shell", ""))
	require.Equal(t, "1000", Get("max_lines", ""), "defaults apply to keys set nowhere else")
}

package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestSubshellLifecycle(t *testing.T) {
	sh, err := StartSubshell("/bin/sh")
	require.NoError(t, err)

	pid := sh.Pid()
	assert.NoError(t, unix.Kill(pid, 0), "subshell should be alive")

	pgid, err := unix.Getpgid(pid)
	require.NoError(t, err)
	assert.Equal(t, pid, pgid, "subshell leads its own process group")

	require.NoError(t, sh.Close())
	assert.Error(t, unix.Kill(pid, 0), "subshell should be reaped")
}

func TestStartSubshellMissingBinary(t *testing.T) {
	_, err := StartSubshell("/nonexistent/shell")
	assert.Error(t, err)
}

func TestSessionCloseTerminatesShell(t *testing.T) {
	s := New(Options{})
	assert.NoError(t, s.Close(), "closing without a shell is a no-op")

	sh, err := StartSubshell("/bin/sh")
	require.NoError(t, err)
	s.AttachShell(sh)
	assert.Same(t, sh, s.Shell())

	require.NoError(t, s.Close())
	assert.Nil(t, s.Shell())
}

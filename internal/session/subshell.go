package session

import (
	"errors"
	"fmt"
	"io"
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

// Subshell is the long-lived shell process a session keeps alive for its
// whole lifetime. Its stdin is held open by the session so it never sees
// EOF; its output is discarded.
type Subshell struct {
	cmd   *exec.Cmd
	stdin io.WriteCloser
}

// StartSubshell starts shell in its own process group.
func StartSubshell(shell string) (*Subshell, error) {
	cmd := exec.Command(shell)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("subshell stdin: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start subshell %s: %w", shell, err)
	}
	return &Subshell{cmd: cmd, stdin: stdin}, nil
}

// Pid returns the shell's process id.
func (s *Subshell) Pid() int {
	return s.cmd.Process.Pid
}

// Close sends SIGTERM to the shell and reaps it.
func (s *Subshell) Close() error {
	if err := unix.Kill(s.Pid(), unix.SIGTERM); err != nil && !errors.Is(err, unix.ESRCH) {
		return fmt.Errorf("terminate subshell %d: %w", s.Pid(), err)
	}
	err := s.cmd.Wait()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		// terminated by our own SIGTERM
		return nil
	}
	return err
}

// Package jobs starts command lines as process groups and supervises the
// foreground job: it forwards interrupt and suspend chords to the group,
// streams the group's output to the owning session and keeps stopped jobs
// on a background list until shutdown.
package jobs

import (
	"errors"
	"fmt"
	"os/exec"

	"golang.org/x/sys/unix"
)

// State is the lifecycle state of a job.
type State int

const (
	// Running means at least one stage is alive and not stopped.
	Running State = iota
	// Stopped means every live stage is stopped.
	Stopped
	// Exited means every stage has been reaped.
	Exited
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Stopped:
		return "stopped"
	default:
		return "exited"
	}
}

var (
	// ErrForegroundBusy is returned when a foreground job is already active.
	ErrForegroundBusy = errors.New("a foreground job is already running")
	// ErrNotStarted is returned when signalling a job that never started.
	ErrNotStarted = errors.New("job has no process group")
	// ErrNoStages is returned for a command line without any stage.
	ErrNoStages = errors.New("command has no stages")
)

type stage struct {
	cmd    *exec.Cmd
	pid    int
	state  State
	status unix.WaitStatus
}

// Job is one command line running as a single process group. Every stage
// of a pipeline shares the group of the first stage.
type Job struct {
	Command   string
	SessionID string
	// Pgid is the process group id, the pid of the first stage.
	Pgid int
	// ExitCode is set once the job has exited. A signalled last stage
	// reports 128 plus the signal number.
	ExitCode int
	// Err records why the job could not be started.
	Err error

	state  State
	stages []*stage
	out    *PipeReader
}

// State returns the last observed state.
func (j *Job) State() State { return j.state }

// Pids returns the pid of every stage.
func (j *Job) Pids() []int {
	pids := make([]int, len(j.stages))
	for i, st := range j.stages {
		pids[i] = st.pid
	}
	return pids
}

// Output returns the channel carrying the job's output chunks. It is closed
// on end of file. A job that failed to start has no output.
func (j *Job) Output() <-chan string {
	if j.out == nil {
		return nil
	}
	return j.out.Chunks()
}

// Signal sends sig to the job's process group. A group that is already
// gone is not an error.
func (j *Job) Signal(sig unix.Signal) error {
	if j.Pgid <= 0 {
		return ErrNotStarted
	}
	if err := unix.Kill(-j.Pgid, sig); err != nil && !errors.Is(err, unix.ESRCH) {
		return fmt.Errorf("signal %s to group %d: %w", unix.SignalName(sig), j.Pgid, err)
	}
	return nil
}

func (j *Job) addStage(cmd *exec.Cmd) {
	j.stages = append(j.stages, &stage{cmd: cmd, pid: cmd.Process.Pid})
	if j.Pgid == 0 {
		j.Pgid = cmd.Process.Pid
	}
}

func (j *Job) fail(err error) {
	j.Err = err
	j.state = Exited
	j.ExitCode = 1
}

// Poll collects status changes of every stage without blocking and
// returns the resulting job state.
func (j *Job) Poll() (State, error) {
	if j.state == Exited {
		return Exited, nil
	}
	var firstErr error
	for _, st := range j.stages {
		if st.state == Exited {
			continue
		}
		if err := j.reap(st, unix.WNOHANG|unix.WUNTRACED); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	j.settle()
	return j.state, firstErr
}

// Wait blocks until every stage has exited.
func (j *Job) Wait() error {
	var firstErr error
	for _, st := range j.stages {
		for st.state != Exited {
			if err := j.reap(st, 0); err != nil {
				if firstErr == nil {
					firstErr = err
				}
				break
			}
		}
	}
	j.settle()
	return firstErr
}

// reap runs one wait4 on st. A wait failure leaves the stage marked exited
// so that the job can still settle.
func (j *Job) reap(st *stage, options int) error {
	var ws unix.WaitStatus
	for {
		pid, err := unix.Wait4(st.pid, &ws, options, nil)
		if errors.Is(err, unix.EINTR) {
			continue
		}
		if err != nil {
			st.state = Exited
			st.release()
			return fmt.Errorf("wait for pid %d: %w", st.pid, err)
		}
		if pid == 0 {
			return nil
		}
		break
	}
	switch {
	case ws.Exited() || ws.Signaled():
		st.state = Exited
		st.status = ws
		st.release()
	case ws.Stopped():
		st.state = Stopped
	case ws.Continued():
		st.state = Running
	}
	return nil
}

func (st *stage) release() {
	if st.cmd != nil && st.cmd.Process != nil {
		_ = st.cmd.Process.Release()
	}
}

func (j *Job) settle() {
	if len(j.stages) == 0 {
		return
	}
	exited, stopped := 0, 0
	for _, st := range j.stages {
		switch st.state {
		case Exited:
			exited++
		case Stopped:
			stopped++
		}
	}
	switch {
	case exited == len(j.stages):
		j.state = Exited
		j.ExitCode = exitCode(j.stages[len(j.stages)-1].status)
	case stopped > 0 && exited+stopped == len(j.stages):
		j.state = Stopped
	default:
		j.state = Running
	}
}

func exitCode(ws unix.WaitStatus) int {
	if ws.Signaled() {
		return 128 + int(ws.Signal())
	}
	return ws.ExitStatus()
}

// CloseOutput stops reading the job output and closes the pipe.
func (j *Job) CloseOutput() {
	if j.out != nil {
		j.out.Close()
	}
}

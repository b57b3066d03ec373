package jobs

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/cristianoliveira/myterm/internal/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingMonitor struct {
	output  strings.Builder
	notices []event.Event
}

func (m *recordingMonitor) Output(text string)    { m.output.WriteString(text) }
func (m *recordingMonitor) Notice(ev event.Event) { m.notices = append(m.notices, ev) }

func newTestController() *Controller {
	return NewController(Options{PollInterval: 20 * time.Millisecond}, nil)
}

func runLine(t *testing.T, c *Controller, line string, events <-chan event.Event) (*Job, *recordingMonitor) {
	t.Helper()
	mon := &recordingMonitor{}
	job, err := c.Run(context.Background(), line, "s1", events, mon)
	require.NoError(t, err)
	require.NotNil(t, job)
	return job, mon
}

func TestNewControllerDefaults(t *testing.T) {
	c := NewController(Options{}, nil)
	assert.Equal(t, DefaultShell, c.Shell())
	assert.Equal(t, DefaultPollInterval, c.PollInterval())
	assert.False(t, c.Busy())
}

func TestRunCommands(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		want     string
		wantCode int
	}{
		{name: "echo", line: "echo hello", want: "hello\n"},
		{name: "stderr is captured", line: "echo oops 1>&2", want: "oops\n"},
		{name: "pipeline", line: "printf 'a\\nb\\nc\\n' | wc -l | tr -d ' '", want: "3\n"},
		{name: "escaped pipe", line: `echo a\|b`, want: "a|b\n"},
		{name: "pipeline stderr", line: "echo err 1>&2 | cat", want: "err\n"},
		{name: "exit status", line: "exit 3", wantCode: 3},
		{name: "stdin is empty", line: "cat", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestController()
			job, mon := runLine(t, c, tt.line, nil)
			assert.Equal(t, Exited, job.State())
			assert.Equal(t, tt.wantCode, job.ExitCode)
			assert.Equal(t, tt.want, mon.output.String())
			assert.False(t, c.Busy())
			assert.Nil(t, c.Foreground())
		})
	}
}

func TestPipelineSharesProcessGroup(t *testing.T) {
	c := newTestController()
	job := c.Start("cat | cat | cat", "s1")
	require.NoError(t, job.Err)
	require.Len(t, job.Pids(), 3)
	assert.Equal(t, job.Pids()[0], job.Pgid)

	require.NoError(t, job.Wait())
	job.CloseOutput()
	assert.Equal(t, Exited, job.State())
}

func TestRunRedirection(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.txt")
	out := filepath.Join(dir, "out.txt")
	require.NoError(t, os.WriteFile(in, []byte("one\ntwo\n"), 0644))

	c := newTestController()
	job, mon := runLine(t, c, "sort -r <"+in+" > "+out, nil)
	assert.Equal(t, 0, job.ExitCode)
	assert.Empty(t, mon.output.String())

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "two\none\n", string(data))

	info, err := os.Stat(out)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0644), info.Mode().Perm()&0644)
}

func TestRunRedirectFailure(t *testing.T) {
	c := newTestController()
	job, mon := runLine(t, c, "cat < "+filepath.Join(t.TempDir(), "missing"), nil)

	assert.Equal(t, Exited, job.State())
	assert.Equal(t, 1, job.ExitCode)
	assert.Error(t, job.Err)
	assert.Empty(t, mon.output.String())
	assert.Nil(t, job.Output())
	assert.ErrorIs(t, job.Signal(0), ErrNotStarted)
}

func TestRunMissingRedirectTarget(t *testing.T) {
	c := newTestController()
	job, _ := runLine(t, c, "echo hi >", nil)
	assert.Equal(t, 1, job.ExitCode)
	assert.Error(t, job.Err)
}

func TestInterruptForwardedToGroup(t *testing.T) {
	if testing.Short() {
		t.Skip("sleeps")
	}
	c := newTestController()
	events := make(chan event.Event, 4)
	go func() {
		time.Sleep(100 * time.Millisecond)
		events <- event.Key(event.KeyCtrlC)
	}()

	start := time.Now()
	job, _ := runLine(t, c, "sleep 5 | cat", events)
	assert.Less(t, time.Since(start), 3*time.Second)
	assert.Equal(t, Exited, job.State())
	assert.NotZero(t, job.ExitCode)
}

func TestSuspendMovesJobToBackground(t *testing.T) {
	if testing.Short() {
		t.Skip("sleeps")
	}
	c := newTestController()
	events := make(chan event.Event, 4)
	go func() {
		time.Sleep(100 * time.Millisecond)
		events <- event.Key(event.KeyCtrlZ)
	}()

	job, mon := runLine(t, c, "sleep 5", events)
	assert.Equal(t, Stopped, job.State())
	assert.Contains(t, mon.output.String(), BackgroundNotice)
	assert.False(t, c.Busy())
	require.Len(t, c.Background(), 1)

	c.Shutdown()
	assert.Empty(t, c.Background())
	require.Eventually(t, func() bool {
		state, _ := job.Poll()
		return state == Exited
	}, 3*time.Second, 20*time.Millisecond)
}

func TestInterruptReachesOnlyForegroundGroup(t *testing.T) {
	if testing.Short() {
		t.Skip("sleeps")
	}
	c := newTestController()
	t.Cleanup(c.Shutdown)

	suspend := make(chan event.Event, 1)
	go func() {
		time.Sleep(100 * time.Millisecond)
		suspend <- event.Key(event.KeyCtrlZ)
	}()
	stopped, _ := runLine(t, c, "sleep 5", suspend)
	require.Equal(t, Stopped, stopped.State())

	interrupt := make(chan event.Event, 1)
	go func() {
		time.Sleep(200 * time.Millisecond)
		interrupt <- event.Key(event.KeyCtrlC)
	}()
	job, mon := runLine(t, c, `trap "echo got INT; exit 3" INT; sleep 5`, interrupt)

	assert.Equal(t, Exited, job.State())
	assert.Equal(t, 3, job.ExitCode)
	assert.Contains(t, mon.output.String(), "got INT")
	assert.NotEqual(t, stopped.Pgid, job.Pgid)

	state, err := stopped.Poll()
	require.NoError(t, err)
	assert.Equal(t, Stopped, state)
	require.Len(t, c.Background(), 1)
}

func TestNonChordEventsGoToMonitor(t *testing.T) {
	c := newTestController()
	events := make(chan event.Event, 4)
	events <- event.Resize(80, 24)
	events <- event.Rune('x')

	_, mon := runLine(t, c, "sleep 0.1", events)
	require.Len(t, mon.notices, 2)
	assert.Equal(t, event.KindResize, mon.notices[0].Kind)
	assert.Equal(t, 'x', mon.notices[1].Rune)
}

func TestClosedEventChannel(t *testing.T) {
	c := newTestController()
	events := make(chan event.Event)
	close(events)

	job, mon := runLine(t, c, "echo done", events)
	assert.Equal(t, Exited, job.State())
	assert.Equal(t, "done\n", mon.output.String())
}

func TestSuperviseRejectsSecondForeground(t *testing.T) {
	c := newTestController()
	c.foreground = &Job{Command: "other"}

	_, err := c.Run(context.Background(), "echo hi", "s1", nil, &recordingMonitor{})
	assert.ErrorIs(t, err, ErrForegroundBusy)
}

func TestSuperviseContextCancel(t *testing.T) {
	c := newTestController()
	job := c.Start("sleep 5", "s1")
	require.NoError(t, job.Err)
	t.Cleanup(func() {
		_ = job.Signal(15)
		_ = job.Wait()
		job.CloseOutput()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := c.Supervise(ctx, job, nil, &recordingMonitor{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, c.Busy())
}

func TestStartCommand(t *testing.T) {
	job, err := StartCommand(DefaultShell, "echo watched; echo err 1>&2")
	require.NoError(t, err)

	var out strings.Builder
	for chunk := range job.Output() {
		out.WriteString(chunk)
	}
	require.NoError(t, job.Wait())
	job.CloseOutput()
	assert.Equal(t, "watched\nerr\n", out.String())
	assert.Equal(t, Exited, job.State())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "running", Running.String())
	assert.Equal(t, "stopped", Stopped.String())
	assert.Equal(t, "exited", Exited.String())
}

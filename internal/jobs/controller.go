package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/cristianoliveira/myterm/internal/event"
	"github.com/cristianoliveira/myterm/internal/logging"
	"golang.org/x/sys/unix"
)

const (
	// DefaultPollInterval bounds each readiness wait of the supervised loop.
	DefaultPollInterval = 200 * time.Millisecond
	// BackgroundNotice is appended when the foreground job stops.
	BackgroundNotice = "[Process moved to background]"
)

// Options configures a Controller.
type Options struct {
	Shell        string
	PollInterval time.Duration
}

// Monitor receives what happens while a foreground job is supervised.
type Monitor interface {
	// Output is called with each chunk the job writes.
	Output(text string)
	// Notice is called with input events that are not job-control chords.
	Notice(ev event.Event)
}

// Controller owns the foreground slot and the background list. It is used
// from a single goroutine.
type Controller struct {
	opts       Options
	log        logging.Logger
	foreground *Job
	background []*Job
}

// NewController creates a controller.
func NewController(opts Options, log logging.Logger) *Controller {
	if opts.Shell == "" {
		opts.Shell = DefaultShell
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}
	if log == nil {
		log = logging.NewNop()
	}
	return &Controller{opts: opts, log: log.With("component", "jobs")}
}

// Shell returns the interpreter used for command bodies.
func (c *Controller) Shell() string { return c.opts.Shell }

// PollInterval returns the readiness wait bound.
func (c *Controller) PollInterval() time.Duration { return c.opts.PollInterval }

// Foreground returns the supervised job, or nil.
func (c *Controller) Foreground() *Job { return c.foreground }

// Busy reports whether a foreground job is active.
func (c *Controller) Busy() bool { return c.foreground != nil }

// Background returns the jobs that were stopped in the foreground.
func (c *Controller) Background() []*Job {
	out := make([]*Job, len(c.background))
	copy(out, c.background)
	return out
}

// Start launches cmdline for the given session. Start failures are logged
// and produce a job that has already exited with code 1.
func (c *Controller) Start(cmdline, sessionID string) *Job {
	job := &Job{Command: cmdline, SessionID: sessionID}
	if err := startLine(job, c.opts.Shell, cmdline); err != nil {
		job.fail(err)
		c.log.Error("start job failed", "command", cmdline, "session", sessionID, "error", err)
		return job
	}
	c.log.Debug("job started", "command", cmdline, "session", sessionID, "pgid", job.Pgid, "stages", len(job.stages))
	return job
}

// Run starts cmdline and supervises it until it exits or stops.
func (c *Controller) Run(ctx context.Context, cmdline, sessionID string, events <-chan event.Event, mon Monitor) (*Job, error) {
	if c.foreground != nil {
		return nil, ErrForegroundBusy
	}
	job := c.Start(cmdline, sessionID)
	return job, c.Supervise(ctx, job, events, mon)
}

// Supervise holds job in the foreground slot until it exits or stops.
// Each iteration reaps stage status, waits up to the poll interval for
// output or input events, handles every pending event and only then
// appends output. Interrupt and suspend chords are sent to the job's
// process group; other events go to mon.Notice. A stopped job moves to the
// background list.
func (c *Controller) Supervise(ctx context.Context, job *Job, events <-chan event.Event, mon Monitor) error {
	if job.State() == Exited {
		return nil
	}
	if c.foreground != nil && c.foreground != job {
		return ErrForegroundBusy
	}
	c.foreground = job
	defer func() { c.foreground = nil }()

	out := job.Output()
	for {
		state, err := job.Poll()
		if err != nil {
			c.log.Error("wait for job failed", "command", job.Command, "pgid", job.Pgid, "error", err)
			job.CloseOutput()
			return fmt.Errorf("supervise %q: %w", job.Command, err)
		}
		switch state {
		case Exited:
			c.drainRemaining(job, out, mon)
			c.log.Debug("job exited", "command", job.Command, "code", job.ExitCode)
			return nil
		case Stopped:
			drainOutput(out, mon)
			job.CloseOutput()
			c.background = append(c.background, job)
			mon.Output(BackgroundNotice)
			c.log.Info("job stopped", "command", job.Command, "pgid", job.Pgid)
			return nil
		}

		var chunks []string
		timer := time.NewTimer(c.opts.PollInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case ev, ok := <-events:
			if ok {
				c.handleEvent(job, ev, mon)
			} else {
				events = nil
			}
		case chunk, ok := <-out:
			if ok {
				chunks = append(chunks, chunk)
			} else {
				out = nil
			}
		case <-timer.C:
		}
		timer.Stop()

		events = c.drainEvents(job, events, mon)
		for _, chunk := range chunks {
			mon.Output(chunk)
		}
		out = drainOutput(out, mon)
	}
}

func (c *Controller) handleEvent(job *Job, ev event.Event, mon Monitor) {
	var sig unix.Signal
	switch {
	case ev.IsInterrupt():
		sig = unix.SIGINT
	case ev.IsSuspend():
		sig = unix.SIGTSTP
	default:
		mon.Notice(ev)
		return
	}
	if err := job.Signal(sig); err != nil {
		c.log.Warn("forward signal failed", "signal", unix.SignalName(sig), "error", err)
	}
}

// drainEvents handles every event already queued. It returns nil once the
// channel is closed.
func (c *Controller) drainEvents(job *Job, events <-chan event.Event, mon Monitor) <-chan event.Event {
	for events != nil {
		select {
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			c.handleEvent(job, ev, mon)
		default:
			return events
		}
	}
	return nil
}

// drainOutput forwards every chunk already available. It returns nil once
// the channel is closed.
func drainOutput(out <-chan string, mon Monitor) <-chan string {
	for out != nil {
		select {
		case chunk, ok := <-out:
			if !ok {
				return nil
			}
			mon.Output(chunk)
		default:
			return out
		}
	}
	return nil
}

// drainRemaining forwards output still in flight after the job exited,
// for at most one poll interval.
func (c *Controller) drainRemaining(job *Job, out <-chan string, mon Monitor) {
	defer job.CloseOutput()
	if out == nil {
		return
	}
	deadline := time.NewTimer(c.opts.PollInterval)
	defer deadline.Stop()
	for {
		select {
		case chunk, ok := <-out:
			if !ok {
				return
			}
			mon.Output(chunk)
		case <-deadline.C:
			return
		}
	}
}

// Shutdown terminates every background job and the foreground job, if
// any. Stopped groups also get SIGCONT so that they act on the SIGTERM.
func (c *Controller) Shutdown() {
	all := c.background
	if c.foreground != nil {
		all = append(all, c.foreground)
	}
	for _, job := range all {
		if err := job.Signal(unix.SIGTERM); err != nil {
			c.log.Warn("terminate job failed", "pgid", job.Pgid, "error", err)
		}
		_ = job.Signal(unix.SIGCONT)
		job.CloseOutput()
		if _, err := job.Poll(); err != nil {
			c.log.Debug("reap job at shutdown", "pgid", job.Pgid, "error", err)
		}
	}
	c.background = nil
}

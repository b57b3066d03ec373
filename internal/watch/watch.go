// Package watch runs a fixed set of commands periodically and renders
// their output as timestamped blocks, until interrupted.
package watch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cristianoliveira/myterm/internal/command"
	"github.com/cristianoliveira/myterm/internal/event"
	"github.com/cristianoliveira/myterm/internal/jobs"
	"github.com/cristianoliveira/myterm/internal/logging"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sys/unix"
)

const (
	// DefaultInterval is the length of one cycle.
	DefaultInterval = 2 * time.Second
	// StartBanner is printed before the first cycle.
	StartBanner = "Starting multiWatch. Press Ctrl+C to stop..."
	// StopBanner is printed once the watcher has stopped.
	StopBanner = "multiWatch stopped."
	// TimeLayout formats block timestamps.
	TimeLayout = "2006-01-02 15:04:05"
	// DefaultKillGrace is how long a terminated command may take to exit
	// before its process group is killed.
	DefaultKillGrace = time.Second

	reapPollInterval = 10 * time.Millisecond
)

var separator = strings.Repeat("-", 52)

// FormatBlock wraps one output chunk of cmd with its header and rules.
func FormatBlock(cmd string, at time.Time, output string) string {
	if !strings.HasSuffix(output, "\n") {
		output += "\n"
	}
	return fmt.Sprintf("\n\"%s\", %s:\n%s\n%s%s\n", cmd, at.Format(TimeLayout), separator, output, separator)
}

// Options configures a Supervisor.
type Options struct {
	Shell     string
	Interval  time.Duration
	KillGrace time.Duration
	Now       func() time.Time
}

// Supervisor runs cycles of its commands. A cycle spawns every command in
// its own process group, renders output as it arrives and, once the cycle
// deadline passes, terminates and reaps whatever is still running. When all
// commands finish early the rest of the cycle is idle time.
type Supervisor struct {
	commands  []string
	opts      Options
	log       logging.Logger
	cancelled bool
	cycles    int
}

// New creates a supervisor for commands.
func New(commands []string, opts Options, log logging.Logger) *Supervisor {
	if opts.Shell == "" {
		opts.Shell = jobs.DefaultShell
	}
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.KillGrace <= 0 {
		opts.KillGrace = DefaultKillGrace
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if log == nil {
		log = logging.NewNop()
	}
	return &Supervisor{commands: commands, opts: opts, log: log.With("component", "watch")}
}

// FromLine parses a multiWatch command line.
func FromLine(line string, opts Options, log logging.Logger) (*Supervisor, error) {
	cmds, err := command.ParseWatchList(line)
	if err != nil {
		return nil, err
	}
	return New(cmds, opts, log), nil
}

// Commands returns the watched commands.
func (s *Supervisor) Commands() []string { return s.commands }

// Cycles returns how many cycles have run.
func (s *Supervisor) Cycles() int { return s.cycles }

// Run executes cycles until an interrupt chord arrives on events or ctx is
// done. Every child is terminated and reaped before Run returns.
func (s *Supervisor) Run(ctx context.Context, events <-chan event.Event, mon jobs.Monitor) error {
	s.cancelled = false
	mon.Output(StartBanner + "\n")
	s.log.Info("multiWatch started", "commands", len(s.commands), "interval", s.opts.Interval)

	for !s.cancelled {
		events = s.cycle(ctx, events, mon)
	}

	mon.Output("\n" + StopBanner + "\n")
	s.log.Info("multiWatch stopped", "cycles", s.cycles)
	return nil
}

type slot struct {
	cmd  string
	job  *jobs.Job
	done bool
}

type slotChunk struct {
	index int
	text  string
	eof   bool
}

func (s *Supervisor) cycle(ctx context.Context, events <-chan event.Event, mon jobs.Monitor) <-chan event.Event {
	s.cycles++
	deadline := time.NewTimer(s.opts.Interval)
	defer deadline.Stop()

	stop := make(chan struct{})
	merged := make(chan slotChunk)
	slots := make([]*slot, len(s.commands))
	pending := 0
	for i, cmd := range s.commands {
		sl := &slot{cmd: cmd}
		slots[i] = sl
		job, err := jobs.StartCommand(s.opts.Shell, cmd)
		if err != nil {
			s.log.Error("start watched command failed", "command", cmd, "error", err)
			sl.done = true
			continue
		}
		sl.job = job
		pending++
		go forward(i, job.Output(), merged, stop)
	}

	expired := false
	for pending > 0 && !s.cancelled && !expired {
		var chunk *slotChunk
		select {
		case <-ctx.Done():
			s.cancelled = true
		case ev, ok := <-events:
			if !ok {
				events = nil
			} else {
				s.handleEvent(ev, mon)
			}
		case c := <-merged:
			chunk = &c
		case <-deadline.C:
			expired = true
		}
		events = s.drainEvents(events, mon)
		if chunk == nil {
			continue
		}
		if chunk.eof {
			slots[chunk.index].done = true
			pending--
			continue
		}
		mon.Output(FormatBlock(slots[chunk.index].cmd, s.opts.Now(), chunk.text))
	}

	close(stop)
	s.reap(slots)

	for !s.cancelled && !expired {
		select {
		case <-ctx.Done():
			s.cancelled = true
		case ev, ok := <-events:
			if !ok {
				events = nil
			} else {
				s.handleEvent(ev, mon)
			}
		case <-deadline.C:
			expired = true
		}
	}
	return events
}

func forward(index int, out <-chan string, merged chan<- slotChunk, stop <-chan struct{}) {
	for text := range out {
		select {
		case merged <- slotChunk{index: index, text: text}:
		case <-stop:
			return
		}
	}
	select {
	case merged <- slotChunk{index: index, eof: true}:
	case <-stop:
	}
}

func (s *Supervisor) handleEvent(ev event.Event, mon jobs.Monitor) {
	if ev.IsInterrupt() {
		s.cancelled = true
		return
	}
	mon.Notice(ev)
}

func (s *Supervisor) drainEvents(events <-chan event.Event, mon jobs.Monitor) <-chan event.Event {
	for events != nil {
		select {
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			s.handleEvent(ev, mon)
		default:
			return events
		}
	}
	return nil
}

// reap terminates every job of the cycle that is still running and waits
// for all of them concurrently. A job still alive after KillGrace gets
// SIGKILL.
func (s *Supervisor) reap(slots []*slot) {
	var g errgroup.Group
	for _, sl := range slots {
		job := sl.job
		if job == nil {
			continue
		}
		g.Go(func() error {
			defer job.CloseOutput()
			if state, _ := job.Poll(); state != jobs.Exited {
				_ = job.Signal(unix.SIGTERM)
				_ = job.Signal(unix.SIGCONT)
				s.awaitExit(job)
			}
			return job.Wait()
		})
	}
	if err := g.Wait(); err != nil {
		s.log.Warn("reap watched command failed", "error", err)
	}
}

func (s *Supervisor) awaitExit(job *jobs.Job) {
	deadline := time.Now().Add(s.opts.KillGrace)
	for time.Now().Before(deadline) {
		if state, err := job.Poll(); state == jobs.Exited || err != nil {
			return
		}
		time.Sleep(reapPollInterval)
	}
	s.log.Warn("watched command ignored SIGTERM, killing", "pids", job.Pids())
	_ = job.Signal(unix.SIGKILL)
}

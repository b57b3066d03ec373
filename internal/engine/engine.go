// Package engine multiplexes input events over the terminal sessions. It
// owns every session, routes keys to the active one or to the active modal
// dialog, and hands committed command lines to the job controller, the
// history store or the multiWatch supervisor.
package engine

import (
	"context"
	"os"
	"time"

	"github.com/cristianoliveira/myterm/internal/completion"
	"github.com/cristianoliveira/myterm/internal/errors"
	"github.com/cristianoliveira/myterm/internal/event"
	"github.com/cristianoliveira/myterm/internal/formatter"
	"github.com/cristianoliveira/myterm/internal/history"
	"github.com/cristianoliveira/myterm/internal/jobs"
	"github.com/cristianoliveira/myterm/internal/logging"
	"github.com/cristianoliveira/myterm/internal/session"
)

const (
	// DefaultMaxSessions bounds the number of open sessions.
	DefaultMaxSessions = 100
	// DefaultPrompt is drawn before prompt lines.
	DefaultPrompt = "user@myterm> "
	// DefaultContinuationMarker ends a line that continues on the next one.
	DefaultContinuationMarker = `\`
	// TabWidth is the width in cells of one tab in the tab strip.
	TabWidth = 10

	defaultWidth  = 80
	defaultHeight = 24
)

// ShellStarter starts the long-lived sub-shell of a new session.
type ShellStarter func(shell string) (*session.Subshell, error)

// Options configures an Engine.
type Options struct {
	MaxSessions        int
	Session            session.Options
	Prompt             string
	ContinuationMarker string
	Shell              string
	PollInterval       time.Duration
	WatchInterval      time.Duration
	// StartShell defaults to session.StartSubshell.
	StartShell ShellStarter
	// Dir returns the directory completion lists. Defaults to os.Getwd.
	Dir func() (string, error)
	// Lister defaults to the local filesystem.
	Lister completion.Lister
}

func (o Options) withDefaults() Options {
	if o.MaxSessions <= 0 {
		o.MaxSessions = DefaultMaxSessions
	}
	if o.Session.MaxLines <= 1 {
		o.Session.MaxLines = session.DefaultMaxLines
	}
	if o.Session.LineCapacity <= 0 {
		o.Session.LineCapacity = session.DefaultLineCapacity
	}
	if o.Prompt == "" {
		o.Prompt = DefaultPrompt
	}
	if o.ContinuationMarker == "" {
		o.ContinuationMarker = DefaultContinuationMarker
	}
	if o.Shell == "" {
		o.Shell = jobs.DefaultShell
	}
	if o.StartShell == nil {
		o.StartShell = session.StartSubshell
	}
	if o.Dir == nil {
		o.Dir = os.Getwd
	}
	return o
}

// Engine is the session engine. All state is owned by the goroutine that
// calls Run or Dispatch.
type Engine struct {
	opts      Options
	log       logging.Logger
	history   *history.Store
	completer *completion.Engine
	jobs      *jobs.Controller
	messages  *errors.SessionHandler

	prompt     *formatter.Prompt
	promptVars formatter.VariableContext

	sessions []*session.Session
	active   int

	mode       Mode
	searchTerm []rune
	selection  *completion.Selection
	busy       bool

	events  <-chan event.Event
	surface Surface
	width   int
	height  int

	exited bool
	closed bool
}

// New creates an engine with one session.
func New(opts Options, hist *history.Store, log logging.Logger) *Engine {
	opts = opts.withDefaults()
	if log == nil {
		log = logging.NewNop()
	}
	if hist == nil {
		hist = history.New(nil, 0, log)
	}
	e := &Engine{
		opts:      opts,
		log:       log.With("component", "engine"),
		history:   hist,
		completer: completion.NewEngine(opts.Lister),
		jobs:      jobs.NewController(jobs.Options{Shell: opts.Shell, PollInterval: opts.PollInterval}, log),
		width:     defaultWidth,
		height:    defaultHeight,
	}
	if p, err := formatter.NewPrompt(opts.Prompt); err == nil {
		e.prompt = p
	} else {
		e.log.Warn("invalid prompt template, using it verbatim", "prompt", opts.Prompt, "error", err)
	}
	e.promptVars = promptEnvironment()
	e.newSession()
	e.messages = errors.NewSessionHandler(e.Active(), func(m errors.Message) {
		e.log.Debug("session message", "type", int(m.Type), "text", m.Text)
	})
	return e
}

func promptEnvironment() formatter.VariableContext {
	vars := formatter.VariableContext{User: os.Getenv("USER")}
	vars.Host, _ = os.Hostname()
	vars.Home, _ = os.UserHomeDir()
	return vars
}

// Active returns the shown session.
func (e *Engine) Active() *session.Session { return e.sessions[e.active] }

// ActiveIndex returns the index of the shown session.
func (e *Engine) ActiveIndex() int { return e.active }

// Sessions returns the number of sessions.
func (e *Engine) Sessions() int { return len(e.sessions) }

// Session returns session i.
func (e *Engine) Session(i int) *session.Session { return e.sessions[i] }

// Mode returns the current input mode.
func (e *Engine) Mode() Mode { return e.mode }

// Exited reports whether the exit command ran.
func (e *Engine) Exited() bool { return e.exited }

// History returns the history store.
func (e *Engine) History() *history.Store { return e.history }

// Jobs returns the job controller.
func (e *Engine) Jobs() *jobs.Controller { return e.jobs }

// Messages returns the handler that writes user-facing messages into the
// active session.
func (e *Engine) Messages() errors.ErrorHandler { return e.messages }

func (e *Engine) rows() int {
	if e.height <= 2 {
		return 1
	}
	return e.height - 1
}

// View builds the frame for the active session.
func (e *Engine) View() View {
	return View{
		Tabs:    len(e.sessions),
		Active:  e.active,
		Session: e.Active().Snapshot(e.rows()),
		Prompt:  e.promptText(),
		Mode:    e.mode,
		Busy:    e.busy,
		Width:   e.width,
		Height:  e.height,
	}
}

// promptText expands the prompt template. A failing expansion falls back
// to the configured text.
func (e *Engine) promptText() string {
	if e.prompt == nil {
		return e.opts.Prompt
	}
	if e.prompt.Static() {
		return e.prompt.Template()
	}
	vars := e.promptVars
	vars.Tab = e.active
	vars.Tabs = len(e.sessions)
	vars.Jobs = len(e.jobs.Background())
	if dir, err := e.opts.Dir(); err == nil {
		vars.Dir = dir
	}
	text, err := e.prompt.Render(vars)
	if err != nil {
		return e.opts.Prompt
	}
	return text
}

func (e *Engine) render() {
	if e.surface != nil {
		e.surface.Render(e.View())
	}
}

// Attach sets the surface and the event source used by nested waits.
func (e *Engine) Attach(events <-chan event.Event, surface Surface) {
	e.events = events
	e.surface = surface
}

// Run dispatches events until exit, until events is closed or until ctx
// is done. Sessions and jobs are shut down before it returns.
func (e *Engine) Run(ctx context.Context, events <-chan event.Event, surface Surface) error {
	e.Attach(events, surface)
	e.render()
	for !e.exited {
		select {
		case <-ctx.Done():
			e.Shutdown()
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				e.Shutdown()
				return nil
			}
			e.Dispatch(ctx, ev)
		}
	}
	return nil
}

// Shutdown persists the history, terminates background jobs and every
// sub-shell, and closes the surface. It runs once.
func (e *Engine) Shutdown() {
	if e.closed {
		return
	}
	e.closed = true
	if err := e.history.Flush(); err != nil {
		e.log.Error("save history at exit failed", "error", err)
	}
	e.jobs.Shutdown()
	for _, s := range e.sessions {
		if err := s.Close(); err != nil {
			e.log.Warn("close sub-shell failed", "session", s.ID, "error", err)
		}
	}
	if e.surface != nil {
		e.surface.Close()
	}
	e.log.Info("engine shut down", "sessions", len(e.sessions))
}

func (e *Engine) newSession() bool {
	if len(e.sessions) >= e.opts.MaxSessions {
		return false
	}
	s := session.New(e.opts.Session)
	sh, err := e.opts.StartShell(e.opts.Shell)
	if err != nil {
		e.log.Warn("start sub-shell failed", "session", s.ID, "error", err)
	} else if sh != nil {
		s.AttachShell(sh)
	}
	e.sessions = append(e.sessions, s)
	e.switchTo(len(e.sessions) - 1)
	e.log.Debug("session created", "session", s.ID, "count", len(e.sessions))
	return true
}

func (e *Engine) switchTo(i int) {
	if i < 0 || i >= len(e.sessions) {
		return
	}
	e.active = i
	if e.messages != nil {
		e.messages.Retarget(e.sessions[i])
	}
}

func (e *Engine) follow(s *session.Session) {
	s.Follow(e.rows())
}

func (e *Engine) resize(width, height int) {
	if width > 0 {
		e.width = width
	}
	if height > 0 {
		e.height = height
	}
	e.follow(e.Active())
}

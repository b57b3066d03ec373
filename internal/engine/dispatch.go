package engine

import (
	"context"

	"github.com/cristianoliveira/myterm/internal/command"
	"github.com/cristianoliveira/myterm/internal/completion"
	"github.com/cristianoliveira/myterm/internal/event"
	"github.com/cristianoliveira/myterm/internal/session"
	"github.com/cristianoliveira/myterm/internal/watch"
)

const (
	searchPrompt      = "Enter search term: "
	searchReserve     = 20
	searchBusyMessage = "Cannot search history while command is running"
)

// Dispatch handles one input event and renders the result.
func (e *Engine) Dispatch(ctx context.Context, ev event.Event) {
	if e.exited {
		return
	}
	switch ev.Kind {
	case event.KindResize:
		e.resize(ev.Width, ev.Height)
	case event.KindPointer:
		e.click(ev.X, ev.Y)
	case event.KindKey:
		e.key(ctx, ev)
	}
	if !e.exited {
		e.render()
	}
}

func (e *Engine) click(x, y int) {
	if y != 0 || x < 0 || e.mode != ModeNormal {
		return
	}
	e.switchTo(x / TabWidth)
}

func (e *Engine) key(ctx context.Context, ev event.Event) {
	s := e.Active()
	switch ev.Key {
	case event.KeyUp:
		s.ScrollUp()
		return
	case event.KeyDown:
		s.ScrollDown()
		return
	case event.KeyLeft:
		s.ScrollLeft()
		return
	case event.KeyRight:
		s.ScrollRight()
		return
	}

	switch e.mode {
	case ModeHistorySearch:
		e.searchKey(s, ev)
	case ModeSelection:
		e.selectionKey(s, ev)
	default:
		e.normalKey(ctx, s, ev)
	}
	e.follow(s)
}

func (e *Engine) normalKey(ctx context.Context, s *session.Session, ev event.Event) {
	switch ev.Key {
	case event.KeyCtrlC, event.KeyCtrlZ, event.KeyEscape:
	case event.KeyCtrlA:
		s.CursorToStart()
	case event.KeyCtrlE:
		s.CursorToEnd()
	case event.KeyCtrlT:
		e.newSession()
	case event.KeyCtrlN:
		e.switchTo((e.active + 1) % len(e.sessions))
	case event.KeyCtrlR:
		e.beginSearch(s)
	case event.KeyTab:
		e.complete(s)
	case event.KeyEnter:
		e.commit(ctx, s)
	case event.KeyBackspace:
		s.DeleteCharBeforeCursor()
	case event.KeyRune:
		if ev.IsPrintable() {
			s.InsertChar(ev.Rune)
		}
	}
}

// beginSearch turns an empty current row into the search row. Text already
// typed stays on its own row and the search opens below it.
func (e *Engine) beginSearch(s *session.Session) {
	e.mode = ModeHistorySearch
	e.searchTerm = e.searchTerm[:0]
	if s.Text() != "" {
		s.OpenLine(searchPrompt, session.LineOutput)
		return
	}
	s.SetLine(searchPrompt, session.LineOutput)
}

func (e *Engine) searchKey(s *session.Session, ev event.Event) {
	switch {
	case ev.IsKey(event.KeyEnter):
		e.mode = ModeNormal
		result := e.history.Search(string(e.searchTerm))
		s.AppendOutput(result.Message())
		s.BeginNewPromptLine()
	case ev.IsKey(event.KeyEscape):
		e.mode = ModeNormal
		s.BeginNewPromptLine()
	case ev.IsKey(event.KeyBackspace):
		if n := len(e.searchTerm); n > 0 {
			e.searchTerm = e.searchTerm[:n-1]
		}
		s.SetLine(searchPrompt+string(e.searchTerm), session.LineOutput)
	case ev.IsPrintable():
		if len(e.searchTerm) < e.opts.Session.LineCapacity-searchReserve {
			e.searchTerm = append(e.searchTerm, ev.Rune)
		}
		s.SetLine(searchPrompt+string(e.searchTerm), session.LineOutput)
	}
}

func (e *Engine) complete(s *session.Session) {
	if s.Kind() != session.LinePrompt {
		return
	}
	dir, err := e.opts.Dir()
	if err != nil {
		e.log.Warn("resolve working directory failed", "error", err)
		return
	}
	res, err := e.completer.Complete(s.Text(), dir)
	if err != nil {
		e.log.Warn("completion failed", "dir", dir, "error", err)
		return
	}
	switch res.Kind {
	case completion.Single:
		s.SetLine(res.Line, session.LinePrompt)
	case completion.Multiple:
		e.selection = completion.NewSelection(res.Candidates, res.Prefix, s.CurrentLine(), s.Text())
		e.mode = ModeSelection
		s.AppendOutput(completion.Listing(res.Candidates))
		s.OpenLine(e.selection.PromptText(), session.LineOutput)
	}
}

func (e *Engine) selectionKey(s *session.Session, ev event.Event) {
	sel := e.selection
	switch {
	case ev.IsKey(event.KeyEnter):
		text, outcome := sel.Resolve()
		e.endSelection(s, text)
		if outcome == completion.Invalid {
			e.messages.Error(completion.InvalidSelectionMessage)
			s.OpenLine(text, session.LinePrompt)
			s.ClearBelow()
		}
	case ev.IsKey(event.KeyEscape):
		e.endSelection(s, sel.OriginText)
	case ev.IsKey(event.KeyBackspace):
		sel.Backspace()
		s.SetLine(sel.PromptText(), session.LineOutput)
	case ev.IsKey(event.KeyRune):
		if sel.AddDigit(ev.Rune) {
			s.SetLine(sel.PromptText(), session.LineOutput)
		}
	}
}

// endSelection reinstates the origin row as the editable prompt holding
// text and drops the listing below it.
func (e *Engine) endSelection(s *session.Session, text string) {
	s.MoveTo(e.selection.OriginLine)
	s.SetLine(text, session.LinePrompt)
	s.ClearBelow()
	e.selection = nil
	e.mode = ModeNormal
}

// commit handles Enter on the prompt row: it either extends the pending
// multi-line command or dispatches the composed command.
func (e *Engine) commit(ctx context.Context, s *session.Session) {
	if s.Full() {
		return
	}
	line := s.Text()
	if body, ok := command.SplitContinuation(line, e.opts.ContinuationMarker); ok {
		s.AppendPending(body + "\n")
		s.BeginContinuationLine()
		return
	}

	cmd := s.Pending() + line
	kind := command.Classify(cmd)
	if kind != command.Empty {
		e.history.Record(cmd)
	}
	e.log.Debug("command committed", "session", s.ID, "kind", kind.String(), "command", cmd)
	switch kind {
	case command.History:
		s.AppendOutput(e.history.RenderAll())
		s.BeginNewPromptLine()
	case command.MultiWatch:
		e.runWatch(ctx, s, cmd)
	case command.Exit:
		e.exited = true
		e.Shutdown()
	case command.Empty:
		s.BeginNewPromptLine()
	default:
		e.runJob(ctx, s, cmd)
	}
}

func (e *Engine) runJob(ctx context.Context, s *session.Session, cmd string) {
	e.busy = true
	e.render()
	job, err := e.jobs.Run(ctx, cmd, s.ID, e.events, &monitor{e: e, s: s})
	e.busy = false
	if err != nil {
		e.log.Error("foreground job failed", "command", cmd, "error", err)
	} else if job != nil && job.Err != nil {
		e.log.Debug("job did not start", "command", cmd, "error", job.Err)
	}
	s.BeginNewPromptLine()
}

func (e *Engine) runWatch(ctx context.Context, s *session.Session, cmd string) {
	sup, err := watch.FromLine(cmd, watch.Options{Shell: e.opts.Shell, Interval: e.opts.WatchInterval}, e.log)
	if err != nil {
		e.messages.Error(err.Error())
		s.BeginNewPromptLine()
		return
	}
	e.busy = true
	e.render()
	if err := sup.Run(ctx, e.events, &monitor{e: e, s: s}); err != nil {
		e.log.Error("multiWatch failed", "error", err)
	}
	e.busy = false
	s.BeginNewPromptLine()
	s.ClearBelow()
	s.ResetHorizontalScroll()
}

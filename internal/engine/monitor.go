package engine

import (
	"github.com/cristianoliveira/myterm/internal/event"
	"github.com/cristianoliveira/myterm/internal/session"
)

// monitor feeds a running job or watcher back into its session.
type monitor struct {
	e *Engine
	s *session.Session
}

func (m *monitor) Output(text string) {
	m.s.AppendOutput(text)
	m.e.follow(m.s)
	m.e.render()
}

func (m *monitor) Notice(ev event.Event) {
	switch {
	case ev.Kind == event.KindResize:
		m.e.resize(ev.Width, ev.Height)
	case ev.IsKey(event.KeyCtrlR):
		m.s.AppendOutput(searchBusyMessage)
		m.e.follow(m.s)
	default:
		return
	}
	m.e.render()
}

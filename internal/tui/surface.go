package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cristianoliveira/myterm/internal/engine"
)

// sender is the part of *tea.Program the surface needs.
type sender interface {
	Send(msg tea.Msg)
}

// Surface delivers engine views to a running program. Render never
// blocks: frames are coalesced and the latest one is sent by a pump
// goroutine, so the engine keeps running while the program is busy.
type Surface struct {
	program sender

	mu      sync.Mutex
	latest  engine.View
	pending bool
	closed  bool

	wake chan struct{}
	done chan struct{}
}

// NewSurface starts the pump for program.
func NewSurface(program sender) *Surface {
	s := &Surface{
		program: program,
		wake:    make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	go s.pump()
	return s
}

// Render queues v as the next frame.
func (s *Surface) Render(v engine.View) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.latest = v
	s.pending = true
	select {
	case s.wake <- struct{}{}:
	default:
	}
	s.mu.Unlock()
}

// Close sends the last queued frame and asks the program to quit.
func (s *Surface) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	close(s.wake)
	s.mu.Unlock()
	<-s.done
}

func (s *Surface) pump() {
	defer close(s.done)
	for range s.wake {
		s.flush()
	}
	s.flush()
	s.program.Send(closeMsg{})
}

func (s *Surface) flush() {
	s.mu.Lock()
	if !s.pending {
		s.mu.Unlock()
		return
	}
	v := s.latest
	s.pending = false
	s.mu.Unlock()
	s.program.Send(viewMsg(v))
}

// Package tui is the terminal display for the engine. It translates
// bubbletea input into engine events and paints engine views.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/cristianoliveira/myterm/internal/engine"
	"github.com/cristianoliveira/myterm/internal/event"
)

// viewMsg carries a new frame from the engine.
type viewMsg engine.View

// closeMsg ends the program once the engine has shut down.
type closeMsg struct{}

// Model is the bubbletea model. It holds the last frame and forwards
// input to the engine's event channel.
type Model struct {
	keys   keyMap
	styles Styles
	events chan<- event.Event
	view   engine.View
	ready  bool
}

// NewModel creates a model that forwards input on events.
func NewModel(events chan<- event.Event) *Model {
	return &Model{
		keys:   defaultKeyMap(),
		styles: DefaultStyles(),
		events: events,
	}
}

// Init initializes the TUI model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case viewMsg:
		m.view = engine.View(msg)
		m.ready = true
		return m, nil
	case closeMsg:
		return m, tea.Quit
	case tea.KeyMsg:
		m.emit(m.keys.translateKey(msg)...)
	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			m.emit(event.Click(msg.X, msg.Y))
		}
	case tea.WindowSizeMsg:
		m.emit(event.Resize(msg.Width, msg.Height))
	}
	return m, nil
}

// View renders the last frame received from the engine.
func (m *Model) View() string {
	if !m.ready {
		return ""
	}
	return Render(m.view, m.styles)
}

func (m *Model) emit(events ...event.Event) {
	for _, ev := range events {
		m.events <- ev
	}
}

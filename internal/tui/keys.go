package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/cristianoliveira/myterm/internal/event"
)

// keyMap binds terminal keys to engine key codes.
type keyMap struct {
	NewTab    key.Binding
	NextTab   key.Binding
	Interrupt key.Binding
	Suspend   key.Binding
	LineStart key.Binding
	LineEnd   key.Binding
	Search    key.Binding
	Complete  key.Binding
	Submit    key.Binding
	Erase     key.Binding
	Cancel    key.Binding
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		NewTab:    key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "new tab")),
		NextTab:   key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "next tab")),
		Interrupt: key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "interrupt")),
		Suspend:   key.NewBinding(key.WithKeys("ctrl+z"), key.WithHelp("ctrl+z", "background")),
		LineStart: key.NewBinding(key.WithKeys("ctrl+a", "home"), key.WithHelp("ctrl+a", "line start")),
		LineEnd:   key.NewBinding(key.WithKeys("ctrl+e", "end"), key.WithHelp("ctrl+e", "line end")),
		Search:    key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "search history")),
		Complete:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "complete")),
		Submit:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "run")),
		Erase:     key.NewBinding(key.WithKeys("backspace", "ctrl+h"), key.WithHelp("backspace", "erase")),
		Cancel:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Up:        key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "scroll up")),
		Down:      key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "scroll down")),
		Left:      key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "scroll left")),
		Right:     key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "scroll right")),
	}
}

func (k keyMap) codes() []struct {
	binding key.Binding
	code    event.KeyCode
} {
	return []struct {
		binding key.Binding
		code    event.KeyCode
	}{
		{k.NewTab, event.KeyCtrlT},
		{k.NextTab, event.KeyCtrlN},
		{k.Interrupt, event.KeyCtrlC},
		{k.Suspend, event.KeyCtrlZ},
		{k.LineStart, event.KeyCtrlA},
		{k.LineEnd, event.KeyCtrlE},
		{k.Search, event.KeyCtrlR},
		{k.Complete, event.KeyTab},
		{k.Submit, event.KeyEnter},
		{k.Erase, event.KeyBackspace},
		{k.Cancel, event.KeyEscape},
		{k.Up, event.KeyUp},
		{k.Down, event.KeyDown},
		{k.Left, event.KeyLeft},
		{k.Right, event.KeyRight},
	}
}

// translateKey converts a terminal key press into engine events. Pasted
// text and multi-rune input yield one event per character.
func (k keyMap) translateKey(msg tea.KeyMsg) []event.Event {
	switch msg.Type {
	case tea.KeyRunes:
		events := make([]event.Event, 0, len(msg.Runes))
		for _, r := range msg.Runes {
			events = append(events, event.Rune(r))
		}
		return events
	case tea.KeySpace:
		return []event.Event{event.Rune(' ')}
	}
	for _, c := range k.codes() {
		if key.Matches(msg, c.binding) {
			return []event.Event{event.Key(c.code)}
		}
	}
	return nil
}

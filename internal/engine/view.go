package engine

import "github.com/cristianoliveira/myterm/internal/session"

// Mode is the input mode of the engine.
type Mode int

const (
	// ModeNormal edits the prompt line.
	ModeNormal Mode = iota
	// ModeHistorySearch collects a history search term.
	ModeHistorySearch
	// ModeSelection collects a completion selection number.
	ModeSelection
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeHistorySearch:
		return "history-search"
	case ModeSelection:
		return "selection"
	default:
		return "normal"
	}
}

// View is what a surface needs to paint one frame.
type View struct {
	// Tabs is the number of sessions and Active the index of the shown one.
	Tabs   int
	Active int
	// Session holds the visible rows of the active session.
	Session session.Snapshot
	Prompt  string
	Mode    Mode
	// Busy is set while a foreground job or multiWatch runs.
	Busy   bool
	Width  int
	Height int
}

// Surface paints views. Render is called after every state change.
type Surface interface {
	Render(v View)
	Close()
}

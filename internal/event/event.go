// Package event defines the input events the engine consumes: keys,
// pointer presses and surface resizes. Display adapters translate their
// native input into these values.
package event

import "fmt"

// Kind is the category of an input event.
type Kind int

const (
	KindKey Kind = iota
	KindPointer
	KindResize
)

// KeyCode identifies a non-printable key or control chord.
// Printable input uses KeyRune with Event.Rune set.
type KeyCode int

const (
	KeyRune KeyCode = iota
	KeyEnter
	KeyBackspace
	KeyTab
	KeyEscape
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyCtrlA
	KeyCtrlC
	KeyCtrlE
	KeyCtrlN
	KeyCtrlR
	KeyCtrlT
	KeyCtrlZ
)

var keyNames = map[KeyCode]string{
	KeyRune:      "rune",
	KeyEnter:     "enter",
	KeyBackspace: "backspace",
	KeyTab:       "tab",
	KeyEscape:    "esc",
	KeyUp:        "up",
	KeyDown:      "down",
	KeyLeft:      "left",
	KeyRight:     "right",
	KeyCtrlA:     "ctrl+a",
	KeyCtrlC:     "ctrl+c",
	KeyCtrlE:     "ctrl+e",
	KeyCtrlN:     "ctrl+n",
	KeyCtrlR:     "ctrl+r",
	KeyCtrlT:     "ctrl+t",
	KeyCtrlZ:     "ctrl+z",
}

func (k KeyCode) String() string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	return fmt.Sprintf("key(%d)", int(k))
}

// Event is a single input event.
type Event struct {
	Kind Kind

	// Key and Rune are set for KindKey.
	Key  KeyCode
	Rune rune

	// X and Y are the cell coordinates of a KindPointer press.
	X, Y int

	// Width and Height are the new surface size for KindResize.
	Width, Height int
}

// Key returns a key event for code.
func Key(code KeyCode) Event {
	return Event{Kind: KindKey, Key: code}
}

// Rune returns a key event for a printable character.
func Rune(r rune) Event {
	return Event{Kind: KindKey, Key: KeyRune, Rune: r}
}

// Runes returns one key event per character of s.
func Runes(s string) []Event {
	events := make([]Event, 0, len(s))
	for _, r := range s {
		events = append(events, Rune(r))
	}
	return events
}

// Click returns a pointer press at cell (x, y).
func Click(x, y int) Event {
	return Event{Kind: KindPointer, X: x, Y: y}
}

// Resize returns a resize event.
func Resize(width, height int) Event {
	return Event{Kind: KindResize, Width: width, Height: height}
}

// IsKey reports whether e is a key event with the given code.
func (e Event) IsKey(code KeyCode) bool {
	return e.Kind == KindKey && e.Key == code
}

// IsInterrupt reports whether e is the interrupt chord (Ctrl+C).
func (e Event) IsInterrupt() bool {
	return e.IsKey(KeyCtrlC)
}

// IsSuspend reports whether e is the suspend chord (Ctrl+Z).
func (e Event) IsSuspend() bool {
	return e.IsKey(KeyCtrlZ)
}

// IsPrintable reports whether e carries a printable character.
func (e Event) IsPrintable() bool {
	return e.IsKey(KeyRune) && e.Rune >= ' ' && e.Rune != 0x7f
}

func (e Event) String() string {
	switch e.Kind {
	case KindKey:
		if e.Key == KeyRune {
			return fmt.Sprintf("key(%q)", e.Rune)
		}
		return "key(" + e.Key.String() + ")"
	case KindPointer:
		return fmt.Sprintf("pointer(%d,%d)", e.X, e.Y)
	case KindResize:
		return fmt.Sprintf("resize(%dx%d)", e.Width, e.Height)
	default:
		return "unknown"
	}
}

// Package session implements a terminal tab: a fixed-capacity line buffer
// with an editable prompt line, its scroll state, the continuation buffer
// for multi-line commands, and the long-lived sub-shell owned by the tab.
package session

import (
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

// LineKind tells the renderer whether to draw the prompt prefix.
type LineKind int

const (
	// LinePrompt is an editable command line, drawn with the prompt prefix.
	LinePrompt LineKind = iota
	// LineOutput is child output or a message, drawn verbatim.
	LineOutput
)

// Line is one buffer row.
type Line struct {
	Text string
	Kind LineKind
}

// Defaults used when Options leaves a field at zero.
const (
	DefaultMaxLines     = 1000
	DefaultLineCapacity = 255
)

// Options sizes a session buffer.
type Options struct {
	// MaxLines is the number of rows the buffer holds.
	MaxLines int
	// LineCapacity is the maximum number of characters per row.
	LineCapacity int
}

func (o Options) withDefaults() Options {
	if o.MaxLines <= 1 {
		o.MaxLines = DefaultMaxLines
	}
	if o.LineCapacity <= 0 {
		o.LineCapacity = DefaultLineCapacity
	}
	return o
}

// Session is one tab. It is owned by the engine goroutine and is not safe
// for concurrent use.
type Session struct {
	ID string

	opts    Options
	lines   []Line
	current int
	cursor  int
	scrollY int
	scrollX int
	pending strings.Builder
	shell   *Subshell
}

// New returns an empty session whose first row is an empty prompt.
func New(opts Options) *Session {
	opts = opts.withDefaults()
	return &Session{
		ID:    uuid.NewString(),
		opts:  opts,
		lines: make([]Line, opts.MaxLines),
	}
}

// AttachShell hands ownership of a running sub-shell to the session.
func (s *Session) AttachShell(sh *Subshell) {
	s.shell = sh
}

// Shell returns the session's sub-shell, or nil.
func (s *Session) Shell() *Subshell {
	return s.shell
}

// Close terminates the session's sub-shell.
func (s *Session) Close() error {
	if s.shell == nil {
		return nil
	}
	err := s.shell.Close()
	s.shell = nil
	return err
}

// CurrentLine is the index of the row being edited.
func (s *Session) CurrentLine() int { return s.current }

// Cursor is the character offset of the cursor within the current row.
func (s *Session) Cursor() int { return s.cursor }

// ScrollY is the index of the first visible row.
func (s *Session) ScrollY() int { return s.scrollY }

// ScrollX is the horizontal scroll offset in characters.
func (s *Session) ScrollX() int { return s.scrollX }

// MaxLines returns the buffer capacity in rows.
func (s *Session) MaxLines() int { return s.opts.MaxLines }

// Line returns row i. Rows outside the buffer are empty prompts.
func (s *Session) Line(i int) Line {
	if i < 0 || i >= len(s.lines) {
		return Line{}
	}
	return s.lines[i]
}

// Text returns the current row's text.
func (s *Session) Text() string {
	return s.lines[s.current].Text
}

// Kind returns the current row's kind.
func (s *Session) Kind() LineKind {
	return s.lines[s.current].Kind
}

// Full reports whether there is no row left after the current one.
func (s *Session) Full() bool {
	return s.current >= s.opts.MaxLines-1
}

// Pending returns the accumulated text of a multi-line command.
func (s *Session) Pending() string {
	return s.pending.String()
}

// AppendPending adds a continuation fragment to the pending command.
func (s *Session) AppendPending(text string) {
	s.pending.WriteString(text)
}

// ClearPending drops the pending multi-line command.
func (s *Session) ClearPending() {
	s.pending.Reset()
}

// AppendOutput writes text below the current row, one row per line break
// separated fragment. Empty fragments are skipped. Fragments longer than
// the line capacity are truncated and rows past the buffer end are dropped.
// The current row ends on the last written fragment and the row after it
// is marked as a prompt.
func (s *Session) AppendOutput(text string) {
	if text == "" {
		return
	}
	idx := s.current
	for _, fragment := range strings.Split(text, "\n") {
		fragment = strings.TrimSuffix(fragment, "\r")
		if fragment == "" {
			continue
		}
		if idx >= s.opts.MaxLines-1 {
			break
		}
		idx++
		s.lines[idx] = Line{Text: s.truncate(fragment), Kind: LineOutput}
	}
	s.current = idx
	if s.current+1 < s.opts.MaxLines {
		s.lines[s.current+1].Kind = LinePrompt
	}
}

// InsertChar inserts r at the cursor. It is a no-op when the row is full.
func (s *Session) InsertChar(r rune) {
	runes := []rune(s.lines[s.current].Text)
	if len(runes) >= s.opts.LineCapacity || s.cursor > len(runes) {
		return
	}
	runes = append(runes, 0)
	copy(runes[s.cursor+1:], runes[s.cursor:])
	runes[s.cursor] = r
	s.lines[s.current].Text = string(runes)
	s.cursor++
}

// DeleteCharBeforeCursor removes the character left of the cursor.
func (s *Session) DeleteCharBeforeCursor() {
	if s.cursor == 0 {
		return
	}
	runes := []rune(s.lines[s.current].Text)
	if s.cursor > len(runes) {
		s.cursor = len(runes)
		return
	}
	runes = append(runes[:s.cursor-1], runes[s.cursor:]...)
	s.lines[s.current].Text = string(runes)
	s.cursor--
}

// CursorToStart moves the cursor to the start of the row.
func (s *Session) CursorToStart() {
	s.cursor = 0
}

// CursorToEnd moves the cursor past the last character of the row.
func (s *Session) CursorToEnd() {
	s.cursor = utf8.RuneCountInString(s.lines[s.current].Text)
}

// BeginNewPromptLine opens an empty prompt row after the current one and
// clears the pending command. When the buffer is full the last row is
// reused.
func (s *Session) BeginNewPromptLine() {
	s.advance(LinePrompt)
	s.pending.Reset()
}

// BeginContinuationLine opens an empty row for the next part of a
// multi-line command. It keeps the pending command and is drawn without
// the prompt prefix.
func (s *Session) BeginContinuationLine() {
	s.advance(LineOutput)
}

// OpenLine moves to the next row and fills it with text, leaving the
// cursor at its end. The pending command is kept.
func (s *Session) OpenLine(text string, kind LineKind) {
	s.advance(kind)
	s.SetLine(text, kind)
}

func (s *Session) advance(kind LineKind) {
	if s.current < s.opts.MaxLines-1 {
		s.current++
	}
	s.lines[s.current] = Line{Kind: kind}
	s.cursor = 0
}

// SetLine replaces the current row and moves the cursor to its end.
func (s *Session) SetLine(text string, kind LineKind) {
	s.lines[s.current] = Line{Text: s.truncate(text), Kind: kind}
	s.CursorToEnd()
}

// MoveTo makes row i the current row, clamped to the buffer.
func (s *Session) MoveTo(i int) {
	if i < 0 {
		i = 0
	}
	if i > s.opts.MaxLines-1 {
		i = s.opts.MaxLines - 1
	}
	s.current = i
	s.CursorToEnd()
}

// ClearBelow empties every row after the current one.
func (s *Session) ClearBelow() {
	for i := s.current + 1; i < len(s.lines); i++ {
		s.lines[i] = Line{}
	}
}

// ScrollUp moves the view one row up.
func (s *Session) ScrollUp() {
	if s.scrollY > 0 {
		s.scrollY--
	}
}

// ScrollDown moves the view one row down, never past the current row.
func (s *Session) ScrollDown() {
	if s.scrollY < s.current {
		s.scrollY++
	}
}

// ScrollLeft moves the view one column left.
func (s *Session) ScrollLeft() {
	if s.scrollX > 0 {
		s.scrollX--
	}
}

// ScrollRight moves the view one column right.
func (s *Session) ScrollRight() {
	s.scrollX++
}

// ResetHorizontalScroll returns to the first column.
func (s *Session) ResetHorizontalScroll() {
	s.scrollX = 0
}

// Follow scrolls so that the current row is within a view of rows rows.
func (s *Session) Follow(rows int) {
	if rows < 1 {
		rows = 1
	}
	if s.current >= s.scrollY+rows {
		s.scrollY = s.current - rows + 1
	}
	if s.current < s.scrollY {
		s.scrollY = s.current
	}
}

func (s *Session) truncate(text string) string {
	if utf8.RuneCountInString(text) <= s.opts.LineCapacity {
		return text
	}
	return string([]rune(text)[:s.opts.LineCapacity])
}

// Snapshot is an immutable copy of what a session shows.
type Snapshot struct {
	ID      string
	Lines   []Line
	First   int // buffer index of Lines[0]
	Current int
	Cursor  int
	ScrollX int
}

// Snapshot copies at most rows rows starting at the scroll position. Rows
// after the current one are not included.
func (s *Session) Snapshot(rows int) Snapshot {
	first := s.scrollY
	last := first + rows - 1
	if last > s.current {
		last = s.current
	}
	var lines []Line
	if last >= first {
		lines = make([]Line, last-first+1)
		copy(lines, s.lines[first:last+1])
	}
	return Snapshot{
		ID:      s.ID,
		Lines:   lines,
		First:   first,
		Current: s.current,
		Cursor:  s.cursor,
		ScrollX: s.scrollX,
	}
}

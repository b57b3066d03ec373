package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/cristianoliveira/myterm/internal/colors"
	"github.com/cristianoliveira/myterm/internal/engine"
	"github.com/cristianoliveira/myterm/internal/session"
)

const tabStop = "    "

// Styles holds the lipgloss styles used to paint a frame.
type Styles struct {
	Tab       lipgloss.Style
	ActiveTab lipgloss.Style
	Prompt    lipgloss.Style
	Output    lipgloss.Style
	Cursor    lipgloss.Style
}

// DefaultStyles returns the standard palette.
func DefaultStyles() Styles {
	return Styles{
		Tab: lipgloss.NewStyle().
			Width(engine.TabWidth).
			Foreground(lipgloss.Color("241")),
		ActiveTab: lipgloss.NewStyle().
			Width(engine.TabWidth).
			Bold(true).
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color(ansiColorNumber(colors.Blue))),
		Prompt: lipgloss.NewStyle().
			Foreground(lipgloss.Color(ansiColorNumber(colors.Green))),
		Output: lipgloss.NewStyle(),
		Cursor: lipgloss.NewStyle().Reverse(true),
	}
}

// TabLabel is the label drawn for the tab at index i.
func TabLabel(i int) string {
	return fmt.Sprintf("[Tab %d]", i+1)
}

// TabStrip renders the first row: one fixed-width cell per session.
func TabStrip(v engine.View, styles Styles) string {
	var b strings.Builder
	for i := 0; i < v.Tabs; i++ {
		style := styles.Tab
		if i == v.Active {
			style = styles.ActiveTab
		}
		b.WriteString(style.Render(TabLabel(i)))
	}
	if v.Width > 0 {
		return lipgloss.NewStyle().MaxWidth(v.Width).Render(b.String())
	}
	return b.String()
}

// Render paints a whole frame: the tab strip followed by the visible rows
// of the active session.
func Render(v engine.View, styles Styles) string {
	rows := make([]string, 0, len(v.Session.Lines)+1)
	rows = append(rows, TabStrip(v, styles))
	for i, line := range v.Session.Lines {
		current := v.Session.First+i == v.Session.Current
		rows = append(rows, renderLine(v, line, current, styles))
	}
	return strings.Join(rows, "\n")
}

func renderLine(v engine.View, line session.Line, current bool, styles Styles) string {
	prefix := ""
	style := styles.Output
	if line.Kind == session.LinePrompt {
		prefix = v.Prompt
		style = styles.Prompt
	}
	text := []rune(prefix + strings.ReplaceAll(line.Text, "\t", tabStop))
	cursor := -1
	if current {
		cursor = len([]rune(prefix)) + v.Session.Cursor - v.Session.ScrollX
	}
	text = clip(text, v.Session.ScrollX, v.Width)
	if cursor < 0 || (v.Width > 0 && cursor >= v.Width) {
		return style.Render(string(text))
	}
	for len(text) <= cursor {
		text = append(text, ' ')
	}
	return style.Render(string(text[:cursor])) +
		styles.Cursor.Render(string(text[cursor])) +
		style.Render(string(text[cursor+1:]))
}

// clip drops the first offset characters and truncates to width.
func clip(text []rune, offset, width int) []rune {
	if offset >= len(text) {
		return nil
	}
	if offset > 0 {
		text = text[offset:]
	}
	if width > 0 && len(text) > width {
		text = text[:width]
	}
	return text
}

// ansiColorNumber extracts the color number from an ANSI escape sequence.
// Example: "\033[0;34m" -> "34"
func ansiColorNumber(ansi string) string {
	if len(ansi) < 2 {
		return ""
	}
	lastSemicolon := strings.LastIndex(ansi, ";")
	if lastSemicolon == -1 {
		return ""
	}
	return ansi[lastSemicolon+1 : len(ansi)-1]
}

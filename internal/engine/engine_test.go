package engine

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/cristianoliveira/myterm/internal/event"
	"github.com/cristianoliveira/myterm/internal/history"
	"github.com/cristianoliveira/myterm/internal/session"
	"github.com/cristianoliveira/myterm/internal/storage"
	"github.com/cristianoliveira/myterm/internal/watch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSurface struct {
	views  []View
	closed int
}

func (f *fakeSurface) Render(v View) { f.views = append(f.views, v) }
func (f *fakeSurface) Close()        { f.closed++ }

func (f *fakeSurface) last() View { return f.views[len(f.views)-1] }

func noShell(string) (*session.Subshell, error) { return nil, nil }

type harness struct {
	t       *testing.T
	e       *Engine
	surface *fakeSurface
	events  chan event.Event
	dir     string
}

func newHarness(t *testing.T, opts Options) *harness {
	t.Helper()
	dir := t.TempDir()
	if opts.StartShell == nil {
		opts.StartShell = noShell
	}
	if opts.Dir == nil {
		opts.Dir = func() (string, error) { return dir, nil }
	}
	if opts.PollInterval == 0 {
		opts.PollInterval = 20 * time.Millisecond
	}
	h := &harness{t: t, surface: &fakeSurface{}, events: make(chan event.Event, 16), dir: dir}
	h.e = New(opts, history.New(nil, 100, nil), nil)
	h.e.Attach(h.events, h.surface)
	return h
}

func (h *harness) send(evs ...event.Event) {
	for _, ev := range evs {
		h.e.Dispatch(context.Background(), ev)
	}
}

func (h *harness) typeLine(text string) {
	h.send(event.Runes(text)...)
	h.send(event.Key(event.KeyEnter))
}

func (h *harness) lines() []string {
	s := h.e.Active()
	var out []string
	for i := 0; i <= s.CurrentLine(); i++ {
		out = append(out, s.Line(i).Text)
	}
	return out
}

func TestTypingEditsPromptLine(t *testing.T) {
	h := newHarness(t, Options{})
	h.send(event.Runes("lss")...)
	h.send(event.Key(event.KeyBackspace), event.Key(event.KeyCtrlA), event.Rune('x'), event.Key(event.KeyCtrlE))

	s := h.e.Active()
	assert.Equal(t, "xls", s.Text())
	assert.Equal(t, 3, s.Cursor())
	assert.Equal(t, "xls", h.surface.last().Session.Lines[0].Text)
	assert.Equal(t, DefaultPrompt, h.surface.last().Prompt)
}

func TestRunCommandAppendsOutput(t *testing.T) {
	h := newHarness(t, Options{})
	h.typeLine("echo hello; echo world")

	assert.Equal(t, []string{"echo hello; echo world", "hello", "world", ""}, h.lines())
	s := h.e.Active()
	assert.Equal(t, session.LineOutput, s.Line(1).Kind)
	assert.Equal(t, session.LinePrompt, s.Kind())
	assert.Equal(t, []string{"echo hello; echo world"}, h.e.History().Entries())
	assert.False(t, h.surface.last().Busy)

	h.typeLine("echo hi | wc -l")
	lines := h.lines()
	require.Len(t, lines, 6)
	assert.Equal(t, "echo hi | wc -l", lines[3])
	assert.Equal(t, "1", strings.TrimSpace(lines[4]))
	assert.Empty(t, lines[5])
	assert.Equal(t, session.LinePrompt, s.Kind())
	assert.Equal(t, 0, s.Cursor())
}

func TestRunPipelineAndRedirect(t *testing.T) {
	h := newHarness(t, Options{})
	out := filepath.Join(h.dir, "out.txt")

	h.typeLine("printf 'b\\na\\n' | sort > " + out)
	assert.Equal(t, []string{"printf 'b\\na\\n' | sort > " + out, ""}, h.lines())

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "a\nb\n", string(data))

	h.typeLine("cat < " + out)
	assert.Equal(t, "a", h.e.Active().Line(2).Text)
	assert.Equal(t, "b", h.e.Active().Line(3).Text)
}

func TestRedirectFailureOpensPrompt(t *testing.T) {
	h := newHarness(t, Options{})
	h.typeLine("cat < " + filepath.Join(h.dir, "missing"))

	assert.Equal(t, 1, h.e.Active().CurrentLine())
	assert.Equal(t, session.LinePrompt, h.e.Active().Kind())
}

func TestContinuationLines(t *testing.T) {
	h := newHarness(t, Options{})
	h.typeLine(`echo one \`)

	s := h.e.Active()
	assert.Equal(t, "echo one\n", s.Pending())
	assert.Equal(t, 1, s.CurrentLine())
	assert.Equal(t, session.LineOutput, s.Kind())

	h.typeLine("echo two")
	assert.Equal(t, []string{`echo one \`, "echo two", "one", "two", ""}, h.lines())
	assert.Empty(t, h.e.Active().Pending())
	assert.Equal(t, []string{"echo one\necho two"}, h.e.History().Entries())
}

func TestEmptyCommandOpensPrompt(t *testing.T) {
	h := newHarness(t, Options{})
	h.typeLine("   ")

	assert.Equal(t, 1, h.e.Active().CurrentLine())
	assert.Empty(t, h.e.History().Entries())
}

func TestHistoryCommand(t *testing.T) {
	h := newHarness(t, Options{})
	h.e.History().Record("ls")

	h.typeLine("history")
	assert.Equal(t, []string{"history", "    1  ls", "    2  history", ""}, h.lines())
}

func TestHistorySearch(t *testing.T) {
	tests := []struct {
		name string
		keys []event.Event
		want string
	}{
		{
			name: "exact",
			keys: append(event.Runes("make"), event.Key(event.KeyEnter)),
			want: "Found: make",
		},
		{
			name: "closest",
			keys: append(event.Runes("git stx"), event.Key(event.KeyBackspace), event.Key(event.KeyEnter)),
			want: "Closest match (substring length 6): git status",
		},
		{
			name: "no match",
			keys: append(event.Runes("zz"), event.Key(event.KeyEnter)),
			want: "No match for search term in history",
		},
		{
			name: "empty",
			keys: []event.Event{event.Key(event.KeyEnter)},
			want: "No search term entered",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, Options{})
			h.e.History().Record("git status")
			h.e.History().Record("make")

			h.send(event.Key(event.KeyCtrlR))
			assert.Equal(t, ModeHistorySearch, h.e.Mode())
			assert.Equal(t, searchPrompt, h.e.Active().Text())
			assert.Equal(t, session.LineOutput, h.e.Active().Kind())

			h.send(tt.keys...)
			assert.Equal(t, ModeNormal, h.e.Mode())
			assert.Equal(t, []string{tt.want, ""}, h.lines()[1:])
			assert.Equal(t, session.LinePrompt, h.e.Active().Kind())
		})
	}
}

func TestHistorySearchEscape(t *testing.T) {
	h := newHarness(t, Options{})
	h.send(event.Key(event.KeyCtrlR))
	h.send(event.Runes("abc")...)
	assert.Equal(t, searchPrompt+"abc", h.e.Active().Text())

	h.send(event.Key(event.KeyEscape))
	assert.Equal(t, ModeNormal, h.e.Mode())
	assert.Equal(t, 1, h.e.Active().CurrentLine())
	assert.Equal(t, session.LinePrompt, h.e.Active().Kind())
}

func TestHistorySearchKeepsTypedText(t *testing.T) {
	h := newHarness(t, Options{})
	h.e.History().Record("make")

	h.send(event.Runes("ls -l")...)
	h.send(event.Key(event.KeyCtrlR))
	assert.Equal(t, []string{"ls -l", searchPrompt}, h.lines())

	h.send(event.Runes("make")...)
	h.send(event.Key(event.KeyEnter))
	assert.Equal(t, []string{"ls -l", searchPrompt + "make", "Found: make", ""}, h.lines())
	assert.Equal(t, session.LinePrompt, h.e.Active().Kind())
}

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, n := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), nil, 0644))
	}
}

func TestCompletionSingle(t *testing.T) {
	h := newHarness(t, Options{})
	writeFiles(t, h.dir, "readme.md", ".rc")

	h.send(event.Runes("cat rea")...)
	h.send(event.Key(event.KeyTab))

	assert.Equal(t, "cat readme.md", h.e.Active().Text())
	assert.Equal(t, len("cat readme.md"), h.e.Active().Cursor())
	assert.Equal(t, ModeNormal, h.e.Mode())
}

func TestCompletionSelection(t *testing.T) {
	tests := []struct {
		name     string
		keys     []event.Event
		wantLine string
		wantMsg  bool
	}{
		{
			name:     "valid",
			keys:     []event.Event{event.Rune('2'), event.Key(event.KeyEnter)},
			wantLine: "cat notes.txt ",
		},
		{
			name:     "backspace then valid",
			keys:     []event.Event{event.Rune('9'), event.Key(event.KeyBackspace), event.Rune('1'), event.Key(event.KeyEnter)},
			wantLine: "cat notes.md ",
		},
		{
			name:     "empty",
			keys:     []event.Event{event.Key(event.KeyEnter)},
			wantLine: "cat no",
			wantMsg:  true,
		},
		{
			name:     "escape",
			keys:     []event.Event{event.Rune('1'), event.Key(event.KeyEscape)},
			wantLine: "cat no",
		},
		{
			name:     "invalid",
			keys:     []event.Event{event.Rune('7'), event.Key(event.KeyEnter)},
			wantLine: "cat no",
			wantMsg:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, Options{})
			writeFiles(t, h.dir, "notes.txt", "notes.md", "other")

			h.send(event.Runes("cat no")...)
			h.send(event.Key(event.KeyTab))
			require.Equal(t, ModeSelection, h.e.Mode())
			assert.Equal(t, []string{
				"cat no",
				"1. notes.md  2. notes.txt  ",
				"Enter selection number (1-2) and press Enter: ",
				"Selection: ",
			}, h.lines())

			h.send(event.Rune('x'))
			assert.Equal(t, "Selection: ", h.e.Active().Text())

			h.send(tt.keys...)
			s := h.e.Active()
			assert.Equal(t, ModeNormal, h.e.Mode())
			assert.Equal(t, tt.wantLine, s.Text())
			assert.Equal(t, session.LinePrompt, s.Kind())
			if tt.wantMsg {
				assert.Equal(t, []string{"cat no", "Invalid selection number", "cat no"}, h.lines())
			} else {
				assert.Equal(t, 0, s.CurrentLine())
			}
			assert.Empty(t, s.Line(s.CurrentLine()+1).Text)
		})
	}
}

func TestCompletionIgnoresEmptyPrefix(t *testing.T) {
	h := newHarness(t, Options{})
	writeFiles(t, h.dir, "a", "b")

	h.send(event.Runes("ls ")...)
	h.send(event.Key(event.KeyTab))
	assert.Equal(t, "ls ", h.e.Active().Text())
	assert.Equal(t, ModeNormal, h.e.Mode())
}

func TestSessions(t *testing.T) {
	h := newHarness(t, Options{MaxSessions: 3})
	first := h.e.Active()

	h.send(event.Key(event.KeyCtrlT), event.Key(event.KeyCtrlT), event.Key(event.KeyCtrlT))
	assert.Equal(t, 3, h.e.Sessions())
	assert.Equal(t, 2, h.e.ActiveIndex())
	assert.Equal(t, 3, h.surface.last().Tabs)

	h.send(event.Key(event.KeyCtrlN))
	assert.Equal(t, 0, h.e.ActiveIndex())
	assert.Same(t, first, h.e.Active())

	h.send(event.Click(TabWidth+3, 0))
	assert.Equal(t, 1, h.e.ActiveIndex())

	h.send(event.Click(TabWidth*7, 0), event.Click(2, 5))
	assert.Equal(t, 1, h.e.ActiveIndex())

	h.typeLine("echo routed")
	assert.Equal(t, "routed", h.e.Session(1).Line(1).Text)
	assert.Equal(t, 0, first.CurrentLine())
}

func TestScrollKeys(t *testing.T) {
	h := newHarness(t, Options{})
	h.typeLine("printf '1\\n2\\n3\\n'")
	s := h.e.Active()
	require.Equal(t, 4, s.CurrentLine())

	h.send(event.Key(event.KeyUp))
	assert.Equal(t, 0, s.ScrollY())
	for range 10 {
		h.send(event.Key(event.KeyDown))
	}
	assert.Equal(t, 4, s.ScrollY())

	h.send(event.Key(event.KeyLeft))
	assert.Equal(t, 0, s.ScrollX())
	h.send(event.Key(event.KeyRight), event.Key(event.KeyRight))
	assert.Equal(t, 2, s.ScrollX())
	assert.Equal(t, 2, h.surface.last().Session.ScrollX)
}

func TestResizeFollowsCurrentLine(t *testing.T) {
	h := newHarness(t, Options{})
	h.typeLine("seq 1 10")
	h.send(event.Resize(120, 5))

	v := h.surface.last()
	assert.Equal(t, 120, v.Width)
	assert.Equal(t, 5, v.Height)
	assert.Len(t, v.Session.Lines, 4)
	assert.Equal(t, h.e.Active().CurrentLine(), v.Session.First+len(v.Session.Lines)-1)
}

func TestMultiWatchInvalid(t *testing.T) {
	h := newHarness(t, Options{})
	h.typeLine("multiWatch date")

	assert.Equal(t, []string{"multiWatch date", `Invalid format. Use: multiWatch ["cmd1", "cmd2"]`, ""}, h.lines())
	assert.Equal(t, session.LinePrompt, h.e.Active().Kind())
}

func TestMultiWatchRunsUntilInterrupt(t *testing.T) {
	if testing.Short() {
		t.Skip("sleeps")
	}
	h := newHarness(t, Options{WatchInterval: 100 * time.Millisecond})
	go func() {
		time.Sleep(250 * time.Millisecond)
		h.events <- event.Key(event.KeyCtrlC)
	}()

	h.typeLine(`multiWatch ["echo tick"]`)

	lines := h.lines()
	assert.Equal(t, watch.StartBanner, lines[1])
	var header string
	for _, l := range lines {
		if strings.HasPrefix(l, `"echo tick", `) {
			header = l
			break
		}
	}
	require.NotEmpty(t, header)
	_, err := time.ParseInLocation(watch.TimeLayout+":", strings.TrimPrefix(header, `"echo tick", `), time.Local)
	assert.NoError(t, err)
	assert.Contains(t, lines, "tick")
	assert.Contains(t, lines, strings.Repeat("-", 52))
	assert.Equal(t, watch.StopBanner, lines[len(lines)-2])
	assert.Empty(t, lines[len(lines)-1])

	s := h.e.Active()
	assert.Equal(t, session.LinePrompt, s.Kind())
	assert.Equal(t, 0, s.Cursor())
	assert.Empty(t, s.Pending())
	assert.Empty(t, s.Line(s.CurrentLine()+1).Text)
}

func TestCtrlRWhileJobRuns(t *testing.T) {
	if testing.Short() {
		t.Skip("sleeps")
	}
	h := newHarness(t, Options{})
	h.events <- event.Key(event.KeyCtrlR)

	h.typeLine("sleep 0.2")
	assert.Contains(t, h.lines(), searchBusyMessage)
	assert.Equal(t, ModeNormal, h.e.Mode())
}

func TestInterruptStopsForegroundJob(t *testing.T) {
	if testing.Short() {
		t.Skip("sleeps")
	}
	h := newHarness(t, Options{})
	go func() {
		time.Sleep(100 * time.Millisecond)
		h.events <- event.Key(event.KeyCtrlC)
	}()

	start := time.Now()
	h.typeLine("sleep 5")
	assert.Less(t, time.Since(start), 3*time.Second)
	assert.False(t, h.e.Jobs().Busy())
}

func TestExitShutsDown(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".myterm_history")
	backend, err := storage.NewFileBackend(path)
	require.NoError(t, err)

	h := newHarness(t, Options{})
	h.e.history = history.New(backend, 100, nil)

	h.typeLine("echo keep")
	h.typeLine("exit")

	assert.True(t, h.e.Exited())
	assert.Equal(t, 1, h.surface.closed)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "echo keep\nexit\n", string(data))

	rendered := len(h.surface.views)
	h.send(event.Rune('x'))
	assert.Len(t, h.surface.views, rendered)
}

func TestRunReturnsWhenEventsClose(t *testing.T) {
	h := newHarness(t, Options{})
	events := make(chan event.Event, 4)
	for _, ev := range event.Runes("hi") {
		events <- ev
	}
	close(events)

	require.NoError(t, h.e.Run(context.Background(), events, h.surface))
	assert.Equal(t, "hi", h.e.Active().Text())
	assert.Equal(t, 1, h.surface.closed)
}

func TestRunStopsOnExitCommand(t *testing.T) {
	h := newHarness(t, Options{})
	events := make(chan event.Event, 8)
	for _, ev := range append(event.Runes("exit"), event.Key(event.KeyEnter)) {
		events <- ev
	}

	require.NoError(t, h.e.Run(context.Background(), events, h.surface))
	assert.True(t, h.e.Exited())
}

func TestRunContextCancel(t *testing.T) {
	h := newHarness(t, Options{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := h.e.Run(ctx, make(chan event.Event), h.surface)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSubshellPerSession(t *testing.T) {
	var started []string
	h := newHarness(t, Options{
		Shell: "/bin/sh",
		StartShell: func(shell string) (*session.Subshell, error) {
			started = append(started, shell)
			return nil, nil
		},
	})
	h.send(event.Key(event.KeyCtrlT))
	assert.Equal(t, []string{"/bin/sh", "/bin/sh"}, started)
}

func TestModeString(t *testing.T) {
	assert.Equal(t, "normal", ModeNormal.String())
	assert.Equal(t, "history-search", ModeHistorySearch.String())
	assert.Equal(t, "selection", ModeSelection.String())
	assert.True(t, strings.HasSuffix(DefaultPrompt, "> "))
}

func TestPromptTemplate(t *testing.T) {
	tests := []struct {
		name   string
		prompt string
		want   func(h *harness) string
	}{
		{name: "literal", prompt: "$ ", want: func(*harness) string { return "$ " }},
		{name: "preset", prompt: "minimal", want: func(*harness) string { return "$ " }},
		{name: "tab variables", prompt: "[{{tab}}/{{tabs}}]> ", want: func(*harness) string { return "[2/2]> " }},
		{name: "directory", prompt: "{{cwd-base}}> ", want: func(h *harness) string { return filepath.Base(h.dir) + "> " }},
		{name: "unknown variable kept verbatim", prompt: "{{nope}}> ", want: func(*harness) string { return "{{nope}}> " }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, Options{Prompt: tt.prompt})
			h.send(event.Key(event.KeyCtrlT))
			assert.Equal(t, tt.want(h), h.surface.last().Prompt)
		})
	}
}

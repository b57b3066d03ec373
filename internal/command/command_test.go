package command

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		cmd  string
		want Kind
	}{
		{cmd: "", want: Empty},
		{cmd: "   \t", want: Empty},
		{cmd: "history", want: History},
		{cmd: " history ", want: History},
		{cmd: "history | grep ls", want: Exec},
		{cmd: "exit", want: Exit},
		{cmd: "exit 1", want: Exec},
		{cmd: `multiWatch ["date"]`, want: MultiWatch},
		{cmd: "multiWatch", want: MultiWatch},
		{cmd: "ls -la", want: Exec},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%q", tt.cmd), func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.cmd))
		})
	}
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "exec", Exec.String())
	assert.Equal(t, "multiWatch", MultiWatch.String())
	assert.Equal(t, "exit", Exit.String())
}

func TestSplitContinuation(t *testing.T) {
	tests := []struct {
		line     string
		marker   string
		wantBody string
		wantOK   bool
	}{
		{line: `echo a \`, marker: `\`, wantBody: "echo a", wantOK: true},
		{line: "echo a \\  ", marker: `\`, wantBody: "echo a", wantOK: true},
		{line: "echo a\t\\", marker: `\`, wantBody: "echo a", wantOK: true},
		{line: `\`, marker: `\`, wantBody: "", wantOK: true},
		{line: `echo a\`, marker: `\`, wantBody: `echo a\`, wantOK: false},
		{line: "echo a", marker: `\`, wantBody: "echo a", wantOK: false},
		{line: "echo a &&", marker: "&&", wantBody: "echo a", wantOK: true},
		{line: `echo \`, marker: "", wantBody: `echo \`, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			body, ok := SplitContinuation(tt.line, tt.marker)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantBody, body)
		})
	}
}

func TestSplitPipeline(t *testing.T) {
	tests := []struct {
		name string
		cmd  string
		want []string
	}{
		{name: "single", cmd: "ls", want: []string{"ls"}},
		{name: "three stages", cmd: "ls | wc -l | sort", want: []string{"ls", "wc -l", "sort"}},
		{name: "empty stages dropped", cmd: "ls || wc | ", want: []string{"ls", "wc"}},
		{name: "escaped pipe kept", cmd: `echo a\|b | cat`, want: []string{`echo a\|b`, "cat"}},
		{name: "blank", cmd: "  ", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitPipeline(tt.cmd))
		})
	}
}

func TestSplitPipelineCapsStages(t *testing.T) {
	cmd := strings.Repeat("cat | ", 30) + "cat"
	assert.Len(t, SplitPipeline(cmd), MaxStages)
}

func TestHasPipe(t *testing.T) {
	assert.True(t, HasPipe("a | b"))
	assert.False(t, HasPipe(`a \| b`))
	assert.False(t, HasPipe("ab"))
}

func TestParseRedirects(t *testing.T) {
	tests := []struct {
		name string
		cmd  string
		want Redirects
	}{
		{name: "none", cmd: "ls -l", want: Redirects{Body: "ls -l"}},
		{name: "output separated", cmd: "ls > out.txt", want: Redirects{Body: "ls", Output: "out.txt"}},
		{name: "output attached", cmd: "ls >out.txt", want: Redirects{Body: "ls", Output: "out.txt"}},
		{name: "input", cmd: "wc -l < in.txt", want: Redirects{Body: "wc -l", Input: "in.txt"}},
		{
			name: "both",
			cmd:  "sort <in.txt >out.txt",
			want: Redirects{Body: "sort", Input: "in.txt", Output: "out.txt"},
		},
		{
			name: "trailing args kept",
			cmd:  "grep x < in.txt -n",
			want: Redirects{Body: "grep x  -n", Input: "in.txt"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRedirects(tt.cmd)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseRedirectsMissingTarget(t *testing.T) {
	_, err := ParseRedirects("ls >")
	assert.ErrorIs(t, err, ErrMissingRedirectTarget)

	_, err = ParseRedirects("cat <  ")
	assert.ErrorIs(t, err, ErrMissingRedirectTarget)
}

func TestParseWatchList(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    []string
		wantErr error
	}{
		{name: "two commands", line: `multiWatch ["date", "uptime"]`, want: []string{"date", "uptime"}},
		{name: "unquoted", line: "multiWatch [ls, pwd ]", want: []string{"ls", "pwd"}},
		{name: "empty entries dropped", line: `multiWatch ["a", "", ,"b"]`, want: []string{"a", "b"}},
		{name: "no brackets", line: "multiWatch date", wantErr: ErrInvalidWatchFormat},
		{name: "reversed brackets", line: "multiWatch ]date[", wantErr: ErrInvalidWatchFormat},
		{name: "empty list", line: `multiWatch [ "" ]`, wantErr: ErrNoWatchCommands},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseWatchList(tt.line)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseWatchListCapsCommands(t *testing.T) {
	entries := make([]string, 20)
	for i := range entries {
		entries[i] = fmt.Sprintf("%q", fmt.Sprintf("echo %d", i))
	}
	got, err := ParseWatchList("multiWatch [" + strings.Join(entries, ",") + "]")
	require.NoError(t, err)
	assert.Len(t, got, MaxWatchCommands)
	assert.Equal(t, "echo 0", got[0])
}

func TestWatchErrorMessages(t *testing.T) {
	assert.Equal(t, `Invalid format. Use: multiWatch ["cmd1", "cmd2"]`, ErrInvalidWatchFormat.Error())
	assert.Equal(t, "No valid commands provided to multiWatch", ErrNoWatchCommands.Error())
}

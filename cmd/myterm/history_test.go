package main

import (
	"os"
	"testing"

	"github.com/cristianoliveira/myterm/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedMessages struct {
	infos     []string
	successes []string
}

func (r *recordedMessages) Error(msg string)   {}
func (r *recordedMessages) Warning(msg string) {}
func (r *recordedMessages) Info(msg string)    { r.infos = append(r.infos, msg) }
func (r *recordedMessages) Success(msg string) { r.successes = append(r.successes, msg) }

func useRecordedMessages(t *testing.T) *recordedMessages {
	t.Helper()
	rec := &recordedMessages{}
	orig := historyMessages
	historyMessages = rec
	t.Cleanup(func() { historyMessages = orig })
	return rec
}

var _ errors.ErrorHandler = (*recordedMessages)(nil)

func TestHistoryCommandRendersEntries(t *testing.T) {
	defer resetFlags()
	path := useTempHistory(t)
	require.NoError(t, os.WriteFile(path, []byte("ls\necho hi\n"), 0o600))

	c, out := newTestCommand()
	require.NoError(t, historyCmd.RunE(c, nil))
	assert.Equal(t, "    1  ls\n    2  echo hi\n", out.String())
}

func TestHistoryCommandSearch(t *testing.T) {
	path := useTempHistory(t)
	require.NoError(t, os.WriteFile(path, []byte("git status\ngit push origin main\n"), 0o600))

	tests := []struct {
		name     string
		term     string
		wantOut  string
		wantInfo []string
	}{
		{name: "exact", term: "git status", wantOut: "Found: git status\n"},
		{name: "closest", term: "push origin", wantOut: "Closest match (substring length 11): git push origin main\n"},
		{name: "no match", term: "zz", wantInfo: []string{"No match for search term in history"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer resetFlags()
			rec := useRecordedMessages(t)
			historySearchFlag = tt.term

			c, out := newTestCommand()
			require.NoError(t, historyCmd.RunE(c, nil))
			assert.Equal(t, tt.wantOut, out.String())
			assert.Equal(t, tt.wantInfo, rec.infos)
		})
	}
}

func TestHistoryCommandClear(t *testing.T) {
	defer resetFlags()
	path := useTempHistory(t)
	require.NoError(t, os.WriteFile(path, []byte("ls\n"), 0o600))
	rec := useRecordedMessages(t)
	historyClearFlag = true

	c, _ := newTestCommand()
	require.NoError(t, historyCmd.RunE(c, nil))
	assert.Equal(t, []string{"history cleared"}, rec.successes)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, string(data))
}

func TestHistoryCommandRejectsSearchWithClear(t *testing.T) {
	defer resetFlags()
	historySearchFlag = "ls"
	historyClearFlag = true

	c, _ := newTestCommand()
	err := historyCmd.RunE(c, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--search cannot be combined with --clear")
}

func TestHistoryFileFlagOverridesConfig(t *testing.T) {
	defer resetFlags()
	useTempHistory(t)
	other := t.TempDir() + "/other_history"
	require.NoError(t, os.WriteFile(other, []byte("pwd\n"), 0o600))
	historyFileFlag = other

	c, out := newTestCommand()
	require.NoError(t, historyCmd.RunE(c, nil))
	assert.Equal(t, "    1  pwd\n", out.String())
}

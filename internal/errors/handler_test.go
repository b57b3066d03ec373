package errors

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingOutput struct {
	mu    sync.Mutex
	calls []string
}

func (r *recordingOutput) add(kind string, msgs []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, kind+":"+msgs[0])
}

func (r *recordingOutput) Error(msgs ...string)   { r.add("error", msgs) }
func (r *recordingOutput) Warning(msgs ...string) { r.add("warning", msgs) }
func (r *recordingOutput) Info(msgs ...string)    { r.add("info", msgs) }
func (r *recordingOutput) Success(msgs ...string) { r.add("success", msgs) }

func TestCLIHandlerDelegates(t *testing.T) {
	out := &recordingOutput{}
	handler := NewCLIHandler(out)

	handler.Error("bad")
	handler.Warning("hmm")
	handler.Info("fyi")
	handler.Success("done")

	assert.Equal(t, []string{"error:bad", "warning:hmm", "info:fyi", "success:done"}, out.calls)
	assert.False(t, handler.inHandling)
}

func TestCLIHandlerErrorWhenAlreadyHandling(t *testing.T) {
	out := &recordingOutput{}
	handler := NewCLIHandler(out)

	handler.inHandling = true
	handler.Error("nested")

	assert.Equal(t, []string{"error:nested"}, out.calls)
	assert.True(t, handler.inHandling, "fast path must not reset the flag")
}

func TestNewDefaultCLIHandler(t *testing.T) {
	require.NotNil(t, NewDefaultCLIHandler())
}

type sliceSink struct{ lines []string }

func (s *sliceSink) AppendOutput(text string) { s.lines = append(s.lines, text) }

func TestSessionHandlerAppendsToSink(t *testing.T) {
	sink := &sliceSink{}
	var seen []Message
	handler := NewSessionHandler(sink, func(m Message) { seen = append(seen, m) })

	_, ok := handler.Latest()
	assert.False(t, ok)

	handler.Error("Invalid selection number")
	handler.Info("multiWatch stopped.")

	assert.Equal(t, []string{"Invalid selection number", "multiWatch stopped."}, sink.lines)
	require.Len(t, seen, 2)
	assert.Equal(t, MessageTypeError, seen[0].Type)
	assert.False(t, seen[0].Timestamp.IsZero())

	latest, ok := handler.Latest()
	require.True(t, ok)
	assert.Equal(t, MessageTypeInfo, latest.Type)
}

func TestSessionHandlerRetarget(t *testing.T) {
	first, second := &sliceSink{}, &sliceSink{}
	handler := NewSessionHandler(first, nil)

	handler.Warning("one")
	handler.Retarget(second)
	handler.Success("two")

	assert.Equal(t, []string{"one"}, first.lines)
	assert.Equal(t, []string{"two"}, second.lines)
}

package errors

import "time"

// MessageType classifies a message shown in a session.
type MessageType int

const (
	MessageTypeError MessageType = iota
	MessageTypeWarning
	MessageTypeInfo
	MessageTypeSuccess
)

// Message is one line handed to a session.
type Message struct {
	Text      string
	Type      MessageType
	Timestamp time.Time
}

// LineSink is the part of a session a SessionHandler writes into.
type LineSink interface {
	AppendOutput(text string)
}

// SessionHandler appends messages to a session buffer as plain output
// lines. It is only used from the engine goroutine and is not synchronized.
type SessionHandler struct {
	sink   LineSink
	notify func(Message)
	last   *Message
}

var _ ErrorHandler = (*SessionHandler)(nil)

// NewSessionHandler writes into sink. notify, when non-nil, observes every message.
func NewSessionHandler(sink LineSink, notify func(Message)) *SessionHandler {
	return &SessionHandler{sink: sink, notify: notify}
}

// Retarget switches the session messages go to, e.g. after a tab switch.
func (h *SessionHandler) Retarget(sink LineSink) {
	h.sink = sink
}

func (h *SessionHandler) Error(msg string)   { h.add(msg, MessageTypeError) }
func (h *SessionHandler) Warning(msg string) { h.add(msg, MessageTypeWarning) }
func (h *SessionHandler) Info(msg string)    { h.add(msg, MessageTypeInfo) }
func (h *SessionHandler) Success(msg string) { h.add(msg, MessageTypeSuccess) }

// Latest returns the most recent message.
func (h *SessionHandler) Latest() (Message, bool) {
	if h.last == nil {
		return Message{}, false
	}
	return *h.last, true
}

func (h *SessionHandler) add(text string, kind MessageType) {
	msg := Message{Text: text, Type: kind, Timestamp: time.Now()}
	h.last = &msg
	if h.sink != nil {
		h.sink.AppendOutput(text)
	}
	if h.notify != nil {
		h.notify(msg)
	}
}

// Package command classifies committed command lines and splits them into
// the pieces the job controller runs: pipeline stages, redirections and
// multiWatch command lists. It does not parse shell syntax beyond that;
// every body is handed to sh -c verbatim.
package command

import (
	"strings"
)

// Kind is the dispatch class of a command line.
type Kind int

const (
	// Exec runs the line as a foreground job.
	Exec Kind = iota
	// Empty only opens a new prompt.
	Empty
	// History prints the command history.
	History
	// MultiWatch starts the periodic watcher.
	MultiWatch
	// Exit shuts the front-end down.
	Exit
)

// String returns the kind name used in logs.
func (k Kind) String() string {
	switch k {
	case Empty:
		return "empty"
	case History:
		return "history"
	case MultiWatch:
		return "multiWatch"
	case Exit:
		return "exit"
	default:
		return "exec"
	}
}

// MultiWatchKeyword starts a multiWatch command line.
const MultiWatchKeyword = "multiWatch"

// Classify returns how cmd should be dispatched.
func Classify(cmd string) Kind {
	trimmed := strings.TrimSpace(cmd)
	switch {
	case trimmed == "":
		return Empty
	case trimmed == "history":
		return History
	case trimmed == "exit":
		return Exit
	case strings.HasPrefix(trimmed, MultiWatchKeyword):
		return MultiWatch
	default:
		return Exec
	}
}

// SplitContinuation reports whether line ends with marker as a separate
// trailing token and returns the line without it.
func SplitContinuation(line, marker string) (string, bool) {
	if marker == "" {
		return line, false
	}
	trimmed := strings.TrimRight(line, " \t")
	if trimmed == marker {
		return "", true
	}
	body, ok := strings.CutSuffix(trimmed, marker)
	if !ok || body == "" {
		return line, false
	}
	if last := body[len(body)-1]; last != ' ' && last != '\t' {
		return line, false
	}
	return strings.TrimRight(body, " \t"), true
}

package command

import (
	"errors"
	"strings"
)

// MaxWatchCommands caps the commands of one multiWatch invocation.
const MaxWatchCommands = 16

var (
	// ErrInvalidWatchFormat is returned when the bracketed list is missing.
	ErrInvalidWatchFormat = errors.New(`Invalid format. Use: multiWatch ["cmd1", "cmd2"]`)
	// ErrNoWatchCommands is returned when the list holds no command.
	ErrNoWatchCommands = errors.New("No valid commands provided to multiWatch")
)

// ParseWatchList extracts the commands between the first '[' and the last
// ']' of line. Entries are comma separated and trimmed of surrounding
// blanks and double quotes; empty entries are dropped.
func ParseWatchList(line string) ([]string, error) {
	open := strings.IndexByte(line, '[')
	closing := strings.LastIndexByte(line, ']')
	if open < 0 || closing < 0 || open >= closing {
		return nil, ErrInvalidWatchFormat
	}

	var cmds []string
	for _, entry := range strings.Split(line[open+1:closing], ",") {
		entry = strings.Trim(entry, " \t\"")
		if entry == "" {
			continue
		}
		cmds = append(cmds, entry)
		if len(cmds) == MaxWatchCommands {
			break
		}
	}
	if len(cmds) == 0 {
		return nil, ErrNoWatchCommands
	}
	return cmds, nil
}

package command

import (
	"errors"
	"strings"
)

// ErrMissingRedirectTarget is returned when < or > has no file name.
var ErrMissingRedirectTarget = errors.New("redirection without a file name")

// Redirects is a command body with its first input and output redirection
// extracted.
type Redirects struct {
	Body   string
	Input  string
	Output string
}

// ParseRedirects extracts the first <file and the first >file from cmd.
// The operator may be attached to the file name or separated by blanks.
// Both are removed from the body.
func ParseRedirects(cmd string) (Redirects, error) {
	body, input, err := extractRedirect(cmd, '<')
	if err != nil {
		return Redirects{}, err
	}
	body, output, err := extractRedirect(body, '>')
	if err != nil {
		return Redirects{}, err
	}
	return Redirects{Body: strings.TrimSpace(body), Input: input, Output: output}, nil
}

func extractRedirect(cmd string, op byte) (string, string, error) {
	idx := strings.IndexByte(cmd, op)
	if idx < 0 {
		return cmd, "", nil
	}
	start := idx + 1
	for start < len(cmd) && isBlank(cmd[start]) {
		start++
	}
	end := start
	for end < len(cmd) && !isBlank(cmd[end]) {
		end++
	}
	if start == end {
		return "", "", ErrMissingRedirectTarget
	}
	return cmd[:idx] + cmd[end:], cmd[start:end], nil
}

func isBlank(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n'
}

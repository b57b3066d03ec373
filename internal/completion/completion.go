// Package completion completes the trailing word of a command line against
// the file names of the working directory, and drives the numbered
// selection dialog shown when several names match.
package completion

import (
	"fmt"
	"sort"
	"strings"
)

// Kind tells how a completion attempt ended.
type Kind int

const (
	// None means there was nothing to complete or no name matched.
	None Kind = iota
	// Single means exactly one name matched and the line was extended.
	Single
	// Multiple means the user has to pick one of several names.
	Multiple
)

// Result is the outcome of Complete.
type Result struct {
	Kind Kind
	// Line is the completed line for Single.
	Line string
	// Prefix is the word that was completed.
	Prefix string
	// Candidates holds the sorted matches for Multiple.
	Candidates []string
}

// Engine completes file names.
type Engine struct {
	lister Lister
}

// NewEngine creates an engine reading directories through lister. A nil
// lister reads the local filesystem.
func NewEngine(lister Lister) *Engine {
	if lister == nil {
		lister = DirLister{}
	}
	return &Engine{lister: lister}
}

// TrailingWord returns the word after the last space or tab of line and
// the byte offset where it starts.
func TrailingWord(line string) (string, int) {
	start := strings.LastIndexAny(line, " \t") + 1
	return line[start:], start
}

// Candidates returns the non-hidden names in dir starting with prefix,
// sorted by name.
func (e *Engine) Candidates(dir, prefix string) ([]string, error) {
	names, err := e.lister.List(dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, name := range names {
		if strings.HasPrefix(name, ".") || !strings.HasPrefix(name, prefix) {
			continue
		}
		out = append(out, name)
	}
	sort.Strings(out)
	return out, nil
}

// Complete completes the trailing word of line against dir. A single match
// appends its missing suffix to the line.
func (e *Engine) Complete(line, dir string) (Result, error) {
	prefix, _ := TrailingWord(line)
	if prefix == "" {
		return Result{Kind: None}, nil
	}
	matches, err := e.Candidates(dir, prefix)
	if err != nil {
		return Result{Kind: None, Prefix: prefix}, err
	}
	switch len(matches) {
	case 0:
		return Result{Kind: None, Prefix: prefix}, nil
	case 1:
		return Result{Kind: Single, Prefix: prefix, Line: line + matches[0][len(prefix):]}, nil
	default:
		return Result{Kind: Multiple, Prefix: prefix, Candidates: matches}, nil
	}
}

// Listing renders candidates as numbered entries, four per row, followed
// by the selection prompt.
func Listing(candidates []string) string {
	var b strings.Builder
	for i, c := range candidates {
		fmt.Fprintf(&b, "%d. %s  ", i+1, c)
		if (i+1)%4 == 0 {
			b.WriteString("\n")
		}
	}
	fmt.Fprintf(&b, "\nEnter selection number (1-%d) and press Enter: ", len(candidates))
	return b.String()
}

// Package history keeps the bounded list of executed commands, persists it
// through a storage backend and answers recall queries.
package history

import (
	"fmt"
	"strings"

	"github.com/cristianoliveira/myterm/internal/logging"
	"github.com/cristianoliveira/myterm/internal/search"
	"github.com/cristianoliveira/myterm/internal/storage"
	"github.com/cristianoliveira/myterm/internal/storage/linecodec"
)

const (
	// DefaultCapacity bounds the number of remembered commands.
	DefaultCapacity = 10000
	// RenderWindow is how many trailing entries RenderAll prints.
	RenderWindow = 1000
	// minClosestScore is the substring length a fuzzy match must exceed.
	minClosestScore = 2
)

// Store is an ordered, bounded command history, oldest first. It holds no
// empty entries and no two equal adjacent entries.
type Store struct {
	backend  storage.Backend
	capacity int
	entries  []string
	log      logging.Logger

	exact   search.Provider
	closest search.Provider
}

// New creates an empty store. A nil backend keeps the history in memory.
func New(backend storage.Backend, capacity int, log logging.Logger) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if log == nil {
		log = logging.NewNop()
	}
	return &Store{
		backend:  backend,
		capacity: capacity,
		log:      log.With("component", "history"),
		exact:    search.NewExactProvider(),
		closest:  search.NewLCSProvider(),
	}
}

// Load replaces the in-memory history with the backend contents. Empty
// entries are skipped and only the newest capacity entries are kept.
func (s *Store) Load() error {
	if s.backend == nil {
		return nil
	}
	loaded, err := s.backend.Load()
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}
	entries := make([]string, 0, min(len(loaded), s.capacity))
	for _, entry := range loaded {
		if entry == "" {
			continue
		}
		entries = append(entries, entry)
	}
	if len(entries) > s.capacity {
		entries = entries[len(entries)-s.capacity:]
	}
	s.entries = entries
	s.log.Debug("history loaded", "backend", s.backend.Name(), "entries", len(entries))
	return nil
}

// Record appends cmd unless it is empty or equal to the latest entry,
// evicting the oldest entry when full. The history is persisted after
// every recorded command; persistence errors are logged only.
func (s *Store) Record(cmd string) bool {
	if cmd == "" {
		return false
	}
	if n := len(s.entries); n > 0 && s.entries[n-1] == cmd {
		return false
	}
	if len(s.entries) >= s.capacity {
		copy(s.entries, s.entries[1:])
		s.entries = s.entries[:len(s.entries)-1]
	}
	s.entries = append(s.entries, cmd)
	s.persist()
	return true
}

// Flush writes the history to the backend.
func (s *Store) Flush() error {
	if s.backend == nil {
		return nil
	}
	if err := s.backend.Save(s.entries); err != nil {
		return fmt.Errorf("save history: %w", err)
	}
	return nil
}

func (s *Store) persist() {
	if err := s.Flush(); err != nil {
		s.log.Error("history persist failed", "error", err)
	}
}

// Clear drops every entry and persists the empty history.
func (s *Store) Clear() error {
	s.entries = nil
	return s.Flush()
}

// Len returns the number of entries.
func (s *Store) Len() int { return len(s.entries) }

// Capacity returns the maximum number of entries.
func (s *Store) Capacity() int { return s.capacity }

// Entries returns a copy of the history, oldest first.
func (s *Store) Entries() []string {
	out := make([]string, len(s.entries))
	copy(out, s.entries)
	return out
}

// RenderAll formats the last RenderWindow entries with their 1-based
// absolute positions, one row per entry.
func (s *Store) RenderAll() string {
	start := 0
	if len(s.entries) > RenderWindow {
		start = len(s.entries) - RenderWindow
	}
	var b strings.Builder
	for i := start; i < len(s.entries); i++ {
		fmt.Fprintf(&b, "%5d  %s\n", i+1, linecodec.Encode(s.entries[i]))
	}
	return b.String()
}

// MatchKind classifies a search result.
type MatchKind int

const (
	// NoTerm means the search term was empty.
	NoTerm MatchKind = iota
	// NoMatch means nothing was similar enough.
	NoMatch
	// Exact means an entry equals the term.
	Exact
	// Closest means the entry shares the longest substring with the term.
	Closest
)

// Result is the outcome of Search.
type Result struct {
	Kind  MatchKind
	Entry string
	Index int
	// Score is the common substring length of a Closest match.
	Score int
}

// Message renders the result as shown to the user.
func (r Result) Message() string {
	switch r.Kind {
	case Exact:
		return "Found: " + r.Entry
	case Closest:
		return fmt.Sprintf("Closest match (substring length %d): %s", r.Score, r.Entry)
	case NoMatch:
		return "No match for search term in history"
	default:
		return "No search term entered"
	}
}

// Search looks up term. The newest exact match wins; otherwise the newest
// entry with the longest common substring is returned when that length
// exceeds two characters.
func (s *Store) Search(term string) Result {
	if term == "" {
		return Result{Kind: NoTerm, Index: -1}
	}
	if m, ok := search.Best(s.exact, term, s.entries, 0); ok {
		return Result{Kind: Exact, Entry: m.Entry, Index: m.Index, Score: m.Score}
	}
	if m, ok := search.Best(s.closest, term, s.entries, minClosestScore); ok {
		return Result{Kind: Closest, Entry: m.Entry, Index: m.Index, Score: m.Score}
	}
	return Result{Kind: NoMatch, Index: -1}
}

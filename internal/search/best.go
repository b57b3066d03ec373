package search

// Match is the best-scoring entry found by Best.
type Match struct {
	Index int
	Entry string
	Score int
}

// Best scans entries from newest (last) to oldest and returns the entry with
// the highest score strictly above minScore. Ties keep the newest entry.
func Best(p Provider, term string, entries []string, minScore int) (Match, bool) {
	best := Match{Index: -1, Score: minScore}
	for i := len(entries) - 1; i >= 0; i-- {
		score := p.Score(term, entries[i])
		if score > best.Score {
			best = Match{Index: i, Entry: entries[i], Score: score}
		}
	}
	if best.Index < 0 {
		return Match{}, false
	}
	return best, true
}

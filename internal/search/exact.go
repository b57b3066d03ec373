package search

import "strings"

// ExactProvider scores only whole-string equality.
type ExactProvider struct {
	opts Options
}

// NewExactProvider creates an equality provider.
func NewExactProvider(opts ...Option) Provider {
	return &ExactProvider{opts: applyOptions(opts)}
}

// Name returns "exact".
func (p *ExactProvider) Name() string { return "exact" }

// Score returns len(term) when entry equals term and 0 otherwise.
func (p *ExactProvider) Score(term, entry string) int {
	if term == "" {
		return 0
	}
	if p.opts.CaseInsensitive {
		if strings.EqualFold(term, entry) {
			return len(term)
		}
		return 0
	}
	if term == entry {
		return len(term)
	}
	return 0
}

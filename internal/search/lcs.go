package search

import "strings"

// LCSProvider scores by the length of the longest common substring.
type LCSProvider struct {
	opts Options
}

// NewLCSProvider creates a longest-common-substring provider.
func NewLCSProvider(opts ...Option) Provider {
	return &LCSProvider{opts: applyOptions(opts)}
}

// Name returns "lcs".
func (p *LCSProvider) Name() string { return "lcs" }

// Score returns the length in bytes of the longest common substring.
func (p *LCSProvider) Score(term, entry string) int {
	if p.opts.CaseInsensitive {
		term, entry = strings.ToLower(term), strings.ToLower(entry)
	}
	return LongestCommonSubstring(term, entry)
}

// LongestCommonSubstring returns the length of the longest contiguous byte
// sequence shared by a and b. It runs in O(len(a)*len(b)) time and
// O(len(b)) space.
func LongestCommonSubstring(a, b string) int {
	if a == "" || b == "" {
		return 0
	}
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	best := 0
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1] + 1
				if curr[j] > best {
					best = curr[j]
				}
			} else {
				curr[j] = 0
			}
		}
		prev, curr = curr, prev
	}
	return best
}

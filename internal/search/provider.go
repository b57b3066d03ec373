// Package search scores history entries against a search term. Providers
// implement different similarity measures behind a common interface so the
// history store and the CLI share one ranking routine.
package search

// Provider scores how well entry matches term. Higher is better and 0
// means no similarity at all.
type Provider interface {
	// Score returns the similarity of entry to term.
	Score(term, entry string) int

	// Name returns the provider name for identification and debugging.
	Name() string
}

// Options holds configuration shared by providers.
type Options struct {
	CaseInsensitive bool
}

// DefaultOptions returns case-sensitive matching, like the shell itself.
func DefaultOptions() Options {
	return Options{CaseInsensitive: false}
}

// Option is a function that modifies search options.
type Option func(*Options)

// WithCaseInsensitive sets case-insensitive matching.
func WithCaseInsensitive(enabled bool) Option {
	return func(o *Options) {
		o.CaseInsensitive = enabled
	}
}

func applyOptions(opts []Option) Options {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

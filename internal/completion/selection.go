package completion

import "strconv"

const (
	// SelectionPrompt prefixes the digits typed during selection.
	SelectionPrompt = "Selection: "
	// InvalidSelectionMessage is shown when no number was typed or it is out
	// of range.
	InvalidSelectionMessage = "Invalid selection number"

	maxSelectionDigits = 9
)

// Outcome tells how a selection ended.
type Outcome int

const (
	// Chosen means a valid candidate was picked.
	Chosen Outcome = iota
	// Invalid means no number was typed or it was out of range.
	Invalid
)

// Selection is the modal state shown while the user picks one of several
// completion candidates.
type Selection struct {
	Candidates []string
	Prefix     string
	// OriginLine is the buffer row of the line being completed.
	OriginLine int
	// OriginText is the line as it was when Tab was pressed.
	OriginText string

	input []byte
}

// NewSelection starts a selection for the line at originLine.
func NewSelection(candidates []string, prefix string, originLine int, originText string) *Selection {
	return &Selection{
		Candidates: candidates,
		Prefix:     prefix,
		OriginLine: originLine,
		OriginText: originText,
	}
}

// AddDigit appends r when it is a digit and the input has room for it.
func (s *Selection) AddDigit(r rune) bool {
	if r < '0' || r > '9' || len(s.input) >= maxSelectionDigits {
		return false
	}
	s.input = append(s.input, byte(r))
	return true
}

// Backspace removes the last typed digit.
func (s *Selection) Backspace() {
	if len(s.input) > 0 {
		s.input = s.input[:len(s.input)-1]
	}
}

// Input returns the typed digits.
func (s *Selection) Input() string { return string(s.input) }

// PromptText is the text of the selection row.
func (s *Selection) PromptText() string { return SelectionPrompt + string(s.input) }

// Resolve interprets the typed number. For Chosen the returned text is the
// origin line with its trailing word replaced by the candidate and a
// space; otherwise it is the origin line unchanged.
func (s *Selection) Resolve() (string, Outcome) {
	n, err := strconv.Atoi(string(s.input))
	if err != nil || n < 1 || n > len(s.Candidates) {
		return s.OriginText, Invalid
	}
	_, start := TrailingWord(s.OriginText)
	return s.OriginText[:start] + s.Candidates[n-1] + " ", Chosen
}

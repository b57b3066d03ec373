// Package linecodec keeps history entries on a single physical line.
// Backslashes are doubled and newlines become the two characters `\n`.
package linecodec

import "strings"

// Encode escapes entry so it holds no newline.
func Encode(entry string) string {
	if !strings.ContainsAny(entry, "\\\n") {
		return entry
	}
	var b strings.Builder
	b.Grow(len(entry) + 4)
	for i := 0; i < len(entry); i++ {
		switch c := entry[i]; c {
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// Decode reverses Encode. A backslash not followed by `\` or `n` is kept
// as written, so lines saved before escaping existed load unchanged.
func Decode(line string) string {
	if !strings.Contains(line, `\`) {
		return line
	}
	var b strings.Builder
	b.Grow(len(line))
	for i := 0; i < len(line); i++ {
		c := line[i]
		if c != '\\' || i+1 == len(line) {
			b.WriteByte(c)
			continue
		}
		switch line[i+1] {
		case '\\':
			b.WriteByte('\\')
			i++
		case 'n':
			b.WriteByte('\n')
			i++
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// Package scanner splits raw shell input into tokens. It knows quoting
// and escaping but nothing about the command grammar: symbols are
// otherwise plain characters so music object names stay typeable.
package scanner

import (
	"strings"
	"unicode"
)

const (
	escapeMark = '\\'
	quoteMarks = `'"`
)

// Scan partitions one input line into tokens.
//
// A backslash makes the next rune ordinary, whatever it is, and is
// itself dropped. A quote opens a region in which everything up to the
// matching quote is ordinary, including whitespace and the other quote
// character; the quote marks are delimiters only and never reach the
// output. Unquoted, unescaped whitespace separates tokens; runs of it
// collapse, so an empty or whitespace-only line yields no tokens. There
// are no error states: an unbalanced quote simply extends its region
// through the end of the line.
func Scan(line string) []string {
	var (
		tokens  []string
		current strings.Builder
		started bool // current has been opened, even if still empty
		escaped bool // one-shot: next rune is ordinary
		quote   rune // active quote mark, 0 outside quoted regions
	)

	flush := func() {
		if started {
			tokens = append(tokens, current.String())
			current.Reset()
			started = false
		}
	}

	for _, r := range line {
		switch {
		case escaped:
			current.WriteRune(r)
			started = true
			escaped = false
		case r == escapeMark:
			escaped = true
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				current.WriteRune(r)
				started = true
			}
		case strings.ContainsRune(quoteMarks, r):
			quote = r
		case unicode.IsSpace(r):
			flush()
		default:
			current.WriteRune(r)
			started = true
		}
	}
	flush()
	return tokens
}

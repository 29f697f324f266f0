package converter

import (
	"bytes"
	"fmt"
	"strings"
	"sync"
)

// DefaultDatePattern is the pattern attached to every date-time column.
const DefaultDatePattern = "yyyy-MM-dd HH:mm:ss"

// Pattern letters and run lengths mapped to Go reference layout fragments.
// Runs that are not listed fall back to the longest listed run of that letter.
var patternTokens = map[byte]map[int]string{
	'y': {2: "06", 4: "2006"},
	'M': {1: "1", 2: "01", 3: "Jan", 4: "January"},
	'd': {1: "2", 2: "02"},
	'H': {1: "15", 2: "15"},
	'h': {1: "3", 2: "03"},
	'm': {1: "4", 2: "04"},
	's': {1: "5", 2: "05"},
	'S': {1: "0", 2: "00", 3: "000", 6: "000000", 9: "000000000"},
	'E': {3: "Mon", 4: "Monday"},
	'a': {1: "PM"},
	'Z': {1: "-0700"},
	'X': {1: "-07", 2: "-0700", 3: "-07:00"},
}

type compiledLayout struct {
	layout string
	err    error
}

var layoutCache sync.Map // map[string]compiledLayout

// Layout translates a date pattern written with yyyy/MM/dd/HH/mm/ss letters into
// the equivalent Go reference layout. Text inside single quotes is copied verbatim.
// Letters without a Go equivalent (D, k, K, z, u, ...) are copied as literals;
// use ParseLayout to reject them.
func Layout(pattern string) string {
	layout, _ := ParseLayout(pattern)
	return layout
}

// ParseLayout is Layout that fails with ErrUnsupportedPattern when the pattern
// uses a letter that has no Go layout equivalent. The partial layout is still
// returned alongside the error.
func ParseLayout(pattern string) (string, error) {
	if cached, ok := layoutCache.Load(pattern); ok {
		cl := cached.(compiledLayout)
		return cl.layout, cl.err
	}

	var b strings.Builder
	b.Grow(len(pattern) + 4)

	var unsupported []byte
	for i := 0; i < len(pattern); {
		c := pattern[i]

		if c == '\'' {
			i = copyQuoted(&b, pattern, i)
			continue
		}

		tokens, isLetter := patternTokens[c]
		if !isLetter {
			if isASCIILetter(c) && bytes.IndexByte(unsupported, c) < 0 {
				unsupported = append(unsupported, c)
			}
			b.WriteByte(c)
			i++
			continue
		}

		run := 1
		for i+run < len(pattern) && pattern[i+run] == c {
			run++
		}
		b.WriteString(tokenFor(tokens, run))
		i += run
	}

	cl := compiledLayout{layout: b.String()}
	if len(unsupported) > 0 {
		cl.err = fmt.Errorf("%w: %q uses unsupported letters %q", ErrUnsupportedPattern, pattern, unsupported)
	}
	layoutCache.Store(pattern, cl)
	return cl.layout, cl.err
}

func isASCIILetter(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func tokenFor(tokens map[int]string, run int) string {
	if t, ok := tokens[run]; ok {
		return t
	}
	best, bestLen := "", 0
	for n, t := range tokens {
		if n <= run && n > bestLen {
			best, bestLen = t, n
		}
	}
	if best == "" {
		for n, t := range tokens {
			if bestLen == 0 || n < bestLen {
				best, bestLen = t, n
			}
		}
	}
	return best
}

// copyQuoted writes the quoted literal starting at pattern[start] and returns
// the index just past it. A doubled quote is an escaped quote both inside and
// outside a literal.
func copyQuoted(b *strings.Builder, pattern string, start int) int {
	i := start + 1
	if i < len(pattern) && pattern[i] == '\'' {
		b.WriteByte('\'')
		return i + 1
	}
	for i < len(pattern) {
		if pattern[i] == '\'' {
			if i+1 < len(pattern) && pattern[i+1] == '\'' {
				b.WriteByte('\'')
				i += 2
				continue
			}
			return i + 1
		}
		b.WriteByte(pattern[i])
		i++
	}
	return i
}

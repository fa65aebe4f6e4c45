package document

import (
	"strings"
	"unicode"
)

// HeadingLevel returns L when the trimmed line is L '#' characters followed by
// a space and some text, otherwise 0.
func HeadingLevel(line string) int {
	t := strings.TrimSpace(line)
	l := 0
	for l < len(t) && t[l] == '#' {
		l++
	}
	if l == 0 || l >= len(t) || t[l] != ' ' {
		return 0
	}
	return l
}

// NormalizeHeading turns a heading line into a comparison key: the leading
// marker is stripped, only ASCII letters, digits and spaces survive, runs of
// whitespace collapse and the result is lowercased. "## 😴 Sleep", "## SLEEP"
// and "##   Sleep  " all become "sleep".
func NormalizeHeading(line string) string {
	t := strings.TrimLeft(strings.TrimSpace(line), "# ")
	var b strings.Builder
	b.Grow(len(t))
	space := false
	for _, r := range t {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			space = false
			b.WriteRune(unicode.ToLower(r))
		case unicode.IsSpace(r):
			space = true
		}
	}
	return b.String()
}

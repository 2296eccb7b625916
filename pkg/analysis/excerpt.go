package analysis

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	// DefaultPartIndex is the part analyzed when a request names none.
	DefaultPartIndex = 3

	// MaxExcerptRunes caps the excerpt sent to the model.
	MaxExcerptRunes = 15000
)

var separator = regexp.MustCompile(`(?s)<<.*?>>`)

// SplitParts splits a book on <<...>> markers. Text without markers is a
// single part.
func SplitParts(text string) []string {
	return separator.Split(text, -1)
}

// Excerpt returns the trimmed part at partIndex, cut to [MaxExcerptRunes]
// characters. Indexes past the end select the last part; negative indexes
// select the first.
func Excerpt(text string, partIndex int) string {
	parts := SplitParts(text)
	i := min(partIndex, len(parts)-1)
	i = max(i, 0)
	return truncate(strings.TrimSpace(parts[i]), MaxExcerptRunes)
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

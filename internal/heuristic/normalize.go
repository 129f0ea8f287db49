package heuristic

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// quoteReplacer maps typographic apostrophes onto ASCII so "don’t" matches "don't".
var quoteReplacer = strings.NewReplacer("‘", "'", "’", "'", "‛", "'", "′", "'")

// foldString strips accents, applies NFKC and case-folds s.
func foldString(s string) string {
	s = quoteReplacer.Replace(s)
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFKC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return cases.Fold().String(out)
}

// folded is a normalised copy of a text that remembers where every output
// byte came from in the original.
type folded struct {
	text string
	// origin[i] is the byte offset in the original of the rune that produced
	// folded byte i; origin[len(text)] is len(original).
	origin []int
}

// fold normalises original one rune at a time. Runes that fold to nothing
// (combining marks) contribute no bytes.
func fold(original string) folded {
	var b strings.Builder
	b.Grow(len(original))
	origin := make([]int, 0, len(original)+1)

	for i, r := range original {
		piece := foldString(string(r))
		b.WriteString(piece)
		for range len(piece) {
			origin = append(origin, i)
		}
	}
	origin = append(origin, len(original))

	return folded{text: b.String(), origin: origin}
}

// span maps the folded byte range [start, end) back to the original text.
func (f folded) span(start, end int) (int, int) {
	return f.origin[start], f.origin[end]
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

// atBoundary reports whether [start, end) in s is delimited by non-word
// characters or the ends of s.
func atBoundary(s string, start, end int) bool {
	if start > 0 {
		r, _ := utf8.DecodeLastRuneInString(s[:start])
		if isWordRune(r) {
			return false
		}
	}
	if end < len(s) {
		r, _ := utf8.DecodeRuneInString(s[end:])
		if isWordRune(r) {
			return false
		}
	}
	return true
}

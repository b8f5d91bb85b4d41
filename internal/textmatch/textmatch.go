// Package textmatch canonicalizes free-text product and plot names and scores
// how similar two names are.
package textmatch

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	disallowed = regexp.MustCompile(`[^a-z0-9 -]+`)
	spaces     = regexp.MustCompile(`\s+`)
)

// Normalize lowercases name, strips diacritics, drops everything outside
// [a-z0-9 -] and collapses whitespace.
func Normalize(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, strings.ToLower(name))
	if err != nil {
		stripped = strings.ToLower(name)
	}
	stripped = spaces.ReplaceAllString(stripped, " ")
	stripped = disallowed.ReplaceAllString(stripped, "")
	stripped = spaces.ReplaceAllString(stripped, " ")
	return strings.TrimSpace(stripped)
}

// Similarity returns 1 - distance/maxLen between two already normalized names.
func Similarity(a, b string) float64 {
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	if maxLen == 0 {
		return 0
	}
	return 1 - float64(levenshtein.ComputeDistance(a, b))/float64(maxLen)
}

// threshold returns the similarity a pair must exceed for its average length,
// and false when only an exact match is accepted.
func threshold(avgLen float64) (float64, bool) {
	switch {
	case avgLen < 4:
		return 0, false
	case avgLen < 6:
		return 0.85, true
	case avgLen <= 10:
		return 0.75, true
	default:
		return 0.70, true
	}
}

// AreSimilar reports whether two product names refer to the same product.
func AreSimilar(nameA, nameB string) bool {
	a, b := Normalize(nameA), Normalize(nameB)
	if a == "" || b == "" {
		return false
	}
	if a == b {
		return true
	}

	limit, fuzzy := threshold(float64(len(a)+len(b)) / 2)
	if !fuzzy {
		return false
	}
	return Similarity(a, b) > limit
}

package matching

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// FuzzySimilarity returns the Ratcliff/Obershelp matching ratio of the
// lowercased inputs, in [0, 1]. Two empty strings are identical.
func FuzzySimilarity(a, b string) float64 {
	m := difflib.NewMatcher(runes(strings.ToLower(a)), runes(strings.ToLower(b)))
	return m.Ratio()
}

// runes splits s into single-character elements so the sequence matcher
// compares characters rather than lines.
func runes(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}

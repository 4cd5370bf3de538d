// Package scoring computes how well a student profile fits an internship listing.
//
// Everything here is a pure function of its inputs: sub-scores can be recomputed for
// explanations without diverging from the values used for ranking.
package scoring

import (
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// normalize trims and case-folds a token before comparison
func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Similarity returns the normalised edit-distance similarity of two short tokens in [0,1].
// Tokens are compared whole after trimming and lower-casing; two empty tokens are identical.
func Similarity(a, b string) float64 {
	a, b = normalize(a), normalize(b)

	maxLen := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if maxLen == 0 {
		return 1.0
	}

	distance := levenshtein.ComputeDistance(a, b)
	return float64(maxLen-distance) / float64(maxLen)
}

// Package similarity provides the fuzzy-text primitives used by the
// deduplication and cross-verification layers: Levenshtein distance,
// similarity ratio, Jaccard word overlap, and text normalization.
// All functions are pure and safe for concurrent use.
package similarity

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultThreshold is the similarity ratio at or above which two strings
// are considered near-duplicates.
const DefaultThreshold = 0.8

var nonWordRE = regexp.MustCompile(`[^\w\s]`)

// stripMarks removes combining diacritical marks so scraped text like
// "José" normalizes to "jose".
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Distance returns the Levenshtein edit distance between a and b.
// Case-sensitive; O(|a|*|b|) time with two collapsed rows of space.
func Distance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

// Ratio returns a similarity ratio in [0,1] between a and b, computed as
// 1 - distance(lower(a), lower(b)) / max(len(a), len(b)).
// Two empty strings are identical by definition (ratio 1).
func Ratio(a, b string) float64 {
	la, lb := strings.ToLower(a), strings.ToLower(b)
	longest := max(len([]rune(la)), len([]rune(lb)))
	if longest == 0 {
		return 1.0
	}
	return 1.0 - float64(Distance(la, lb))/float64(longest)
}

// AreSimilar reports whether a and b have a similarity ratio at or above
// the given threshold.
func AreSimilar(a, b string, threshold float64) bool {
	return Ratio(a, b) >= threshold
}

// NormalizeText lowercases, folds diacritics, strips all non-word and
// non-space characters, collapses runs of whitespace, and trims.
func NormalizeText(s string) string {
	if folded, _, err := transform.String(stripMarks, s); err == nil {
		s = folded
	}
	s = strings.ToLower(s)
	s = nonWordRE.ReplaceAllString(s, "")
	return strings.Join(strings.Fields(s), " ")
}

// Jaccard returns the Jaccard similarity of the normalized word sets of
// a and b: |intersection| / |union|. Returns 0 when both token sets are
// empty (union size 0).
func Jaccard(a, b string) float64 {
	wordsA := strings.Fields(NormalizeText(a))
	wordsB := strings.Fields(NormalizeText(b))

	setA := make(map[string]struct{}, len(wordsA))
	for _, w := range wordsA {
		setA[w] = struct{}{}
	}
	setB := make(map[string]struct{}, len(wordsB))
	for _, w := range wordsB {
		setB[w] = struct{}{}
	}

	var intersection int
	for w := range setA {
		if _, ok := setB[w]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// Package match provides the string-normalization and similarity primitives
// shared by the search aggregator, the track resolver and the lyrics engine.
package match

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/unicode/norm"
)

var (
	trackNumberRe = regexp.MustCompile(`^\d+\.\s*`)
	bracketedRe   = regexp.MustCompile(`\s*\(.*?\)\s*|\s*\[.*?\]\s*|\s*'.*?'\s*|\s*".*?"\s*|\s*«.*?»\s*`)
	underscoreRe  = regexp.MustCompile(`_+`)
	qualifierRe   = regexp.MustCompile(`(?i)\s*-\s*(live|remix|reprise|acoustic|version)\s*`)
	whitespaceRe  = regexp.MustCompile(`\s+`)
)

// StripAccents removes diacritics ("Hélène" -> "Helene") by NFKD-decomposing
// the string and dropping the combining marks.
func StripAccents(s string) string {
	if s == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range norm.NFKD.String(s) {
		if !unicode.IsMark(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Clean folds a string down to its comparable core: accents stripped,
// lowercased, everything except letters and digits removed.
func Clean(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range StripAccents(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

// CleanTitle reduces a track title to its base song identity so that edition
// metadata does not defeat comparisons: the leading track-number prefix
// ("01. "), every bracketed or quoted segment, and trailing "- live" style
// qualifiers are removed, underscores and runs of whitespace collapse to a
// single space, and the result is lowercased.
func CleanTitle(title string) string {
	t := trackNumberRe.ReplaceAllString(title, "")
	t = bracketedRe.ReplaceAllString(t, "")
	t = underscoreRe.ReplaceAllString(t, " ")
	t = qualifierRe.ReplaceAllString(t, "")
	t = whitespaceRe.ReplaceAllString(t, " ")
	t = strings.Trim(t, " _-\t\n\r")
	return strings.ToLower(strings.TrimSpace(t))
}

const (
	containmentScore    = 90
	containmentLenDelta = 10
)

// Scorer computes a 0-100 similarity between two already-cleaned strings.
//
// With Fuzzy set it uses a levenshtein ratio. Without it the score is a
// coarse containment check: 90 when one string contains the other and their
// lengths differ by at most ten runes, otherwise 0. The fallback is lower
// precision and exists so the package degrades predictably when fuzzy
// matching is disabled; callers' thresholds are tuned to work under both.
type Scorer struct {
	Fuzzy bool
}

// NewScorer returns a Scorer with fuzzy matching enabled.
func NewScorer() Scorer {
	return Scorer{Fuzzy: true}
}

// Similarity scores a against b. Comparing any string to the empty string
// yields 0; two equal strings yield 100 on both paths.
func (sc Scorer) Similarity(a, b string) int {
	if a == b {
		if a == "" {
			return 0
		}
		return 100
	}
	if a == "" || b == "" {
		return 0
	}

	if sc.Fuzzy {
		ra, rb := []rune(a), []rune(b)
		longest := len(ra)
		if len(rb) > longest {
			longest = len(rb)
		}
		dist := levenshtein.ComputeDistance(a, b)
		if dist >= longest {
			return 0
		}
		return (longest - dist) * 100 / longest
	}

	ra, rb := []rune(a), []rune(b)
	delta := len(ra) - len(rb)
	if delta < 0 {
		delta = -delta
	}
	if delta > containmentLenDelta {
		return 0
	}
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return containmentScore
	}
	return 0
}

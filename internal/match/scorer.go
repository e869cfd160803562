// Package match scores founder profiles against each other by vocabulary
// overlap across skills, experience and goals.
package match

import (
	"strings"

	"github.com/founderhub/founderhub/internal/founder"
)

// Score returns a similarity score in [0, 1] between a reference founder and
// a candidate. Skills, experience and goals are tokenized on commas and
// whitespace, lowercased, and compared as one token set per founder
// (Jaccard: shared / union). Two founders with no tokens at all score 0.
func Score(reference, candidate *founder.Founder) float64 {
	ref := tokenSet(reference)
	cand := tokenSet(candidate)

	if len(ref) == 0 && len(cand) == 0 {
		return 0
	}

	shared := 0
	for token := range ref {
		if cand[token] {
			shared++
		}
	}

	union := len(ref) + len(cand) - shared
	if union == 0 {
		return 0
	}

	return float64(shared) / float64(union)
}

func tokenSet(f *founder.Founder) map[string]bool {
	set := make(map[string]bool)
	if f == nil {
		return set
	}
	for _, field := range []string{f.Skills, f.Experience, f.Goals} {
		for _, token := range Tokenize(field) {
			set[token] = true
		}
	}
	return set
}

// Tokenize splits free text on commas and whitespace and lowercases the
// result. Empty tokens are dropped.
func Tokenize(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})

	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.ToLower(f); f != "" {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

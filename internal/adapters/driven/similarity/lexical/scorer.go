// Package lexical provides a substring-frequency similarity scorer.
package lexical

import (
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/indexd/internal/core/ports/driven"
)

// Ensure Scorer implements the interface.
var _ driven.SimilarityScorer = (*Scorer)(nil)

// Scorer scores a text by how much of it is covered by occurrences of the
// query: occurrences × query length / text length, capped at 1.
// Matching is case-insensitive and lengths are counted in runes.
type Scorer struct{}

// New creates a lexical scorer.
func New() *Scorer {
	return &Scorer{}
}

// Name identifies the scorer.
func (*Scorer) Name() string {
	return "lexical"
}

// Score returns the coverage score, or 0 when the query does not occur.
func (*Scorer) Score(query, text string) float64 {
	q := strings.ToLower(query)
	if q == "" {
		return 0
	}
	t := strings.ToLower(text)
	count := strings.Count(t, q)
	if count == 0 {
		return 0
	}
	textLen := utf8.RuneCountInString(t)
	if textLen == 0 {
		textLen = 1
	}
	score := float64(count*utf8.RuneCountInString(q)) / float64(textLen)
	if score > 1 {
		return 1
	}
	return score
}

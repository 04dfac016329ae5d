package lexical

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScorer_Score(t *testing.T) {
	s := New()

	tests := []struct {
		name  string
		query string
		text  string
		want  float64
	}{
		{"no match", "rust", "hello world", 0},
		{"empty query", "", "hello", 0},
		{"full match", "hello", "hello", 1},
		{"case insensitive", "HELLO", "helloworld", 0.5},
		{"two occurrences", "ab", "ab ab", 0.8},
		{"runes not bytes", "über", "über alles", 0.4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, s.Score(tt.query, tt.text), 1e-9)
		})
	}
}

func TestScorer_Name(t *testing.T) {
	assert.Equal(t, "lexical", New().Name())
}

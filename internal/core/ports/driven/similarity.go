package driven

// SimilarityScorer rates how well a text answers a query.
// Scores are in [0, 1]; zero means the text is not a candidate.
type SimilarityScorer interface {
	// Score returns the similarity of text to query.
	Score(query, text string) float64

	// Name identifies the scorer in logs.
	Name() string
}

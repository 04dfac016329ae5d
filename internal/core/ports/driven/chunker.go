package driven

// Chunker splits raw document text into chunk texts.
type Chunker interface {
	// Split returns the chunk texts in document order.
	// Blank input yields no chunks.
	Split(text string) []string
}

package domain

import (
	"fmt"
	"maps"
	"strings"
	"time"
)

// Reserved namespaces.
const (
	// DefaultNamespace is used when a request names no namespace.
	DefaultNamespace = "default"

	// QuarantineNamespace holds documents isolated by the contamination
	// detector. Clients cannot write to it directly.
	QuarantineNamespace = "quarantine"
)

// NormalizeNamespace trims the namespace and substitutes the default.
func NormalizeNamespace(ns string) string {
	ns = strings.TrimSpace(ns)
	if ns == "" {
		return DefaultNamespace
	}
	return ns
}

// Chunk is a searchable text unit within a document.
type Chunk struct {
	// ID identifies the chunk within its document.
	ID string `json:"chunk_id"`

	// Text is the chunk content.
	Text string `json:"text"`

	// Meta contains chunk-specific key-value pairs.
	Meta map[string]any `json:"meta,omitempty"`
}

// Document is a namespaced, provenance-tagged unit of indexed content.
// A document is uniquely identified by (Namespace, ID).
type Document struct {
	// ID is the client-supplied document identifier.
	ID string `json:"doc_id"`

	// Namespace is the effective namespace the document is stored in.
	Namespace string `json:"namespace"`

	// Chunks are the searchable units, in ingestion order.
	Chunks []Chunk `json:"chunks"`

	// Meta contains document-level key-value pairs.
	Meta map[string]any `json:"meta,omitempty"`

	// SourceRef is the mandatory provenance.
	SourceRef SourceRef `json:"source_ref"`

	// IngestedAt is when the index last wrote the document.
	IngestedAt time.Time `json:"ingested_at"`

	// Flags are the content flags derived at ingestion.
	Flags []ContentFlag `json:"flags,omitempty"`
}

// HasFlag reports whether the document carries the given flag.
func (d *Document) HasFlag(f ContentFlag) bool {
	for _, got := range d.Flags {
		if got == f {
			return true
		}
	}
	return false
}

// Clone returns a copy that shares no slices or top-level maps with d.
// Nested meta values are still shared.
func (d *Document) Clone() *Document {
	out := *d
	out.Chunks = make([]Chunk, len(d.Chunks))
	for i, c := range d.Chunks {
		c.Meta = maps.Clone(c.Meta)
		out.Chunks[i] = c
	}
	out.Meta = maps.Clone(d.Meta)
	out.Flags = append([]ContentFlag(nil), d.Flags...)
	return &out
}

// DefaultChunkID returns the id assigned to the i-th chunk when the
// client left it empty.
func DefaultChunkID(docID string, i int) string {
	return fmt.Sprintf("%s#%d", docID, i)
}

// UpsertStatus reports where an upserted document ended up.
type UpsertStatus string

const (
	UpsertStored      UpsertStatus = "stored"
	UpsertQuarantined UpsertStatus = "quarantined"
)

// UpsertRequest inserts or replaces a document.
type UpsertRequest struct {
	DocID     string         `json:"doc_id"`
	Namespace string         `json:"namespace"`
	Chunks    []Chunk        `json:"chunks"`
	Meta      map[string]any `json:"meta,omitempty"`

	// Text is split into chunks by the index when Chunks is empty.
	Text string `json:"text,omitempty"`

	// SourceRef is a pointer so that an omitted reference can be rejected.
	SourceRef *SourceRef `json:"source_ref"`
}

// UpsertResult describes the outcome of an upsert.
type UpsertResult struct {
	Status    UpsertStatus  `json:"status"`
	Namespace string        `json:"namespace"`
	Ingested  int           `json:"ingested"`
	Flags     []ContentFlag `json:"flags"`
}

package driven

import (
	"context"

	"github.com/custodia-labs/indexd/internal/core/domain"
)

// DocumentStore holds indexed documents keyed by (namespace, doc id).
// The index service serialises writes; implementations must still be safe
// for concurrent readers.
type DocumentStore interface {
	// Put stores or replaces a document.
	Put(ctx context.Context, doc *domain.Document) error

	// Get retrieves a document. Returns domain.ErrNotFound if absent.
	Get(ctx context.Context, namespace, docID string) (*domain.Document, error)

	// Delete removes a document. Deleting an absent document is not an error.
	Delete(ctx context.Context, namespace, docID string) error

	// List returns the documents of a namespace, or of every namespace
	// when namespace is empty.
	List(ctx context.Context, namespace string) ([]*domain.Document, error)

	// Namespaces returns the non-empty namespaces in sorted order.
	Namespaces(ctx context.Context) ([]string, error)

	// Count returns the number of documents in a namespace.
	Count(ctx context.Context, namespace string) (int, error)
}

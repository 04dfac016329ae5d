package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/indexd/internal/core/domain"
	"github.com/custodia-labs/indexd/internal/core/ports/driven"
)

// Ensure DocumentStore implements the interface.
var _ driven.DocumentStore = (*DocumentStore)(nil)

// DocumentStore is an in-memory implementation of driven.DocumentStore.
// Documents are partitioned by namespace.
type DocumentStore struct {
	mu         sync.RWMutex
	namespaces map[string]map[string]*domain.Document
}

// NewDocumentStore creates a new in-memory document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		namespaces: make(map[string]map[string]*domain.Document),
	}
}

// Put stores or replaces a document.
func (s *DocumentStore) Put(_ context.Context, doc *domain.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ns, ok := s.namespaces[doc.Namespace]
	if !ok {
		ns = make(map[string]*domain.Document)
		s.namespaces[doc.Namespace] = ns
	}
	ns[doc.ID] = doc.Clone()
	return nil
}

// Get retrieves a copy of a document.
func (s *DocumentStore) Get(_ context.Context, namespace, docID string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.namespaces[namespace][docID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return doc.Clone(), nil
}

// Delete removes a document. Empty namespaces are dropped.
func (s *DocumentStore) Delete(_ context.Context, namespace, docID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ns, ok := s.namespaces[namespace]
	if !ok {
		return nil
	}
	delete(ns, docID)
	if len(ns) == 0 {
		delete(s.namespaces, namespace)
	}
	return nil
}

// List returns copies of documents ordered by namespace then id.
func (s *DocumentStore) List(_ context.Context, namespace string) ([]*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var docs []*domain.Document
	if namespace != "" {
		for _, doc := range s.namespaces[namespace] {
			docs = append(docs, doc.Clone())
		}
	} else {
		for _, ns := range s.namespaces {
			for _, doc := range ns {
				docs = append(docs, doc.Clone())
			}
		}
	}
	sort.Slice(docs, func(i, j int) bool {
		if docs[i].Namespace != docs[j].Namespace {
			return docs[i].Namespace < docs[j].Namespace
		}
		return docs[i].ID < docs[j].ID
	})
	return docs, nil
}

// Namespaces returns the non-empty namespaces in sorted order.
func (s *DocumentStore) Namespaces(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.namespaces))
	for ns := range s.namespaces {
		out = append(out, ns)
	}
	sort.Strings(out)
	return out, nil
}

// Count returns the number of documents in a namespace.
func (s *DocumentStore) Count(_ context.Context, namespace string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.namespaces[namespace]), nil
}

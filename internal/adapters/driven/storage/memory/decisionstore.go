package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/indexd/internal/core/domain"
	"github.com/custodia-labs/indexd/internal/core/ports/driven"
)

// Ensure DecisionStore implements the interface.
var _ driven.DecisionStore = (*DecisionStore)(nil)

// DefaultDecisionCapacity bounds snapshots and outcomes independently.
const DefaultDecisionCapacity = 10000

// DecisionStore is a bounded in-memory implementation of driven.DecisionStore.
// Ids are time-sortable, so the smallest id is the oldest entry and is
// evicted first when a bound is reached.
type DecisionStore struct {
	mu           sync.RWMutex
	snapshots    map[string]*domain.DecisionSnapshot
	outcomes     map[string]domain.DecisionOutcome
	maxSnapshots int
	maxOutcomes  int
}

// NewDecisionStore creates a store; non-positive limits use the default.
func NewDecisionStore(maxSnapshots, maxOutcomes int) *DecisionStore {
	if maxSnapshots <= 0 {
		maxSnapshots = DefaultDecisionCapacity
	}
	if maxOutcomes <= 0 {
		maxOutcomes = DefaultDecisionCapacity
	}
	return &DecisionStore{
		snapshots:    make(map[string]*domain.DecisionSnapshot),
		outcomes:     make(map[string]domain.DecisionOutcome),
		maxSnapshots: maxSnapshots,
		maxOutcomes:  maxOutcomes,
	}
}

// PutSnapshot stores a copy of snap, evicting the oldest when full.
func (s *DecisionStore) PutSnapshot(_ context.Context, snap *domain.DecisionSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.snapshots[snap.DecisionID]; !exists && len(s.snapshots) >= s.maxSnapshots {
		delete(s.snapshots, oldestKey(s.snapshots))
	}
	s.snapshots[snap.DecisionID] = snap.Clone()
	return nil
}

// GetSnapshot returns a copy of a snapshot.
func (s *DecisionStore) GetSnapshot(_ context.Context, id string) (*domain.DecisionSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.snapshots[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return snap.Clone(), nil
}

// ListSnapshots returns all snapshots ordered by id.
func (s *DecisionStore) ListSnapshots(_ context.Context) ([]domain.DecisionSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.DecisionSnapshot, 0, len(s.snapshots))
	for _, snap := range s.snapshots {
		out = append(out, *snap.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DecisionID < out[j].DecisionID })
	return out, nil
}

// PutOutcome stores an outcome, evicting the oldest when full.
// The snapshot check and the write share one lock, so a concurrent
// eviction cannot leave an outcome without its snapshot.
func (s *DecisionStore) PutOutcome(_ context.Context, outcome *domain.DecisionOutcome) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.snapshots[outcome.DecisionID]; !ok {
		return false, domain.ErrNotFound
	}
	_, replaced := s.outcomes[outcome.DecisionID]
	if !replaced && len(s.outcomes) >= s.maxOutcomes {
		delete(s.outcomes, oldestKey(s.outcomes))
	}
	s.outcomes[outcome.DecisionID] = *outcome
	return replaced, nil
}

// GetOutcome returns the outcome for a decision.
func (s *DecisionStore) GetOutcome(_ context.Context, decisionID string) (*domain.DecisionOutcome, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out, ok := s.outcomes[decisionID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &out, nil
}

// ListOutcomes returns all outcomes ordered by decision id.
func (s *DecisionStore) ListOutcomes(_ context.Context) ([]domain.DecisionOutcome, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.DecisionOutcome, 0, len(s.outcomes))
	for _, o := range s.outcomes {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DecisionID < out[j].DecisionID })
	return out, nil
}

// Counts returns the number of stored snapshots and outcomes.
func (s *DecisionStore) Counts(_ context.Context) (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.snapshots), len(s.outcomes), nil
}

func oldestKey[V any](m map[string]V) string {
	oldest := ""
	first := true
	for k := range m {
		if first || k < oldest {
			oldest = k
			first = false
		}
	}
	return oldest
}

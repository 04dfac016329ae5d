package driven

import (
	"context"

	"github.com/custodia-labs/indexd/internal/core/domain"
)

// DecisionStore keeps decision snapshots and their outcomes.
type DecisionStore interface {
	// PutSnapshot stores a snapshot, evicting the oldest when full.
	PutSnapshot(ctx context.Context, snap *domain.DecisionSnapshot) error

	// GetSnapshot returns a snapshot. Returns domain.ErrNotFound if absent.
	GetSnapshot(ctx context.Context, id string) (*domain.DecisionSnapshot, error)

	// ListSnapshots returns all snapshots ordered by id.
	ListSnapshots(ctx context.Context) ([]domain.DecisionSnapshot, error)

	// PutOutcome stores an outcome and reports whether one was replaced.
	// Returns domain.ErrNotFound, storing nothing, if the decision has no
	// snapshot. Implementations check and write atomically.
	PutOutcome(ctx context.Context, outcome *domain.DecisionOutcome) (replaced bool, err error)

	// GetOutcome returns the outcome for a decision. Returns domain.ErrNotFound if absent.
	GetOutcome(ctx context.Context, decisionID string) (*domain.DecisionOutcome, error)

	// ListOutcomes returns all outcomes ordered by decision id.
	ListOutcomes(ctx context.Context) ([]domain.DecisionOutcome, error)

	// Counts returns the number of stored snapshots and outcomes.
	Counts(ctx context.Context) (snapshots, outcomes int, err error)
}

package driving

import (
	"context"

	"github.com/custodia-labs/indexd/internal/core/domain"
)

// AuditService exposes the decision audit trail.
type AuditService interface {
	// Snapshot returns one decision snapshot.
	Snapshot(ctx context.Context, id string) (*domain.DecisionSnapshot, error)

	// Snapshots returns every snapshot in time order.
	Snapshots(ctx context.Context) ([]domain.DecisionSnapshot, error)

	// RecordOutcome attaches feedback to an existing snapshot.
	RecordOutcome(ctx context.Context, outcome domain.DecisionOutcome) (domain.DecisionOutcome, error)

	// Outcome returns the outcome recorded for a decision.
	Outcome(ctx context.Context, decisionID string) (*domain.DecisionOutcome, error)

	// Outcomes returns every outcome in time order.
	Outcomes(ctx context.Context) ([]domain.DecisionOutcome, error)
}

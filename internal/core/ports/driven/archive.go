package driven

import (
	"context"

	"github.com/custodia-labs/indexd/internal/core/domain"
)

// DecisionArchive durably records the audit trail for offline analysis.
// Writes are upserts keyed by decision id.
type DecisionArchive interface {
	// SaveSnapshots upserts snapshots.
	SaveSnapshots(ctx context.Context, snaps []domain.DecisionSnapshot) error

	// SaveOutcomes upserts outcomes.
	SaveOutcomes(ctx context.Context, outcomes []domain.DecisionOutcome) error

	// Close releases resources.
	Close() error
}

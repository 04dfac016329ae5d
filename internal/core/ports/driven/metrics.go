package driven

import "github.com/custodia-labs/indexd/internal/core/domain"

// MetricsRecorder receives index events for export.
// All methods must be cheap and non-blocking.
type MetricsRecorder interface {
	// ContentFlagged counts one detected flag.
	ContentFlagged(flag domain.ContentFlag)

	// Quarantined counts one document routed to quarantine.
	Quarantined()

	// QuarantineSize reports the current quarantine population.
	QuarantineSize(n int)

	// QueryFiltered counts one document dropped by the security filter.
	QueryFiltered(reason domain.FilterReason)

	// Forgotten counts removed documents.
	Forgotten(reason domain.ForgetReason, n int)

	// SnapshotEmitted counts one decision snapshot.
	SnapshotEmitted()

	// OutcomeRecorded counts one decision outcome.
	OutcomeRecorded(outcome domain.Outcome)

	// WeightApplied counts a non-neutral weight factor ("trust", "recency", "context").
	WeightApplied(factor string)

	// FinalScore observes one ranked candidate score.
	FinalScore(score float64)
}

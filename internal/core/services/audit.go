package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/custodia-labs/indexd/internal/core/domain"
	"github.com/custodia-labs/indexd/internal/core/ports/driven"
	"github.com/custodia-labs/indexd/internal/core/ports/driving"
)

// Ensure AuditTrail implements the interface.
var _ driving.AuditService = (*AuditTrail)(nil)

// AuditTrail records decision snapshots and accepts outcome feedback.
// Outcomes are stored for external learners and never influence scoring.
type AuditTrail struct {
	store   driven.DecisionStore
	metrics driven.MetricsRecorder
	now     func() time.Time
	newID   func() (string, error)
	log     *zap.Logger
}

// NewAuditTrail creates an audit trail over the given store.
func NewAuditTrail(store driven.DecisionStore) *AuditTrail {
	return &AuditTrail{
		store:   store,
		metrics: nopMetrics{},
		now:     time.Now,
		newID:   newDecisionID,
		log:     zap.L().Named("audit"),
	}
}

// newDecisionID returns a UUIDv7, whose string form sorts by creation time.
func newDecisionID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// SetMetrics sets the metrics recorder.
func (a *AuditTrail) SetMetrics(m driven.MetricsRecorder) {
	if m == nil {
		m = nopMetrics{}
	}
	a.metrics = m
}

// SetClock overrides the time source.
func (a *AuditTrail) SetClock(now func() time.Time) {
	a.now = now
}

// SetLogger replaces the audit logger.
func (a *AuditTrail) SetLogger(l *zap.Logger) {
	a.log = l
}

// Emit assigns an id and timestamp to a snapshot and stores it.
func (a *AuditTrail) Emit(ctx context.Context, snap *domain.DecisionSnapshot) (string, error) {
	id, err := a.newID()
	if err != nil {
		return "", err
	}
	snap.DecisionID = id
	snap.Timestamp = a.now()
	if err := a.store.PutSnapshot(ctx, snap); err != nil {
		return "", err
	}
	a.metrics.SnapshotEmitted()
	a.log.Debug("decision snapshot emitted",
		zap.String("decision_id", id),
		zap.Int("candidates", len(snap.Candidates)),
		zap.String("selected_id", snap.SelectedID),
		zap.String("policy_hash", snap.PolicyHash))
	return id, nil
}

// Snapshot returns one decision snapshot.
func (a *AuditTrail) Snapshot(ctx context.Context, id string) (*domain.DecisionSnapshot, error) {
	snap, err := a.store.GetSnapshot(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, decisionNotFound(id)
	}
	return snap, err
}

// Snapshots returns every snapshot in time order.
func (a *AuditTrail) Snapshots(ctx context.Context) ([]domain.DecisionSnapshot, error) {
	return a.store.ListSnapshots(ctx)
}

// RecordOutcome attaches feedback to an existing snapshot.
// Recording a second outcome for the same decision replaces the first.
func (a *AuditTrail) RecordOutcome(ctx context.Context, outcome domain.DecisionOutcome) (domain.DecisionOutcome, error) {
	if err := outcome.Validate(); err != nil {
		return domain.DecisionOutcome{}, err
	}
	if outcome.Timestamp.IsZero() {
		outcome.Timestamp = a.now()
	}

	replaced, err := a.store.PutOutcome(ctx, &outcome)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.DecisionOutcome{}, decisionNotFound(outcome.DecisionID)
	}
	if err != nil {
		return domain.DecisionOutcome{}, err
	}
	if replaced {
		a.log.Info("decision outcome overwritten",
			zap.String("decision_id", outcome.DecisionID))
	}
	a.metrics.OutcomeRecorded(outcome.Outcome)
	a.log.Info("decision outcome recorded",
		zap.String("decision_id", outcome.DecisionID),
		zap.String("outcome", string(outcome.Outcome)),
		zap.String("signal_source", string(outcome.SignalSource)))
	return outcome, nil
}

// Outcome returns the outcome recorded for a decision.
func (a *AuditTrail) Outcome(ctx context.Context, decisionID string) (*domain.DecisionOutcome, error) {
	out, err := a.store.GetOutcome(ctx, decisionID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.NewNotFoundError(domain.CodeDecisionNotFound, decisionID, "no outcome recorded for decision "+decisionID)
	}
	return out, err
}

// Outcomes returns every outcome in time order.
func (a *AuditTrail) Outcomes(ctx context.Context) ([]domain.DecisionOutcome, error) {
	return a.store.ListOutcomes(ctx)
}

// Counts returns the number of stored snapshots and outcomes.
func (a *AuditTrail) Counts(ctx context.Context) (int, int, error) {
	return a.store.Counts(ctx)
}

func decisionNotFound(id string) *domain.Error {
	e := domain.NewNotFoundError(domain.CodeDecisionNotFound, id, "decision "+id+" not found")
	e.Details["hint"] = "Decision snapshot must exist before recording outcome"
	return e
}

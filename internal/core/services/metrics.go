package services

import (
	"github.com/custodia-labs/indexd/internal/core/domain"
	"github.com/custodia-labs/indexd/internal/core/ports/driven"
)

var _ driven.MetricsRecorder = nopMetrics{}

// nopMetrics discards all events.
type nopMetrics struct{}

func (nopMetrics) ContentFlagged(domain.ContentFlag) {}
func (nopMetrics) Quarantined() {}
func (nopMetrics) QuarantineSize(int) {}
func (nopMetrics) QueryFiltered(domain.FilterReason) {}
func (nopMetrics) Forgotten(domain.ForgetReason, int) {}
func (nopMetrics) SnapshotEmitted() {}
func (nopMetrics) OutcomeRecorded(domain.Outcome) {}
func (nopMetrics) WeightApplied(string) {}
func (nopMetrics) FinalScore(float64) {}

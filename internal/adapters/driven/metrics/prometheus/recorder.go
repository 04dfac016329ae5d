// Package prometheus exports index events as Prometheus metrics.
package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/custodia-labs/indexd/internal/core/domain"
	"github.com/custodia-labs/indexd/internal/core/ports/driven"
)

// Ensure Recorder implements the interface.
var _ driven.MetricsRecorder = (*Recorder)(nil)

const namespace = "indexd"

// FinalScoreBuckets is weighted towards the top of the score range.
var FinalScoreBuckets = []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.85, 0.9, 0.95, 0.99, 1.0, 1.2, 1.5, 2.0}

// Recorder is a Prometheus-backed driven.MetricsRecorder.
type Recorder struct {
	contentFlags     *prometheus.CounterVec
	queryFiltered    *prometheus.CounterVec
	quarantineItems  prometheus.Gauge
	quarantinedTotal prometheus.Counter
	forgotten        *prometheus.CounterVec
	snapshots        prometheus.Counter
	outcomes         *prometheus.CounterVec
	weightApplied    *prometheus.CounterVec
	finalScore       prometheus.Histogram
}

// NewRecorder creates the collectors and registers them with reg.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		contentFlags: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "content_flags_total",
			Help:      "Content flags detected at ingestion.",
		}, []string{"flag"}),
		queryFiltered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "query_filtered_total",
			Help:      "Documents dropped by the query security filter.",
		}, []string{"reason"}),
		quarantineItems: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "quarantine_items",
			Help:      "Documents currently held in quarantine.",
		}),
		quarantinedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quarantined_total",
			Help:      "Documents routed to quarantine.",
		}),
		forgotten: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "forgotten_total",
			Help:      "Documents removed from the index.",
		}, []string{"reason"}),
		snapshots: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "decision_snapshots_total",
			Help:      "Decision snapshots emitted.",
		}),
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "decision_outcomes_total",
			Help:      "Decision outcomes reported.",
		}, []string{"outcome"}),
		weightApplied: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "decision_weight_applied_total",
			Help:      "Searches in which a weight factor deviated from neutral.",
		}, []string{"factor"}),
		finalScore: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "decision_final_score",
			Help:      "Final weighted score of the top search result.",
			Buckets:   FinalScoreBuckets,
		}),
	}
	reg.MustRegister(
		r.contentFlags,
		r.queryFiltered,
		r.quarantineItems,
		r.quarantinedTotal,
		r.forgotten,
		r.snapshots,
		r.outcomes,
		r.weightApplied,
		r.finalScore,
	)
	return r
}

func (r *Recorder) ContentFlagged(flag domain.ContentFlag) {
	r.contentFlags.WithLabelValues(flag.String()).Inc()
}

func (r *Recorder) Quarantined() {
	r.quarantinedTotal.Inc()
}

func (r *Recorder) QuarantineSize(n int) {
	r.quarantineItems.Set(float64(n))
}

func (r *Recorder) QueryFiltered(reason domain.FilterReason) {
	r.queryFiltered.WithLabelValues(string(reason)).Inc()
}

func (r *Recorder) Forgotten(reason domain.ForgetReason, n int) {
	r.forgotten.WithLabelValues(string(reason)).Add(float64(n))
}

func (r *Recorder) SnapshotEmitted() {
	r.snapshots.Inc()
}

func (r *Recorder) OutcomeRecorded(outcome domain.Outcome) {
	r.outcomes.WithLabelValues(string(outcome)).Inc()
}

func (r *Recorder) WeightApplied(factor string) {
	r.weightApplied.WithLabelValues(factor).Inc()
}

func (r *Recorder) FinalScore(score float64) {
	r.finalScore.Observe(score)
}

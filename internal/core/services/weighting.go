package services

import (
	"math"
	"time"

	"github.com/custodia-labs/indexd/internal/core/domain"
)

// Weight factor names used for metrics.
const (
	factorTrust   = "trust"
	factorRecency = "recency"
	factorContext = "context"
)

// DecayFactor returns 0.5^(age/halfLife), in (0, 1].
// A non-positive half-life disables decay. Negative ages count as zero.
func DecayFactor(age, halfLife time.Duration) float64 {
	if halfLife <= 0 {
		return 1.0
	}
	if age < 0 {
		age = 0
	}
	f := math.Pow(0.5, age.Seconds()/halfLife.Seconds())
	if f <= 0 {
		return math.SmallestNonzeroFloat64
	}
	return f
}

// weigher computes weight breakdowns under one policy snapshot and profile.
type weigher struct {
	policies *domain.PolicyConfig
	profile  map[string]float64
	now      time.Time
}

// newWeigher resolves the context profile. It reports false when the
// requested profile was unknown and the default profile was substituted.
func newWeigher(policies *domain.PolicyConfig, profileName string, now time.Time) (*weigher, bool) {
	if profileName == "" {
		profileName = domain.DefaultProfile
	}
	profile, ok := policies.Context.Profiles[profileName]
	if !ok {
		profile = policies.Context.Profiles[domain.DefaultProfile]
	}
	return &weigher{policies: policies, profile: profile, now: now}, ok
}

// trustWeight returns the floored trust weight.
func (w *weigher) trustWeight(level domain.TrustLevel) float64 {
	return w.policies.Trust.Weight(level)
}

// recencyWeight returns the floored recency weight of a document.
func (w *weigher) recencyWeight(doc *domain.Document, halfLife time.Duration) float64 {
	f := DecayFactor(w.now.Sub(doc.IngestedAt), halfLife)
	if floor := w.policies.Context.Recency.MinWeight; f < floor {
		return floor
	}
	return f
}

// contextWeight returns the profile weight of a document.
func (w *weigher) contextWeight(doc *domain.Document) float64 {
	return domain.ContextWeight(w.profile, doc.Namespace, doc.SourceRef.Origin)
}

// weigh returns the full breakdown for a candidate.
func (w *weigher) weigh(doc *domain.Document, similarity float64, halfLife time.Duration) domain.WeightBreakdown {
	return domain.WeightBreakdown{
		Similarity: similarity,
		Trust:      w.trustWeight(doc.SourceRef.TrustLevel),
		Recency:    w.recencyWeight(doc, halfLife),
		Context:    w.contextWeight(doc),
	}
}

// appliedFactors tracks which factors deviated from neutral during a search.
type appliedFactors struct {
	trust, recency, context bool
}

func (a *appliedFactors) observe(wb domain.WeightBreakdown) {
	const eps = 1e-9
	a.trust = a.trust || math.Abs(wb.Trust-1) > eps
	a.recency = a.recency || math.Abs(wb.Recency-1) > eps
	a.context = a.context || math.Abs(wb.Context-1) > eps
}

func (a *appliedFactors) names() []string {
	var out []string
	if a.trust {
		out = append(out, factorTrust)
	}
	if a.recency {
		out = append(out, factorRecency)
	}
	if a.context {
		out = append(out, factorContext)
	}
	return out
}

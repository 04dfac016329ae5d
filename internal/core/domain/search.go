package domain

import "time"

// SearchRequest is a ranked retrieval query.
type SearchRequest struct {
	// Query is the search text.
	Query string `json:"query"`

	// K is the maximum number of matches to return.
	K int `json:"k"`

	// Namespace restricts the search. Empty means "default".
	Namespace string `json:"namespace"`

	// ExcludeFlags drops documents carrying any listed flag.
	// A nil slice means the default exclusion (possible_prompt_injection);
	// an empty slice disables flag filtering.
	ExcludeFlags []ContentFlag `json:"exclude_flags"`

	// MinTrustLevel drops documents below this level.
	MinTrustLevel *TrustLevel `json:"min_trust_level,omitempty"`

	// ExcludeOrigins drops documents whose SourceRef origin is listed.
	ExcludeOrigins []string `json:"exclude_origins,omitempty"`

	// ContextProfile selects the context weight profile.
	ContextProfile string `json:"context_profile,omitempty"`

	// IncludeWeights adds the weight breakdown to every match.
	IncludeWeights bool `json:"include_weights"`

	// EmitDecisionSnapshot records the ranked candidates in the audit trail.
	EmitDecisionSnapshot bool `json:"emit_decision_snapshot"`

	// Intent is free text stored with the snapshot.
	Intent string `json:"intent,omitempty"`
}

// EffectiveExcludeFlags resolves the nil-means-default rule.
func (r *SearchRequest) EffectiveExcludeFlags() []ContentFlag {
	if r.ExcludeFlags == nil {
		return []ContentFlag{FlagPossiblePromptInjection}
	}
	return r.ExcludeFlags
}

// WeightBreakdown is the per-factor decomposition of a final score.
type WeightBreakdown struct {
	Similarity float64 `json:"similarity"`
	Trust      float64 `json:"trust"`
	Recency    float64 `json:"recency"`
	Context    float64 `json:"context"`
}

// Final returns the product of all factors.
func (w WeightBreakdown) Final() float64 {
	return w.Similarity * w.Trust * w.Recency * w.Context
}

// SearchMatch represents a single ranked hit.
type SearchMatch struct {
	DocID      string           `json:"doc_id"`
	Namespace  string           `json:"namespace"`
	ChunkID    string           `json:"chunk_id"`
	Score      float64          `json:"score"`
	Text       string           `json:"text"`
	Meta       map[string]any   `json:"meta,omitempty"`
	SourceRef  SourceRef        `json:"source_ref"`
	IngestedAt time.Time        `json:"ingested_at"`
	Flags      []ContentFlag    `json:"flags,omitempty"`
	Weights    *WeightBreakdown `json:"weights,omitempty"`
}

// SearchResponse is returned by a search.
type SearchResponse struct {
	Matches []SearchMatch `json:"matches"`

	// DecisionID is set when a snapshot was emitted.
	DecisionID string `json:"decision_id,omitempty"`
}

// FilterReason labels why the security filter dropped a document.
type FilterReason string

const (
	FilterReasonFlag     FilterReason = "flag"
	FilterReasonMinTrust FilterReason = "min_trust"
	FilterReasonOrigin   FilterReason = "origin"
)

// RelatedRequest asks for documents sharing vocabulary with a document.
type RelatedRequest struct {
	DocID     string `json:"doc_id"`
	Namespace string `json:"namespace"`
	K         int    `json:"k"`
}

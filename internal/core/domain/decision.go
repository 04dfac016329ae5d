package domain

import (
	"fmt"
	"time"
)

// Outcome is the externally reported result of a decision.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
	OutcomeNeutral Outcome = "neutral"
)

// Valid reports whether o is a known outcome.
func (o Outcome) Valid() bool {
	switch o {
	case OutcomeSuccess, OutcomeFailure, OutcomeNeutral:
		return true
	}
	return false
}

// SignalSource names who reported an outcome.
type SignalSource string

const (
	SignalUser   SignalSource = "user"
	SignalSystem SignalSource = "system"
	SignalPolicy SignalSource = "policy"
)

// Valid reports whether s is a known signal source.
func (s SignalSource) Valid() bool {
	switch s {
	case SignalUser, SignalSystem, SignalPolicy:
		return true
	}
	return false
}

// DecisionCandidate is one ranked candidate recorded in a snapshot.
type DecisionCandidate struct {
	ID         string          `json:"id"`
	ChunkID    string          `json:"chunk_id"`
	Similarity float64         `json:"similarity"`
	Weights    WeightBreakdown `json:"weights"`
	FinalScore float64         `json:"final_score"`
}

// DecisionSnapshot captures what a search saw and chose.
type DecisionSnapshot struct {
	DecisionID     string              `json:"decision_id"`
	Intent         string              `json:"intent"`
	Timestamp      time.Time           `json:"timestamp"`
	Namespace      string              `json:"namespace"`
	ContextProfile string              `json:"context_profile,omitempty"`
	Candidates     []DecisionCandidate `json:"candidates"`
	SelectedID     string              `json:"selected_id,omitempty"`
	PolicyHash     string              `json:"policy_hash"`
}

// Clone returns a copy that shares no candidates with s.
func (s *DecisionSnapshot) Clone() *DecisionSnapshot {
	out := *s
	out.Candidates = append([]DecisionCandidate(nil), s.Candidates...)
	return &out
}

// DecisionOutcome is feedback attached to a snapshot.
type DecisionOutcome struct {
	DecisionID   string       `json:"decision_id"`
	Outcome      Outcome      `json:"outcome"`
	SignalSource SignalSource `json:"signal_source"`
	Timestamp    time.Time    `json:"timestamp"`
	Notes        string       `json:"notes,omitempty"`
}

// Validate checks the enum fields.
func (o *DecisionOutcome) Validate() error {
	if o.DecisionID == "" {
		return NewValidationError(CodeInvalidValue, "decision_id", "decision_id is required")
	}
	if !o.Outcome.Valid() {
		return NewValidationError(CodeInvalidOutcome, "outcome", fmt.Sprintf("unknown outcome %q", o.Outcome))
	}
	if !o.SignalSource.Valid() {
		return NewValidationError(CodeInvalidOutcome, "signal_source", fmt.Sprintf("unknown signal source %q", o.SignalSource))
	}
	return nil
}

package domain

import "time"

// ForgetReason labels why documents were removed.
type ForgetReason string

const (
	ForgetManual    ForgetReason = "manual"
	ForgetRetention ForgetReason = "retention"
)

// ForgetFilter selects documents for deletion. Every set field must match.
type ForgetFilter struct {
	// Namespace restricts matching to one namespace. Empty matches all.
	Namespace string `json:"namespace,omitempty"`

	// OlderThan matches documents ingested strictly before this instant.
	OlderThan *time.Time `json:"older_than,omitempty"`

	// SourceRefOrigin matches the document's SourceRef origin.
	SourceRefOrigin string `json:"source_ref_origin,omitempty"`

	// DocID matches a single document id.
	DocID string `json:"doc_id,omitempty"`

	// AllowNamespaceWipe permits deleting a whole namespace.
	// It requires Namespace to be set.
	AllowNamespaceWipe bool `json:"allow_namespace_wipe,omitempty"`
}

// Selective reports whether the filter narrows beyond a namespace.
func (f ForgetFilter) Selective() bool {
	return f.OlderThan != nil || f.SourceRefOrigin != "" || f.DocID != ""
}

// Matches reports whether doc satisfies every set field.
func (f ForgetFilter) Matches(doc *Document) bool {
	if f.Namespace != "" && doc.Namespace != f.Namespace {
		return false
	}
	if f.OlderThan != nil && !doc.IngestedAt.Before(*f.OlderThan) {
		return false
	}
	if f.SourceRefOrigin != "" && doc.SourceRef.Origin != f.SourceRefOrigin {
		return false
	}
	if f.DocID != "" && doc.ID != f.DocID {
		return false
	}
	return true
}

// ForgetRequest asks the index to delete matching documents.
type ForgetRequest struct {
	Filter  ForgetFilter `json:"filter"`
	Reason  string       `json:"reason"`
	Confirm bool         `json:"confirm"`
	DryRun  bool         `json:"dry_run"`
}

// ForgottenDocument identifies one matched document.
type ForgottenDocument struct {
	DocID      string    `json:"doc_id"`
	Namespace  string    `json:"namespace"`
	IngestedAt time.Time `json:"ingested_at"`
}

// ForgetResult reports what a forget request matched and removed.
type ForgetResult struct {
	MatchedCount int                 `json:"matched_count"`
	DeletedCount int                 `json:"deleted_count"`
	DocIDs       []string            `json:"doc_ids"`
	Documents    []ForgottenDocument `json:"documents"`
	DryRun       bool                `json:"dry_run"`
}

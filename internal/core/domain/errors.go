package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by the core wraps exactly one of these,
// so callers can branch with errors.Is.
var (
	// ErrValidation indicates malformed input such as missing provenance
	// or an invalid filter.
	ErrValidation = errors.New("validation error")

	// ErrSafetyViolation indicates a destructive request that failed a
	// safety gate (missing confirmation, filter too broad).
	ErrSafetyViolation = errors.New("safety violation")

	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrPolicyLoad indicates a policy file could not be read or validated.
	// It is recovered locally by substituting the default policies.
	ErrPolicyLoad = errors.New("policy load error")
)

// Error codes surfaced to callers in the `code` field of an error body.
const (
	CodeMissingSourceRef     = "missing_source_ref"
	CodeIncompleteSourceRef  = "incomplete_source_ref"
	CodeMissingDocID         = "missing_doc_id"
	CodeReservedNamespace    = "reserved_namespace"
	CodeInvalidRetention     = "invalid_retention_config"
	CodeInvalidOutcome       = "invalid_outcome"
	CodeMissingReason        = "missing_reason"
	CodeInvalidValue         = "invalid_value"
	CodeConfirmationRequired = "confirmation_required"
	CodeFilterTooBroad       = "filter_too_broad"
	CodeNamespaceRequired    = "namespace_required"
	CodeDecisionNotFound     = "decision_not_found"
	CodeDocumentNotFound     = "document_not_found"
	CodePolicyInvalid        = "policy_invalid"
)

// Error is the typed error returned by core operations.
// It carries enough context for a transport layer to build a response
// without string matching.
type Error struct {
	// Kind is one of the Err* sentinels above.
	Kind error

	// Code is a stable machine-readable code (e.g. "missing_source_ref").
	Code string

	// Message is the human-readable description.
	Message string

	// Field names the offending request field, if any.
	Field string

	// Details carries optional structured hints.
	Details map[string]any
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s (%s: %s)", e.Kind, e.Message, e.Code, e.Field)
	}
	return fmt.Sprintf("%s: %s (%s)", e.Kind, e.Message, e.Code)
}

// Unwrap exposes the error kind to errors.Is.
func (e *Error) Unwrap() error {
	return e.Kind
}

// NewValidationError creates a ValidationError for the given field.
func NewValidationError(code, field, message string) *Error {
	return &Error{Kind: ErrValidation, Code: code, Field: field, Message: message}
}

// NewSafetyViolation creates a SafetyViolation error.
func NewSafetyViolation(code, message string, hint string) *Error {
	e := &Error{Kind: ErrSafetyViolation, Code: code, Message: message}
	if hint != "" {
		e.Details = map[string]any{"hint": hint}
	}
	return e
}

// NewNotFoundError creates a NotFound error for the given id.
func NewNotFoundError(code, id, message string) *Error {
	return &Error{
		Kind:    ErrNotFound,
		Code:    code,
		Message: message,
		Details: map[string]any{"id": id},
	}
}

// NewPolicyLoadError creates a PolicyLoadError for a policy file.
func NewPolicyLoadError(path string, cause error) *Error {
	return &Error{
		Kind:    ErrPolicyLoad,
		Code:    CodePolicyInvalid,
		Message: cause.Error(),
		Field:   path,
	}
}

// ErrMissingSourceRef is returned when an upsert carries no SourceRef.
func ErrMissingSourceRef() *Error {
	return &Error{
		Kind:    ErrValidation,
		Code:    CodeMissingSourceRef,
		Message: "source_ref is required for all index entries",
		Field:   "source_ref",
		Details: map[string]any{
			"hint": "Every document must have a SourceRef with origin, id, and trust_level for provenance tracking",
		},
	}
}

// AsError extracts a *Error from err, if present.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

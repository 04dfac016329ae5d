package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestErrors_Existence tests that all error kinds exist and are distinct
func TestErrors_Existence(t *testing.T) {
	kinds := []error{ErrValidation, ErrSafetyViolation, ErrNotFound, ErrPolicyLoad}
	for i, a := range kinds {
		assert.NotEmpty(t, a.Error())
		for j, b := range kinds {
			if i != j {
				assert.False(t, errors.Is(a, b))
			}
		}
	}
}

// TestError_Unwrap tests that typed errors match their kind
func TestError_Unwrap(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind error
	}{
		{"validation", NewValidationError(CodeMissingDocID, "doc_id", "doc_id is required"), ErrValidation},
		{"safety", NewSafetyViolation(CodeConfirmationRequired, "confirm", ""), ErrSafetyViolation},
		{"not found", NewNotFoundError(CodeDecisionNotFound, "abc", "no such decision"), ErrNotFound},
		{"policy", NewPolicyLoadError("trust.yaml", errors.New("bad")), ErrPolicyLoad},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.err, tt.kind)
		})
	}
}

// TestErrMissingSourceRef tests the missing provenance error
func TestErrMissingSourceRef(t *testing.T) {
	err := ErrMissingSourceRef()

	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, CodeMissingSourceRef, err.Code)
	assert.Equal(t, "source_ref", err.Field)
	assert.Contains(t, err.Details["hint"], "provenance")
}

// TestAsError tests extracting typed errors from wrapped errors
func TestAsError(t *testing.T) {
	wrapped := errors.Join(errors.New("context"), NewSafetyViolation(CodeFilterTooBroad, "too broad", "add a filter"))

	e, ok := AsError(wrapped)
	require.True(t, ok)
	assert.Equal(t, CodeFilterTooBroad, e.Code)
	assert.Equal(t, "add a filter", e.Details["hint"])

	_, ok = AsError(errors.New("plain"))
	assert.False(t, ok)
}

package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestForgetFilter_Matches tests that filter fields combine with AND
func TestForgetFilter_Matches(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	doc := &Document{
		ID:         "d1",
		Namespace:  "chronik",
		SourceRef:  SourceRef{Origin: "chronik", ID: "e1", TrustLevel: TrustHigh},
		IngestedAt: now.Add(-time.Hour),
	}
	cutoff := now

	tests := []struct {
		name   string
		filter ForgetFilter
		want   bool
	}{
		{"empty matches", ForgetFilter{}, true},
		{"namespace", ForgetFilter{Namespace: "chronik"}, true},
		{"other namespace", ForgetFilter{Namespace: "osctx"}, false},
		{"older than", ForgetFilter{OlderThan: &cutoff}, true},
		{"origin and doc", ForgetFilter{SourceRefOrigin: "chronik", DocID: "d1"}, true},
		{"origin mismatch", ForgetFilter{SourceRefOrigin: "user", DocID: "d1"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Matches(doc))
		})
	}

	newer := now.Add(-2 * time.Hour)
	assert.False(t, ForgetFilter{OlderThan: &newer}.Matches(doc))
}

// TestRetentionConfig_ValidateBasics tests retention bounds
func TestRetentionConfig_ValidateBasics(t *testing.T) {
	neg := int64(-1)
	assert.Error(t, RetentionConfig{HalfLifeSeconds: &neg}.Validate())
	assert.Error(t, RetentionConfig{MaxAgeSeconds: &neg}.Validate())

	items := -3
	assert.Error(t, RetentionConfig{MaxItems: &items}.Validate())
	assert.NoError(t, RetentionConfig{}.Validate())
	assert.Equal(t, PurgeOldest, RetentionConfig{}.EffectiveStrategy())
}

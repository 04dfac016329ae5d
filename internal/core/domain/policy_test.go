package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestTrustPolicy_Validate tests trust policy validation rules
func TestTrustPolicy_Validate(t *testing.T) {
	tests := []struct {
		name    string
		policy  TrustPolicy
		wantErr string
	}{
		{"defaults", DefaultTrustPolicy(), ""},
		{"zero min weight", TrustPolicy{TrustWeights: map[string]float64{"high": 1, "medium": 1, "low": 1}}, "min_weight"},
		{"missing low", TrustPolicy{TrustWeights: map[string]float64{"high": 1, "medium": 0.5}, MinWeight: 0.1}, "low"},
		{"negative weight", TrustPolicy{TrustWeights: map[string]float64{"high": 1, "medium": -1, "low": 0.2}, MinWeight: 0.1}, "must be > 0"},
		{"below floor", TrustPolicy{TrustWeights: map[string]float64{"high": 1, "medium": 0.5, "low": 0.05}, MinWeight: 0.1}, "less than min_weight"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.policy.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

// TestTrustPolicy_Weight tests floored trust weights
func TestTrustPolicy_Weight(t *testing.T) {
	p := DefaultTrustPolicy()
	assert.Equal(t, 1.0, p.Weight(TrustHigh))
	assert.Equal(t, 0.7, p.Weight(TrustMedium))
	assert.Equal(t, 0.3, p.Weight(TrustLow))
	assert.Equal(t, 0.7, p.Weight(TrustUnspecified))

	p.TrustWeights["low"] = 0.01
	assert.Equal(t, 0.1, p.Weight(TrustLow))
}

// TestContextPolicy_Validate tests context policy validation rules
func TestContextPolicy_Validate(t *testing.T) {
	assert.NoError(t, DefaultContextPolicy().Validate())

	missingDefault := ContextPolicy{
		Profiles: map[string]map[string]float64{"coding": {"_default": 1}},
		Recency:  RecencyPolicy{MinWeight: 0.1},
	}
	assert.ErrorContains(t, missingDefault.Validate(), `"default" profile`)

	missingFallback := ContextPolicy{
		Profiles: map[string]map[string]float64{"default": {"chronik": 1.2}},
		Recency:  RecencyPolicy{MinWeight: 0.1},
	}
	assert.ErrorContains(t, missingFallback.Validate(), "_default")

	badRecency := DefaultContextPolicy()
	badRecency.Recency.MinWeight = 0
	assert.ErrorContains(t, badRecency.Validate(), "recency.min_weight")

	hugeHalfLife := DefaultContextPolicy()
	hugeHalfLife.Recency.DefaultHalfLifeSeconds = MaxDurationSeconds + 1
	assert.ErrorContains(t, hugeHalfLife.Validate(), "default_half_life_seconds")
}

// TestContextWeight tests namespace, origin and fallback precedence
func TestContextWeight(t *testing.T) {
	profile := map[string]float64{"chronik": 1.5, "osctx": 0.8, "_default": 0.9}

	assert.Equal(t, 1.5, ContextWeight(profile, "chronik", "osctx"), "namespace wins")
	assert.Equal(t, 0.8, ContextWeight(profile, "default", "osctx"))
	assert.Equal(t, 0.9, ContextWeight(profile, "default", "user"))
	assert.Equal(t, 1.0, ContextWeight(map[string]float64{}, "default", "user"))
}

// TestPolicyHash tests that the hash is stable and content-sensitive
func TestPolicyHash(t *testing.T) {
	a := PolicyHash(DefaultTrustPolicy(), DefaultContextPolicy())
	b := PolicyHash(DefaultTrustPolicy(), DefaultContextPolicy())
	assert.Equal(t, a, b)
	assert.Len(t, a, 64)

	changed := DefaultTrustPolicy()
	changed.TrustWeights["low"] = 0.4
	assert.NotEqual(t, a, PolicyHash(changed, DefaultContextPolicy()))
}

package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"
)

// DefaultMinWeight is the floor applied to trust and recency weights.
const DefaultMinWeight = 0.1

// DefaultProfile is the context profile used when a query names none.
const DefaultProfile = "default"

// ContextFallbackKey is the per-profile fallback weight key.
const ContextFallbackKey = "_default"

// DefaultPolicyHash identifies the built-in policies.
const DefaultPolicyHash = "default"

// PolicySource reports how the active policies were obtained.
type PolicySource string

const (
	PolicyLoadedFromFiles  PolicySource = "loaded_from_files"
	PolicyPartialFallback  PolicySource = "partial_fallback"
	PolicyFallbackDefaults PolicySource = "fallback_defaults"
	PolicyDefaultsNoConfig PolicySource = "defaults_no_config"
)

// TrustPolicy maps trust levels to weight multipliers.
type TrustPolicy struct {
	// TrustWeights is keyed by "high", "medium" and "low".
	TrustWeights map[string]float64 `json:"trust_weights" yaml:"trust_weights" toml:"trust_weights"`

	// MinWeight floors every trust weight.
	MinWeight float64 `json:"min_weight" yaml:"min_weight" toml:"min_weight"`
}

// DefaultTrustPolicy returns the built-in trust weights.
func DefaultTrustPolicy() TrustPolicy {
	return TrustPolicy{
		TrustWeights: map[string]float64{
			"high":   1.0,
			"medium": 0.7,
			"low":    0.3,
		},
		MinWeight: DefaultMinWeight,
	}
}

// Validate checks the trust policy is usable as configured.
func (p TrustPolicy) Validate() error {
	if p.MinWeight <= 0 {
		return errors.New("min_weight must be > 0")
	}
	for _, level := range sortedKeys(p.TrustWeights) {
		if p.TrustWeights[level] <= 0 {
			return fmt.Errorf("trust weight for %q must be > 0", level)
		}
	}
	for _, required := range []string{"high", "medium", "low"} {
		if _, ok := p.TrustWeights[required]; !ok {
			return fmt.Errorf("missing required trust level: %s", required)
		}
	}
	for _, level := range sortedKeys(p.TrustWeights) {
		if w := p.TrustWeights[level]; w < p.MinWeight {
			return fmt.Errorf("trust weight for %q (%g) is less than min_weight (%g)", level, w, p.MinWeight)
		}
	}
	return nil
}

// Weight returns the floored weight for a trust level.
// Unspecified levels are weighted as medium.
func (p TrustPolicy) Weight(level TrustLevel) float64 {
	w, ok := p.TrustWeights[level.Effective().String()]
	if !ok {
		w = p.MinWeight
	}
	if w < p.MinWeight {
		return p.MinWeight
	}
	return w
}

// RecencyPolicy configures time decay.
type RecencyPolicy struct {
	// DefaultHalfLifeSeconds applies to namespaces without a configured
	// half-life. Zero disables decay for them.
	DefaultHalfLifeSeconds int64 `json:"default_half_life_seconds" yaml:"default_half_life_seconds" toml:"default_half_life_seconds"`

	// MinWeight floors the recency weight used for scoring.
	MinWeight float64 `json:"min_weight" yaml:"min_weight" toml:"min_weight"`
}

// DefaultHalfLife returns the fallback half-life.
func (p RecencyPolicy) DefaultHalfLife() time.Duration {
	return SecondsToDuration(p.DefaultHalfLifeSeconds)
}

// ContextPolicy holds named context weight profiles.
type ContextPolicy struct {
	// Profiles maps a profile name to namespace or origin keyed weights.
	Profiles map[string]map[string]float64 `json:"profiles" yaml:"profiles" toml:"profiles"`

	Recency RecencyPolicy `json:"recency" yaml:"recency" toml:"recency"`
}

// DefaultContextPolicy returns the built-in context policy.
func DefaultContextPolicy() ContextPolicy {
	return ContextPolicy{
		Profiles: map[string]map[string]float64{
			DefaultProfile: {ContextFallbackKey: 1.0},
		},
		Recency: RecencyPolicy{MinWeight: DefaultMinWeight},
	}
}

// Validate checks the context policy is usable as configured.
func (p ContextPolicy) Validate() error {
	if p.Recency.MinWeight <= 0 {
		return errors.New("recency.min_weight must be > 0")
	}
	if p.Recency.DefaultHalfLifeSeconds < 0 {
		return errors.New("recency.default_half_life_seconds must not be negative")
	}
	if p.Recency.DefaultHalfLifeSeconds > MaxDurationSeconds {
		return fmt.Errorf("recency.default_half_life_seconds must not exceed %d", MaxDurationSeconds)
	}
	for _, name := range sortedKeys(p.Profiles) {
		weights := p.Profiles[name]
		for _, key := range sortedKeys(weights) {
			if weights[key] <= 0 {
				return fmt.Errorf("context weight for %q must be > 0", name+"/"+key)
			}
		}
		if _, ok := weights[ContextFallbackKey]; !ok {
			return fmt.Errorf("profile %q is missing required %q key", name, ContextFallbackKey)
		}
	}
	if _, ok := p.Profiles[DefaultProfile]; !ok {
		return fmt.Errorf("missing required %q profile", DefaultProfile)
	}
	return nil
}

// ContextWeight resolves the weight of a document within a profile.
// The namespace key wins over the origin key, then the profile fallback.
func ContextWeight(profile map[string]float64, namespace, origin string) float64 {
	if w, ok := profile[namespace]; ok {
		return w
	}
	if w, ok := profile[origin]; ok {
		return w
	}
	if w, ok := profile[ContextFallbackKey]; ok {
		return w
	}
	return 1.0
}

// PolicyConfig is the active, validated policy set.
type PolicyConfig struct {
	Trust   TrustPolicy   `json:"trust"`
	Context ContextPolicy `json:"context"`

	// Hash identifies the policy content for drift detection.
	Hash string `json:"hash"`

	// Source reports where the policies came from.
	Source PolicySource `json:"source"`
}

// DefaultPolicyConfig returns the built-in policies.
func DefaultPolicyConfig() *PolicyConfig {
	return &PolicyConfig{
		Trust:   DefaultTrustPolicy(),
		Context: DefaultContextPolicy(),
		Hash:    DefaultPolicyHash,
		Source:  PolicyDefaultsNoConfig,
	}
}

// PolicyHash returns the hex SHA-256 of the canonical JSON of both policies.
// encoding/json sorts map keys, which makes the encoding stable.
func PolicyHash(trust TrustPolicy, ctxPolicy ContextPolicy) string {
	payload := struct {
		Trust   TrustPolicy   `json:"trust"`
		Context ContextPolicy `json:"context"`
	}{trust, ctxPolicy}
	data, err := json.Marshal(payload)
	if err != nil {
		return DefaultPolicyHash
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

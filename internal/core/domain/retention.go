package domain

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// MaxDurationSeconds is the largest second count representable as a
// time.Duration.
const MaxDurationSeconds = math.MaxInt64 / int64(time.Second)

// SecondsToDuration converts seconds to a duration, saturating at the
// largest representable duration instead of overflowing.
func SecondsToDuration(secs int64) time.Duration {
	switch {
	case secs > MaxDurationSeconds:
		return time.Duration(math.MaxInt64)
	case secs < -MaxDurationSeconds:
		return time.Duration(math.MinInt64)
	}
	return time.Duration(secs) * time.Second
}

// PurgeStrategy selects which documents are removed when a namespace
// exceeds its item cap.
type PurgeStrategy int

const (
	// PurgeUnset falls back to PurgeOldest.
	PurgeUnset PurgeStrategy = iota
	// PurgeOldest removes the earliest ingested documents first.
	PurgeOldest
	// PurgeLowestScore removes documents with the lowest decay×trust first.
	PurgeLowestScore
)

// String returns the wire form of the strategy.
func (p PurgeStrategy) String() string {
	switch p {
	case PurgeOldest:
		return "oldest"
	case PurgeLowestScore:
		return "lowest_score"
	default:
		return ""
	}
}

// ParsePurgeStrategy parses a wire string.
func ParsePurgeStrategy(s string) (PurgeStrategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return PurgeUnset, nil
	case "oldest":
		return PurgeOldest, nil
	case "lowest_score":
		return PurgeLowestScore, nil
	default:
		return PurgeUnset, fmt.Errorf("unknown purge strategy %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (p PurgeStrategy) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *PurgeStrategy) UnmarshalText(text []byte) error {
	s, err := ParsePurgeStrategy(string(text))
	if err != nil {
		return err
	}
	*p = s
	return nil
}

// RetentionConfig bounds how long and how many documents a namespace keeps.
// Nil fields are unset.
type RetentionConfig struct {
	// HalfLifeSeconds drives recency decay. Unset or zero means no decay.
	HalfLifeSeconds *int64 `json:"half_life_seconds,omitempty"`

	// MaxItems caps the namespace size.
	MaxItems *int `json:"max_items,omitempty"`

	// MaxAgeSeconds removes documents older than this.
	MaxAgeSeconds *int64 `json:"max_age_seconds,omitempty"`

	// PurgeStrategy applies when MaxItems is exceeded.
	PurgeStrategy PurgeStrategy `json:"purge_strategy,omitempty"`
}

// Validate rejects negative bounds and second counts that do not fit a
// time.Duration.
func (c RetentionConfig) Validate() error {
	if c.HalfLifeSeconds != nil && *c.HalfLifeSeconds < 0 {
		return NewValidationError(CodeInvalidRetention, "half_life_seconds", "half_life_seconds must not be negative")
	}
	if c.HalfLifeSeconds != nil && *c.HalfLifeSeconds > MaxDurationSeconds {
		return NewValidationError(CodeInvalidRetention, "half_life_seconds",
			fmt.Sprintf("half_life_seconds must not exceed %d", MaxDurationSeconds))
	}
	if c.MaxItems != nil && *c.MaxItems < 0 {
		return NewValidationError(CodeInvalidRetention, "max_items", "max_items must not be negative")
	}
	if c.MaxAgeSeconds != nil && *c.MaxAgeSeconds < 0 {
		return NewValidationError(CodeInvalidRetention, "max_age_seconds", "max_age_seconds must not be negative")
	}
	if c.MaxAgeSeconds != nil && *c.MaxAgeSeconds > MaxDurationSeconds {
		return NewValidationError(CodeInvalidRetention, "max_age_seconds",
			fmt.Sprintf("max_age_seconds must not exceed %d", MaxDurationSeconds))
	}
	return nil
}

// HalfLife returns the configured half-life, or zero when unset.
func (c RetentionConfig) HalfLife() time.Duration {
	if c.HalfLifeSeconds == nil {
		return 0
	}
	return SecondsToDuration(*c.HalfLifeSeconds)
}

// MaxAge returns the configured maximum age and whether it is set.
func (c RetentionConfig) MaxAge() (time.Duration, bool) {
	if c.MaxAgeSeconds == nil {
		return 0, false
	}
	return SecondsToDuration(*c.MaxAgeSeconds), true
}

// EffectiveStrategy resolves an unset strategy to PurgeOldest.
func (c RetentionConfig) EffectiveStrategy() PurgeStrategy {
	if c.PurgeStrategy == PurgeUnset {
		return PurgeOldest
	}
	return c.PurgeStrategy
}

// DecayPreview reports the current decay state of one document.
type DecayPreview struct {
	DocID          string  `json:"doc_id"`
	Namespace      string  `json:"namespace"`
	AgeSeconds     float64 `json:"age_seconds"`
	DecayFactor    float64 `json:"decay_factor"`
	ProjectedScore float64 `json:"projected_score"`
}

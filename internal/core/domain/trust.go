package domain

import (
	"fmt"
	"strings"
)

// TrustLevel is the provenance-derived confidence of a document source.
// Levels are ordered: Low < Medium < High.
type TrustLevel int

const (
	// TrustUnspecified means the source did not state a trust level.
	// It is scored and quarantined as Medium, never as High.
	TrustUnspecified TrustLevel = iota
	// TrustLow covers external sources, user input and tool output.
	TrustLow
	// TrustMedium covers OS context and application logs.
	TrustMedium
	// TrustHigh covers verified internal sources.
	TrustHigh
)

// String returns the wire form of the trust level.
func (t TrustLevel) String() string {
	switch t {
	case TrustLow:
		return "low"
	case TrustMedium:
		return "medium"
	case TrustHigh:
		return "high"
	default:
		return ""
	}
}

// Effective returns the level used for scoring and quarantine decisions.
func (t TrustLevel) Effective() TrustLevel {
	if t == TrustUnspecified {
		return TrustMedium
	}
	return t
}

// ParseTrustLevel parses a wire string. The empty string is TrustUnspecified.
func ParseTrustLevel(s string) (TrustLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return TrustUnspecified, nil
	case "low":
		return TrustLow, nil
	case "medium":
		return TrustMedium, nil
	case "high":
		return TrustHigh, nil
	default:
		return TrustUnspecified, fmt.Errorf("unknown trust level %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (t TrustLevel) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *TrustLevel) UnmarshalText(text []byte) error {
	level, err := ParseTrustLevel(string(text))
	if err != nil {
		return err
	}
	*t = level
	return nil
}

// SourceRef is the structured provenance of a document.
type SourceRef struct {
	// Origin is the producing system (e.g. "chronik", "osctx", "user", "tool").
	Origin string `json:"origin"`

	// ID is the identifier within the origin (event id, path, hash).
	ID string `json:"id"`

	// Offset is an optional location within the source (e.g. "line:42").
	Offset string `json:"offset,omitempty"`

	// TrustLevel states how much to trust this content.
	TrustLevel TrustLevel `json:"trust_level"`

	// InjectedBy names the agent or tool that injected the content, if any.
	InjectedBy string `json:"injected_by,omitempty"`
}

// Validate checks that the reference is complete.
func (s *SourceRef) Validate() error {
	if s == nil {
		return ErrMissingSourceRef()
	}
	if strings.TrimSpace(s.Origin) == "" {
		return NewValidationError(CodeIncompleteSourceRef, "source_ref.origin", "source_ref.origin must not be empty")
	}
	if strings.TrimSpace(s.ID) == "" {
		return NewValidationError(CodeIncompleteSourceRef, "source_ref.id", "source_ref.id must not be empty")
	}
	return nil
}

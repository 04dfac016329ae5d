package domain

import (
	"fmt"
	"sort"
)

// ContentFlag marks a potential security or quality issue found in text.
// Flags are derived by the contamination detector, never supplied by clients.
type ContentFlag int

const (
	// FlagPossiblePromptInjection is set when two or more distinct
	// manipulation families were matched.
	FlagPossiblePromptInjection ContentFlag = iota + 1
	// FlagImperativeLanguage marks override-style imperatives.
	FlagImperativeLanguage
	// FlagSystemClaim marks system or policy override claims.
	FlagSystemClaim
	// FlagMetaPromptMarker marks meta-AI self references.
	FlagMetaPromptMarker
)

// AllContentFlags lists every flag in canonical order.
var AllContentFlags = []ContentFlag{
	FlagPossiblePromptInjection,
	FlagImperativeLanguage,
	FlagSystemClaim,
	FlagMetaPromptMarker,
}

// String returns the wire form of the flag.
func (f ContentFlag) String() string {
	switch f {
	case FlagPossiblePromptInjection:
		return "possible_prompt_injection"
	case FlagImperativeLanguage:
		return "imperative_language"
	case FlagSystemClaim:
		return "system_claim"
	case FlagMetaPromptMarker:
		return "meta_prompt_marker"
	default:
		return fmt.Sprintf("content_flag(%d)", int(f))
	}
}

// ParseContentFlag parses a wire string.
func ParseContentFlag(s string) (ContentFlag, error) {
	for _, f := range AllContentFlags {
		if f.String() == s {
			return f, nil
		}
	}
	return 0, fmt.Errorf("unknown content flag %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (f ContentFlag) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *ContentFlag) UnmarshalText(text []byte) error {
	flag, err := ParseContentFlag(string(text))
	if err != nil {
		return err
	}
	*f = flag
	return nil
}

// FlagSet is a set of content flags.
type FlagSet map[ContentFlag]struct{}

// Add inserts a flag.
func (s FlagSet) Add(f ContentFlag) {
	s[f] = struct{}{}
}

// Has reports whether the flag is present.
func (s FlagSet) Has(f ContentFlag) bool {
	_, ok := s[f]
	return ok
}

// Merge adds every flag of other.
func (s FlagSet) Merge(other FlagSet) {
	for f := range other {
		s[f] = struct{}{}
	}
}

// Sorted returns the flags in canonical order.
func (s FlagSet) Sorted() []ContentFlag {
	out := make([]ContentFlag, 0, len(s))
	for f := range s {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

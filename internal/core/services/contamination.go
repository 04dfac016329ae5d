package services

import (
	"strings"

	"github.com/custodia-labs/indexd/internal/core/domain"
)

// phraseFamily groups phrases that indicate one kind of manipulation.
type phraseFamily struct {
	flag    domain.ContentFlag
	phrases []string
}

// injectionPhrases is matched case-insensitively as substrings.
var injectionPhrases = []phraseFamily{
	{
		flag: domain.FlagImperativeLanguage,
		phrases: []string{
			"du sollst",
			"du musst",
			"you must",
			"you should",
			"ignore previous",
			"disregard",
			"forget everything",
		},
	},
	{
		flag: domain.FlagSystemClaim,
		phrases: []string{
			"this system must",
			"system prompt",
			"policy override",
			"override policy",
			"system instruction",
			"admin mode",
			"bypass",
			"previous instructions",
		},
	},
	{
		flag: domain.FlagMetaPromptMarker,
		phrases: []string{
			"as an ai",
			"as a language model",
			"i am an ai",
			"i'm an ai",
			"assistant mode",
			"system role",
		},
	},
}

// ScanContent returns the content flags raised by text.
// Each matched family contributes its flag; two or more distinct flags
// additionally raise possible_prompt_injection.
func ScanContent(text string) domain.FlagSet {
	flags := domain.FlagSet{}
	lower := strings.ToLower(text)
	for _, family := range injectionPhrases {
		for _, phrase := range family.phrases {
			if strings.Contains(lower, phrase) {
				flags.Add(family.flag)
				break
			}
		}
	}
	if len(flags) >= 2 {
		flags.Add(domain.FlagPossiblePromptInjection)
	}
	return flags
}

// ScanChunks returns the sorted union of flags over all chunks.
func ScanChunks(chunks []domain.Chunk) []domain.ContentFlag {
	all := domain.FlagSet{}
	for _, c := range chunks {
		all.Merge(ScanContent(c.Text))
	}
	return all.Sorted()
}

// ShouldQuarantine decides whether flagged content is isolated.
// High trust is never quarantined, medium only on possible_prompt_injection,
// low on possible_prompt_injection or any two flags.
func ShouldQuarantine(flags []domain.ContentFlag, trust domain.TrustLevel) bool {
	injection := false
	for _, f := range flags {
		if f == domain.FlagPossiblePromptInjection {
			injection = true
		}
	}
	switch trust.Effective() {
	case domain.TrustHigh:
		return false
	case domain.TrustMedium:
		return injection
	default:
		return injection || len(flags) >= 2
	}
}

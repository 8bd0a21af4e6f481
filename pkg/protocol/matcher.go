package protocol

import (
	"strings"
	"unicode"
)

// Pattern matchers are pure and stateless: they carry no shared mutable
// state and are safe to invoke from any number of concurrent verifications.

// MatchMedications matches a list of medication names against a needle set
// using case-insensitive token containment, so "Tylenol PM 500mg" matches
// the needle "tylenol". It returns the canonical (needle) spelling of each
// match, deduplicated, in needle order.
func MatchMedications(names []string, needles []string) []string {
	var matched []string
	seen := make(map[string]bool)

	for _, needle := range needles {
		canonical := strings.ToLower(strings.TrimSpace(needle))
		if canonical == "" || seen[canonical] {
			continue
		}
		for _, name := range names {
			if containsToken(name, canonical) {
				matched = append(matched, canonical)
				seen[canonical] = true
				break
			}
		}
	}
	return matched
}

// MatchAllergies matches the patient's recorded allergy list against a
// needle set using case-insensitive containment. It returns the canonical
// spelling of each matched needle, deduplicated, in needle order.
func MatchAllergies(allergies []string, needles []string) []string {
	var matched []string
	seen := make(map[string]bool)

	for _, needle := range needles {
		canonical := strings.ToLower(strings.TrimSpace(needle))
		if canonical == "" || seen[canonical] {
			continue
		}
		for _, allergy := range allergies {
			recorded := strings.ToLower(strings.TrimSpace(allergy))
			if recorded == "" {
				continue
			}
			if strings.Contains(recorded, canonical) || strings.Contains(canonical, recorded) {
				matched = append(matched, canonical)
				seen[canonical] = true
				break
			}
		}
	}
	return matched
}

// containsToken reports whether needle appears as a whole token (or token
// run) within text, case-insensitively. Tokens are runs of letters and
// digits; "warfarin sodium" contains the token "warfarin" but "cowarfarin"
// does not.
func containsToken(text, needle string) bool {
	textTokens := tokenize(text)
	needleTokens := tokenize(needle)
	if len(needleTokens) == 0 {
		return false
	}

	for i := 0; i+len(needleTokens) <= len(textTokens); i++ {
		match := true
		for j, nt := range needleTokens {
			if textTokens[i+j] != nt {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

// tokenize splits text into lowercase runs of letters and digits.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

package engine

import (
	"fmt"
	"strings"
	"unicode"

	"meridian-hq/meridian/pkg/clinical"
	"meridian-hq/meridian/pkg/compliance"
)

// checkTriggerAdherence scans free text and diagnoses for clinical-
// deterioration trigger phrases and verifies that each fired trigger's
// co-requisite documentation is present somewhere in the same extraction.
// A fired trigger without its co-requisite is CRITICAL.
//
// Trigger phrases use substring matching to keep recall high ("post-sepsis"
// still fires the sepsis trigger). Co-requisites use whole-token matching:
// accepting "doctor" as evidence of a "ct" scan would suppress an alert
// that should fire.
func checkTriggerAdherence(cfg *Config, extraction *clinical.StructuredExtraction) []compliance.Alert {
	haystack := triggerHaystack(extraction)
	corequisiteTokens := tokenSet(haystack + " " + medicationText(extraction))

	var alerts []compliance.Alert
	for _, rule := range cfg.Triggers {
		if !containsAnyPhrase(haystack, rule.Phrases) {
			continue
		}
		if containsAnyToken(corequisiteTokens, rule.Corequisites) {
			continue
		}

		alerts = append(alerts, compliance.Alert{
			SourceID: fmt.Sprintf("%s:%s", compliance.SourceTriggerMissing, rule.ID),
			Severity: compliance.SeverityCritical,
			Message:  rule.Message,
			Field:    clinical.FieldSummaryText,
		})
	}
	return alerts
}

// triggerHaystack concatenates all narrative text and diagnosis mentions,
// lowercased, for trigger scanning.
func triggerHaystack(extraction *clinical.StructuredExtraction) string {
	var sb strings.Builder
	for _, field := range extraction.TextFields() {
		sb.WriteString(strings.ToLower(field.Text))
		sb.WriteString(" ")
	}
	for _, d := range extraction.Diagnoses {
		sb.WriteString(strings.ToLower(d.Text))
		sb.WriteString(" ")
	}
	return sb.String()
}

// medicationText concatenates extracted medication names so a documented
// medication can satisfy a co-requisite keyword.
func medicationText(extraction *clinical.StructuredExtraction) string {
	var sb strings.Builder
	for _, m := range extraction.Medications {
		sb.WriteString(strings.ToLower(m.Name))
		sb.WriteString(" ")
	}
	return sb.String()
}

// containsAnyPhrase reports whether any phrase appears as a substring of
// the lowercased haystack.
func containsAnyPhrase(haystack string, phrases []string) bool {
	for _, phrase := range phrases {
		if phrase == "" {
			continue
		}
		if strings.Contains(haystack, strings.ToLower(phrase)) {
			return true
		}
	}
	return false
}

// containsAnyToken reports whether any keyword appears as a whole token.
// Keywords may themselves be prefixes of longer clinical terms
// ("antibiotic" matches "antibiotics"), so a token matches when it begins
// with the keyword.
func containsAnyToken(tokens map[string]bool, keywords []string) bool {
	for _, keyword := range keywords {
		needle := strings.ToLower(strings.TrimSpace(keyword))
		if needle == "" {
			continue
		}
		if tokens[needle] {
			return true
		}
		for token := range tokens {
			if strings.HasPrefix(token, needle) && len(needle) >= 4 {
				return true
			}
		}
	}
	return false
}

// tokenSet splits text into a set of lowercase letter/digit runs.
func tokenSet(text string) map[string]bool {
	tokens := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	set := make(map[string]bool, len(tokens))
	for _, t := range tokens {
		set[t] = true
	}
	return set
}

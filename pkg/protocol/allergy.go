package protocol

import (
	"strings"

	"meridian-hq/meridian/pkg/clinical"
	"meridian-hq/meridian/pkg/compliance"
)

// AllergyChecker evaluates allergy-conflict rules: for every (recorded
// patient allergy, extracted medication) pair, a rule keyed by that allergy
// that lists the medication as a conflict raises an alert.
type AllergyChecker struct {
	rules []Rule
}

// NewAllergyChecker creates an allergy checker from the given (already
// validated) rules.
func NewAllergyChecker(rules []Rule) *AllergyChecker {
	return &AllergyChecker{rules: rules}
}

// Name returns the checker's configured name.
func (c *AllergyChecker) Name() string { return CheckerAllergyConflicts }

// Check evaluates every rule and returns the alerts in rule order.
func (c *AllergyChecker) Check(patient *clinical.PatientContext, extraction *clinical.StructuredExtraction) []compliance.Alert {
	meds := extractedMedicationNames(extraction)

	var alerts []compliance.Alert
	for _, rule := range c.rules {
		allergies := MatchAllergies(patient.Allergies, rule.Pattern.Allergies)
		if len(allergies) == 0 {
			continue
		}
		conflicts := MatchMedications(meds, rule.Pattern.Conflicts)
		if len(conflicts) == 0 {
			continue
		}

		alerts = append(alerts, compliance.Alert{
			SourceID: rule.ID,
			Severity: rule.Severity,
			Message: renderMessage(rule.Message, map[string]string{
				"allergy":    strings.Join(allergies, ", "),
				"medication": strings.Join(conflicts, ", "),
			}),
			Field: clinical.FieldMedications,
		})
	}
	return alerts
}

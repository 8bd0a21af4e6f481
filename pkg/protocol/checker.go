package protocol

import (
	"strings"

	"meridian-hq/meridian/pkg/clinical"
	"meridian-hq/meridian/pkg/compliance"
)

// Checker is the uniform contract for protocol checkers. Implementations
// must be pure with respect to their inputs: no shared mutable state, safe
// for concurrent use.
type Checker interface {
	// Name returns the checker's configured name.
	Name() string

	// Check evaluates the checker's rules against the patient context
	// and extraction, returning zero or more alerts in rule order.
	Check(patient *clinical.PatientContext, extraction *clinical.StructuredExtraction) []compliance.Alert
}

// renderMessage substitutes pattern placeholders in a rule's message
// template. Unused placeholders are left untouched.
func renderMessage(template string, subs map[string]string) string {
	if len(subs) == 0 {
		return template
	}
	pairs := make([]string, 0, len(subs)*2)
	for key, value := range subs {
		pairs = append(pairs, "{"+key+"}", value)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

// allMedicationNames combines the patient's active medication list with the
// extraction's asserted medications. Interaction rules consider both: a new
// prescription can conflict with an existing one and vice versa.
func allMedicationNames(patient *clinical.PatientContext, extraction *clinical.StructuredExtraction) []string {
	names := make([]string, 0, len(patient.ActiveMedications)+len(extraction.Medications))
	for _, m := range patient.ActiveMedications {
		names = append(names, m.Name)
	}
	for _, m := range extraction.Medications {
		names = append(names, m.Name)
	}
	return names
}

// extractedMedicationNames returns just the extraction's medication names.
func extractedMedicationNames(extraction *clinical.StructuredExtraction) []string {
	names := make([]string, 0, len(extraction.Medications))
	for _, m := range extraction.Medications {
		names = append(names, m.Name)
	}
	return names
}

package protocol

import (
	"strings"

	"meridian-hq/meridian/pkg/clinical"
	"meridian-hq/meridian/pkg/compliance"
)

// DrugInteractionChecker evaluates interaction and duplicate-therapy rules
// against the union of the patient's active medications and the
// extraction's asserted medications.
type DrugInteractionChecker struct {
	rules []Rule
}

// NewDrugInteractionChecker creates a drug interaction checker from the
// given (already validated) rules.
func NewDrugInteractionChecker(rules []Rule) *DrugInteractionChecker {
	return &DrugInteractionChecker{rules: rules}
}

// Name returns the checker's configured name.
func (c *DrugInteractionChecker) Name() string { return CheckerDrugInteractions }

// Check evaluates every rule against every medication pair and returns the
// alerts in rule order.
func (c *DrugInteractionChecker) Check(patient *clinical.PatientContext, extraction *clinical.StructuredExtraction) []compliance.Alert {
	meds := allMedicationNames(patient, extraction)

	var alerts []compliance.Alert
	for _, rule := range c.rules {
		if rule.Pattern.Class != "" {
			if alert, ok := c.checkDuplicateTherapy(rule, patient, extraction); ok {
				alerts = append(alerts, alert)
			}
			continue
		}
		if alert, ok := c.checkInteraction(rule, meds); ok {
			alerts = append(alerts, alert)
		}
	}
	return alerts
}

// checkInteraction fires when a trigger medication and a conflicting
// medication are both present.
func (c *DrugInteractionChecker) checkInteraction(rule Rule, meds []string) (compliance.Alert, bool) {
	triggers := MatchMedications(meds, rule.Pattern.Trigger)
	if len(triggers) == 0 {
		return compliance.Alert{}, false
	}
	conflicts := MatchMedications(meds, rule.Pattern.Conflicts)
	if len(conflicts) == 0 {
		return compliance.Alert{}, false
	}

	return compliance.Alert{
		SourceID: rule.ID,
		Severity: rule.Severity,
		Message: renderMessage(rule.Message, map[string]string{
			"trigger":  strings.Join(triggers, ", "),
			"conflict": strings.Join(conflicts, ", "),
		}),
		Field: clinical.FieldMedications,
	}, true
}

// checkDuplicateTherapy fires when more than one member of the same
// medication class is prescribed, or when a class member already on the
// patient's active list is asserted again by the extraction.
func (c *DrugInteractionChecker) checkDuplicateTherapy(rule Rule, patient *clinical.PatientContext, extraction *clinical.StructuredExtraction) (compliance.Alert, bool) {
	var patientNames []string
	for _, m := range patient.ActiveMedications {
		patientNames = append(patientNames, m.Name)
	}

	active := MatchMedications(patientNames, rule.Pattern.Members)
	asserted := MatchMedications(extractedMedicationNames(extraction), rule.Pattern.Members)

	distinct := make(map[string]bool)
	duplicated := false
	for _, name := range active {
		distinct[name] = true
	}
	for _, name := range asserted {
		if distinct[name] {
			duplicated = true
		}
		distinct[name] = true
	}

	if len(distinct) < 2 && !duplicated {
		return compliance.Alert{}, false
	}

	names := make([]string, 0, len(distinct))
	for _, needle := range rule.Pattern.Members {
		canonical := strings.ToLower(strings.TrimSpace(needle))
		if distinct[canonical] {
			names = append(names, canonical)
		}
	}

	return compliance.Alert{
		SourceID: rule.ID,
		Severity: rule.Severity,
		Message: renderMessage(rule.Message, map[string]string{
			"class":      rule.Pattern.Class,
			"medication": strings.Join(names, ", "),
		}),
		Field: clinical.FieldMedications,
	}, true
}

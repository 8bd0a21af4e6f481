package protocol

import (
	"testing"

	"meridian-hq/meridian/pkg/clinical"
	"meridian-hq/meridian/pkg/compliance"
)

func allergyRules() []Rule {
	return []Rule{{
		ID:       "penicillin-class",
		Severity: compliance.SeverityCritical,
		Pattern: Pattern{
			Allergies: []string{"penicillin"},
			Conflicts: []string{"amoxicillin", "ampicillin", "piperacillin"},
		},
		Message: "Patient has a recorded {allergy} allergy; extraction prescribes {medication}.",
	}}
}

func TestAllergyChecker_Conflict(t *testing.T) {
	checker := NewAllergyChecker(allergyRules())

	patient := &clinical.PatientContext{Allergies: []string{"Penicillin"}}
	extraction := &clinical.StructuredExtraction{
		Medications: []clinical.ExtractedMedication{{Name: "Amoxicillin 500mg", Status: clinical.MedicationStarted}},
	}

	alerts := checker.Check(patient, extraction)
	if len(alerts) != 1 {
		t.Fatalf("expected 1 alert, got %d", len(alerts))
	}
	alert := alerts[0]
	if alert.SourceID != "penicillin-class" {
		t.Errorf("source = %q", alert.SourceID)
	}
	if alert.Severity != compliance.SeverityCritical {
		t.Errorf("severity = %s, want CRITICAL", alert.Severity)
	}
	want := "Patient has a recorded penicillin allergy; extraction prescribes amoxicillin."
	if alert.Message != want {
		t.Errorf("message = %q, want %q", alert.Message, want)
	}
	if alert.Field != clinical.FieldMedications {
		t.Errorf("field = %q, want %q", alert.Field, clinical.FieldMedications)
	}
}

func TestAllergyChecker_IgnoresActiveList(t *testing.T) {
	checker := NewAllergyChecker(allergyRules())

	// The conflicting medication is only on the active list, not asserted by
	// the extraction. Verifying the document raises nothing: the extraction
	// made no new claim.
	patient := &clinical.PatientContext{
		Allergies:         []string{"penicillin"},
		ActiveMedications: []clinical.Medication{{Name: "Amoxicillin"}},
	}
	extraction := &clinical.StructuredExtraction{}

	if alerts := checker.Check(patient, extraction); len(alerts) != 0 {
		t.Fatalf("expected no alerts, got %+v", alerts)
	}
}

func TestAllergyChecker_NoAllergy(t *testing.T) {
	checker := NewAllergyChecker(allergyRules())

	patient := &clinical.PatientContext{Allergies: []string{"latex"}}
	extraction := &clinical.StructuredExtraction{
		Medications: []clinical.ExtractedMedication{{Name: "Amoxicillin"}},
	}

	if alerts := checker.Check(patient, extraction); len(alerts) != 0 {
		t.Fatalf("expected no alerts, got %+v", alerts)
	}
}

func TestAllergyChecker_MultipleConflicts(t *testing.T) {
	checker := NewAllergyChecker(allergyRules())

	patient := &clinical.PatientContext{Allergies: []string{"penicillin"}}
	extraction := &clinical.StructuredExtraction{
		Medications: []clinical.ExtractedMedication{
			{Name: "Amoxicillin"},
			{Name: "Piperacillin-Tazobactam"},
		},
	}

	alerts := checker.Check(patient, extraction)
	if len(alerts) != 1 {
		t.Fatalf("expected 1 alert per rule, got %d", len(alerts))
	}
	want := "Patient has a recorded penicillin allergy; extraction prescribes amoxicillin, piperacillin."
	if alerts[0].Message != want {
		t.Errorf("message = %q, want %q", alerts[0].Message, want)
	}
}

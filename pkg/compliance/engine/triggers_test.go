package engine

import (
	"testing"

	"meridian-hq/meridian/pkg/clinical"
	"meridian-hq/meridian/pkg/compliance"
)

func TestCheckTriggerAdherence_SepsisWithoutAntibiotics(t *testing.T) {
	cfg := DefaultConfig()
	extraction := &clinical.StructuredExtraction{
		SummaryText: "Patient developed sepsis overnight and was transferred to ICU.",
	}

	alerts := checkTriggerAdherence(cfg, extraction)
	if len(alerts) != 1 {
		t.Fatalf("expected 1 alert, got %d: %+v", len(alerts), alerts)
	}
	if alerts[0].SourceID != compliance.SourceTriggerMissing+":sepsis-antibiotics" {
		t.Errorf("source = %q", alerts[0].SourceID)
	}
	if alerts[0].Severity != compliance.SeverityCritical {
		t.Errorf("severity = %s, want CRITICAL", alerts[0].Severity)
	}
	if alerts[0].Field != clinical.FieldSummaryText {
		t.Errorf("field = %q, want %q", alerts[0].Field, clinical.FieldSummaryText)
	}
}

func TestCheckTriggerAdherence_SepsisWithAntibiotics(t *testing.T) {
	cfg := DefaultConfig()
	extraction := &clinical.StructuredExtraction{
		SummaryText: "Patient developed sepsis overnight. Broad-spectrum antibiotics started.",
	}

	if alerts := checkTriggerAdherence(cfg, extraction); len(alerts) != 0 {
		t.Fatalf("co-requisite present, expected no alerts, got %+v", alerts)
	}
}

func TestCheckTriggerAdherence_CorequisiteInMedications(t *testing.T) {
	cfg := &Config{
		DateTolerance: DefaultConfig().DateTolerance,
		Triggers: []TriggerRule{
			{
				ID:           "sepsis-antibiotics",
				Phrases:      []string{"sepsis"},
				Corequisites: []string{"piperacillin"},
				Message:      "Sepsis documentation requires explicit antibiotic documentation.",
			},
		},
	}
	extraction := &clinical.StructuredExtraction{
		SummaryText: "Managed for sepsis.",
		Medications: []clinical.ExtractedMedication{
			{Name: "Piperacillin-Tazobactam", Status: clinical.MedicationStarted},
		},
	}

	if alerts := checkTriggerAdherence(cfg, extraction); len(alerts) != 0 {
		t.Fatalf("medication name should satisfy co-requisite, got %+v", alerts)
	}
}

func TestCheckTriggerAdherence_PhraseInDiagnosis(t *testing.T) {
	cfg := DefaultConfig()
	extraction := &clinical.StructuredExtraction{
		SummaryText: "Transferred from ED for further management.",
		Diagnoses: []clinical.ExtractedDiagnosis{
			{Text: "Septic shock", Confidence: 0.9},
		},
	}

	alerts := checkTriggerAdherence(cfg, extraction)
	if len(alerts) != 1 {
		t.Fatalf("diagnosis mention should fire the trigger, got %+v", alerts)
	}
}

func TestCheckTriggerAdherence_ShortCorequisiteNeedsWholeToken(t *testing.T) {
	cfg := DefaultConfig()
	// "doctor" contains "ct" as a substring but not as a token. The stroke
	// trigger must still fire.
	extraction := &clinical.StructuredExtraction{
		SummaryText: "Acute stroke suspected, doctor notified.",
	}

	alerts := checkTriggerAdherence(cfg, extraction)
	if len(alerts) != 1 {
		t.Fatalf("expected stroke alert, got %+v", alerts)
	}
	if alerts[0].SourceID != compliance.SourceTriggerMissing+":stroke-imaging" {
		t.Errorf("source = %q", alerts[0].SourceID)
	}
}

func TestCheckTriggerAdherence_TokenPrefixMatch(t *testing.T) {
	cfg := DefaultConfig()
	// "antibiotics" satisfies the "antibiotic" keyword by prefix.
	extraction := &clinical.StructuredExtraction{
		SummaryText: "Septicemia treated with IV antibiotics.",
	}

	if alerts := checkTriggerAdherence(cfg, extraction); len(alerts) != 0 {
		t.Fatalf("plural form should satisfy co-requisite, got %+v", alerts)
	}
}

func TestCheckTriggerAdherence_NoTrigger(t *testing.T) {
	cfg := DefaultConfig()
	extraction := &clinical.StructuredExtraction{
		SummaryText: "Routine post-operative recovery, no complications.",
	}

	if alerts := checkTriggerAdherence(cfg, extraction); len(alerts) != 0 {
		t.Fatalf("no trigger phrases present, got %+v", alerts)
	}
}

func TestCheckTriggerAdherence_MultipleTriggers(t *testing.T) {
	cfg := DefaultConfig()
	extraction := &clinical.StructuredExtraction{
		SummaryText: "Cardiac arrest on the ward. Later found to have had a stroke.",
	}

	alerts := checkTriggerAdherence(cfg, extraction)
	if len(alerts) != 2 {
		t.Fatalf("expected 2 alerts, got %d: %+v", len(alerts), alerts)
	}
	// Table order is deterministic.
	if alerts[0].SourceID != compliance.SourceTriggerMissing+":stroke-imaging" {
		t.Errorf("first alert = %q", alerts[0].SourceID)
	}
	if alerts[1].SourceID != compliance.SourceTriggerMissing+":arrest-resuscitation" {
		t.Errorf("second alert = %q", alerts[1].SourceID)
	}
}

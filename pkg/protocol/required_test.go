package protocol

import (
	"testing"

	"meridian-hq/meridian/pkg/clinical"
	"meridian-hq/meridian/pkg/compliance"
)

func requiredRules() []Rule {
	return []Rule{{
		ID:       "discharge-follow-up",
		Severity: compliance.SeverityMedium,
		Pattern: Pattern{
			DocumentType: "discharge_summary",
			Required:     []string{clinical.FieldFollowUpPlan, clinical.FieldMedications},
		},
		Message: "Missing {field} in {document_type}.",
	}}
}

func TestRequiredFieldsChecker_MissingFields(t *testing.T) {
	checker := NewRequiredFieldsChecker(requiredRules())

	extraction := &clinical.StructuredExtraction{
		DocumentType: "discharge_summary",
		SummaryText:  "Discharged home in stable condition.",
	}

	alerts := checker.Check(&clinical.PatientContext{}, extraction)
	if len(alerts) != 2 {
		t.Fatalf("expected one alert per missing field, got %d", len(alerts))
	}
	if alerts[0].Field != clinical.FieldFollowUpPlan || alerts[1].Field != clinical.FieldMedications {
		t.Errorf("fields = %q, %q", alerts[0].Field, alerts[1].Field)
	}
	want := "Missing follow_up_plan in discharge_summary."
	if alerts[0].Message != want {
		t.Errorf("message = %q, want %q", alerts[0].Message, want)
	}
	if alerts[0].Severity != compliance.SeverityMedium {
		t.Errorf("severity = %s, want MEDIUM", alerts[0].Severity)
	}
}

func TestRequiredFieldsChecker_AllPresent(t *testing.T) {
	checker := NewRequiredFieldsChecker(requiredRules())

	extraction := &clinical.StructuredExtraction{
		DocumentType: "discharge_summary",
		FollowUpPlan: "GP review in 7 days.",
		Medications:  []clinical.ExtractedMedication{{Name: "Metoprolol"}},
	}

	if alerts := checker.Check(&clinical.PatientContext{}, extraction); len(alerts) != 0 {
		t.Fatalf("expected no alerts, got %+v", alerts)
	}
}

func TestRequiredFieldsChecker_DocumentTypeMismatch(t *testing.T) {
	checker := NewRequiredFieldsChecker(requiredRules())

	extraction := &clinical.StructuredExtraction{DocumentType: "progress_note"}

	if alerts := checker.Check(&clinical.PatientContext{}, extraction); len(alerts) != 0 {
		t.Fatalf("rule should not apply to other document types, got %+v", alerts)
	}
}

func TestRequiredFieldsChecker_DocumentTypeCaseInsensitive(t *testing.T) {
	checker := NewRequiredFieldsChecker(requiredRules())

	extraction := &clinical.StructuredExtraction{DocumentType: "Discharge_Summary"}

	alerts := checker.Check(&clinical.PatientContext{}, extraction)
	if len(alerts) != 2 {
		t.Fatalf("document type match must be case-insensitive, got %d alerts", len(alerts))
	}
}

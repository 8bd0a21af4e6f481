package engine

import (
	"strings"
	"testing"
	"time"

	"meridian-hq/meridian/pkg/clinical"
	"meridian-hq/meridian/pkg/compliance"
)

func datePatient() *clinical.PatientContext {
	admitted := time.Date(2026, 8, 10, 9, 0, 0, 0, time.UTC)
	discharged := time.Date(2026, 8, 14, 16, 0, 0, 0, time.UTC)
	return &clinical.PatientContext{
		PatientID: "mrn-1",
		Encounters: []clinical.Encounter{
			{VisitID: "v-1", AdmissionDate: admitted, DischargeDate: &discharged},
		},
	}
}

func TestCheckDateIntegrity_InsideWindow(t *testing.T) {
	cfg := DefaultConfig()
	resolved := time.Date(2026, 8, 12, 10, 0, 0, 0, time.UTC)
	extraction := &clinical.StructuredExtraction{
		TemporalExpressions: []clinical.TemporalExpression{
			{Text: "on the 12th", Type: clinical.TemporalAbsolute, Resolved: &resolved},
		},
	}

	alerts := checkDateIntegrity(cfg, datePatient(), extraction)
	if len(alerts) != 0 {
		t.Fatalf("expected no alerts, got %d: %+v", len(alerts), alerts)
	}
}

func TestCheckDateIntegrity_OutsideWindow(t *testing.T) {
	cfg := DefaultConfig()
	resolved := time.Date(2026, 8, 24, 10, 0, 0, 0, time.UTC)
	extraction := &clinical.StructuredExtraction{
		TemporalExpressions: []clinical.TemporalExpression{
			{Text: "ten days later", Type: clinical.TemporalRelative, Resolved: &resolved},
		},
	}

	alerts := checkDateIntegrity(cfg, datePatient(), extraction)
	if len(alerts) != 1 {
		t.Fatalf("expected 1 alert, got %d", len(alerts))
	}
	alert := alerts[0]
	if alert.SourceID != compliance.SourceDateMismatch {
		t.Errorf("source = %q, want %q", alert.SourceID, compliance.SourceDateMismatch)
	}
	if alert.Severity != compliance.SeverityCritical {
		t.Errorf("severity = %s, want CRITICAL", alert.Severity)
	}
	if !strings.Contains(alert.Message, "2026-08-24") {
		t.Errorf("message %q does not name the offending date", alert.Message)
	}
	if alert.Field != clinical.FieldTemporalExpressions {
		t.Errorf("field = %q, want %q", alert.Field, clinical.FieldTemporalExpressions)
	}
}

func TestCheckDateIntegrity_WithinTolerance(t *testing.T) {
	cfg := DefaultConfig()
	// 12 hours after discharge, inside the default 24h tolerance.
	resolved := time.Date(2026, 8, 15, 4, 0, 0, 0, time.UTC)
	extraction := &clinical.StructuredExtraction{
		TemporalExpressions: []clinical.TemporalExpression{
			{Text: "early this morning", Type: clinical.TemporalRelative, Resolved: &resolved},
		},
	}

	if alerts := checkDateIntegrity(cfg, datePatient(), extraction); len(alerts) != 0 {
		t.Fatalf("date within tolerance should not alert, got %+v", alerts)
	}
}

func TestCheckDateIntegrity_Unresolved(t *testing.T) {
	cfg := DefaultConfig()
	extraction := &clinical.StructuredExtraction{
		TemporalExpressions: []clinical.TemporalExpression{
			{Text: "a while back", Type: clinical.TemporalRelative, Resolved: nil},
		},
	}

	alerts := checkDateIntegrity(cfg, datePatient(), extraction)
	if len(alerts) != 1 {
		t.Fatalf("expected 1 alert, got %d", len(alerts))
	}
	if alerts[0].SourceID != compliance.SourceDateUnresolved {
		t.Errorf("source = %q, want %q", alerts[0].SourceID, compliance.SourceDateUnresolved)
	}
	if alerts[0].Severity != compliance.SeverityHigh {
		t.Errorf("severity = %s, want HIGH", alerts[0].Severity)
	}
	if !strings.Contains(alerts[0].Message, `"a while back"`) {
		t.Errorf("message %q does not quote the expression", alerts[0].Message)
	}
}

func TestCheckDateIntegrity_AmbiguousIsUnresolved(t *testing.T) {
	cfg := DefaultConfig()
	resolved := time.Date(2026, 8, 12, 0, 0, 0, 0, time.UTC)
	extraction := &clinical.StructuredExtraction{
		TemporalExpressions: []clinical.TemporalExpression{
			// Resolved but flagged ambiguous: still unverifiable.
			{Text: "last Tuesday", Type: clinical.TemporalAmbiguous, Resolved: &resolved},
		},
	}

	alerts := checkDateIntegrity(cfg, datePatient(), extraction)
	if len(alerts) != 1 || alerts[0].SourceID != compliance.SourceDateUnresolved {
		t.Fatalf("ambiguous expression should be treated as unresolved, got %+v", alerts)
	}
}

func TestCheckDateIntegrity_DurationSkipped(t *testing.T) {
	cfg := DefaultConfig()
	extraction := &clinical.StructuredExtraction{
		TemporalExpressions: []clinical.TemporalExpression{
			{Text: "for five days", Type: clinical.TemporalDuration},
		},
	}

	if alerts := checkDateIntegrity(cfg, datePatient(), extraction); len(alerts) != 0 {
		t.Fatalf("durations carry no date assertion, got %+v", alerts)
	}
}

func TestCheckDateIntegrity_OpenEncounter(t *testing.T) {
	cfg := DefaultConfig()
	patient := &clinical.PatientContext{
		PatientID: "mrn-2",
		Encounters: []clinical.Encounter{
			{VisitID: "v-9", AdmissionDate: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)},
		},
	}
	resolved := time.Date(2026, 9, 20, 0, 0, 0, 0, time.UTC)
	extraction := &clinical.StructuredExtraction{
		TemporalExpressions: []clinical.TemporalExpression{
			{Text: "next month", Type: clinical.TemporalRelative, Resolved: &resolved},
		},
	}

	if alerts := checkDateIntegrity(cfg, patient, extraction); len(alerts) != 0 {
		t.Fatalf("open encounter has no upper bound, got %+v", alerts)
	}
}

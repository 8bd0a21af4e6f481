package clinical

import (
	"strings"
	"time"
)

// Encounter is a single admission/discharge window for a patient.
type Encounter struct {
	// VisitID is the EMR identifier for this encounter.
	VisitID string `json:"visit_id"`

	// AdmissionDate is when the patient was admitted.
	AdmissionDate time.Time `json:"admission_date"`

	// DischargeDate is when the patient was discharged.
	// Nil means the patient is still admitted.
	DischargeDate *time.Time `json:"discharge_date,omitempty"`
}

// Medication is an entry on the patient's active medication list.
type Medication struct {
	Name      string `json:"name"`
	Dosage    string `json:"dosage,omitempty"`
	Frequency string `json:"frequency,omitempty"`
	Route     string `json:"route,omitempty"`
}

// PatientContext is the read-only factual snapshot of a patient, fetched
// once per verification from the EMR/FHIR collaborator and already
// validated upstream.
type PatientContext struct {
	// PatientID is the unique clinical identifier.
	PatientID string `json:"patient_id"`

	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	DateOfBirth time.Time `json:"date_of_birth"`

	// Encounters contains the known admission/discharge windows.
	Encounters []Encounter `json:"encounters"`

	// ActiveMedications is the current medication list.
	ActiveMedications []Medication `json:"active_medications"`

	// Allergies is the recorded allergy list.
	Allergies []string `json:"allergies"`
}

// TemporalType classifies a temporal expression found in dictation.
type TemporalType string

const (
	TemporalAbsolute  TemporalType = "absolute"
	TemporalRelative  TemporalType = "relative"
	TemporalDuration  TemporalType = "duration"
	TemporalAmbiguous TemporalType = "ambiguous"
)

// MedicationStatus describes what the dictation asserts about a medication.
type MedicationStatus string

const (
	MedicationActive       MedicationStatus = "active"
	MedicationStarted      MedicationStatus = "started"
	MedicationDiscontinued MedicationStatus = "discontinued"
	MedicationIncreased    MedicationStatus = "increased"
	MedicationDecreased    MedicationStatus = "decreased"
	MedicationUnknown      MedicationStatus = "unknown"
)

// TemporalExpression is a date or time assertion extracted from free text.
// Resolution from relative phrases ("two days ago") to absolute dates is the
// extraction collaborator's job; the engine only validates the result.
type TemporalExpression struct {
	// Text is the raw phrase as dictated.
	Text string `json:"text"`

	// Type classifies the expression.
	Type TemporalType `json:"type"`

	// Resolved is the absolute date the phrase resolved to, if any.
	Resolved *time.Time `json:"resolved,omitempty"`

	// Confidence is the extractor's confidence in [0, 1].
	Confidence float64 `json:"confidence"`
}

// ExtractedMedication is a medication mention asserted by the extractor.
type ExtractedMedication struct {
	Name       string           `json:"name"`
	Dosage     string           `json:"dosage,omitempty"`
	Frequency  string           `json:"frequency,omitempty"`
	Route      string           `json:"route,omitempty"`
	Status     MedicationStatus `json:"status"`
	Confidence float64          `json:"confidence"`
}

// ExtractedDiagnosis is a diagnosis mention asserted by the extractor.
type ExtractedDiagnosis struct {
	Text       string  `json:"text"`
	ICD10Code  string  `json:"icd10_code,omitempty"`
	Confidence float64 `json:"confidence"`
}

// TextField is a named free-text field of an extraction. Safety checks that
// scan narrative content iterate these rather than individual struct fields
// so that new narrative fields are picked up in one place.
type TextField struct {
	Name string
	Text string
}

// Well-known extraction field names, used by field-presence rules.
const (
	FieldPatientName         = "patient_name"
	FieldSummaryText         = "summary_text"
	FieldFollowUpPlan        = "follow_up_plan"
	FieldMedications         = "medications"
	FieldDiagnoses           = "diagnoses"
	FieldTemporalExpressions = "temporal_expressions"
	FieldVitalSigns          = "vital_signs"
)

// StructuredExtraction is the AI-asserted view of a clinical dictation.
// It is untrusted input: fields may be low-confidence, incomplete, or
// hallucinated, and the verification engine assumes nothing about them.
type StructuredExtraction struct {
	// DocumentType identifies the kind of document being filed
	// (e.g. "discharge_summary", "progress_note").
	DocumentType string `json:"document_type"`

	// PatientName is the patient name as dictated, if any.
	PatientName string `json:"patient_name,omitempty"`

	// SummaryText is the narrative summary.
	SummaryText string `json:"summary_text,omitempty"`

	// FollowUpPlan is the follow-up narrative, if dictated.
	FollowUpPlan string `json:"follow_up_plan,omitempty"`

	// TemporalExpressions are the date/time assertions found in the text.
	TemporalExpressions []TemporalExpression `json:"temporal_expressions,omitempty"`

	// Medications are the medication mentions found in the text.
	Medications []ExtractedMedication `json:"medications,omitempty"`

	// Diagnoses are the diagnosis mentions found in the text.
	Diagnoses []ExtractedDiagnosis `json:"diagnoses,omitempty"`

	// VitalSigns holds raw vital-sign readings keyed by measurement name.
	VitalSigns []map[string]string `json:"vital_signs,omitempty"`

	// Confidence is the extractor's overall confidence in [0, 1].
	Confidence float64 `json:"confidence"`
}

// TextFields returns the non-empty narrative fields of the extraction in a
// fixed order, so that checks scanning free text produce deterministic
// output.
func (e *StructuredExtraction) TextFields() []TextField {
	var fields []TextField
	if e.SummaryText != "" {
		fields = append(fields, TextField{Name: FieldSummaryText, Text: e.SummaryText})
	}
	if e.FollowUpPlan != "" {
		fields = append(fields, TextField{Name: FieldFollowUpPlan, Text: e.FollowUpPlan})
	}
	return fields
}

// FieldPresent reports whether the named structured field is non-empty.
// Unknown field names report false; rule validation rejects them before a
// verification run ever asks.
func (e *StructuredExtraction) FieldPresent(name string) bool {
	switch strings.ToLower(name) {
	case FieldPatientName:
		return e.PatientName != ""
	case FieldSummaryText:
		return e.SummaryText != ""
	case FieldFollowUpPlan:
		return e.FollowUpPlan != ""
	case FieldMedications:
		return len(e.Medications) > 0
	case FieldDiagnoses:
		return len(e.Diagnoses) > 0
	case FieldTemporalExpressions:
		return len(e.TemporalExpressions) > 0
	case FieldVitalSigns:
		return len(e.VitalSigns) > 0
	default:
		return false
	}
}

// KnownField reports whether name is a field that FieldPresent understands.
func KnownField(name string) bool {
	switch strings.ToLower(name) {
	case FieldPatientName, FieldSummaryText, FieldFollowUpPlan,
		FieldMedications, FieldDiagnoses, FieldTemporalExpressions, FieldVitalSigns:
		return true
	default:
		return false
	}
}

// HasLowConfidence reports whether any individual extraction, or the
// extraction as a whole, falls below the given confidence threshold.
func (e *StructuredExtraction) HasLowConfidence(threshold float64) bool {
	for _, m := range e.Medications {
		if m.Confidence < threshold {
			return true
		}
	}
	for _, t := range e.TemporalExpressions {
		if t.Confidence < threshold {
			return true
		}
	}
	for _, d := range e.Diagnoses {
		if d.Confidence < threshold {
			return true
		}
	}
	return e.Confidence < threshold
}

// InWindow reports whether ts falls within the encounter's admission and
// discharge window, widened by tolerance on both sides. An open encounter
// (no discharge date) has no upper bound.
func (enc *Encounter) InWindow(ts time.Time, tolerance time.Duration) bool {
	lower := enc.AdmissionDate.Add(-tolerance)
	if ts.Before(lower) {
		return false
	}
	if enc.DischargeDate == nil {
		return true
	}
	upper := enc.DischargeDate.Add(tolerance)
	return !ts.After(upper)
}

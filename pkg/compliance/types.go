package compliance

import "time"

// Severity is the severity of a compliance alert.
type Severity string

const (
	SeverityCritical Severity = "CRITICAL"
	SeverityHigh     Severity = "HIGH"
	SeverityMedium   Severity = "MEDIUM"
	SeverityLow      Severity = "LOW"
)

// severityRank orders severities from least to most severe.
var severityRank = map[Severity]int{
	SeverityLow:      1,
	SeverityMedium:   2,
	SeverityHigh:     3,
	SeverityCritical: 4,
}

// Valid reports whether s is a recognized severity.
func (s Severity) Valid() bool {
	_, ok := severityRank[s]
	return ok
}

// AtLeast reports whether s is at least as severe as other.
func (s Severity) AtLeast(other Severity) bool {
	return severityRank[s] >= severityRank[other]
}

// Well-known alert source identifiers emitted by the built-in invariant
// checks and by the registry's failure isolation.
const (
	SourceDateMismatch   = "INVARIANT_DATE_MISMATCH"
	SourceDateUnresolved = "INVARIANT_DATE_UNRESOLVED"
	SourceTriggerMissing = "PROTOCOL_ADHERENCE_MISSING"
	SourcePIILeak        = "SAFETY_PII_LEAK"
	SourceEngineError    = "ENGINE_ERROR"
)

// Alert is a single typed finding from a check. Alerts are immutable once
// created and are collected in deterministic order.
type Alert struct {
	// SourceID identifies the invariant or protocol rule that produced
	// the alert (e.g. "INVARIANT_DATE_MISMATCH", "warfarin-nsaid").
	SourceID string `json:"source_id"`

	// Severity is the alert severity.
	Severity Severity `json:"severity"`

	// Message is the human-readable finding, with any pattern
	// placeholders already substituted.
	Message string `json:"message"`

	// Field names the extraction field the finding refers to, when one
	// can be identified.
	Field string `json:"field,omitempty"`
}

// Status is the three-way outcome of a verification run.
type Status string

const (
	// StatusVerified means no alerts were raised; the document is safe
	// to file.
	StatusVerified Status = "verified"

	// StatusWarning means alerts were raised but none at HIGH or
	// CRITICAL severity; the document needs review but is not blocked.
	StatusWarning Status = "warning"

	// StatusRejected means at least one HIGH or CRITICAL alert was
	// raised; the document must not be filed.
	StatusRejected Status = "rejected"
)

// VerificationResult is the sole return type of the engine. Exactly one of
// the three statuses applies:
//
//   - StatusRejected iff at least one alert has severity >= HIGH
//   - StatusWarning iff alerts exist and all are MEDIUM/LOW
//   - StatusVerified iff there are no alerts
type VerificationResult struct {
	Status Status `json:"status"`

	// Alerts are the findings in deterministic order: core invariant
	// alerts first, then protocol alerts in registry order. Empty iff
	// Status is StatusVerified.
	Alerts []Alert `json:"alerts,omitempty"`

	// VerifiedAt is when the verification completed.
	VerifiedAt time.Time `json:"verified_at"`
}

// Classify builds a VerificationResult from the aggregate alert list,
// applying the status invariant above. The alert slice is used as-is; the
// caller owns its ordering.
func Classify(alerts []Alert, at time.Time) *VerificationResult {
	result := &VerificationResult{
		Status:     StatusVerified,
		Alerts:     alerts,
		VerifiedAt: at,
	}

	for _, a := range alerts {
		if a.Severity.AtLeast(SeverityHigh) {
			result.Status = StatusRejected
			return result
		}
	}
	if len(alerts) > 0 {
		result.Status = StatusWarning
	}
	return result
}

// BySeverity groups alerts by severity for display, preserving relative
// order within each group.
func BySeverity(alerts []Alert) map[Severity][]Alert {
	grouped := make(map[Severity][]Alert)
	for _, a := range alerts {
		grouped[a.Severity] = append(grouped[a.Severity], a)
	}
	return grouped
}

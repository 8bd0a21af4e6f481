package engine

import (
	"fmt"

	"meridian-hq/meridian/pkg/clinical"
	"meridian-hq/meridian/pkg/compliance"
)

// checkDateIntegrity verifies every temporal assertion against the
// patient's known encounter windows. Resolution from relative phrases to
// absolute dates is the extraction collaborator's job; the engine only
// judges the result.
//
//   - A resolved date outside every window (widened by the configured
//     tolerance) is a hallucinated or misattributed date: CRITICAL.
//   - An unresolved or ambiguous expression cannot be verified at all:
//     HIGH, so the document is still rejected rather than filed blind.
func checkDateIntegrity(cfg *Config, patient *clinical.PatientContext, extraction *clinical.StructuredExtraction) []compliance.Alert {
	var alerts []compliance.Alert

	for _, expr := range extraction.TemporalExpressions {
		// Durations carry no point-in-time assertion to verify.
		if expr.Type == clinical.TemporalDuration {
			continue
		}

		if expr.Resolved == nil || expr.Type == clinical.TemporalAmbiguous {
			alerts = append(alerts, compliance.Alert{
				SourceID: compliance.SourceDateUnresolved,
				Severity: compliance.SeverityHigh,
				Message:  fmt.Sprintf("Temporal expression %q could not be resolved to a verifiable date.", expr.Text),
				Field:    clinical.FieldTemporalExpressions,
			})
			continue
		}

		inWindow := false
		for i := range patient.Encounters {
			if patient.Encounters[i].InWindow(*expr.Resolved, cfg.DateTolerance) {
				inWindow = true
				break
			}
		}

		if !inWindow {
			alerts = append(alerts, compliance.Alert{
				SourceID: compliance.SourceDateMismatch,
				Severity: compliance.SeverityCritical,
				Message: fmt.Sprintf("Extracted date %s (%q) is outside every known encounter window.",
					expr.Resolved.Format("2006-01-02"), expr.Text),
				Field: clinical.FieldTemporalExpressions,
			})
		}
	}

	return alerts
}

package engine

import (
	"fmt"

	"meridian-hq/meridian/pkg/clinical"
	"meridian-hq/meridian/pkg/compliance"
)

// checkPII applies the configured identifier patterns, in order, to every
// free-text field of the extraction. National health identifiers have no
// business appearing in administrative summaries; any match is CRITICAL
// regardless of surrounding text.
func checkPII(cfg *Config, extraction *clinical.StructuredExtraction) []compliance.Alert {
	var alerts []compliance.Alert

	for _, field := range extraction.TextFields() {
		for _, pattern := range cfg.PIIPatterns {
			if !pattern.Pattern.MatchString(field.Text) {
				continue
			}
			alerts = append(alerts, compliance.Alert{
				SourceID: fmt.Sprintf("%s:%s", compliance.SourcePIILeak, pattern.ID),
				Severity: compliance.SeverityCritical,
				Message:  fmt.Sprintf("Potential PII (%s) detected in %s.", pattern.Description, field.Name),
				Field:    field.Name,
			})
		}
	}

	return alerts
}

package protocol

import (
	"strings"

	"meridian-hq/meridian/pkg/clinical"
	"meridian-hq/meridian/pkg/compliance"
)

// RequiredFieldsChecker verifies that documentation fields required for the
// extraction's document type are present. Rules are keyed by document-type
// string rather than medication pattern, and one alert is raised per
// missing field.
type RequiredFieldsChecker struct {
	rules []Rule
}

// NewRequiredFieldsChecker creates a required-fields checker from the given
// (already validated) rules.
func NewRequiredFieldsChecker(rules []Rule) *RequiredFieldsChecker {
	return &RequiredFieldsChecker{rules: rules}
}

// Name returns the checker's configured name.
func (c *RequiredFieldsChecker) Name() string { return CheckerRequiredFields }

// Check evaluates rules whose document type matches the extraction and
// returns one alert per missing required field, in rule then field order.
func (c *RequiredFieldsChecker) Check(patient *clinical.PatientContext, extraction *clinical.StructuredExtraction) []compliance.Alert {
	var alerts []compliance.Alert
	for _, rule := range c.rules {
		if !strings.EqualFold(rule.Pattern.DocumentType, extraction.DocumentType) {
			continue
		}

		for _, field := range rule.Pattern.Required {
			if extraction.FieldPresent(field) {
				continue
			}
			alerts = append(alerts, compliance.Alert{
				SourceID: rule.ID,
				Severity: rule.Severity,
				Message: renderMessage(rule.Message, map[string]string{
					"field":         field,
					"document_type": extraction.DocumentType,
				}),
				Field: field,
			})
		}
	}
	return alerts
}

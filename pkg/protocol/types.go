package protocol

import (
	"meridian-hq/meridian/pkg/compliance"
)

// Checker names recognized in rule configuration. Unknown names are
// rejected at load time, not silently ignored.
const (
	CheckerDrugInteractions = "drug_interactions"
	CheckerAllergyConflicts = "allergy_checks"
	CheckerRequiredFields   = "required_fields"
)

// KnownCheckers lists the recognized checker names in registration order.
var KnownCheckers = []string{
	CheckerDrugInteractions,
	CheckerAllergyConflicts,
	CheckerRequiredFields,
}

// RuleConfig is the root of a validated rule document. A single instance
// may be shared read-only across concurrent verification runs.
type RuleConfig struct {
	// Version is the rule document version string.
	Version string `yaml:"version" json:"version"`

	// Checkers configures each checker in evaluation order.
	Checkers []CheckerConfig `yaml:"checkers" json:"checkers"`
}

// CheckerConfig enables one checker and carries its rules.
type CheckerConfig struct {
	// Name is one of the recognized checker names.
	Name string `yaml:"name" json:"name"`

	// Enabled controls whether the checker runs. Disabled checkers keep
	// their rules (they are still validated) but emit nothing.
	Enabled bool `yaml:"enabled" json:"enabled"`

	// Rules are evaluated in order.
	Rules []Rule `yaml:"rules" json:"rules"`
}

// Rule is a single protocol rule. The pattern's meaning depends on the
// checker it belongs to.
type Rule struct {
	// ID uniquely identifies the rule within the document and becomes
	// the SourceID of any alert it raises.
	ID string `yaml:"id" json:"id"`

	// Severity of alerts raised by this rule. Optional: defaults to
	// CRITICAL for allergy rules and HIGH for required-field rules.
	Severity compliance.Severity `yaml:"severity" json:"severity"`

	// Pattern is the checker-specific match pattern.
	Pattern Pattern `yaml:"pattern" json:"pattern"`

	// Message is the alert message template. Placeholders {trigger},
	// {conflict}, {allergy}, {medication}, {field} and {document_type}
	// are substituted with matched values.
	Message string `yaml:"message" json:"message"`
}

// Pattern is the union of per-checker match patterns. Validation enforces
// that exactly the fields meaningful for the owning checker are set.
type Pattern struct {
	// Drug interaction rules: alert when a trigger medication and a
	// conflicting medication are both present across the patient's
	// active list and the extraction.
	Trigger   []string `yaml:"trigger,omitempty" json:"trigger,omitempty"`
	Conflicts []string `yaml:"conflicts,omitempty" json:"conflicts,omitempty"`

	// Duplicate-therapy rules: alert when more than one member of the
	// same medication class is prescribed.
	Class   string   `yaml:"class,omitempty" json:"class,omitempty"`
	Members []string `yaml:"members,omitempty" json:"members,omitempty"`

	// Allergy rules: alert when the patient has one of these recorded
	// allergies and the extraction prescribes a conflicting medication
	// (the Conflicts list above).
	Allergies []string `yaml:"allergies,omitempty" json:"allergies,omitempty"`

	// Required-field rules: fields that must be present when the
	// extraction's document type matches.
	DocumentType string   `yaml:"document_type,omitempty" json:"document_type,omitempty"`
	Required     []string `yaml:"required,omitempty" json:"required,omitempty"`
}

// Checker returns the CheckerConfig with the given name, if present.
func (c *RuleConfig) Checker(name string) (*CheckerConfig, bool) {
	for i := range c.Checkers {
		if c.Checkers[i].Name == name {
			return &c.Checkers[i], true
		}
	}
	return nil, false
}

// ActiveRuleCount returns the total number of rules in enabled checkers.
func (c *RuleConfig) ActiveRuleCount() int {
	var n int
	for _, cc := range c.Checkers {
		if cc.Enabled {
			n += len(cc.Rules)
		}
	}
	return n
}

// EnabledCheckers returns the names of enabled checkers in document order.
func (c *RuleConfig) EnabledCheckers() []string {
	var names []string
	for _, cc := range c.Checkers {
		if cc.Enabled {
			names = append(names, cc.Name)
		}
	}
	return names
}

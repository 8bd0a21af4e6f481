package protocol

import (
	"fmt"
	"strings"

	"meridian-hq/meridian/pkg/clinical"
	"meridian-hq/meridian/pkg/compliance"
)

// severityAliases maps legacy severity spellings to the canonical set.
// Earlier rule documents used WARNING and INFO for the two lower levels.
var severityAliases = map[string]compliance.Severity{
	"CRITICAL": compliance.SeverityCritical,
	"HIGH":     compliance.SeverityHigh,
	"MEDIUM":   compliance.SeverityMedium,
	"LOW":      compliance.SeverityLow,
	"WARNING":  compliance.SeverityMedium,
	"INFO":     compliance.SeverityLow,
}

// Validate validates a parsed rule document in place. Severity aliases are
// normalized and per-checker default severities applied, so a config that
// validates is fully canonical. All violations are collected into a single
// *ConfigError.
func Validate(cfg *RuleConfig) error {
	var errs []FieldError

	if cfg.Version == "" {
		errs = append(errs, FieldError{
			Field:   "version",
			Message: "version is required",
		})
	}

	seenCheckers := make(map[string]bool)
	seenRuleIDs := make(map[string]string)

	for i := range cfg.Checkers {
		checker := &cfg.Checkers[i]
		prefix := fmt.Sprintf("checkers[%d]", i)

		if !knownChecker(checker.Name) {
			errs = append(errs, FieldError{
				Field:   prefix + ".name",
				Message: fmt.Sprintf("unknown checker %q (known: %s)", checker.Name, strings.Join(KnownCheckers, ", ")),
			})
			continue
		}
		if seenCheckers[checker.Name] {
			errs = append(errs, FieldError{
				Field:   prefix + ".name",
				Message: fmt.Sprintf("checker %q configured more than once", checker.Name),
			})
		}
		seenCheckers[checker.Name] = true

		for j := range checker.Rules {
			rule := &checker.Rules[j]
			rulePrefix := fmt.Sprintf("%s.rules[%d]", prefix, j)

			if rule.ID == "" {
				errs = append(errs, FieldError{
					Field:   rulePrefix + ".id",
					Message: "rule id is required",
				})
			} else if prev, dup := seenRuleIDs[rule.ID]; dup {
				errs = append(errs, FieldError{
					Field:   rulePrefix + ".id",
					Message: fmt.Sprintf("duplicate rule id %q (already used by %s)", rule.ID, prev),
				})
			} else {
				seenRuleIDs[rule.ID] = rulePrefix
			}

			if rule.Message == "" {
				errs = append(errs, FieldError{
					Field:   rulePrefix + ".message",
					Message: "message is required",
				})
			}

			errs = append(errs, validateSeverity(rule, checker.Name, rulePrefix)...)
			errs = append(errs, validatePattern(rule, checker.Name, rulePrefix)...)
		}
	}

	if len(errs) > 0 {
		return &ConfigError{Errors: errs}
	}
	return nil
}

// validateSeverity normalizes the rule severity and applies the checker's
// default when none is given.
func validateSeverity(rule *Rule, checkerName, prefix string) []FieldError {
	raw := strings.ToUpper(strings.TrimSpace(string(rule.Severity)))

	if raw == "" {
		rule.Severity = defaultSeverity(checkerName)
		return nil
	}

	canonical, ok := severityAliases[raw]
	if !ok {
		return []FieldError{{
			Field:   prefix + ".severity",
			Message: fmt.Sprintf("unknown severity %q", rule.Severity),
		}}
	}
	rule.Severity = canonical
	return nil
}

// defaultSeverity returns the severity a rule gets when the document omits
// one: allergy conflicts are critical by default, missing documentation is
// high, drug interactions must state their own.
func defaultSeverity(checkerName string) compliance.Severity {
	switch checkerName {
	case CheckerAllergyConflicts:
		return compliance.SeverityCritical
	case CheckerRequiredFields:
		return compliance.SeverityHigh
	default:
		return compliance.SeverityHigh
	}
}

// validatePattern checks that the rule pattern carries exactly the fields
// its checker needs.
func validatePattern(rule *Rule, checkerName, prefix string) []FieldError {
	var errs []FieldError
	p := &rule.Pattern

	switch checkerName {
	case CheckerDrugInteractions:
		interaction := len(p.Trigger) > 0 || len(p.Conflicts) > 0
		duplicate := p.Class != "" || len(p.Members) > 0

		switch {
		case interaction && duplicate:
			errs = append(errs, FieldError{
				Field:   prefix + ".pattern",
				Message: "rule cannot be both an interaction (trigger/conflicts) and a duplicate-therapy (class/members) rule",
			})
		case interaction:
			if len(p.Trigger) == 0 {
				errs = append(errs, FieldError{Field: prefix + ".pattern.trigger", Message: "trigger medications are required"})
			}
			if len(p.Conflicts) == 0 {
				errs = append(errs, FieldError{Field: prefix + ".pattern.conflicts", Message: "conflict medications are required"})
			}
		case duplicate:
			if p.Class == "" {
				errs = append(errs, FieldError{Field: prefix + ".pattern.class", Message: "medication class name is required"})
			}
			if len(p.Members) < 2 {
				errs = append(errs, FieldError{Field: prefix + ".pattern.members", Message: "duplicate-therapy rules need at least two class members"})
			}
		default:
			errs = append(errs, FieldError{
				Field:   prefix + ".pattern",
				Message: "drug interaction rules need trigger+conflicts or class+members",
			})
		}
		if len(p.Allergies) > 0 || p.DocumentType != "" || len(p.Required) > 0 {
			errs = append(errs, FieldError{
				Field:   prefix + ".pattern",
				Message: "allergies/document_type/required are not valid for drug interaction rules",
			})
		}

	case CheckerAllergyConflicts:
		if len(p.Allergies) == 0 {
			errs = append(errs, FieldError{Field: prefix + ".pattern.allergies", Message: "patient allergies are required"})
		}
		if len(p.Conflicts) == 0 {
			errs = append(errs, FieldError{Field: prefix + ".pattern.conflicts", Message: "conflicting medications are required"})
		}
		if len(p.Trigger) > 0 || p.Class != "" || len(p.Members) > 0 || p.DocumentType != "" || len(p.Required) > 0 {
			errs = append(errs, FieldError{
				Field:   prefix + ".pattern",
				Message: "only allergies and conflicts are valid for allergy rules",
			})
		}

	case CheckerRequiredFields:
		if p.DocumentType == "" {
			errs = append(errs, FieldError{Field: prefix + ".pattern.document_type", Message: "document_type is required"})
		}
		if len(p.Required) == 0 {
			errs = append(errs, FieldError{Field: prefix + ".pattern.required", Message: "at least one required field is needed"})
		}
		for k, name := range p.Required {
			if !clinical.KnownField(name) {
				errs = append(errs, FieldError{
					Field:   fmt.Sprintf("%s.pattern.required[%d]", prefix, k),
					Message: fmt.Sprintf("unknown extraction field %q", name),
				})
			}
		}
		if len(p.Trigger) > 0 || len(p.Conflicts) > 0 || len(p.Allergies) > 0 || p.Class != "" || len(p.Members) > 0 {
			errs = append(errs, FieldError{
				Field:   prefix + ".pattern",
				Message: "only document_type and required are valid for required-field rules",
			})
		}
	}

	return errs
}

func knownChecker(name string) bool {
	for _, known := range KnownCheckers {
		if name == known {
			return true
		}
	}
	return false
}

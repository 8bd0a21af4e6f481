package engine

import (
	"fmt"
	"regexp"
	"time"
)

// ErrInvalidConfig indicates invalid engine configuration.
var ErrInvalidConfig = fmt.Errorf("invalid engine configuration")

// TriggerRule pairs clinical-deterioration trigger phrases with the
// documentation that must accompany them. The scan is intentionally
// high-recall: a missed trigger is worse than a false positive.
type TriggerRule struct {
	// ID becomes part of the alert source when the rule fires.
	ID string

	// Phrases fire the trigger when any appears, case-insensitively, in
	// any free-text field or diagnosis.
	Phrases []string

	// Corequisites satisfy the rule when any appears, case-insensitively,
	// in any free-text field or medication name.
	Corequisites []string

	// Message is the alert message when the co-requisite is missing.
	Message string
}

// PIIPattern is one identifier format scanned for in free text.
type PIIPattern struct {
	// ID identifies the pattern in alert messages.
	ID string

	// Description names the identifier format for display.
	Description string

	// Pattern is the compiled identifier regexp.
	Pattern *regexp.Regexp
}

// NewPIIPattern compiles an identifier pattern.
func NewPIIPattern(id, description, expr string) (PIIPattern, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return PIIPattern{}, fmt.Errorf("pii pattern %q: %w", id, err)
	}
	return PIIPattern{ID: id, Description: description, Pattern: re}, nil
}

// Config contains the engine's core invariant settings. The zero value is
// not usable; construct via DefaultConfig and adjust with the With*
// methods. A Config is immutable by convention after the engine is built.
type Config struct {
	// DateTolerance widens every encounter window on both sides to
	// absorb dictation imprecision at encounter boundaries ("admitted
	// yesterday evening" dictated after midnight).
	// Default: 24h.
	DateTolerance time.Duration

	// Triggers is the protocol-trigger adherence table.
	// Default: DefaultTriggerRules().
	Triggers []TriggerRule

	// PIIPatterns is the ordered list of identifier formats scanned for
	// in free text.
	// Default: DefaultPIIPatterns().
	PIIPatterns []PIIPattern

	// CheckerFailureHook is called with the checker name whenever a
	// protocol checker fails internally and is converted into a
	// fail-closed alert. Optional; used to feed telemetry.
	CheckerFailureHook func(checker string)
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() *Config {
	return &Config{
		DateTolerance: 24 * time.Hour,
		Triggers:      DefaultTriggerRules(),
		PIIPatterns:   DefaultPIIPatterns(),
	}
}

// DefaultTriggerRules returns the built-in clinical-deterioration trigger
// table.
func DefaultTriggerRules() []TriggerRule {
	return []TriggerRule{
		{
			ID:           "sepsis-antibiotics",
			Phrases:      []string{"sepsis", "septic shock", "septicemia"},
			Corequisites: []string{"antibiotic", "antimicrobial"},
			Message:      "Sepsis documentation requires explicit antibiotic documentation.",
		},
		{
			ID:           "stroke-imaging",
			Phrases:      []string{"stroke", "cva", "cerebrovascular accident"},
			Corequisites: []string{"ct", "imaging", "mri"},
			Message:      "Stroke documentation requires imaging documentation.",
		},
		{
			ID:           "arrest-resuscitation",
			Phrases:      []string{"cardiac arrest", "code blue"},
			Corequisites: []string{"resuscitation", "cpr", "acls", "rosc"},
			Message:      "Cardiac arrest documentation requires resuscitation documentation.",
		},
		{
			ID:           "rapid-response-vitals",
			Phrases:      []string{"rapid response", "clinical deterioration", "deteriorating"},
			Corequisites: []string{"vital", "observations", "escalation"},
			Message:      "Clinical deterioration documentation requires vital-sign or escalation documentation.",
		},
	}
}

// DefaultPIIPatterns returns the built-in national health-identifier
// formats, in scan order.
func DefaultPIIPatterns() []PIIPattern {
	return []PIIPattern{
		{
			ID:          "medicare-number",
			Description: "Medicare number (4-5-1 digits)",
			Pattern:     regexp.MustCompile(`\b\d{4}[ ]?\d{5}[ ]?\d{1}\b`),
		},
		{
			ID:          "ssn",
			Description: "Social Security number",
			Pattern:     regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`),
		},
		{
			ID:          "nhs-number",
			Description: "NHS number (3-3-4 digits)",
			Pattern:     regexp.MustCompile(`\b\d{3}[ ]\d{3}[ ]\d{4}\b`),
		},
	}
}

// Validate validates the engine configuration.
func (c *Config) Validate() error {
	if c.DateTolerance < 0 {
		return fmt.Errorf("%w: date tolerance cannot be negative", ErrInvalidConfig)
	}
	for i, t := range c.Triggers {
		if t.ID == "" {
			return fmt.Errorf("%w: trigger[%d] has no id", ErrInvalidConfig, i)
		}
		if len(t.Phrases) == 0 {
			return fmt.Errorf("%w: trigger %q has no phrases", ErrInvalidConfig, t.ID)
		}
		if len(t.Corequisites) == 0 {
			return fmt.Errorf("%w: trigger %q has no co-requisites", ErrInvalidConfig, t.ID)
		}
	}
	for i, p := range c.PIIPatterns {
		if p.ID == "" {
			return fmt.Errorf("%w: pii pattern[%d] has no id", ErrInvalidConfig, i)
		}
		if p.Pattern == nil {
			return fmt.Errorf("%w: pii pattern %q has no compiled pattern", ErrInvalidConfig, p.ID)
		}
	}
	return nil
}

// WithDateTolerance sets the encounter-window tolerance.
func (c *Config) WithDateTolerance(tolerance time.Duration) *Config {
	c.DateTolerance = tolerance
	return c
}

// WithTriggers replaces the trigger table.
func (c *Config) WithTriggers(triggers []TriggerRule) *Config {
	c.Triggers = triggers
	return c
}

// WithPIIPatterns replaces the identifier pattern list.
func (c *Config) WithPIIPatterns(patterns []PIIPattern) *Config {
	c.PIIPatterns = patterns
	return c
}

// WithCheckerFailureHook sets the checker failure callback.
func (c *Config) WithCheckerFailureHook(fn func(checker string)) *Config {
	c.CheckerFailureHook = fn
	return c
}

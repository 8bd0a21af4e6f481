package protocol

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"meridian-hq/meridian/pkg/compliance"
)

const sampleRuleYAML = `
version: "2026-08-01"
checkers:
  - name: drug_interactions
    enabled: true
    rules:
      - id: warfarin-nsaid
        severity: CRITICAL
        pattern:
          trigger: [warfarin, coumadin]
          conflicts: [ibuprofen, naproxen]
        message: "Potential interaction: {trigger} with {conflict}."
  - name: allergy_checks
    enabled: true
    rules:
      - id: penicillin-class
        pattern:
          allergies: [penicillin]
          conflicts: [amoxicillin]
        message: "Recorded {allergy} allergy; {medication} prescribed."
  - name: required_fields
    enabled: false
    rules:
      - id: discharge-follow-up
        severity: WARNING
        pattern:
          document_type: discharge_summary
          required: [follow_up_plan]
        message: "Missing {field}."
`

func TestValidateConfig(t *testing.T) {
	cfg, err := ValidateConfig([]byte(sampleRuleYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Version != "2026-08-01" {
		t.Errorf("version = %q", cfg.Version)
	}
	if len(cfg.Checkers) != 3 {
		t.Fatalf("expected 3 checkers, got %d", len(cfg.Checkers))
	}

	// Defaults and aliases are applied during validation.
	allergy, _ := cfg.Checker(CheckerAllergyConflicts)
	if allergy.Rules[0].Severity != compliance.SeverityCritical {
		t.Errorf("allergy severity = %q, want CRITICAL default", allergy.Rules[0].Severity)
	}
	required, _ := cfg.Checker(CheckerRequiredFields)
	if required.Rules[0].Severity != compliance.SeverityMedium {
		t.Errorf("required severity = %q, want MEDIUM (WARNING alias)", required.Rules[0].Severity)
	}
	if required.Enabled {
		t.Error("required_fields checker should be disabled")
	}
}

func TestValidateConfig_MalformedYAML(t *testing.T) {
	_, err := ValidateConfig([]byte("version: [unclosed"))
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
}

func TestValidateConfig_SchemaViolation(t *testing.T) {
	_, err := ValidateConfig([]byte("version: \"1\"\ncheckers:\n  - name: bogus\n"))
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected *ConfigError, got %v", err)
	}
}

func TestLoadRuleConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	if err := os.WriteFile(path, []byte(sampleRuleYAML), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadRuleConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ActiveRuleCount() != 2 {
		t.Errorf("ActiveRuleCount() = %d, want 2", cfg.ActiveRuleCount())
	}
}

func TestLoadRuleConfig_MissingFile(t *testing.T) {
	if _, err := LoadRuleConfig(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadRuleConfig_ParseErrorCarriesPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	if err := os.WriteFile(path, []byte("checkers: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadRuleConfig(path)
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
	if parseErr.Path != path {
		t.Errorf("path = %q, want %q", parseErr.Path, path)
	}
}

func TestSerialize_RoundTrip(t *testing.T) {
	cfg, err := ValidateConfig([]byte(sampleRuleYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := Serialize(cfg)
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}

	again, err := ValidateConfig(data)
	if err != nil {
		t.Fatalf("reparse: %v", err)
	}
	if !reflect.DeepEqual(cfg, again) {
		t.Error("round-tripped config differs from original")
	}
}

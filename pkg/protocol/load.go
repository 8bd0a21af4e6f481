package protocol

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadRuleConfig reads, parses and validates a rule document from a YAML
// file. The returned config is immutable by convention: callers must not
// modify it after load, so it can be shared across concurrent verifications.
func LoadRuleConfig(path string) (*RuleConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rule config %q: %w", path, err)
	}

	cfg, err := ValidateConfig(data)
	if err != nil {
		if pe, ok := err.(*ParseError); ok {
			pe.Path = path
		}
		return nil, err
	}

	return cfg, nil
}

// ValidateConfig parses a YAML rule document and validates it. It is
// exported for pre-deployment validation by tooling: a document that
// passes here will never fail at verification time.
//
// Returns a *ParseError for malformed YAML and a *ConfigError for schema
// violations.
func ValidateConfig(data []byte) (*RuleConfig, error) {
	var cfg RuleConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, &ParseError{Cause: err}
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Serialize renders a rule config back to YAML. Round-tripping a valid
// config through Serialize and ValidateConfig yields an equal config.
func Serialize(cfg *RuleConfig) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize rule config: %w", err)
	}
	return data, nil
}

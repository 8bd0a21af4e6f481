package engine

import (
	"errors"
	"testing"
	"time"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "default config is valid",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "negative tolerance",
			mutate:  func(c *Config) { c.DateTolerance = -time.Hour },
			wantErr: true,
		},
		{
			name:    "trigger without id",
			mutate:  func(c *Config) { c.Triggers[0].ID = "" },
			wantErr: true,
		},
		{
			name:    "trigger without phrases",
			mutate:  func(c *Config) { c.Triggers[0].Phrases = nil },
			wantErr: true,
		},
		{
			name:    "trigger without co-requisites",
			mutate:  func(c *Config) { c.Triggers[0].Corequisites = nil },
			wantErr: true,
		},
		{
			name:    "pii pattern without id",
			mutate:  func(c *Config) { c.PIIPatterns[0].ID = "" },
			wantErr: true,
		},
		{
			name:    "pii pattern without regexp",
			mutate:  func(c *Config) { c.PIIPatterns[0].Pattern = nil },
			wantErr: true,
		},
		{
			name:    "empty tables are valid",
			mutate:  func(c *Config) { c.Triggers = nil; c.PIIPatterns = nil },
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("error %v is not ErrInvalidConfig", err)
			}
		})
	}
}

func TestNewPIIPattern(t *testing.T) {
	p, err := NewPIIPattern("mrn", "medical record number", `\bMRN-\d{7}\b`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !p.Pattern.MatchString("ref MRN-1234567 attached") {
		t.Error("compiled pattern did not match")
	}

	if _, err := NewPIIPattern("bad", "broken", `[`); err == nil {
		t.Error("expected error for invalid regexp")
	}
}

func TestConfig_Builders(t *testing.T) {
	cfg := DefaultConfig().
		WithDateTolerance(48 * time.Hour).
		WithTriggers(nil).
		WithPIIPatterns(nil).
		WithCheckerFailureHook(func(string) {})

	if cfg.DateTolerance != 48*time.Hour {
		t.Errorf("DateTolerance = %v, want 48h", cfg.DateTolerance)
	}
	if cfg.Triggers != nil || cfg.PIIPatterns != nil {
		t.Error("builders did not replace tables")
	}
	if cfg.CheckerFailureHook == nil {
		t.Error("builder did not set failure hook")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("built config should be valid: %v", err)
	}
}

package engine

import (
	"fmt"
	"log/slog"
	"time"

	"meridian-hq/meridian/pkg/clinical"
	"meridian-hq/meridian/pkg/compliance"
	"meridian-hq/meridian/pkg/protocol"
)

// Engine is the top-level verification entry point. It is stateless apart
// from its immutable configuration and safe for concurrent use.
type Engine struct {
	config *Config
	logger *slog.Logger
}

// NewEngine creates a verification engine.
func NewEngine(config *Config, logger *slog.Logger) (*Engine, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Engine{
		config: config,
		logger: logger.With("component", "compliance.engine"),
	}, nil
}

// Verify checks an AI extraction against the patient's factual context and
// returns the classified result. Core invariant checks always run; the
// protocol registry runs only when a rule config is supplied (protocols are
// optional, core invariants are not).
//
// Alert ordering is deterministic: date integrity, trigger adherence, PII
// detection, then protocol alerts in registry order. Verify never returns
// an error: business-rule violations are alerts, and any internal defect is
// downgraded to a fail-closed CRITICAL alert forcing rejection.
func (e *Engine) Verify(patient *clinical.PatientContext, extraction *clinical.StructuredExtraction, rules *protocol.RuleConfig) *compliance.VerificationResult {
	start := time.Now()

	if patient == nil || extraction == nil {
		return compliance.Classify([]compliance.Alert{{
			SourceID: compliance.SourceEngineError,
			Severity: compliance.SeverityCritical,
			Message:  "Missing patient context or extraction: cannot verify, review manually.",
		}}, time.Now())
	}

	// All three core checks run to completion in one pass: none
	// short-circuits on another's failure.
	alerts := checkDateIntegrity(e.config, patient, extraction)
	alerts = append(alerts, checkTriggerAdherence(e.config, extraction)...)
	alerts = append(alerts, checkPII(e.config, extraction)...)

	if rules != nil {
		registry := protocol.NewRegistry(rules, e.logger)
		if e.config.CheckerFailureHook != nil {
			registry.SetFailureHook(e.config.CheckerFailureHook)
		}
		alerts = append(alerts, registry.CheckAll(patient, extraction)...)
	}

	result := compliance.Classify(alerts, time.Now())

	e.logger.Debug("verification complete",
		"patient_id", patient.PatientID,
		"document_type", extraction.DocumentType,
		"status", result.Status,
		"alert_count", len(result.Alerts),
		"duration", time.Since(start),
	)

	return result
}

// Config returns the engine's configuration for introspection. Callers
// must treat it as read-only.
func (e *Engine) Config() *Config {
	return e.config
}

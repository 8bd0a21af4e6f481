package protocol

import (
	"fmt"
	"log/slog"

	"meridian-hq/meridian/pkg/clinical"
	"meridian-hq/meridian/pkg/compliance"
)

// Registry holds the enabled checkers for one rule config, in document
// order. Checker order affects only the deterministic ordering of the
// aggregate alert list, never correctness.
type Registry struct {
	checkers    []Checker
	logger      *slog.Logger
	failureHook func(checker string)
}

// NewRegistry builds a registry from a validated rule config, constructing
// the enabled checkers in document order. Disabled checkers are skipped.
func NewRegistry(cfg *RuleConfig, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "protocol.registry")

	r := &Registry{logger: logger}
	for _, cc := range cfg.Checkers {
		if !cc.Enabled {
			continue
		}
		switch cc.Name {
		case CheckerDrugInteractions:
			r.checkers = append(r.checkers, NewDrugInteractionChecker(cc.Rules))
		case CheckerAllergyConflicts:
			r.checkers = append(r.checkers, NewAllergyChecker(cc.Rules))
		case CheckerRequiredFields:
			r.checkers = append(r.checkers, NewRequiredFieldsChecker(cc.Rules))
		}
	}
	return r
}

// SetFailureHook registers a callback invoked with the checker name
// whenever a checker fails internally and is converted into a fail-closed
// alert. Must be called before CheckAll.
func (r *Registry) SetFailureHook(fn func(checker string)) {
	r.failureHook = fn
}

// EnabledCheckers returns the names of the registered checkers in order.
func (r *Registry) EnabledCheckers() []string {
	names := make([]string, 0, len(r.checkers))
	for _, c := range r.checkers {
		names = append(names, c.Name())
	}
	return names
}

// CheckAll runs every enabled checker in registration order and
// concatenates the alerts. A checker that panics does not abort the others:
// the failure is isolated, converted into a single fail-closed CRITICAL
// alert, and evaluation continues with the remaining checkers.
func (r *Registry) CheckAll(patient *clinical.PatientContext, extraction *clinical.StructuredExtraction) []compliance.Alert {
	var alerts []compliance.Alert
	for _, checker := range r.checkers {
		alerts = append(alerts, r.runChecker(checker, patient, extraction)...)
	}
	return alerts
}

// runChecker invokes a single checker with panic isolation.
func (r *Registry) runChecker(checker Checker, patient *clinical.PatientContext, extraction *clinical.StructuredExtraction) (alerts []compliance.Alert) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("checker failed, failing closed",
				"checker", checker.Name(),
				"panic", rec,
			)
			if r.failureHook != nil {
				r.failureHook(checker.Name())
			}
			alerts = []compliance.Alert{{
				SourceID: compliance.SourceEngineError,
				Severity: compliance.SeverityCritical,
				Message:  fmt.Sprintf("checker %q failed internally: cannot verify, review manually", checker.Name()),
			}}
		}
	}()

	return checker.Check(patient, extraction)
}

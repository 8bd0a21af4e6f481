package metrics

import (
	"time"

	"meridian-hq/meridian/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector manages metric registration and provides a unified interface
// for recording metrics across all components. Updates are cheap enough to
// record on every verification without sampling.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	verificationMetrics *VerificationMetrics
	ruleMetrics         *RuleMetrics
}

// NewCollector creates a metrics collector with the specified configuration
// and Prometheus registry. If registry is nil, a fresh registry is used.
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	if cfg.Namespace == "" {
		cfg.Namespace = "meridian"
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = "engine"
	}
	if len(cfg.DurationBuckets) == 0 {
		// Verification is in-memory rule evaluation, sub-millisecond in
		// the common case.
		cfg.DurationBuckets = []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25}
	}

	c := &Collector{
		config:   cfg,
		registry: registry,
	}

	c.verificationMetrics = NewVerificationMetrics(cfg, registry)
	c.ruleMetrics = NewRuleMetrics(cfg, registry)

	return c
}

// RecordVerification records metrics for a completed verification run.
//
// Parameters:
//   - documentType: the extraction's document type
//   - outcome: verification outcome ("verified", "warning", "rejected")
//   - duration: engine evaluation time
func (c *Collector) RecordVerification(documentType, outcome string, duration time.Duration) {
	if !c.config.Enabled {
		return
	}

	c.verificationMetrics.RecordVerification(documentType, outcome, duration)
}

// RecordAlert records a single alert emitted during verification.
//
// Parameters:
//   - sourceID: alert source identifier (e.g. "INVARIANT_DATE_MISMATCH")
//   - severity: alert severity ("CRITICAL", "HIGH", "MEDIUM", "LOW")
func (c *Collector) RecordAlert(sourceID, severity string) {
	if !c.config.Enabled {
		return
	}

	c.verificationMetrics.RecordAlert(sourceID, severity)
}

// RecordCheckerFailure records an internal checker failure that was
// converted into an engine error alert.
func (c *Collector) RecordCheckerFailure(checker string) {
	if !c.config.Enabled {
		return
	}

	c.verificationMetrics.RecordCheckerFailure(checker)
}

// RecordRuleReload records a rule configuration reload attempt.
//
// Parameters:
//   - status: "success" or "error"
func (c *Collector) RecordRuleReload(status string) {
	if !c.config.Enabled {
		return
	}

	c.ruleMetrics.RecordReload(status)
}

// SetActiveRules sets the current number of active protocol rules.
func (c *Collector) SetActiveRules(count int) {
	if !c.config.Enabled {
		return
	}

	c.ruleMetrics.SetActiveRules(count)
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

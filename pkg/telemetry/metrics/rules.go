package metrics

import (
	"meridian-hq/meridian/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// RuleMetrics tracks metrics for protocol rule configuration.
//
// Metrics:
//   - meridian_engine_rule_reloads_total: reload attempts by status
//   - meridian_engine_active_rules: number of active protocol rules
type RuleMetrics struct {
	reloadsTotal *prometheus.CounterVec
	activeRules  prometheus.Gauge
}

// NewRuleMetrics creates and registers rule metrics with the provided
// registry.
func NewRuleMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *RuleMetrics {
	rm := &RuleMetrics{
		reloadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "rule_reloads_total",
				Help:      "Total number of rule configuration reload attempts",
			},
			[]string{"status"},
		),

		activeRules: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "active_rules",
				Help:      "Number of active protocol rules",
			},
		),
	}

	registry.MustRegister(rm.reloadsTotal, rm.activeRules)

	return rm
}

// RecordReload records a rule configuration reload attempt.
func (rm *RuleMetrics) RecordReload(status string) {
	rm.reloadsTotal.WithLabelValues(status).Inc()
}

// SetActiveRules sets the active rule count gauge.
func (rm *RuleMetrics) SetActiveRules(count int) {
	rm.activeRules.Set(float64(count))
}

package metrics

import (
	"time"

	"meridian-hq/meridian/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// VerificationMetrics tracks metrics for verification runs.
//
// Metrics:
//   - meridian_engine_verifications_total: verifications by document type and outcome
//   - meridian_engine_verification_duration_seconds: engine evaluation duration
//   - meridian_engine_alerts_total: alerts by source and severity
//   - meridian_engine_checker_failures_total: internal checker failures
type VerificationMetrics struct {
	verificationsTotal   *prometheus.CounterVec
	verificationDuration *prometheus.HistogramVec
	alertsTotal          *prometheus.CounterVec
	checkerFailures      *prometheus.CounterVec
}

// NewVerificationMetrics creates and registers verification metrics with
// the provided registry.
func NewVerificationMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *VerificationMetrics {
	vm := &VerificationMetrics{
		verificationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "verifications_total",
				Help:      "Total number of verification runs",
			},
			[]string{"document_type", "outcome"},
		),

		verificationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "verification_duration_seconds",
				Help:      "Duration of verification runs in seconds",
				Buckets:   cfg.DurationBuckets,
			},
			[]string{"document_type"},
		),

		alertsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "alerts_total",
				Help:      "Total number of alerts emitted",
			},
			[]string{"source_id", "severity"},
		),

		checkerFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "checker_failures_total",
				Help:      "Total number of internal checker failures",
			},
			[]string{"checker"},
		),
	}

	registry.MustRegister(
		vm.verificationsTotal,
		vm.verificationDuration,
		vm.alertsTotal,
		vm.checkerFailures,
	)

	return vm
}

// RecordVerification records a completed verification run.
func (vm *VerificationMetrics) RecordVerification(documentType, outcome string, duration time.Duration) {
	vm.verificationsTotal.WithLabelValues(documentType, outcome).Inc()
	vm.verificationDuration.WithLabelValues(documentType).Observe(duration.Seconds())
}

// RecordAlert records a single emitted alert.
func (vm *VerificationMetrics) RecordAlert(sourceID, severity string) {
	vm.alertsTotal.WithLabelValues(sourceID, severity).Inc()
}

// RecordCheckerFailure records an internal checker failure.
func (vm *VerificationMetrics) RecordCheckerFailure(checker string) {
	vm.checkerFailures.WithLabelValues(checker).Inc()
}

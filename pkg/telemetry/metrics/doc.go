// Package metrics exposes Prometheus metrics for the verification engine:
// verification counts by outcome, alert counts by source and severity,
// verification duration, rule reloads, and checker failures.
package metrics

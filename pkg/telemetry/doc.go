// Package telemetry groups the observability subpackages: structured
// logging (logging) and Prometheus metrics (metrics).
package telemetry

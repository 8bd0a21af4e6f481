// Package compliance defines the shared verdict vocabulary of the
// verification engine: alert severities, typed alerts, and the three-way
// verification result.
//
// Business-rule violations are never returned as errors. They are always
// represented as Alerts and classified into a VerificationResult, so callers
// have exactly one channel to inspect and must handle all three outcomes.
package compliance

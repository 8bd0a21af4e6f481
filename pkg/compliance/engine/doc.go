// Package engine implements the deterministic verification engine for
// AI-generated clinical documentation.
//
// The engine is pure and synchronous: no I/O, no suspension, no internal
// cache. It runs three fixed core invariant checks (date integrity,
// protocol-trigger adherence, PII detection) unconditionally and, when a
// rule config is supplied, the configurable protocol registry. All three
// core checks always run to completion in one pass so a single call always
// returns the complete alert set.
//
// Verify is safe to call concurrently from any number of goroutines; a
// single rule config instance may be shared read-only across calls.
package engine

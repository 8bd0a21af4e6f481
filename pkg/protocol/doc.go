// Package protocol implements the configurable half of the verification
// engine: a declarative YAML rule document parsed into validated in-memory
// structures, a fixed set of checkers that consume it, and a registry that
// orchestrates the enabled checkers.
//
// Protocols are patient-context-dependent safety rules, distinct from the
// fixed core invariants in pkg/compliance/engine. A rule document is loaded
// once, validated eagerly (a checker with an invalid rule fails validation,
// never silently at verification time), and is read-only for the life of a
// verification run. Hot reload is handled by the manager subpackage via
// atomic swap of the whole config.
package protocol

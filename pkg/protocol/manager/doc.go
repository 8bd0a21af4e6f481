// Package manager owns the lifetime of a rule config outside a single
// verification: initial load, validation, and atomic hot reload when the
// underlying YAML file changes.
//
// The manager guarantees that an in-flight verification always observes one
// complete, consistent config. Reloads swap a pointer atomically; a reload
// that fails validation is logged and discarded, leaving the previous
// config in place.
package manager

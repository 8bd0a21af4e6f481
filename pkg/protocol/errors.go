package protocol

import (
	"fmt"
	"strings"
)

// FieldError is a validation error for one field of a rule document.
type FieldError struct {
	// Field is the dotted path to the offending field
	// (e.g. "checkers[1].rules[0].severity").
	Field string

	// Message is a human-readable description of the problem.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ConfigError reports one or more validation errors in a rule document.
// All errors are collected and returned together so tooling can surface
// every problem in one pass.
type ConfigError struct {
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e *ConfigError) Error() string {
	if len(e.Errors) == 0 {
		return "rule config validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("rule config validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("rule config validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// ParseError reports a rule document that could not be parsed at all.
type ParseError struct {
	Path  string
	Cause error
}

// Error returns the error message.
func (e *ParseError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("failed to parse rule config %q: %v", e.Path, e.Cause)
	}
	return fmt.Sprintf("failed to parse rule config: %v", e.Cause)
}

// Unwrap returns the underlying cause.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// Package cli provides command-line utilities shared by the meridian
// command: output formatting, typed command errors, and signal handling
// for graceful shutdown.
package cli

// Meridian is a deterministic compliance engine for AI-extracted clinical
// documentation.
//
// It verifies structured extractions against patient context and
// configurable safety protocols, classifying each document as verified,
// warning, or rejected with typed alerts explaining every finding.
//
// Usage:
//
//	# Start the verification server with default configuration
//	meridian run
//
//	# Start with a custom configuration file
//	meridian run --config /etc/meridian/config.yaml
//
//	# Validate a protocol rule file
//	meridian validate --file rules/clinical-protocols.yaml
//
//	# Query the audit trail
//	meridian audit query --outcome rejected --limit 20
//
//	# Work the review queue
//	meridian review pending
//	meridian review claim --reviewer dr-chen
//
//	# Show version information
//	meridian version
package main

func main() {
	Execute()
}

// Package review implements the manual review queue. Documents that do not
// verify cleanly (warning or rejected outcomes) are queued for a clinician
// to claim and resolve; the engine itself never files or unfiles anything.
package review

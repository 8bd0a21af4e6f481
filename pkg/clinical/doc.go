// Package clinical defines the domain snapshots the verification engine
// consumes: the patient's factual context as fetched from the EMR, and the
// structured extraction produced by the AI layer from a dictated note.
//
// Both snapshot types are treated as immutable once constructed. The engine
// never mutates them and never trusts the extraction: every asserted fact is
// checked against the patient context before a document is considered safe
// to file.
package clinical

// Package audit provides the verification audit trail: an immutable record
// of every verification run, what it concluded, and why.
//
// Records carry input hashes rather than clinical content so the trail can
// prove what was verified without becoming a PII store itself. Storage
// backends must be safe for concurrent use; the recorder writes
// asynchronously so verification latency is never coupled to storage
// latency.
package audit

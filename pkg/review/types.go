package review

import "time"

// ItemStatus is the workflow state of a review item.
type ItemStatus string

const (
	// StatusPending means the item awaits a reviewer.
	StatusPending ItemStatus = "pending"

	// StatusClaimed means a reviewer is working the item.
	StatusClaimed ItemStatus = "claimed"

	// StatusResolved means the reviewer recorded a decision.
	StatusResolved ItemStatus = "resolved"
)

// Item is one document awaiting (or having completed) manual review.
type Item struct {
	// ID is a UUID v4 assigned at enqueue time.
	ID string `json:"id"`

	// RecordID references the audit record for the verification run
	// that produced this item.
	RecordID string `json:"record_id"`

	// PatientRef is the hashed patient identifier (matches the audit
	// record's).
	PatientRef string `json:"patient_ref"`

	// DocumentType is the extraction's document type.
	DocumentType string `json:"document_type"`

	// Outcome is the verification outcome that queued the item
	// ("warning" or "rejected").
	Outcome string `json:"outcome"`

	// Status is the review workflow state.
	Status ItemStatus `json:"status"`

	// Reviewer is the identifier of the reviewer who claimed the item.
	Reviewer string `json:"reviewer,omitempty"`

	// Resolution is the reviewer's recorded decision.
	Resolution string `json:"resolution,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

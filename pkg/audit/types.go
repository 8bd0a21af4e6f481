package audit

import (
	"context"
	"time"

	"meridian-hq/meridian/pkg/compliance"
)

// AlertRecord captures one alert for the audit trail.
type AlertRecord struct {
	SourceID string              `json:"source_id"`
	Severity compliance.Severity `json:"severity"`
	Message  string              `json:"message"`
	Field    string              `json:"field,omitempty"`
}

// VerificationRecord is a complete audit entry for a single verification
// run. It carries hashes of the inputs rather than the inputs themselves.
type VerificationRecord struct {
	// ID is a UUID v4 assigned by the recorder.
	ID string `json:"id"`

	// RequestID correlates the record with the caller's request, when
	// one exists.
	RequestID string `json:"request_id,omitempty"`

	// PatientRef is the SHA-256 hash of the patient identifier.
	PatientRef string `json:"patient_ref"`

	// DocumentType is the extraction's document type.
	DocumentType string `json:"document_type"`

	// ExtractionHash is the SHA-256 hash of the serialized extraction.
	ExtractionHash string `json:"extraction_hash"`

	// RulesVersion is the version string of the rule config in effect,
	// empty when no protocols were configured.
	RulesVersion string `json:"rules_version,omitempty"`

	// Outcome is the verification status ("verified", "warning",
	// "rejected").
	Outcome string `json:"outcome"`

	// Alerts summarizes the findings.
	Alerts []AlertRecord `json:"alerts,omitempty"`

	// Severity tallies.
	CriticalCount int `json:"critical_count"`
	HighCount     int `json:"high_count"`
	MediumCount   int `json:"medium_count"`
	LowCount      int `json:"low_count"`

	// VerifiedTime is when the engine classified the result.
	VerifiedTime time.Time `json:"verified_time"`

	// RecordedTime is when the record was written.
	RecordedTime time.Time `json:"recorded_time"`

	// Duration is the engine evaluation time.
	Duration time.Duration `json:"duration"`
}

// Query defines filter parameters for querying verification records.
type Query struct {
	// Time range over VerifiedTime, inclusive.
	StartTime *time.Time `json:"start_time,omitempty"`
	EndTime   *time.Time `json:"end_time,omitempty"`

	// Filters.
	Outcome      string `json:"outcome,omitempty"`
	PatientRef   string `json:"patient_ref,omitempty"`
	DocumentType string `json:"document_type,omitempty"`

	// IDs restricts matching to the given record IDs. Empty means no
	// restriction.
	IDs []string `json:"ids,omitempty"`

	// Pagination.
	Limit  int `json:"limit,omitempty"`
	Offset int `json:"offset,omitempty"`
}

// Storage defines the interface for audit storage backends.
// Implementations must be thread-safe and support concurrent access.
type Storage interface {
	// Store persists a verification record.
	Store(ctx context.Context, record *VerificationRecord) error

	// Query retrieves records matching the query filters, newest first.
	Query(ctx context.Context, query *Query) ([]*VerificationRecord, error)

	// Count returns the number of records matching the query filters.
	Count(ctx context.Context, query *Query) (int64, error)

	// Delete removes records matching the query filters and returns the
	// number deleted. Used for retention enforcement.
	Delete(ctx context.Context, query *Query) (int64, error)

	// Close releases any resources held by the backend.
	Close() error
}

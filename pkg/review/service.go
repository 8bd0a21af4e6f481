package review

import (
	"context"
	"log/slog"

	"meridian-hq/meridian/pkg/audit"
	"meridian-hq/meridian/pkg/compliance"
)

// Service bridges verification outcomes into the review queue. Outcomes
// that are not clean (warning, rejected) are enqueued for a human.
type Service struct {
	store  *Store
	logger *slog.Logger
}

// NewService creates a review intake service.
func NewService(store *Store) *Service {
	return &Service{
		store:  store,
		logger: slog.Default().With("component", "review.service"),
	}
}

// Intake enqueues a review item when the audit record's outcome warrants
// human attention. Verified records are ignored.
func (s *Service) Intake(ctx context.Context, record *audit.VerificationRecord) (*Item, error) {
	if record == nil || record.Outcome == string(compliance.StatusVerified) {
		return nil, nil
	}

	item, err := s.store.Enqueue(ctx, record.ID, record.PatientRef, record.DocumentType, record.Outcome)
	if err != nil {
		s.logger.Error("failed to enqueue review item",
			"record_id", record.ID,
			"error", err,
		)
		return nil, err
	}
	return item, nil
}

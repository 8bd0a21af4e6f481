package review

import (
	"context"
	"testing"

	"meridian-hq/meridian/pkg/audit"
)

func TestService_Intake(t *testing.T) {
	store := newTestStore(t)
	svc := NewService(store)
	ctx := context.Background()

	tests := []struct {
		name      string
		record    *audit.VerificationRecord
		wantQueue bool
	}{
		{
			name:      "rejected is queued",
			record:    &audit.VerificationRecord{ID: "rec-1", PatientRef: "ref-1", DocumentType: "discharge_summary", Outcome: "rejected"},
			wantQueue: true,
		},
		{
			name:      "warning is queued",
			record:    &audit.VerificationRecord{ID: "rec-2", PatientRef: "ref-2", DocumentType: "progress_note", Outcome: "warning"},
			wantQueue: true,
		},
		{
			name:      "verified is ignored",
			record:    &audit.VerificationRecord{ID: "rec-3", Outcome: "verified"},
			wantQueue: false,
		},
		{
			name:      "nil record is ignored",
			record:    nil,
			wantQueue: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item, err := svc.Intake(ctx, tt.record)
			if err != nil {
				t.Fatalf("intake: %v", err)
			}
			if tt.wantQueue != (item != nil) {
				t.Fatalf("queued = %v, want %v", item != nil, tt.wantQueue)
			}
			if item != nil && item.RecordID != tt.record.ID {
				t.Errorf("record id = %q, want %q", item.RecordID, tt.record.ID)
			}
		})
	}

	pending, err := store.Pending(ctx, 0)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(pending) != 2 {
		t.Errorf("pending = %d items, want 2", len(pending))
	}
}

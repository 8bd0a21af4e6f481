package compliance

import (
	"testing"
	"time"
)

func TestSeverity_AtLeast(t *testing.T) {
	tests := []struct {
		s     Severity
		other Severity
		want  bool
	}{
		{SeverityCritical, SeverityHigh, true},
		{SeverityHigh, SeverityHigh, true},
		{SeverityMedium, SeverityHigh, false},
		{SeverityLow, SeverityMedium, false},
		{SeverityCritical, SeverityLow, true},
	}

	for _, tt := range tests {
		if got := tt.s.AtLeast(tt.other); got != tt.want {
			t.Errorf("%s.AtLeast(%s) = %v, want %v", tt.s, tt.other, got, tt.want)
		}
	}
}

func TestSeverity_Valid(t *testing.T) {
	for _, s := range []Severity{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow} {
		if !s.Valid() {
			t.Errorf("%s.Valid() = false, want true", s)
		}
	}
	if Severity("WARNING").Valid() {
		t.Error("alias severity should not be valid without normalization")
	}
}

func TestClassify(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name   string
		alerts []Alert
		want   Status
	}{
		{
			name:   "no alerts is verified",
			alerts: nil,
			want:   StatusVerified,
		},
		{
			name: "medium only is warning",
			alerts: []Alert{
				{SourceID: "r1", Severity: SeverityMedium},
				{SourceID: "r2", Severity: SeverityLow},
			},
			want: StatusWarning,
		},
		{
			name: "one high rejects",
			alerts: []Alert{
				{SourceID: "r1", Severity: SeverityLow},
				{SourceID: "r2", Severity: SeverityHigh},
			},
			want: StatusRejected,
		},
		{
			name:   "critical rejects",
			alerts: []Alert{{SourceID: "r1", Severity: SeverityCritical}},
			want:   StatusRejected,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Classify(tt.alerts, now)
			if result.Status != tt.want {
				t.Errorf("Classify() status = %s, want %s", result.Status, tt.want)
			}
			if len(result.Alerts) != len(tt.alerts) {
				t.Errorf("Classify() kept %d alerts, want %d", len(result.Alerts), len(tt.alerts))
			}
			if !result.VerifiedAt.Equal(now) {
				t.Errorf("Classify() VerifiedAt = %v, want %v", result.VerifiedAt, now)
			}
		})
	}
}

func TestClassify_VerifiedHasNoAlerts(t *testing.T) {
	result := Classify(nil, time.Now())
	if result.Status != StatusVerified {
		t.Fatalf("expected verified, got %s", result.Status)
	}
	if len(result.Alerts) != 0 {
		t.Errorf("verified result must carry no alerts, got %d", len(result.Alerts))
	}
}

func TestBySeverity(t *testing.T) {
	alerts := []Alert{
		{SourceID: "a", Severity: SeverityCritical},
		{SourceID: "b", Severity: SeverityMedium},
		{SourceID: "c", Severity: SeverityCritical},
	}

	grouped := BySeverity(alerts)
	if len(grouped[SeverityCritical]) != 2 {
		t.Errorf("expected 2 critical alerts, got %d", len(grouped[SeverityCritical]))
	}
	if grouped[SeverityCritical][0].SourceID != "a" || grouped[SeverityCritical][1].SourceID != "c" {
		t.Error("relative order not preserved within severity group")
	}
	if len(grouped[SeverityMedium]) != 1 {
		t.Errorf("expected 1 medium alert, got %d", len(grouped[SeverityMedium]))
	}
}

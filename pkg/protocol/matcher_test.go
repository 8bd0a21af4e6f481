package protocol

import (
	"reflect"
	"testing"
)

func TestMatchMedications(t *testing.T) {
	tests := []struct {
		name    string
		meds    []string
		needles []string
		want    []string
	}{
		{
			name:    "exact match",
			meds:    []string{"Warfarin"},
			needles: []string{"warfarin"},
			want:    []string{"warfarin"},
		},
		{
			name:    "token within longer name",
			meds:    []string{"Warfarin Sodium 5mg"},
			needles: []string{"warfarin"},
			want:    []string{"warfarin"},
		},
		{
			name:    "multi-token needle",
			meds:    []string{"Warfarin Sodium tablets"},
			needles: []string{"warfarin sodium"},
			want:    []string{"warfarin sodium"},
		},
		{
			name:    "no partial token match",
			meds:    []string{"Cowarfarin"},
			needles: []string{"warfarin"},
			want:    nil,
		},
		{
			name:    "canonical spelling in needle order",
			meds:    []string{"IBUPROFEN 400mg", "Naproxen"},
			needles: []string{"naproxen", "ibuprofen", "ketorolac"},
			want:    []string{"naproxen", "ibuprofen"},
		},
		{
			name:    "deduplicated",
			meds:    []string{"Aspirin 100mg", "Aspirin EC"},
			needles: []string{"aspirin"},
			want:    []string{"aspirin"},
		},
		{
			name:    "empty needle skipped",
			meds:    []string{"Warfarin"},
			needles: []string{"", "  ", "warfarin"},
			want:    []string{"warfarin"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MatchMedications(tt.meds, tt.needles)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("MatchMedications() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMatchAllergies(t *testing.T) {
	tests := []struct {
		name      string
		allergies []string
		needles   []string
		want      []string
	}{
		{
			name:      "exact match",
			allergies: []string{"penicillin"},
			needles:   []string{"penicillin"},
			want:      []string{"penicillin"},
		},
		{
			name:      "recorded allergy more specific",
			allergies: []string{"Penicillin (rash)"},
			needles:   []string{"penicillin"},
			want:      []string{"penicillin"},
		},
		{
			name:      "needle more specific than recorded",
			allergies: []string{"sulfa"},
			needles:   []string{"sulfamethoxazole"},
			want:      []string{"sulfamethoxazole"},
		},
		{
			name:      "no match",
			allergies: []string{"latex"},
			needles:   []string{"penicillin"},
			want:      nil,
		},
		{
			name:      "blank recorded entries ignored",
			allergies: []string{"", "  ", "penicillin"},
			needles:   []string{"penicillin"},
			want:      []string{"penicillin"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MatchAllergies(tt.allergies, tt.needles)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("MatchAllergies() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestContainsToken(t *testing.T) {
	tests := []struct {
		text   string
		needle string
		want   bool
	}{
		{"Warfarin Sodium", "warfarin", true},
		{"warfarin", "warfarin sodium", false},
		{"Tylenol-PM", "tylenol", true},
		{"", "warfarin", false},
		{"warfarin", "", false},
	}

	for _, tt := range tests {
		if got := containsToken(tt.text, tt.needle); got != tt.want {
			t.Errorf("containsToken(%q, %q) = %v, want %v", tt.text, tt.needle, got, tt.want)
		}
	}
}

func TestRenderMessage(t *testing.T) {
	got := renderMessage("Potential interaction: {trigger} with {conflict}.", map[string]string{
		"trigger":  "warfarin",
		"conflict": "ibuprofen",
	})
	want := "Potential interaction: warfarin with ibuprofen."
	if got != want {
		t.Errorf("renderMessage() = %q, want %q", got, want)
	}

	// Unused placeholders stay intact.
	got = renderMessage("Missing {field}.", map[string]string{"other": "x"})
	if got != "Missing {field}." {
		t.Errorf("renderMessage() = %q, want placeholder untouched", got)
	}
}

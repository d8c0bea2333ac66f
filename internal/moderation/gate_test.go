package moderation

import (
	"testing"

	"go-caption-gateway/pkg/models"
)

func TestFlagged(t *testing.T) {
	tests := []struct {
		name    string
		adult   float64
		racy    float64
		gore    float64
		flagged bool
	}{
		{"all zero", 0, 0, 0, false},
		{"all low", 0.1, 0.2, 0.3, false},
		{"exactly at threshold is not flagged", 0.7, 0.7, 0.7, false},
		{"just above threshold on adult", 0.70001, 0, 0, true},
		{"just above threshold on racy", 0, 0.70001, 0, true},
		{"just above threshold on gore", 0, 0, 0.70001, true},
		{"adult high", 0.95, 0.1, 0.1, true},
		{"racy high", 0.1, 0.8, 0.1, true},
		{"gore high", 0.1, 0.1, 0.99, true},
		{"all max", 1, 1, 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := models.ModerationResult{
				AdultScore: tt.adult,
				RacyScore:  tt.racy,
				GoreScore:  tt.gore,
			}
			if got := Flagged(result); got != tt.flagged {
				t.Errorf("Flagged(%v, %v, %v) = %v, want %v", tt.adult, tt.racy, tt.gore, got, tt.flagged)
			}
		})
	}
}

func TestFlagged_IgnoresBooleanVerdicts(t *testing.T) {
	// The verdict depends only on scores, not on the upstream booleans
	result := models.ModerationResult{
		IsAdultContent: true,
		IsRacyContent:  true,
		IsGoryContent:  true,
		AdultScore:     0.2,
		RacyScore:      0.2,
		GoreScore:      0.2,
	}
	if Flagged(result) {
		t.Error("Expected unflagged result when all scores are below threshold")
	}
}

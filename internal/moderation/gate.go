package moderation

import "go-caption-gateway/pkg/models"

// FlagThreshold is the fixed score above which an image counts as flagged.
const FlagThreshold = 0.7

// Flagged reports whether any moderation score exceeds the threshold.
// Absent scores are zero-valued and compare safely.
func Flagged(result models.ModerationResult) bool {
	return result.AdultScore > FlagThreshold ||
		result.RacyScore > FlagThreshold ||
		result.GoreScore > FlagThreshold
}

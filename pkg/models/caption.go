package models

// Modes recognized by the caption API. Upload requests accept the first
// three; URL requests accept the url-prefixed pair.
const (
	ModeBasicCaption = "basicCaption"
	ModeStoryCaption = "storyCaption"
	ModeModerateOnly = "moderateOnly"
	ModeURLAnalyze   = "urlAnalyze"
	ModeURLModerate  = "urlModerate"
)

// Tag is a single label returned by the vision service.
type Tag struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
}

// ModerationResult holds the adult/racy/gore classification of an image.
// Scores are in [0,1].
type ModerationResult struct {
	IsAdultContent bool    `json:"isAdultContent"`
	IsRacyContent  bool    `json:"isRacyContent"`
	IsGoryContent  bool    `json:"isGoryContent"`
	AdultScore     float64 `json:"adultScore"`
	RacyScore      float64 `json:"racyScore"`
	GoreScore      float64 `json:"goreScore"`
	UsedFallback   bool    `json:"usedFallback"`
}

// VisionResult is the normalized caption/tags output of the vision service.
// Confidence is nil when the service returned no caption.
type VisionResult struct {
	Caption      string   `json:"caption"`
	Tags         []Tag    `json:"tags"`
	Confidence   *float64 `json:"confidence"`
	UsedFallback bool     `json:"usedFallback"`
}

// StoryResult is a short generated narrative.
type StoryResult struct {
	Text string `json:"text"`
}

// CaptionResponse is the single outward-facing response shape. Which fields
// are present depends on the mode: moderation/flagged are omitted for
// urlAnalyze, vision fields are omitted for moderateOnly and urlModerate,
// and story is set only for storyCaption. The embedded VisionResult stays
// nil when no analysis ran so its fields never leak into the JSON.
type CaptionResponse struct {
	Mode       string            `json:"mode"`
	Flagged    *bool             `json:"flagged,omitempty"`
	Moderation *ModerationResult `json:"moderation,omitempty"`
	ImageURL   string            `json:"imageUrl,omitempty"`
	*VisionResult
	Story string `json:"story,omitempty"`
}

// StatusResponse is the health check body.
type StatusResponse struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	Timestamp string `json:"timestamp"`
}

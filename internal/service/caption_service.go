package service

import (
	"context"

	apperrors "go-caption-gateway/internal/errors"
	"go-caption-gateway/internal/logger"
	"go-caption-gateway/internal/moderation"
	"go-caption-gateway/internal/story"
	"go-caption-gateway/internal/vision"
	"go-caption-gateway/pkg/models"

	"github.com/sirupsen/logrus"
)

// URLFailureMessage is the only diagnostic a caller ever sees for a failed
// URL-mode request. The real upstream detail is logged server-side only.
const URLFailureMessage = "Failed to process the provided image URL. Ensure it is publicly accessible and in a supported format."

// CaptionService orchestrates a single request: moderation always runs
// first, then analysis and narration depending on the mode. Operations
// within a request are strictly sequential.
type CaptionService interface {
	ProcessUpload(ctx context.Context, filePath, mode string) (*models.CaptionResponse, error)
	ProcessURL(ctx context.Context, imageURL, mode string) (*models.CaptionResponse, error)
}

type captionService struct {
	vision vision.Client
	story  story.Client
}

// NewCaptionService creates the orchestration service over the two clients.
func NewCaptionService(visionClient vision.Client, storyClient story.Client) CaptionService {
	return &captionService{
		vision: visionClient,
		story:  storyClient,
	}
}

// ProcessUpload handles a stored upload. The caller owns the file's
// lifecycle; this method never deletes it.
func (s *captionService) ProcessUpload(ctx context.Context, filePath, mode string) (*models.CaptionResponse, error) {
	// Safety-first ordering: moderation runs before any other processing
	// so no narrative is ever generated without a computed verdict.
	moderationResult, err := s.vision.ModerateFile(ctx, filePath)
	if err != nil {
		return nil, err
	}

	flagged := moderation.Flagged(*moderationResult)
	response := &models.CaptionResponse{
		Mode:       mode,
		Flagged:    &flagged,
		Moderation: moderationResult,
	}

	switch mode {
	case models.ModeModerateOnly:
		return response, nil

	case models.ModeBasicCaption:
		visionResult, err := s.vision.AnalyzeFile(ctx, filePath)
		if err != nil {
			return nil, err
		}
		response.VisionResult = visionResult
		return response, nil

	case models.ModeStoryCaption:
		visionResult, err := s.vision.AnalyzeFile(ctx, filePath)
		if err != nil {
			return nil, err
		}
		storyResult, err := s.story.Generate(ctx, visionResult.Caption, tagNames(visionResult.Tags))
		if err != nil {
			return nil, err
		}
		response.VisionResult = visionResult
		response.Story = storyResult.Text
		return response, nil

	default:
		return nil, apperrors.NewBadRequest("Invalid mode selected.")
	}
}

// ProcessURL handles a public image URL. Any processing failure collapses
// to a single 422 with the fixed generic message.
func (s *captionService) ProcessURL(ctx context.Context, imageURL, mode string) (*models.CaptionResponse, error) {
	switch mode {
	case models.ModeURLModerate:
		moderationResult, err := s.vision.ModerateURL(ctx, imageURL)
		if err != nil {
			return nil, s.urlFailure(imageURL, mode, err)
		}
		flagged := moderation.Flagged(*moderationResult)
		return &models.CaptionResponse{
			Mode:       mode,
			Flagged:    &flagged,
			Moderation: moderationResult,
			ImageURL:   imageURL,
		}, nil

	case models.ModeURLAnalyze:
		visionResult, err := s.vision.AnalyzeURL(ctx, imageURL)
		if err != nil {
			return nil, s.urlFailure(imageURL, mode, err)
		}
		return &models.CaptionResponse{
			Mode:         mode,
			ImageURL:     imageURL,
			VisionResult: visionResult,
		}, nil

	default:
		return nil, apperrors.NewBadRequest("Invalid mode selected.")
	}
}

// urlFailure logs the real cause and returns the fixed lossy 422. The cause
// is deliberately not attached so no upstream detail can reach the caller.
func (s *captionService) urlFailure(imageURL, mode string, err error) error {
	logger.WithError(err).WithFields(logrus.Fields{
		"url":  imageURL,
		"mode": mode,
	}).Warn("Failed to process image URL")
	return apperrors.NewUnprocessable(URLFailureMessage, nil)
}

func tagNames(tags []models.Tag) []string {
	names := make([]string, 0, len(tags))
	for _, tag := range tags {
		names = append(names, tag.Name)
	}
	return names
}

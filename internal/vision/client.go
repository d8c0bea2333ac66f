package vision

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	apperrors "go-caption-gateway/internal/errors"
	"go-caption-gateway/internal/logger"
	"go-caption-gateway/pkg/models"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

// Client is the capability surface of the remote vision service: caption
// analysis and content moderation, each for a local file or a public URL.
// Every call makes exactly one outbound request.
type Client interface {
	AnalyzeFile(ctx context.Context, path string) (*models.VisionResult, error)
	ModerateFile(ctx context.Context, path string) (*models.ModerationResult, error)
	AnalyzeURL(ctx context.Context, imageURL string) (*models.VisionResult, error)
	ModerateURL(ctx context.Context, imageURL string) (*models.ModerationResult, error)
}

const (
	// Visual feature sets of the v3.2 analyze operation
	featuresAnalyze  = "Description,Tags"
	featuresModerate = "Adult"

	// NoCaptionPlaceholder is returned when the service produced no caption.
	NoCaptionPlaceholder = "No caption found"

	analyzeURLHint  = "Failed to analyze the image URL. Make sure it is public, accessible, and points to a valid image."
	moderateURLHint = "Failed to analyze image URL. Make sure the image is publicly accessible and in a supported format."
)

// AzureClient calls the Azure Vision v3.2 analyze endpoint.
type AzureClient struct {
	endpoint string
	key      string
	client   *resty.Client
}

// NewAzureClient creates a vision client for the given multiservice endpoint.
// Retries stay disabled: each invocation must map to a single outbound call.
func NewAzureClient(endpoint, key string, timeout time.Duration) *AzureClient {
	client := resty.New()
	client.SetTimeout(timeout)

	return &AzureClient{
		endpoint: strings.TrimRight(endpoint, "/"),
		key:      key,
		client:   client,
	}
}

// analyzePayload is the subset of the v3.2 analyze response we consume.
// Description is populated for caption analysis, Adult for moderation.
type analyzePayload struct {
	Description struct {
		Captions []struct {
			Text       string  `json:"text"`
			Confidence float64 `json:"confidence"`
		} `json:"captions"`
	} `json:"description"`
	Tags  []models.Tag `json:"tags"`
	Adult struct {
		IsAdultContent bool    `json:"isAdultContent"`
		IsRacyContent  bool    `json:"isRacyContent"`
		IsGoryContent  bool    `json:"isGoryContent"`
		AdultScore     float64 `json:"adultScore"`
		RacyScore      float64 `json:"racyScore"`
		GoreScore      float64 `json:"goreScore"`
	} `json:"adult"`
}

func (c *AzureClient) AnalyzeFile(ctx context.Context, path string) (*models.VisionResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.NewInternal("Failed to read uploaded image.", err)
	}
	payload, status, err := c.analyze(ctx, featuresAnalyze, "application/octet-stream", data)
	if err != nil {
		return nil, apperrors.FromStatus(status, "Image analysis failed.", err)
	}
	return payload.visionResult(), nil
}

func (c *AzureClient) ModerateFile(ctx context.Context, path string) (*models.ModerationResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.NewInternal("Failed to read uploaded image.", err)
	}
	payload, status, err := c.analyze(ctx, featuresModerate, "application/octet-stream", data)
	if err != nil {
		return nil, apperrors.FromStatus(status, "Image moderation failed.", err)
	}
	return payload.moderationResult(), nil
}

func (c *AzureClient) AnalyzeURL(ctx context.Context, imageURL string) (*models.VisionResult, error) {
	payload, status, err := c.analyze(ctx, featuresAnalyze, "application/json", map[string]string{"url": imageURL})
	if err != nil {
		logger.WithError(err).WithFields(logrus.Fields{
			"status": status,
			"url":    imageURL,
		}).Warn("Vision analyze-by-URL failed")
		return nil, apperrors.NewUnprocessable(analyzeURLHint, err)
	}
	return payload.visionResult(), nil
}

func (c *AzureClient) ModerateURL(ctx context.Context, imageURL string) (*models.ModerationResult, error) {
	payload, status, err := c.analyze(ctx, featuresModerate, "application/json", map[string]string{"url": imageURL})
	if err != nil {
		logger.WithError(err).WithFields(logrus.Fields{
			"status": status,
			"url":    imageURL,
		}).Warn("Vision moderate-by-URL failed")
		return nil, apperrors.NewUnprocessable(moderateURLHint, err)
	}
	return payload.moderationResult(), nil
}

// analyze performs the single outbound call shared by all four operations.
// The returned status is the upstream HTTP status, or 0 when the transport
// itself failed.
func (c *AzureClient) analyze(ctx context.Context, features, contentType string, body interface{}) (*analyzePayload, int, error) {
	var payload analyzePayload

	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Ocp-Apim-Subscription-Key", c.key).
		SetHeader("Content-Type", contentType).
		SetQueryParam("visualFeatures", features).
		SetBody(body).
		SetResult(&payload).
		Post(c.endpoint + "/vision/v3.2/analyze")

	if err != nil {
		return nil, 0, fmt.Errorf("vision request failed: %w", err)
	}
	if !resp.IsSuccess() {
		return nil, resp.StatusCode(), fmt.Errorf("vision service returned status %d: %s", resp.StatusCode(), resp.String())
	}
	return &payload, resp.StatusCode(), nil
}

// visionResult normalizes the analyze response: a missing caption becomes the
// fixed placeholder, missing tags an empty list, missing confidence null.
func (p *analyzePayload) visionResult() *models.VisionResult {
	result := &models.VisionResult{
		Caption: NoCaptionPlaceholder,
		Tags:    []models.Tag{},
	}
	if len(p.Description.Captions) > 0 {
		top := p.Description.Captions[0]
		if top.Text != "" {
			result.Caption = top.Text
		}
		confidence := top.Confidence
		result.Confidence = &confidence
	}
	if p.Tags != nil {
		result.Tags = p.Tags
	}
	return result
}

func (p *analyzePayload) moderationResult() *models.ModerationResult {
	return &models.ModerationResult{
		IsAdultContent: p.Adult.IsAdultContent,
		IsRacyContent:  p.Adult.IsRacyContent,
		IsGoryContent:  p.Adult.IsGoryContent,
		AdultScore:     p.Adult.AdultScore,
		RacyScore:      p.Adult.RacyScore,
		GoreScore:      p.Adult.GoreScore,
	}
}

package story

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	apperrors "go-caption-gateway/internal/errors"
	"go-caption-gateway/internal/logger"
	"go-caption-gateway/pkg/models"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

// Client generates a short narrative from an image caption and its tags.
type Client interface {
	Generate(ctx context.Context, caption string, tags []string) (*models.StoryResult, error)
}

const (
	primaryModel  = "o4-mini"
	fallbackModel = "gpt-4.1"

	fallbackTemperature = 0.85
	fallbackMaxTokens   = 100
)

// BuildPrompt renders the single deterministic prompt template. Tags are
// joined with ", "; an empty list renders as an empty string.
func BuildPrompt(caption string, tags []string) string {
	return fmt.Sprintf(`You are an imaginative storyteller. Based on the following image description and tags, write a vivid, creative, but concise 2-3 sentence story that stays true to the content.

Description: %q
Tags: %s

Story:`, caption, strings.Join(tags, ", "))
}

// OpenAIClient implements Client against an OpenAI-compatible endpoint with
// an ordered list of model attempts: a reasoning-oriented primary, then a
// higher-capacity fallback that only runs for a retryable classified failure.
type OpenAIClient struct {
	baseURL string
	apiKey  string
	client  *resty.Client
}

// attempt is one entry in the model policy. retryOn is nil for the attempt
// that always runs; later attempts run only when the previous failure's
// upstream status is in the set. The raw status is carried separately from
// the classified error because 429 has no kind of its own in the taxonomy.
type attempt struct {
	model   string
	retryOn map[int]bool
	call    func(ctx context.Context, prompt string) (string, int, error)
}

func NewOpenAIClient(baseURL, apiKey string, timeout time.Duration) *OpenAIClient {
	client := resty.New()
	client.SetTimeout(timeout)

	return &OpenAIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  client,
	}
}

func (c *OpenAIClient) attempts() []attempt {
	return []attempt{
		{model: primaryModel, call: c.callPrimary},
		{
			model:   fallbackModel,
			retryOn: map[int]bool{http.StatusNotFound: true, http.StatusTooManyRequests: true, http.StatusInternalServerError: true},
			call:    c.callFallback,
		},
	}
}

// Generate runs the attempt list in order: at most two outbound calls, and
// either a full trimmed story or an error. Non-retryable failures of the
// primary (auth, malformed request) propagate untouched.
func (c *OpenAIClient) Generate(ctx context.Context, caption string, tags []string) (*models.StoryResult, error) {
	prompt := BuildPrompt(caption, tags)

	var lastErr error
	lastStatus := 0
	for _, a := range c.attempts() {
		if a.retryOn != nil {
			if !a.retryOn[lastStatus] {
				return nil, lastErr
			}
			logger.WithError(lastErr).WithFields(logrus.Fields{
				"model":  a.model,
				"status": lastStatus,
			}).Warn("Primary story model failed, falling back")
		}

		text, status, err := a.call(ctx, prompt)
		if err == nil {
			return &models.StoryResult{Text: strings.TrimSpace(text)}, nil
		}
		lastErr = err
		lastStatus = status
	}
	return nil, lastErr
}

// callPrimary uses the responses API with medium reasoning effort. The
// returned status is the raw upstream status; transport and decode failures
// carry 0 so they never look retryable.
func (c *OpenAIClient) callPrimary(ctx context.Context, prompt string) (string, int, error) {
	request := map[string]interface{}{
		"model":     primaryModel,
		"reasoning": map[string]string{"effort": "medium"},
		"input": []map[string]string{
			{"role": "user", "content": prompt},
		},
	}

	var result struct {
		Output []struct {
			Type    string `json:"type"`
			Content []struct {
				Type string `json:"type"`
				Text string `json:"text"`
			} `json:"content"`
		} `json:"output"`
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("Authorization", "Bearer "+c.apiKey).
		SetBody(request).
		SetResult(&result).
		Post(c.baseURL + "/responses")

	if err != nil {
		return "", 0, apperrors.NewInternal("Story generation request failed.", err)
	}
	if !resp.IsSuccess() {
		return "", resp.StatusCode(), apperrors.FromStatus(resp.StatusCode(), "Story generation failed.",
			fmt.Errorf("text service returned status %d: %s", resp.StatusCode(), resp.String()))
	}

	for _, out := range result.Output {
		if out.Type != "message" {
			continue
		}
		for _, content := range out.Content {
			if content.Type == "output_text" && content.Text != "" {
				return content.Text, 0, nil
			}
		}
	}
	return "", 0, apperrors.NewInternal("Story generation returned no text.", nil)
}

// callFallback uses chat completions with fixed sampling parameters.
func (c *OpenAIClient) callFallback(ctx context.Context, prompt string) (string, int, error) {
	request := map[string]interface{}{
		"model": fallbackModel,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
		"temperature": fallbackTemperature,
		"max_tokens":  fallbackMaxTokens,
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("Authorization", "Bearer "+c.apiKey).
		SetBody(request).
		SetResult(&result).
		Post(c.baseURL + "/chat/completions")

	if err != nil {
		return "", 0, apperrors.NewInternal("Story generation request failed.", err)
	}
	if !resp.IsSuccess() {
		return "", resp.StatusCode(), apperrors.FromStatus(resp.StatusCode(), "Story generation failed.",
			fmt.Errorf("text service returned status %d: %s", resp.StatusCode(), resp.String()))
	}
	if len(result.Choices) == 0 {
		return "", 0, apperrors.NewInternal("Story generation returned no text.", nil)
	}
	return result.Choices[0].Message.Content, 0, nil
}

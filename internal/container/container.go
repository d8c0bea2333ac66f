package container

import (
	"fmt"
	"net/http"

	"go-caption-gateway/internal/config"
	"go-caption-gateway/internal/logger"
	"go-caption-gateway/internal/service"
	"go-caption-gateway/internal/storage"
	"go-caption-gateway/internal/story"
	"go-caption-gateway/internal/transport"
	"go-caption-gateway/internal/vision"
)

// Container holds all application dependencies
type Container struct {
	config         *config.Config
	visionClient   vision.Client
	storyClient    story.Client
	uploadStore    storage.UploadStore
	captionService service.CaptionService
	handler        http.Handler
}

// NewContainer creates a new dependency injection container
func NewContainer() (*Container, error) {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if !cfg.HasVisionCredentials() {
		logger.Warn("Missing VISION_KEY or VISION_REGION/VISION_ENDPOINT; vision requests will fail")
	}

	// Build dependency graph
	visionClient := vision.NewAzureClient(cfg.VisionEndpoint, cfg.VisionKey, cfg.UpstreamTimeout)
	storyClient := story.NewOpenAIClient(cfg.OpenAIBaseURL, cfg.OpenAIKey, cfg.UpstreamTimeout)

	uploadStore, err := storage.NewDiskUploadStore(cfg.UploadDir)
	if err != nil {
		return nil, err
	}

	captionService := service.NewCaptionService(visionClient, storyClient)
	handler := transport.NewHandler(captionService, uploadStore, cfg)

	return &Container{
		config:         cfg,
		visionClient:   visionClient,
		storyClient:    storyClient,
		uploadStore:    uploadStore,
		captionService: captionService,
		handler:        handler,
	}, nil
}

// Handler returns the HTTP handler
func (c *Container) Handler() http.Handler {
	return c.handler
}

// Config returns the configuration
func (c *Container) Config() *config.Config {
	return c.config
}

// UploadStore returns the upload store
func (c *Container) UploadStore() storage.UploadStore {
	return c.uploadStore
}

package transport

import (
	"errors"
	"net/http"
	"time"

	"go-caption-gateway/internal/config"
	apperrors "go-caption-gateway/internal/errors"
	"go-caption-gateway/internal/logger"
	"go-caption-gateway/internal/service"
	"go-caption-gateway/internal/storage"
	"go-caption-gateway/pkg/models"
	"go-caption-gateway/pkg/validation"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const version = "1.0.0"

// MaxUploadSize is the ceiling for a single uploaded image.
const MaxUploadSize = 5 * 1024 * 1024

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

var uploadModes = map[string]bool{
	models.ModeBasicCaption: true,
	models.ModeStoryCaption: true,
	models.ModeModerateOnly: true,
}

var urlModes = map[string]bool{
	models.ModeURLAnalyze:  true,
	models.ModeURLModerate: true,
}

// NewHandler wires the HTTP surface: the caption routes under /api behind a
// per-IP rate limiter, a health endpoint, and a JSON 404 fallback.
func NewHandler(svc service.CaptionService, store storage.UploadStore, cfg *config.Config) http.Handler {
	r := gin.Default()

	r.Use(
		corsMiddleware(cfg),
		requestSizeLimiter(cfg.MaxRequestBodySize),
	)

	api := r.Group("/api", rateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow))
	api.GET("/status", statusHandler)
	api.POST("/generate-caption", generateCaption(svc, store))
	api.GET("/analyze-url", analyzeURL(svc, validation.NewURLValidator()))

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
	})

	return r
}

// generateCaption handles upload-mode requests. Validation happens before
// any byte leaves the process; the stored file is released on every exit
// path before the response is written.
func generateCaption(svc service.CaptionService, store storage.UploadStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		mode := c.DefaultPostForm("mode", models.ModeBasicCaption)
		if !uploadModes[mode] {
			respondError(c, apperrors.NewBadRequest("Invalid mode selected."))
			return
		}

		fileHeader, err := c.FormFile("image")
		if err != nil {
			var maxBytesErr *http.MaxBytesError
			if errors.As(err, &maxBytesErr) {
				respondError(c, apperrors.NewBadRequest("File size exceeds the 5MB limit."))
				return
			}
			respondError(c, apperrors.NewBadRequest("Image file is required."))
			return
		}
		if fileHeader.Size > MaxUploadSize {
			respondError(c, apperrors.NewBadRequest("File size exceeds the 5MB limit."))
			return
		}
		if contentType := fileHeader.Header.Get("Content-Type"); !allowedImageTypes[contentType] {
			respondError(c, apperrors.NewUnsupportedMediaType("Only JPEG, PNG, and WEBP image files are allowed."))
			return
		}

		path, err := store.Save(fileHeader)
		if err != nil {
			respondError(c, apperrors.NewInternal("Failed to store uploaded image.", err))
			return
		}

		// The upload must be gone before the response is written, on
		// success and failure alike; the deferred call covers panics.
		released := false
		release := func() {
			if released {
				return
			}
			released = true
			if err := store.Remove(path); err != nil {
				logger.WithError(err).WithField("file", path).Warn("Failed to release upload")
			}
		}
		defer release()

		response, err := svc.ProcessUpload(c.Request.Context(), path, mode)
		release()
		if err != nil {
			respondError(c, err)
			return
		}

		logger.WithFields(logrus.Fields{
			"mode":               mode,
			"size":               fileHeader.Size,
			"processing_time_ms": time.Since(start).Milliseconds(),
			"ip":                 c.ClientIP(),
		}).Info("Caption request completed")

		c.JSON(http.StatusOK, response)
	}
}

// analyzeURL handles URL-mode requests. The URL is validated syntactically
// before any outbound call; processing failures always surface as 422.
func analyzeURL(svc service.CaptionService, validator *validation.URLValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		imageURL := c.Query("img")
		mode := c.Query("mode")

		if !urlModes[mode] {
			respondError(c, apperrors.NewBadRequest("Invalid mode selected."))
			return
		}
		if err := validator.ValidateImageURL(imageURL); err != nil {
			respondError(c, err)
			return
		}

		response, err := svc.ProcessURL(c.Request.Context(), imageURL, mode)
		if err != nil {
			respondError(c, err)
			return
		}

		logger.WithFields(logrus.Fields{
			"mode": mode,
			"url":  imageURL,
			"ip":   c.ClientIP(),
		}).Info("URL request completed")

		c.JSON(http.StatusOK, response)
	}
}

func statusHandler(c *gin.Context) {
	c.JSON(http.StatusOK, models.StatusResponse{
		Status:    "ok",
		Version:   version,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// respondError is the terminal boundary: it logs the full failure and writes
// the classified status with a JSON error body, defaulting to 500.
func respondError(c *gin.Context, err error) {
	appErr := apperrors.From(err)

	logger.WithError(err).WithFields(logrus.Fields{
		"status_code": appErr.StatusCode,
		"path":        c.Request.URL.Path,
		"method":      c.Request.Method,
		"ip":          c.ClientIP(),
	}).Error("Request failed")

	body := gin.H{"error": appErr.Message}
	if appErr.Details != nil {
		body["details"] = appErr.Details
	}
	c.AbortWithStatusJSON(appErr.StatusCode, body)
}

package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Host               string
	Port               string
	VisionKey          string
	VisionEndpoint     string
	OpenAIKey          string
	OpenAIBaseURL      string
	UploadDir          string
	AllowedOrigins     []string
	RequestTimeout     time.Duration
	UpstreamTimeout    time.Duration
	MaxRequestBodySize int64
	RateLimitRequests  int
	RateLimitWindow    time.Duration
}

func (c *Config) ServerAddress() string {
	// Trim any whitespace from host and port
	host := strings.TrimSpace(c.Host)
	port := strings.TrimSpace(c.Port)
	return net.JoinHostPort(host, port)
}

// HasVisionCredentials reports whether the vision service can be reached.
// Missing credentials are a startup warning, not a hard failure.
func (c *Config) HasVisionCredentials() bool {
	return c.VisionKey != "" && c.VisionEndpoint != ""
}

func LoadFromEnv() (*Config, error) {
	// A .env file is optional; real environments set variables directly.
	_ = godotenv.Load()

	cfg := &Config{
		Host:               getEnvOrDefault("HOST", "0.0.0.0"),
		Port:               getEnvOrDefault("PORT", "5000"),
		VisionKey:          strings.TrimSpace(os.Getenv("VISION_KEY")),
		VisionEndpoint:     strings.TrimRight(strings.TrimSpace(os.Getenv("VISION_ENDPOINT")), "/"),
		OpenAIKey:          strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
		OpenAIBaseURL:      getEnvOrDefault("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		UploadDir:          getEnvOrDefault("UPLOAD_DIR", "uploads"),
		AllowedOrigins:     splitOrDefault("ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://localhost:5000"}),
		RequestTimeout:     parseDurationOrDefault("REQUEST_TIMEOUT", 30*time.Second),
		UpstreamTimeout:    parseDurationOrDefault("UPSTREAM_TIMEOUT", 20*time.Second),
		MaxRequestBodySize: parseIntOrDefault("MAX_REQUEST_BODY_SIZE", 6*1024*1024), // multipart overhead above the 5MB image cap
		RateLimitRequests:  int(parseIntOrDefault("RATE_LIMIT_REQUESTS", 25)),
		RateLimitWindow:    parseDurationOrDefault("RATE_LIMIT_WINDOW", 15*time.Minute),
	}

	// A bare region is enough to derive the multiservice endpoint
	if cfg.VisionEndpoint == "" {
		if region := strings.TrimSpace(os.Getenv("VISION_REGION")); region != "" {
			cfg.VisionEndpoint = fmt.Sprintf("https://%s.api.cognitive.microsoft.com", region)
		}
	}

	// Validate port is numeric and in range
	p, err := strconv.Atoi(strings.TrimSpace(cfg.Port))
	if err != nil || p < 1 || p > 65535 {
		return nil, fmt.Errorf("invalid PORT: %q", cfg.Port)
	}
	if cfg.MaxRequestBodySize <= 0 {
		return nil, fmt.Errorf("MAX_REQUEST_BODY_SIZE must be > 0 (got %d)", cfg.MaxRequestBodySize)
	}
	if cfg.RequestTimeout <= 0 || cfg.UpstreamTimeout <= 0 {
		return nil, fmt.Errorf("timeouts must be > 0 (got request=%s, upstream=%s)",
			cfg.RequestTimeout, cfg.UpstreamTimeout)
	}
	if cfg.RateLimitRequests <= 0 || cfg.RateLimitWindow <= 0 {
		return nil, fmt.Errorf("rate limit must be > 0 (got %d per %s)", cfg.RateLimitRequests, cfg.RateLimitWindow)
	}
	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	if len(origins) == 0 {
		return defaultValue
	}
	return origins
}

func parseDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(strings.TrimSpace(value)); err == nil && duration > 0 {
			return duration
		}
	}
	return defaultValue
}

func parseIntOrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

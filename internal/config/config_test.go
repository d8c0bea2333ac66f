package config

import (
	"testing"
	"time"
)

func TestLoadFromEnv_Defaults(t *testing.T) {
	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv failed: %v", err)
	}

	if cfg.Port != "5000" {
		t.Errorf("Port = %q, want 5000", cfg.Port)
	}
	if cfg.UploadDir != "uploads" {
		t.Errorf("UploadDir = %q, want uploads", cfg.UploadDir)
	}
	if cfg.OpenAIBaseURL != "https://api.openai.com/v1" {
		t.Errorf("OpenAIBaseURL = %q", cfg.OpenAIBaseURL)
	}
	if cfg.RateLimitRequests != 25 || cfg.RateLimitWindow != 15*time.Minute {
		t.Errorf("Rate limit = %d per %s, want 25 per 15m", cfg.RateLimitRequests, cfg.RateLimitWindow)
	}
	if cfg.HasVisionCredentials() {
		t.Error("Expected no vision credentials by default")
	}
}

func TestLoadFromEnv_EndpointFromRegion(t *testing.T) {
	t.Setenv("VISION_KEY", "abc123")
	t.Setenv("VISION_REGION", "westeurope")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv failed: %v", err)
	}

	want := "https://westeurope.api.cognitive.microsoft.com"
	if cfg.VisionEndpoint != want {
		t.Errorf("VisionEndpoint = %q, want %q", cfg.VisionEndpoint, want)
	}
	if !cfg.HasVisionCredentials() {
		t.Error("Expected vision credentials with key and region set")
	}
}

func TestLoadFromEnv_ExplicitEndpointWins(t *testing.T) {
	t.Setenv("VISION_ENDPOINT", "https://custom.example.com/")
	t.Setenv("VISION_REGION", "westeurope")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv failed: %v", err)
	}
	if cfg.VisionEndpoint != "https://custom.example.com" {
		t.Errorf("VisionEndpoint = %q, want trailing slash trimmed explicit endpoint", cfg.VisionEndpoint)
	}
}

func TestLoadFromEnv_InvalidPort(t *testing.T) {
	for _, port := range []string{"abc", "0", "70000", "-1"} {
		t.Setenv("PORT", port)
		if _, err := LoadFromEnv(); err == nil {
			t.Errorf("Expected error for PORT=%q", port)
		}
	}
}

func TestLoadFromEnv_AllowedOrigins(t *testing.T) {
	t.Setenv("ALLOWED_ORIGINS", "https://example.com, https://app.example.com")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv failed: %v", err)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[0] != "https://example.com" || cfg.AllowedOrigins[1] != "https://app.example.com" {
		t.Errorf("AllowedOrigins = %v", cfg.AllowedOrigins)
	}
}

func TestServerAddress(t *testing.T) {
	cfg := &Config{Host: " 0.0.0.0 ", Port: " 5000 "}
	if got := cfg.ServerAddress(); got != "0.0.0.0:5000" {
		t.Errorf("ServerAddress = %q, want 0.0.0.0:5000", got)
	}
}

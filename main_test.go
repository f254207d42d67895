package main

import (
	"os"
	"testing"
	"time"

	"github.com/caarlos0/env/v9"
)

func TestConfigDefaults(t *testing.T) {
	t.Setenv("OPEN_AI_TOKEN", "test-token")

	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("parsing env config: %v", err)
	}

	if cfg.OpenAIModel != "gpt-3.5-turbo" {
		t.Errorf("OpenAIModel = %q", cfg.OpenAIModel)
	}
	if cfg.Port != "8000" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if cfg.MaxTotalTokens != 4096 || cfg.MaxResponseTokens != 500 {
		t.Errorf("token budget = %d/%d", cfg.MaxTotalTokens, cfg.MaxResponseTokens)
	}
	if cfg.RetryMaxAttempts != 3 || cfg.RetryBaseDelay != time.Second || cfg.RetryMaxDelay != 10*time.Second {
		t.Errorf("retry policy = %d/%s/%s", cfg.RetryMaxAttempts, cfg.RetryBaseDelay, cfg.RetryMaxDelay)
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "*" {
		t.Errorf("AllowedOrigins = %v", cfg.AllowedOrigins)
	}
}

func TestConfigRequiresToken(t *testing.T) {
	t.Setenv("OPEN_AI_TOKEN", "placeholder")
	os.Unsetenv("OPEN_AI_TOKEN")

	cfg := Config{}
	if err := env.Parse(&cfg); err == nil {
		t.Error("expected error for missing OPEN_AI_TOKEN")
	}
}

func TestConfigOverrides(t *testing.T) {
	t.Setenv("OPEN_AI_TOKEN", "test-token")
	t.Setenv("ALLOWED_ORIGINS", "http://localhost:8501 https://app.example.com")
	t.Setenv("MAX_TOTAL_TOKENS", "8192")

	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("parsing env config: %v", err)
	}

	if len(cfg.AllowedOrigins) != 2 {
		t.Errorf("AllowedOrigins = %v", cfg.AllowedOrigins)
	}
	if cfg.MaxTotalTokens != 8192 {
		t.Errorf("MaxTotalTokens = %d", cfg.MaxTotalTokens)
	}
}

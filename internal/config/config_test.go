package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"APP_ENV", "API_BASE_URL", "HTTP_TIMEOUT_SECONDS", "CACHE_TTL_SECONDS", "RATE_LIMIT_RPS"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.Env != "local" {
		t.Fatalf("env = %q, want local", cfg.Env)
	}
	if cfg.APIBaseURL != "http://localhost:8000/api" {
		t.Fatalf("api base = %q", cfg.APIBaseURL)
	}
	if cfg.HTTPTimeout != 30*time.Second {
		t.Fatalf("timeout = %s", cfg.HTTPTimeout)
	}
	if cfg.CacheTTL != 5*time.Minute {
		t.Fatalf("cache ttl = %s", cfg.CacheTTL)
	}
	if cfg.RateLimitRPS != 0 {
		t.Fatalf("rate limit = %d, want disabled", cfg.RateLimitRPS)
	}
	if !cfg.ChatKeepSession {
		t.Fatal("chat session keeping should default on")
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("APP_ENV", "staging")
	t.Setenv("API_BASE_URL", "https://api.example.com/api/")
	t.Setenv("HTTP_TIMEOUT_SECONDS", "10")
	t.Setenv("CACHE_TTL_SECONDS", "60")
	t.Setenv("RATE_LIMIT_RPS", "5")
	t.Setenv("TOKEN_PATH", "/tmp/nutritrack-token")

	cfg := Load()

	if cfg.Env != "staging" {
		t.Fatalf("env = %q", cfg.Env)
	}
	if cfg.APIBaseURL != "https://api.example.com/api" {
		t.Fatalf("trailing slash not trimmed: %q", cfg.APIBaseURL)
	}
	if cfg.HTTPTimeout != 10*time.Second {
		t.Fatalf("timeout = %s", cfg.HTTPTimeout)
	}
	if cfg.CacheTTL != time.Minute {
		t.Fatalf("cache ttl = %s", cfg.CacheTTL)
	}
	if cfg.RateLimitRPS != 5 {
		t.Fatalf("rate limit = %d", cfg.RateLimitRPS)
	}
	if cfg.TokenPath != "/tmp/nutritrack-token" {
		t.Fatalf("token path = %q", cfg.TokenPath)
	}
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	t.Setenv("HTTP_TIMEOUT_SECONDS", "-5")
	t.Setenv("CACHE_TTL_SECONDS", "-1")
	t.Setenv("RATE_LIMIT_RPS", "abc")

	cfg := Load()

	if cfg.HTTPTimeout != 30*time.Second {
		t.Fatalf("timeout = %s, want 30s fallback", cfg.HTTPTimeout)
	}
	if cfg.CacheTTL != 5*time.Minute {
		t.Fatalf("cache ttl = %s, want 5m fallback", cfg.CacheTTL)
	}
	if cfg.RateLimitRPS != 0 {
		t.Fatalf("rate limit = %d, want 0 fallback", cfg.RateLimitRPS)
	}
}

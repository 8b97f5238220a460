package config

import (
	"testing"
	"time"
)

func TestLoadConfigRequiresAPIBaseURL(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("API_BASE_URL", "")

	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error for missing API_BASE_URL")
	}
}

func TestLoadConfigParsesDurationsAndPrefixes(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("API_BASE_URL", "https://api.example.com/")
	t.Setenv("API_TIMEOUT", "5s")
	t.Setenv("ESEWA_REDIRECT_DELAY", "not-a-duration")
	t.Setenv("ALLOWED_REDIRECT_PREFIXES", "theralink://, https://app.example.com/ ,")
	t.Setenv("APP_ENV", "dev")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.APIBaseURL != "https://api.example.com" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.APIBaseURL)
	}
	if cfg.APITimeout != 5*time.Second {
		t.Fatalf("expected 5s timeout, got %s", cfg.APITimeout)
	}
	if cfg.EsewaRedirectDelay != 3*time.Second {
		t.Fatalf("expected default redirect delay, got %s", cfg.EsewaRedirectDelay)
	}
	if len(cfg.AllowedRedirectPrefixes) != 2 || cfg.AllowedRedirectPrefixes[0] != "theralink://" {
		t.Fatalf("unexpected prefixes: %v", cfg.AllowedRedirectPrefixes)
	}
	if !cfg.IsDevelopment() {
		t.Fatalf("expected development env, got %q", cfg.AppEnv)
	}
}

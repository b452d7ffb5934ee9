package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("GITHUB_USERNAME", "")
	t.Setenv("FEED_PROXIES", "")
	t.Setenv("FETCH_TIMEOUT", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTPAddr != ":8080" || cfg.GitHub.Username != "EleftheriaBatsou" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Fetch.Timeout != 10*time.Second || cfg.ExtractRateLimit != 30 {
		t.Fatalf("unexpected fetch defaults: %+v", cfg.Fetch)
	}
	if len(cfg.YouTube.Proxies) != 2 {
		t.Fatalf("expected default relays, got %v", cfg.YouTube.Proxies)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("FEED_PROXIES", " https://a.example/?u={url} ,, https://b.example/{url_escaped}")
	t.Setenv("FETCH_TIMEOUT", "250ms")
	t.Setenv("FETCH_RATE_RPS", "not-a-number")
	t.Setenv("LOG_FORMAT", "JSON")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := strings.Join(cfg.YouTube.Proxies, "|"); got != "https://a.example/?u={url}|https://b.example/{url_escaped}" {
		t.Fatalf("unexpected proxies %q", got)
	}
	if cfg.Fetch.Timeout != 250*time.Millisecond {
		t.Fatalf("unexpected timeout %s", cfg.Fetch.Timeout)
	}
	if cfg.Fetch.RateRPS != 4 {
		t.Fatalf("bad numbers fall back to the default, got %v", cfg.Fetch.RateRPS)
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("expected lowered format, got %q", cfg.Logging.Format)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	t.Chdir(t.TempDir())
	cases := map[string]string{
		"GITHUB_API_URL":     "not a url",
		"EXTRACT_RATE_LIMIT": "0",
		"LOG_LEVEL":          "loud",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%q", key, value)
			}
		})
	}
}

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Env      string `validate:"required"`
	HTTPAddr string `validate:"required"`
	GitHub   GitHubConfig
	DevTo    DevToConfig
	Hashnode HashnodeConfig
	YouTube  YouTubeConfig
	Fetch    FetchConfig
	// ExtractRateLimit is the number of POST /api/extract calls allowed per
	// client per minute.
	ExtractRateLimit int `validate:"gte=1"`
	Logging          LoggingConfig
}

type GitHubConfig struct {
	Username  string `validate:"required"`
	Token     string
	APIURL    string `validate:"omitempty,url"`
	ReadmeURL string `validate:"omitempty,url"`
}

type DevToConfig struct {
	Username string
	APIURL   string `validate:"omitempty,url"`
}

type HashnodeConfig struct {
	RSSURL string `validate:"omitempty,url"`
}

type YouTubeConfig struct {
	ChannelID string
	FeedURL   string `validate:"omitempty,url"`
	// Proxies are relay URL templates; see sources.ProxiesFromTemplates.
	Proxies []string
}

type FetchConfig struct {
	Timeout   time.Duration `validate:"gte=0"`
	RateRPS   float64       `validate:"gte=0"`
	RateBurst int           `validate:"gte=0"`
}

type LoggingConfig struct {
	Level  string `validate:"omitempty,oneof=debug info warn warning error"`
	Format string `validate:"omitempty,oneof=text json"`
	File   string
}

// Load reads the environment. A .env file in the working directory is
// applied first when present; real environment values win.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{
		Env:      getenv("APP_ENV", "dev"),
		HTTPAddr: getenv("HTTP_ADDR", ":8080"),
		GitHub: GitHubConfig{
			Username:  getenv("GITHUB_USERNAME", "EleftheriaBatsou"),
			Token:     os.Getenv("GITHUB_TOKEN"),
			APIURL:    os.Getenv("GITHUB_API_URL"),
			ReadmeURL: os.Getenv("README_URL"),
		},
		DevTo: DevToConfig{
			Username: getenv("DEVTO_USERNAME", "eleftheriabatsou"),
			APIURL:   os.Getenv("DEVTO_API_URL"),
		},
		Hashnode: HashnodeConfig{
			RSSURL: getenv("HASHNODE_RSS_URL", "https://eleftheriabatsou.hashnode.dev/rss.xml"),
		},
		YouTube: YouTubeConfig{
			ChannelID: os.Getenv("YOUTUBE_CHANNEL_ID"),
			FeedURL:   os.Getenv("YOUTUBE_FEED_URL"),
			Proxies:   parseList(getenv("FEED_PROXIES", "https://api.allorigins.win/raw?url={url_escaped},https://corsproxy.io/?{url_escaped}")),
		},
		Fetch: FetchConfig{
			Timeout:   getenvDuration("FETCH_TIMEOUT", 10*time.Second),
			RateRPS:   getenvFloat("FETCH_RATE_RPS", 4),
			RateBurst: getenvInt("FETCH_RATE_BURST", 4),
		},
		ExtractRateLimit: getenvInt("EXTRACT_RATE_LIMIT", 30),
		Logging: LoggingConfig{
			Level:  strings.ToLower(getenv("LOG_LEVEL", "info")),
			Format: strings.ToLower(getenv("LOG_FORMAT", "text")),
			File:   os.Getenv("LOG_FILE"),
		},
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	parsed, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return def
	}
	return parsed
}

func getenvFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return def
	}
	return parsed
}

func getenvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	parsed, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil {
		return def
	}
	return parsed
}

func parseList(val string) []string {
	out := make([]string, 0)
	for _, part := range strings.Split(val, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}

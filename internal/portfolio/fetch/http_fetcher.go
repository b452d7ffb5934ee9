package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"time"
)

const defaultUserAgent = "Mozilla/5.0 (compatible; PortfolioContent/1.0; +https://github.com/EleftheriaBatsou)"

const maxBodyBytes = 5 << 20

// HTTPFetcher issues one GET per call. It never retries; callers fall back
// to other sources instead.
type HTTPFetcher struct {
	client  *http.Client
	budgets *SourceBudgets
	logger  *slog.Logger
}

// HTTPFetcherConfig configures HTTPFetcher. A zero Timeout leaves requests
// bounded only by the caller's context.
type HTTPFetcherConfig struct {
	Timeout      time.Duration
	RateLimitRPS float64
	RateBurst    int
	// BudgetAliases maps hosts to a shared budget name. Nil uses
	// DefaultBudgetAliases.
	BudgetAliases map[string]string
	Transport     http.RoundTripper
}

// NewHTTPFetcher creates a fetcher with default settings.
func NewHTTPFetcher(logger *slog.Logger) *HTTPFetcher {
	return NewHTTPFetcherWithConfig(logger, HTTPFetcherConfig{})
}

// NewHTTPFetcherWithConfig creates a fetcher from cfg.
func NewHTTPFetcherWithConfig(logger *slog.Logger, cfg HTTPFetcherConfig) *HTTPFetcher {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Timeout < 0 {
		cfg.Timeout = 0
	}
	if cfg.RateLimitRPS <= 0 {
		cfg.RateLimitRPS = 4
	}
	if cfg.RateBurst <= 0 {
		cfg.RateBurst = 4
	}
	if cfg.BudgetAliases == nil {
		cfg.BudgetAliases = DefaultBudgetAliases()
	}
	transport := cfg.Transport
	if transport == nil {
		transport = &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			DialContext:           (&net.Dialer{Timeout: 5 * time.Second, KeepAlive: 30 * time.Second}).DialContext,
			MaxIdleConns:          32,
			MaxIdleConnsPerHost:   4,
			IdleConnTimeout:       60 * time.Second,
			TLSHandshakeTimeout:   5 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
		}
	}
	return &HTTPFetcher{
		client: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
		},
		budgets: NewSourceBudgets(cfg.RateLimitRPS, cfg.RateBurst, cfg.BudgetAliases),
		logger:  logger,
	}
}

// Client exposes the underlying HTTP client so API SDKs share the transport.
func (f *HTTPFetcher) Client() *http.Client {
	if f == nil {
		return http.DefaultClient
	}
	return f.client
}

// Get returns the body and status of rawURL.
func (f *HTTPFetcher) Get(ctx context.Context, rawURL string, headers map[string]string) ([]byte, int, error) {
	if f == nil {
		return nil, 0, errors.New("fetcher is nil")
	}
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, 0, fmt.Errorf("invalid url: %w", err)
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return nil, 0, fmt.Errorf("invalid url scheme %q", parsedURL.Scheme)
	}
	host := parsedURL.Hostname()
	budget := f.budgets.Key(host)
	if err := f.budgets.Wait(ctx, host); err != nil {
		return nil, 0, fmt.Errorf("rate budget %s: %w", budget, err)
	}

	start := time.Now()
	body, status, err := f.doRequest(ctx, rawURL, headers)
	if err != nil {
		f.logger.Warn("fetch_error", "host", host, "budget", budget, "error", err, "duration_ms", time.Since(start).Milliseconds())
		return nil, status, err
	}
	f.logger.Debug("fetch", "host", host, "budget", budget, "status", status, "bytes", len(body), "duration_ms", time.Since(start).Milliseconds())
	return body, status, nil
}

func (f *HTTPFetcher) doRequest(ctx context.Context, rawURL string, headers map[string]string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("User-Agent", defaultUserAgent)
	req.Header.Set("Accept", "application/json,application/atom+xml,application/rss+xml,text/plain;q=0.9,*/*;q=0.8")
	for k, v := range headers {
		if k == "" || v == "" {
			continue
		}
		req.Header.Set(k, v)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return body, resp.StatusCode, nil
}

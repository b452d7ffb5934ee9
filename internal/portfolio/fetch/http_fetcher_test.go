package fetch

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestHTTPFetcherGetsBodyAndStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") == "" {
			t.Errorf("expected user agent")
		}
		if r.Header.Get("X-Test") != "1" {
			t.Errorf("expected custom header")
		}
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte("hello"))
	}))
	defer srv.Close()

	f := NewHTTPFetcher(testLogger())
	body, status, err := f.Get(context.Background(), srv.URL, map[string]string{"X-Test": "1", "": "skip"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != http.StatusAccepted || string(body) != "hello" {
		t.Fatalf("unexpected response: %d %q", status, body)
	}
}

func TestHTTPFetcherDoesNotRetry(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	f := NewHTTPFetcher(testLogger())
	_, status, err := f.Get(context.Background(), srv.URL, nil)
	if err != nil {
		t.Fatalf("status errors are reported through the status code, got %v", err)
	}
	if status != http.StatusServiceUnavailable {
		t.Fatalf("unexpected status %d", status)
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("expected exactly one request, got %d", got)
	}
}

func TestHTTPFetcherRejectsBadURLs(t *testing.T) {
	f := NewHTTPFetcher(testLogger())
	for _, raw := range []string{"::nope", "file:///etc/passwd", "ftp://example.com/x"} {
		if _, _, err := f.Get(context.Background(), raw, nil); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}

func TestSourceBudgetKeys(t *testing.T) {
	b := NewSourceBudgets(100, 1, DefaultBudgetAliases())
	tests := []struct {
		host string
		want string
	}{
		{host: "api.github.com", want: "github"},
		{host: "RAW.githubusercontent.com", want: "github"},
		{host: "blog.example.com", want: "example.com"},
		{host: "relay.example.co.uk", want: "example.co.uk"},
		{host: "127.0.0.1", want: "127.0.0.1"},
		{host: "localhost", want: "localhost"},
		{host: "", want: ""},
	}
	for _, tt := range tests {
		if got := b.Key(tt.host); got != tt.want {
			t.Fatalf("Key(%q) = %q, want %q", tt.host, got, tt.want)
		}
	}
}

func TestSourceBudgetsShareGitHubQuota(t *testing.T) {
	b := NewSourceBudgets(0.001, 1, DefaultBudgetAliases())
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := b.Wait(ctx, "api.github.com"); err != nil {
		t.Fatalf("first token should be free: %v", err)
	}
	if err := b.Wait(ctx, "raw.githubusercontent.com"); err == nil {
		t.Fatalf("raw content should draw from the exhausted github budget")
	}
	if err := b.Wait(ctx, "dev.to"); err != nil {
		t.Fatalf("other sources keep their own budget: %v", err)
	}
	if got := strings.Join(b.Keys(), ","); got != "devto,github" {
		t.Fatalf("unexpected budgets %s", got)
	}
}

func TestSourceBudgetsHonourContext(t *testing.T) {
	b := NewSourceBudgets(0.001, 1, nil)
	ctx, cancel := context.WithCancel(context.Background())
	if err := b.Wait(ctx, "slow.example"); err != nil {
		t.Fatalf("first token should be free: %v", err)
	}
	cancel()
	if err := b.Wait(ctx, "slow.example"); err == nil {
		t.Fatalf("expected context error")
	}
	if err := b.Wait(ctx, ""); err != nil {
		t.Fatalf("empty host should not wait: %v", err)
	}
}

package fetch

import (
	"context"
	"net"
	"sort"
	"strings"
	"sync"

	"golang.org/x/net/publicsuffix"
	"golang.org/x/time/rate"
)

// DefaultBudgetAliases groups the hosts of one upstream under a single
// budget. The GitHub API and raw content are both GitHub quota.
func DefaultBudgetAliases() map[string]string {
	return map[string]string{
		"api.github.com":            "github",
		"raw.githubusercontent.com": "github",
		"github.com":                "github",
		"www.youtube.com":           "youtube",
		"youtube.com":               "youtube",
		"dev.to":                    "devto",
	}
}

// SourceBudgets keeps one token bucket per upstream source. Hosts without an
// alias are grouped by registrable domain.
type SourceBudgets struct {
	mu      sync.Mutex
	buckets map[string]*rate.Limiter
	aliases map[string]string
	limit   rate.Limit
	burst   int
}

func NewSourceBudgets(rps float64, burst int, aliases map[string]string) *SourceBudgets {
	if rps <= 0 {
		rps = 1
	}
	if burst <= 0 {
		burst = 1
	}
	normalized := make(map[string]string, len(aliases))
	for host, key := range aliases {
		normalized[strings.ToLower(host)] = key
	}
	return &SourceBudgets{
		buckets: make(map[string]*rate.Limiter),
		aliases: normalized,
		limit:   rate.Limit(rps),
		burst:   burst,
	}
}

// Key names the budget host draws from.
func (b *SourceBudgets) Key(host string) string {
	host = strings.ToLower(strings.TrimSuffix(host, "."))
	if host == "" {
		return ""
	}
	if key, ok := b.aliases[host]; ok {
		return key
	}
	if net.ParseIP(host) != nil {
		return host
	}
	if domain, err := publicsuffix.EffectiveTLDPlusOne(host); err == nil {
		return domain
	}
	return host
}

// Wait blocks until the budget for host has a token or ctx is done.
func (b *SourceBudgets) Wait(ctx context.Context, host string) error {
	if b == nil {
		return nil
	}
	key := b.Key(host)
	if key == "" {
		return nil
	}
	return b.bucket(key).Wait(ctx)
}

// Keys lists the budgets in use, sorted.
func (b *SourceBudgets) Keys() []string {
	if b == nil {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	keys := make([]string, 0, len(b.buckets))
	for k := range b.buckets {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (b *SourceBudgets) bucket(key string) *rate.Limiter {
	b.mu.Lock()
	defer b.mu.Unlock()
	l, ok := b.buckets[key]
	if !ok {
		l = rate.NewLimiter(b.limit, b.burst)
		b.buckets[key] = l
	}
	return l
}

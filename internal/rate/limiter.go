package rate

import (
	"sync"
	"time"
)

// WindowLimiter allows limit calls per key in each fixed window.
type WindowLimiter struct {
	mu              sync.Mutex
	limit           int
	window          time.Duration
	items           map[string]*windowEntry
	lastCleanup     time.Time
	cleanupInterval time.Duration
	now             func() time.Time
}

type windowEntry struct {
	start time.Time
	count int
}

// NewWindowLimiter creates a limiter. A limit below one blocks nothing.
func NewWindowLimiter(limit int, window time.Duration) *WindowLimiter {
	return &WindowLimiter{
		limit:           limit,
		window:          window,
		items:           make(map[string]*windowEntry),
		lastCleanup:     time.Now(),
		cleanupInterval: window,
		now:             time.Now,
	}
}

// Allow reports whether key may proceed.
func (l *WindowLimiter) Allow(key string) bool {
	ok, _ := l.Reserve(key)
	return ok
}

// Reserve counts one call for key. When the call is refused it also reports
// how long until the window resets.
func (l *WindowLimiter) Reserve(key string) (bool, time.Duration) {
	if l == nil || l.limit <= 0 {
		return true, 0
	}
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()

	l.maybeCleanup(now)

	entry, ok := l.items[key]
	if !ok {
		l.items[key] = &windowEntry{start: now, count: 1}
		return true, 0
	}

	if now.Sub(entry.start) >= l.window {
		entry.start = now
		entry.count = 1
		return true, 0
	}

	if entry.count >= l.limit {
		return false, l.window - now.Sub(entry.start)
	}

	entry.count++
	return true, 0
}

// Len reports how many keys are tracked.
func (l *WindowLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.items)
}

func (l *WindowLimiter) maybeCleanup(now time.Time) {
	if l.cleanupInterval <= 0 || l.window <= 0 {
		return
	}
	if !l.lastCleanup.IsZero() && now.Sub(l.lastCleanup) < l.cleanupInterval {
		return
	}
	for key, entry := range l.items {
		if now.Sub(entry.start) >= l.window {
			delete(l.items, key)
		}
	}
	l.lastCleanup = now
}

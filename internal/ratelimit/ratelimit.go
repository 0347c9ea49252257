// Package ratelimit provides a per-key sliding-window rate limiter for
// inbound API requests.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

const (
	// DefaultLimit is the number of requests allowed per key per window.
	DefaultLimit = 10
	// DefaultWindow is the sliding window length.
	DefaultWindow = 60 * time.Second
)

// Limiter counts recent requests per key over a sliding window. Keys are
// caller-defined, typically a client IP. Safe for concurrent use.
type Limiter struct {
	mu     sync.Mutex
	limit  int
	window time.Duration
	hits   map[string][]time.Time

	now func() time.Time // injectable for tests
}

// New creates a Limiter. Non-positive limit or window fall back to the
// defaults.
func New(limit int, window time.Duration) *Limiter {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &Limiter{
		limit:  limit,
		window: window,
		hits:   make(map[string][]time.Time),
		now:    time.Now,
	}
}

// Allow records a request for key and reports whether it is within the
// limit. When denied, the returned duration is how long the caller must
// wait before the oldest counted request leaves the window. Denied
// requests are not recorded, so probing while limited does not extend the
// penalty.
func (l *Limiter) Allow(key string) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)

	kept := l.hits[key][:0]
	for _, t := range l.hits[key] {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}

	if len(kept) >= l.limit {
		l.hits[key] = kept
		return false, kept[0].Sub(cutoff)
	}

	l.hits[key] = append(kept, now)
	return true, 0
}

// Prune drops keys with no requests inside the window. Call periodically
// from long-lived servers to bound memory.
func (l *Limiter) Prune() {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-l.window)
	for key, times := range l.hits {
		live := false
		for _, t := range times {
			if t.After(cutoff) {
				live = true
				break
			}
		}
		if !live {
			delete(l.hits, key)
		}
	}
}

// PruneLoop calls Prune every interval until ctx is done. Run it in a
// goroutine alongside a server. A non-positive interval falls back to
// the window length.
func (l *Limiter) PruneLoop(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = l.window
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.Prune()
		}
	}
}

package cache

import (
	"crypto/sha256"
	"fmt"
	"strings"
	"sync"
	"time"
)

type entry struct {
	value     string
	createdAt time.Time
}

// TTL is a small in-memory cache with per-entry expiry. Entries expire
// lazily on read. Safe for concurrent use.
type TTL struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]entry
	now     func() time.Time
}

// New creates a TTL cache. A non-positive ttl disables expiry.
func New(ttl time.Duration) *TTL {
	return &TTL{
		ttl:     ttl,
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Get retrieves a cached value by key. Returns ("", false) on miss or
// expired entry.
func (c *TTL) Get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return "", false
	}
	if c.ttl > 0 && c.now().Sub(e.createdAt) > c.ttl {
		delete(c.entries, key)
		return "", false
	}
	return e.value, true
}

// Put stores a value.
func (c *TTL) Put(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{value: value, createdAt: c.now()}
}

// Key builds a stable cache key from its parts.
func Key(parts ...string) string {
	h := sha256.Sum256([]byte(strings.Join(parts, "\x00")))
	return fmt.Sprintf("%x", h[:16])
}

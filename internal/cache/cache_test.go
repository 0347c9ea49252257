package cache

import (
	"testing"
	"time"
)

func TestGetPut(t *testing.T) {
	c := New(time.Minute)
	if _, ok := c.Get("missing"); ok {
		t.Error("Get on empty cache returned ok")
	}
	c.Put("k", "v")
	got, ok := c.Get("k")
	if !ok || got != "v" {
		t.Errorf("Get = (%q, %v), want (v, true)", got, ok)
	}
}

func TestExpiry(t *testing.T) {
	c := New(time.Minute)
	base := time.Now()
	c.now = func() time.Time { return base }
	c.Put("k", "v")

	c.now = func() time.Time { return base.Add(59 * time.Second) }
	if _, ok := c.Get("k"); !ok {
		t.Error("entry expired early")
	}

	c.now = func() time.Time { return base.Add(61 * time.Second) }
	if _, ok := c.Get("k"); ok {
		t.Error("entry survived past TTL")
	}
}

func TestZeroTTLNeverExpires(t *testing.T) {
	c := New(0)
	base := time.Now()
	c.now = func() time.Time { return base }
	c.Put("k", "v")
	c.now = func() time.Time { return base.Add(24 * time.Hour) }
	if _, ok := c.Get("k"); !ok {
		t.Error("entry expired with ttl disabled")
	}
}

func TestKeyStable(t *testing.T) {
	a := Key("owner", "repo", "main")
	b := Key("owner", "repo", "main")
	if a != b {
		t.Errorf("Key not stable: %q vs %q", a, b)
	}
	if a == Key("owner", "repo", "dev") {
		t.Error("distinct inputs collided")
	}
	// Joining must not be ambiguous across part boundaries.
	if Key("ab", "c") == Key("a", "bc") {
		t.Error("part boundaries ambiguous")
	}
}

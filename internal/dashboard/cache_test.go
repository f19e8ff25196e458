package dashboard

import (
	"testing"
	"time"
)

func TestCache_SetAndGet(t *testing.T) {
	c := NewCache[string](time.Second)
	c.Set("key1", "value1")

	val, ok := c.Get("key1")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if val != "value1" {
		t.Errorf("expected value1, got %s", val)
	}
}

func TestCache_Expiry(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewCache[string](time.Minute)
	c.now = func() time.Time { return now }

	c.Set("key1", "value1")
	now = now.Add(2 * time.Minute)

	if _, ok := c.Get("key1"); ok {
		t.Fatal("expected cache miss after TTL")
	}
	if c.Len() != 1 {
		t.Errorf("expired entry should stay until purged, len=%d", c.Len())
	}
	if removed := c.Purge(); removed != 1 {
		t.Errorf("expected 1 purged entry, got %d", removed)
	}
	if c.Len() != 0 {
		t.Errorf("expected empty cache after purge, len=%d", c.Len())
	}
}

func TestCache_ZeroTTLNeverHits(t *testing.T) {
	c := NewCache[int](0)
	c.Set("k", 1)

	if _, ok := c.Get("k"); ok {
		t.Fatal("zero TTL must not serve entries")
	}
}

package desk

import (
	"sync"
	"time"
)

// Cache keys, one per list endpoint.
const (
	KeyClients       = "clients"
	KeyItems         = "items"
	KeyUnits         = "units"
	KeyCategories    = "categories"
	KeyTariffs       = "tariffs"
	KeyRangedTariffs = "ranged_tariffs"
)

// Cache keeps fetched lists for a fixed window. Entries are never evicted one
// by one; Clear drops everything.
type Cache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]cacheEntry
}

type cacheEntry struct {
	value    any
	storedAt time.Time
}

// CacheOption configures optional cache behavior.
type CacheOption func(*Cache)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) CacheOption {
	return func(c *Cache) {
		if now != nil {
			c.now = now
		}
	}
}

// NewCache builds a cache whose entries stay fresh for ttl. A non-positive ttl
// disables caching.
func NewCache(ttl time.Duration, opts ...CacheOption) *Cache {
	c := &Cache{
		ttl:     ttl,
		now:     time.Now,
		entries: map[string]cacheEntry{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

func (c *Cache) TTL() time.Duration { return c.ttl }

// Get returns the value stored under key while it is younger than the TTL.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[key]
	if !ok || c.ttl <= 0 {
		return nil, false
	}
	if c.now().Sub(entry.storedAt) >= c.ttl {
		return nil, false
	}
	return entry.value, true
}

func (c *Cache) Set(key string, value any) {
	c.mu.Lock()
	c.entries[key] = cacheEntry{value: value, storedAt: c.now()}
	c.mu.Unlock()
}

func (c *Cache) Clear() {
	c.mu.Lock()
	c.entries = map[string]cacheEntry{}
	c.mu.Unlock()
}

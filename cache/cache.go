package cache //import "github.com/hondana-dev/hondana/cache"

import (
	"strings"
	"sync"
	"time"
)

type entry struct {
	value     any
	fetchedAt time.Time
}

// Cache is a keyed store of query results with a freshness window. It is an
// explicit injectable object, created once per app session; it has no write
// authority of its own — the database stays the single source of truth and
// every mutation invalidates the views it touches.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration

	// test seam
	now func() time.Time
}

// New creates a cache whose entries stay fresh for ttl. A zero ttl disables
// expiry.
func New(ttl time.Duration) *Cache {
	return &Cache{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the cached value for key if present and fresh.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.ttl > 0 && c.now().Sub(e.fetchedAt) > c.ttl {
		return nil, false
	}
	return e.value, true
}

func (c *Cache) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{value: value, fetchedAt: c.now()}
}

// Invalidate drops the given keys so the next read recomputes from the store.
func (c *Cache) Invalidate(keys ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		delete(c.entries, key)
	}
}

// InvalidatePrefix drops every key sharing the prefix.
func (c *Cache) InvalidatePrefix(prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
}

// Snapshot captures the exact state of the given keys, including absence
// and fetch times, so a rollback restores them verbatim.
func (c *Cache) Snapshot(keys ...string) map[string]*entry {
	c.mu.RLock()
	defer c.mu.RUnlock()

	snap := make(map[string]*entry, len(keys))
	for _, key := range keys {
		if e, ok := c.entries[key]; ok {
			copied := e
			snap[key] = &copied
		} else {
			snap[key] = nil
		}
	}
	return snap
}

// Restore puts every snapshotted key back exactly as captured. A nil
// snapshot value means the key was absent and is removed again.
func (c *Cache) Restore(snap map[string]*entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, e := range snap {
		if e == nil {
			delete(c.entries, key)
		} else {
			c.entries[key] = *e
		}
	}
}

// Len reports the number of entries regardless of freshness.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

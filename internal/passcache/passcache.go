// Package passcache keeps generated client credentials available for
// administrative display. Entries are memory-resident with a 30 day TTL and
// are lost on process restart; the cache is a convenience, not a system of
// record.
package passcache

import (
	"sync"
	"time"
)

// DefaultTTL is how long a cached credential stays retrievable.
const DefaultTTL = 30 * 24 * time.Hour

// Entry is one cached credential.
type Entry struct {
	Password string
	Email    string
	StoredAt time.Time
}

// Cache is a keyed credential store with TTL eviction. The zero value is not
// usable; construct with New.
type Cache struct {
	mu    sync.RWMutex
	items map[string]Entry
	ttl   time.Duration
	now   func() time.Time
}

// Option configures a Cache.
type Option func(*Cache)

// WithTTL overrides the default entry lifetime.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) { c.ttl = ttl }
}

// WithClock injects the time source, used by tests to advance expiry.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// New creates an empty cache.
func New(opts ...Option) *Cache {
	c := &Cache{
		items: make(map[string]Entry),
		ttl:   DefaultTTL,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Put stores the credential for a client id, replacing any previous entry.
func (c *Cache) Put(clientID, password, email string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[clientID] = Entry{
		Password: password,
		Email:    email,
		StoredAt: c.now(),
	}
}

// Get returns the cached credential for a client id. Expired entries are
// treated as absent.
func (c *Cache) Get(clientID string) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.items[clientID]
	if !ok {
		return Entry{}, false
	}
	if c.now().Sub(entry.StoredAt) > c.ttl {
		return Entry{}, false
	}
	return entry, true
}

// Delete removes the entry for a client id, if present.
func (c *Cache) Delete(clientID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, clientID)
}

// PurgeExpired removes all expired entries and reports how many were
// deleted. Called from the maintenance endpoint alongside reset token
// cleanup; nothing schedules it.
func (c *Cache) PurgeExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	purged := 0
	for id, entry := range c.items {
		if now.Sub(entry.StoredAt) > c.ttl {
			delete(c.items, id)
			purged++
		}
	}
	return purged
}

// Len reports the number of live plus expired-but-unpurged entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

package router

import (
	"sync"
	"time"
)

type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// DedupCache remembers interaction identities for a fixed window.
// Expiry is lazy: entries are dropped when looked at past their TTL.
// The cache is process-local; a multi-instance deployment would need
// a shared store for the same guarantee.
type DedupCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	clock   Clock
	entries map[string]time.Time
}

func NewDedupCache(ttl time.Duration) *DedupCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &DedupCache{
		ttl:     ttl,
		clock:   realClock{},
		entries: make(map[string]time.Time),
	}
}

func (c *DedupCache) WithClock(clock Clock) {
	c.clock = clock
}

// Seen reports whether key is present and unexpired.
func (c *DedupCache) Seen(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seenLocked(key)
}

// Mark inserts key and reports whether it was newly inserted. A false
// return means a concurrent delivery won the race.
func (c *DedupCache) Mark(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.seenLocked(key) {
		return false
	}
	c.entries[key] = c.clock.Now()
	if len(c.entries)%256 == 0 {
		c.sweepLocked()
	}
	return true
}

func (c *DedupCache) Forget(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

func (c *DedupCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sweepLocked()
	return len(c.entries)
}

func (c *DedupCache) seenLocked(key string) bool {
	markedAt, ok := c.entries[key]
	if !ok {
		return false
	}
	if c.clock.Now().Sub(markedAt) > c.ttl {
		delete(c.entries, key)
		return false
	}
	return true
}

func (c *DedupCache) sweepLocked() {
	now := c.clock.Now()
	for key, markedAt := range c.entries {
		if now.Sub(markedAt) > c.ttl {
			delete(c.entries, key)
		}
	}
}

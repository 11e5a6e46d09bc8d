// Package dedupe implements the loop-suppression cache: each realm remembers
// the dedup tokens it minted while relaying, so its own broadcast coming back
// around the tree is recognized and dropped instead of relayed forever.
package dedupe

import (
	"sync"
	"time"
)

// DefaultTTL bounds how long a minted token stays live. It must outlive any
// plausible propagation delay across a deep tree while keeping the cache
// bounded.
const DefaultTTL = 30 * time.Second

// Cache maps dedup tokens to the time they were recorded. Entries expire
// lazily: purging happens on the next access, never before the TTL elapses.
type Cache struct {
	mu     sync.Mutex
	ttl    time.Duration
	tokens map[string]time.Time
	now    func() time.Time
}

// New returns a cache with the given TTL; ttl <= 0 selects DefaultTTL.
func New(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		ttl:    ttl,
		tokens: make(map[string]time.Time),
		now:    time.Now,
	}
}

// Seen purges expired entries and reports whether any of the incoming tokens
// is a live key, i.e. whether this envelope is an echo of a broadcast this
// cache's realm already relayed.
func (c *Cache) Seen(tokens []string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.purge()
	for _, tok := range tokens {
		if _, ok := c.tokens[tok]; ok {
			return true
		}
	}
	return false
}

// Remember records a freshly minted token at the current time.
func (c *Cache) Remember(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.purge()
	c.tokens[token] = c.now()
}

// Len reports the number of live entries after purging.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.purge()
	return len(c.tokens)
}

// purge drops entries older than the TTL. Callers hold c.mu.
func (c *Cache) purge() {
	cutoff := c.now().Add(-c.ttl)
	for tok, at := range c.tokens {
		if at.Before(cutoff) {
			delete(c.tokens, tok)
		}
	}
}

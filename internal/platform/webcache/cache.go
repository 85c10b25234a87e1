// Package webcache provides a small TTL cache for upstream HTTP responses.
// It is a performance optimization only: entries expire after the TTL and
// there is no invalidation signal beyond that.
package webcache

import (
	"sync"
	"time"
)

type entry struct {
	data     []byte
	storedAt time.Time
}

// Cache maps request URLs to raw response bodies with a fixed TTL.
// Instances are injectable so tests can run against an isolated cache.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	now     func() time.Time
}

// New creates a cache whose entries expire after ttl.
func New(ttl time.Duration) *Cache {
	return &Cache{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the cached body for key, or false if absent or expired.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if c.now().Sub(e.storedAt) > c.ttl {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false
	}
	return e.data, true
}

// Set stores body under key with the current timestamp.
func (c *Cache) Set(key string, body []byte) {
	c.mu.Lock()
	c.entries[key] = entry{data: body, storedAt: c.now()}
	c.mu.Unlock()
}

// Purge drops every expired entry.
func (c *Cache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, e := range c.entries {
		if c.now().Sub(e.storedAt) > c.ttl {
			delete(c.entries, key)
		}
	}
}

// Len reports the number of stored entries, expired or not.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// StartSweeper purges expired entries every interval until stop is closed.
func (c *Cache) StartSweeper(interval time.Duration, stop <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				c.Purge()
			case <-stop:
				return
			}
		}
	}()
}

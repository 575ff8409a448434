package cache

import (
	"sync"
	"time"
)

// Cache is a small in-memory TTL cache for upstream responses (search pages,
// audio resolutions, thumbnails). Expired entries are dropped lazily on writes.
type Cache[T any] struct {
	mu   sync.RWMutex
	data map[string]entry[T]
}

type entry[T any] struct {
	value T
	exp   time.Time
}

// New returns an empty cache instance.
func New[T any]() *Cache[T] {
	return &Cache[T]{data: make(map[string]entry[T])}
}

// Get returns the cached value or false if absent/expired.
func (c *Cache[T]) Get(key string) (T, bool) {
	var zero T

	c.mu.RLock()
	item, ok := c.data[key]
	c.mu.RUnlock()
	if !ok || time.Now().After(item.exp) {
		return zero, false
	}
	return item.value, true
}

// Set stores a value with the provided TTL, sweeping out expired entries so
// long-lived caches do not grow without bound.
func (c *Cache[T]) Set(key string, value T, ttl time.Duration) {
	now := time.Now()
	c.mu.Lock()
	for k, e := range c.data {
		if now.After(e.exp) {
			delete(c.data, k)
		}
	}
	c.data[key] = entry[T]{value: value, exp: now.Add(ttl)}
	c.mu.Unlock()
}

// Delete removes a key outright.
func (c *Cache[T]) Delete(key string) {
	c.mu.Lock()
	delete(c.data, key)
	c.mu.Unlock()
}

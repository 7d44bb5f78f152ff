package di

import (
	"context"
	"sync"
	"time"
)

const cacheJanitorInterval = time.Minute

// QueryCache is a process-local cache backing the query bus caching
// middleware. Entries expire after their TTL; a janitor goroutine sweeps
// expired entries so read models that stop being queried do not pin memory.
type QueryCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	stop    chan struct{}
	once    sync.Once
}

type cacheEntry struct {
	value    interface{}
	deadline int64
}

// NewQueryCache creates a query cache and starts its sweep goroutine
func NewQueryCache() *QueryCache {
	c := &QueryCache{
		entries: make(map[string]cacheEntry),
		stop:    make(chan struct{}),
	}
	go c.sweep()
	return c
}

// Get retrieves a value from cache. Expired entries are treated as absent
// and removed lazily.
func (c *QueryCache) Get(_ context.Context, key string) (interface{}, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if time.Now().UnixNano() > entry.deadline {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false
	}
	return entry.value, true
}

// Set stores a value in cache with TTL in seconds
func (c *QueryCache) Set(_ context.Context, key string, value interface{}, ttl int) error {
	deadline := time.Now().Add(time.Duration(ttl) * time.Second).UnixNano()
	c.mu.Lock()
	c.entries[key] = cacheEntry{value: value, deadline: deadline}
	c.mu.Unlock()
	return nil
}

// Delete removes a value from cache
func (c *QueryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
	return nil
}

// Clear removes all values from cache
func (c *QueryCache) Clear(_ context.Context) error {
	c.mu.Lock()
	c.entries = make(map[string]cacheEntry)
	c.mu.Unlock()
	return nil
}

// Close stops the sweep goroutine. Safe to call more than once.
func (c *QueryCache) Close() {
	c.once.Do(func() { close(c.stop) })
}

func (c *QueryCache) sweep() {
	ticker := time.NewTicker(cacheJanitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			now := time.Now().UnixNano()
			c.mu.Lock()
			for key, entry := range c.entries {
				if now > entry.deadline {
					delete(c.entries, key)
				}
			}
			c.mu.Unlock()
		}
	}
}

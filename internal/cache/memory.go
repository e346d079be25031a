package cache

import (
	"context"
	"sync"
	"time"
)

// MemoryCache keeps sessions in process. It is used when no redis address is
// configured, e.g. for the console binary and tests.
type MemoryCache struct {
	mu       sync.Mutex
	sessions map[string]time.Time
	now      func() time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{sessions: make(map[string]time.Time), now: time.Now}
}

func (c *MemoryCache) CreateSession(_ context.Context, id, _ string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sessions[id] = c.now().Add(ttl)
	return nil
}

func (c *MemoryCache) SessionExists(_ context.Context, id string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	exp, ok := c.sessions[id]
	if !ok {
		return false, nil
	}
	if !c.now().Before(exp) {
		delete(c.sessions, id)
		return false, nil
	}
	return true, nil
}

func (c *MemoryCache) DeleteSession(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.sessions, id)
	return nil
}

var _ SessionStore = (*MemoryCache)(nil)

package cache

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	trophies  int
	expiresAt time.Time
}

// MemoryCache is an in-process TrophyCache used by tests.
type MemoryCache struct {
	mu   sync.RWMutex
	ttl  time.Duration
	data map[string]memoryEntry
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{ttl: ttl, data: make(map[string]memoryEntry)}
}

var _ TrophyCache = (*MemoryCache)(nil)

func (c *MemoryCache) GetTrophies(_ context.Context, playerTag string) (int, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.data[playerTag]
	if !ok || time.Now().After(entry.expiresAt) {
		return 0, false
	}
	return entry.trophies, true
}

func (c *MemoryCache) SetTrophies(_ context.Context, playerTag string, trophies int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.data[playerTag] = memoryEntry{trophies: trophies, expiresAt: time.Now().Add(c.ttl)}
}

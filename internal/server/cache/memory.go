package cache

import (
	"context"
	"sync"
	"time"

	"github.com/softgatehq/softgate/internal/server/models"
)

type memoryEntry struct {
	key       *models.APIKey
	expiresAt time.Time
}

// MemoryCache is a process-local CredentialCache used when no Redis is
// configured, and in tests.
type MemoryCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		ttl:     ttl,
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (c *MemoryCache) Get(ctx context.Context, hash string) (*models.APIKey, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[hash]
	if !ok {
		return nil, false
	}
	if c.now().After(e.expiresAt) {
		delete(c.entries, hash)
		return nil, false
	}
	return e.key, true
}

func (c *MemoryCache) Set(ctx context.Context, hash string, key *models.APIKey) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[hash] = memoryEntry{key: key, expiresAt: c.now().Add(c.ttl)}
}

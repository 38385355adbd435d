package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/softgatehq/softgate/internal/logging"
	"github.com/softgatehq/softgate/internal/server/models"
)

const keyPrefix = "softgate:apikey:"

// RedisCache is a CredentialCache backed by Redis. Backend errors degrade to
// cache misses so that an unavailable Redis never blocks authentication.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	logger logging.Logger
}

func NewRedisCache(addr string, ttl time.Duration, logger logging.Logger) *RedisCache {
	return &RedisCache{
		client: redis.NewClient(&redis.Options{Addr: addr}),
		ttl:    ttl,
		logger: logger.With("module", "credential_cache"),
	}
}

func (c *RedisCache) Get(ctx context.Context, hash string) (*models.APIKey, bool) {
	b, err := c.client.Get(ctx, keyPrefix+hash).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn(ctx, "cache get failed", "error", err)
		}
		return nil, false
	}

	key := &models.APIKey{}
	if err := json.Unmarshal(b, key); err != nil {
		c.logger.Warn(ctx, "cache entry corrupt", "error", err)
		return nil, false
	}
	return key, true
}

func (c *RedisCache) Set(ctx context.Context, hash string, key *models.APIKey) {
	b, err := json.Marshal(key)
	if err != nil {
		c.logger.Warn(ctx, "cache encode failed", "error", err)
		return
	}
	if err := c.client.Set(ctx, keyPrefix+hash, b, c.ttl).Err(); err != nil {
		c.logger.Warn(ctx, "cache set failed", "error", err)
	}
}

// Close releases the underlying Redis connection.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

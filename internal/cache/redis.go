package cache

import (
	"context"
	"time"

	"github.com/Domenick1991/dummydata/config"
	"github.com/redis/go-redis/v9"
)

// SessionStore remembers which login sessions are still open.
type SessionStore interface {
	CreateSession(ctx context.Context, id, username string, ttl time.Duration) error
	SessionExists(ctx context.Context, id string) (bool, error)
	DeleteSession(ctx context.Context, id string) error
}

type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(cfg config.RedisConfig) *RedisCache {
	return &RedisCache{
		client: redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
	}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

func (c *RedisCache) CreateSession(ctx context.Context, id, username string, ttl time.Duration) error {
	return c.client.Set(ctx, sessionKey(id), username, ttl).Err()
}

func (c *RedisCache) SessionExists(ctx context.Context, id string) (bool, error) {
	n, err := c.client.Exists(ctx, sessionKey(id)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (c *RedisCache) DeleteSession(ctx context.Context, id string) error {
	return c.client.Del(ctx, sessionKey(id)).Err()
}

func sessionKey(id string) string {
	return "session:" + id
}

var _ SessionStore = (*RedisCache)(nil)

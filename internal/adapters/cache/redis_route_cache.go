package cache

import (
	"context"
	"errors"
	"fmt"
	"logistics-network-service/internal/domain"
	"logistics-network-service/internal/platform/obs"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisRouteCache stores shortest-route results as JSON strings in Redis.
type RedisRouteCache struct {
	Client *redis.Client
	Prefix string
	TTL    time.Duration
}

func NewRedisRouteCache(client *redis.Client, ttl time.Duration) *RedisRouteCache {
	return &RedisRouteCache{Client: client, Prefix: "logistics:", TTL: ttl}
}

func (c *RedisRouteCache) Get(ctx context.Context, key string) (_ domain.Route, _ bool, err error) {
	defer obs.Time(ctx, "route.cache.redis.Get")(&err)

	if c.Client == nil {
		return domain.Route{}, false, errors.New("route cache: redis client is nil")
	}
	if strings.TrimSpace(key) == "" {
		return domain.Route{}, false, errors.New("get route cache: key must not be empty")
	}

	b, err := c.Client.Get(ctx, c.Prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Route{}, false, nil
	}
	if err != nil {
		return domain.Route{}, false, fmt.Errorf("get route cache key=%q: %w", key, err)
	}

	route, err := decodeRoute(b)
	if err != nil {
		return domain.Route{}, false, fmt.Errorf("get route cache key=%q: %w", key, err)
	}
	return route, true, nil
}

// Put stores route under key. A zero TTL keeps the entry until evicted.
func (c *RedisRouteCache) Put(ctx context.Context, key string, route domain.Route) error {
	if c.Client == nil {
		return errors.New("route cache: redis client is nil")
	}
	if strings.TrimSpace(key) == "" {
		return errors.New("insert route cache: key must not be empty")
	}

	payload, err := encodeRoute(route)
	if err != nil {
		return fmt.Errorf("insert route cache key=%q: %w", key, err)
	}
	if err := c.Client.Set(ctx, c.Prefix+key, payload, c.TTL).Err(); err != nil {
		return fmt.Errorf("insert route cache key=%q: %w", key, err)
	}
	return nil
}

package infra

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"hygpos/internal/dto"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// NewRedis creates and validates a go-redis client connection.
func NewRedis(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	rdb := redis.NewClient(opts)

	// Validate connectivity at startup
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}

	return rdb, nil
}

// ── Menu cache ────────────────────────────────────────────────────────────────

const menuCacheKey = "cache:menu"

// MenuCache keeps the public menu in Redis. A Redis outage degrades to a
// cache miss; it never fails the request.
type MenuCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewMenuCache(rdb *redis.Client, ttl time.Duration) *MenuCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &MenuCache{rdb: rdb, ttl: ttl}
}

func (c *MenuCache) GetMenu(ctx context.Context) ([]dto.MenuItem, bool) {
	raw, err := c.rdb.Get(ctx, menuCacheKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Warn().Err(err).Msg("menu cache: read failed")
		}
		return nil, false
	}
	var items []dto.MenuItem
	if err := json.Unmarshal(raw, &items); err != nil {
		log.Warn().Err(err).Msg("menu cache: corrupt entry")
		return nil, false
	}
	return items, true
}

func (c *MenuCache) SetMenu(ctx context.Context, items []dto.MenuItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, menuCacheKey, data, c.ttl).Err()
}

func (c *MenuCache) Invalidate(ctx context.Context) error {
	return c.rdb.Del(ctx, menuCacheKey).Err()
}

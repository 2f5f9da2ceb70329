package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	cacheKeyCatalogo = "catalogo:productos"
	cacheKeyConfig   = "config:sitio"
)

// jsonCache stores JSON values in Redis. All operations are best effort and
// a nil client turns the cache off (unit tests run without Redis).
type jsonCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func newJSONCache(rdb *redis.Client, ttl time.Duration) jsonCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return jsonCache{rdb: rdb, ttl: ttl}
}

func (c jsonCache) get(ctx context.Context, key string, dst any) bool {
	if c.rdb == nil {
		return false
	}
	b, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(b, dst) == nil
}

func (c jsonCache) set(ctx context.Context, key string, v any) {
	if c.rdb == nil {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key, b, c.ttl).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache: set failed")
	}
}

func (c jsonCache) del(ctx context.Context, keys ...string) {
	if c.rdb == nil {
		return
	}
	// detached from the request so a cancelled client cannot leave stale data
	if err := c.rdb.Del(context.WithoutCancel(ctx), keys...).Err(); err != nil {
		log.Warn().Err(err).Strs("keys", keys).Msg("cache: invalidation failed")
	}
}

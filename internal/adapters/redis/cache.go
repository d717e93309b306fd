package redisad

import (
	"context"
	"encoding/json"
	"time"

	"github.com/karlseguin/ccache/v3"
	"github.com/redis/go-redis/v9"

	"hotel_booking/internal/adapters/observability"
)

// localTTL caps how long an entry lives in the in-process tier. Other
// instances only see Del through redis, so this bounds their staleness.
const localTTL = 30 * time.Second

// Cache checks an in-process ccache first and falls back to redis.
// Values are stored as JSON in both tiers.
type Cache struct {
	c     *redis.Client
	local *ccache.Cache[[]byte]
}

func New(addr, pass string, db int) *Cache {
	return NewWithClient(redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db}))
}

func NewWithClient(c *redis.Client) *Cache {
	return &Cache{
		c:     c,
		local: ccache.New(ccache.Configure[[]byte]().MaxSize(1000)),
	}
}

func (r *Cache) Get(ctx context.Context, key string, dst any) (bool, error) {
	if item := r.local.Get(key); item != nil && !item.Expired() {
		observability.ObserveCache("local", "hit")
		return true, json.Unmarshal(item.Value(), dst)
	}
	observability.ObserveCache("local", "miss")

	v, err := r.c.Get(ctx, key).Bytes()
	if err == redis.Nil {
		observability.ObserveCache("redis", "miss")
		return false, nil
	}
	if err != nil {
		return false, err
	}
	observability.ObserveCache("redis", "hit")
	r.local.Set(key, v, localTTL)
	return true, json.Unmarshal(v, dst)
}

func (r *Cache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	ttl := time.Duration(ttlSec) * time.Second
	r.local.Set(key, b, min(ttl, localTTL))
	observability.ObserveCache("redis", "set")
	return r.c.Set(ctx, key, b, ttl).Err()
}

func (r *Cache) Del(ctx context.Context, key string) error {
	r.local.Delete(key)
	observability.ObserveCache("redis", "del")
	return r.c.Del(ctx, key).Err()
}

func (r *Cache) Ping(ctx context.Context) error { return r.c.Ping(ctx).Err() }

func (r *Cache) Close() error {
	r.local.Stop()
	return r.c.Close()
}

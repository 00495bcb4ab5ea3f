package redisad

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"guest_manual/internal/adapters/observability"
)

// Cache is a JSON value cache over Redis.
type Cache struct{ c *redis.Client }

func New(addr, pass string, db int) *Cache {
	return &Cache{c: redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db})}
}

// Ping reports whether the server is reachable.
func (r *Cache) Ping(ctx context.Context) error { return r.c.Ping(ctx).Err() }

func (r *Cache) Close() error { return r.c.Close() }

func (r *Cache) Get(ctx context.Context, key string, dst any) (bool, error) {
	v, err := r.c.Get(ctx, key).Bytes()
	if err == redis.Nil {
		observability.ObserveCache("redis", "miss")
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(v, dst); err != nil {
		// a value we can no longer decode is treated as a miss
		observability.ObserveCache("redis", "miss")
		_ = r.c.Del(ctx, key).Err()
		return false, nil
	}
	observability.ObserveCache("redis", "hit")
	return true, nil
}

func (r *Cache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	observability.ObserveCache("redis", "set")
	return r.c.Set(ctx, key, b, time.Duration(ttlSec)*time.Second).Err()
}

func (r *Cache) Del(ctx context.Context, key string) error {
	observability.ObserveCache("redis", "del")
	return r.c.Del(ctx, key).Err()
}

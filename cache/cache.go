// Package cache caches monitoring payloads in Redis so the leaderboard
// does not recompute on every dashboard refresh. Caching is optional:
// with no Redis address configured every call is a no-op miss.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// New connects the cache. An empty addr disables caching.
func New(addr, password string, db int, ttl time.Duration) *Cache {
	if addr == "" {
		return &Cache{}
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &Cache{client: client, ttl: ttl}
}

func (c *Cache) Enabled() bool { return c != nil && c.client != nil }

// Get unmarshals the cached value into dst. ok is false on a miss or
// when caching is disabled.
func (c *Cache) Get(ctx context.Context, key string, dst any) bool {
	if !c.Enabled() {
		return false
	}
	raw, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("cache get %s: %v", key, err)
		}
		return false
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		log.Printf("cache decode %s: %v", key, err)
		return false
	}
	return true
}

func (c *Cache) Set(ctx context.Context, key string, v any) {
	if !c.Enabled() {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		log.Printf("cache encode %s: %v", key, err)
		return
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		log.Printf("cache set %s: %v", key, err)
	}
}

// FlushPrefix drops every key under the given prefixes, called after
// writes that change the leaderboard. Cached views are keyed per
// period, so a write cannot name the affected keys exactly.
func (c *Cache) FlushPrefix(ctx context.Context, prefixes ...string) {
	if !c.Enabled() {
		return
	}
	for _, p := range prefixes {
		iter := c.client.Scan(ctx, 0, p+"*", 0).Iterator()
		for iter.Next(ctx) {
			if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
				log.Printf("cache flush %s: %v", iter.Val(), err)
			}
		}
		if err := iter.Err(); err != nil {
			log.Printf("cache scan %s: %v", p, err)
		}
	}
}

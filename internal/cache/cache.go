package cache

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache is a small JSON read-through cache over redis for the public fleet
// and branch listings. A nil *Cache is valid and disables caching, so the
// server degrades gracefully when redis is absent.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

// New connects to redis using REDIS_ADDR (and optional REDIS_PASSWORD,
// CACHE_TTL). Returns nil when REDIS_ADDR is unset or the server is
// unreachable.
func New() *Cache {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		return nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("⚠️  Redis unreachable at %s, caching disabled: %v", addr, err)
		return nil
	}

	ttl := 30 * time.Second
	if raw := os.Getenv("CACHE_TTL"); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil && parsed > 0 {
			ttl = parsed
		}
	}

	log.Printf("✅ Redis cache enabled at %s (ttl %s)", addr, ttl)
	return &Cache{rdb: rdb, ttl: ttl}
}

// Get unmarshals the cached value for key into dest. Returns false on miss.
func (c *Cache) Get(key string, dest interface{}) bool {
	if c == nil {
		return false
	}
	data, err := c.rdb.Get(context.Background(), key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(data, dest) == nil
}

// Set stores value under key for the configured TTL. Best effort.
func (c *Cache) Set(key string, value interface{}) {
	if c == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.rdb.Set(context.Background(), key, data, c.ttl).Err(); err != nil {
		log.Printf("⚠️  Cache set failed for %s: %v", key, err)
	}
}

// Invalidate drops the given keys, e.g. after an admin fleet change.
func (c *Cache) Invalidate(keys ...string) {
	if c == nil || len(keys) == 0 {
		return
	}
	if err := c.rdb.Del(context.Background(), keys...).Err(); err != nil {
		log.Printf("⚠️  Cache invalidate failed: %v", err)
	}
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// json.go provides a Valkey-backed cache of JSON-encoded values. Keys are
// namespaced by a prefix so a whole family can be dropped at once.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultTTL is how long a cached value lives when no TTL is given.
const DefaultTTL = time.Minute

// JSONCache stores values as JSON under "<prefix>:<key>". Errors talking
// to Valkey are logged and treated as misses; the cache never fails a
// request.
type JSONCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewJSONCache creates a cache whose keys start with prefix. A nil client
// yields a cache that always misses.
func NewJSONCache(client *redis.Client, prefix string, ttl time.Duration) *JSONCache {
	if ttl == 0 {
		ttl = DefaultTTL
	}
	return &JSONCache{client: client, prefix: prefix + ":", ttl: ttl}
}

// Key returns the full Valkey key for k.
func (c *JSONCache) Key(k string) string {
	return c.prefix + k
}

// Get decodes the cached value for key into dst. It reports whether a
// value was found and decoded.
func (c *JSONCache) Get(ctx context.Context, key string, dst any) bool {
	if c == nil || c.client == nil {
		return false
	}
	raw, err := c.client.Get(ctx, c.Key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false
	}
	if err != nil {
		slog.Warn("cache get error", "key", c.Key(key), "error", err)
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		slog.Warn("cache decode error", "key", c.Key(key), "error", err)
		return false
	}
	slog.Debug("cache hit", "key", c.Key(key))
	return true
}

// Set encodes v and stores it under key with the cache TTL.
func (c *JSONCache) Set(ctx context.Context, key string, v any) {
	if c == nil || c.client == nil {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		slog.Warn("cache encode error", "key", c.Key(key), "error", err)
		return
	}
	if err := c.client.Set(ctx, c.Key(key), raw, c.ttl).Err(); err != nil {
		slog.Warn("cache set error", "key", c.Key(key), "error", err)
	}
}

// Invalidate removes every key under the cache prefix.
func (c *JSONCache) Invalidate(ctx context.Context) {
	if c == nil || c.client == nil {
		return
	}
	var cursor uint64
	var deleted int
	for {
		keys, next, err := c.client.Scan(ctx, cursor, c.prefix+"*", 100).Result()
		if err != nil {
			slog.Warn("cache scan error", "prefix", c.prefix, "error", err)
			return
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Debug("cache invalidated", "prefix", c.prefix, "deleted", deleted)
	}
}

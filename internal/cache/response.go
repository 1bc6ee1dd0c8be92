// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// keyPrefix is the Valkey key prefix for cached responses.
	keyPrefix = "resp:"

	// DefaultTTL is how long a cached response stays valid.
	DefaultTTL = 5 * time.Minute
)

// Keys for the cached aggregate and listing responses.
const (
	KeyBestCourse = "best-course"
	KeyCategories = "categories"
)

// JSONCache stores JSON-encoded values in Valkey. A nil *JSONCache is a
// valid cache that always misses, so callers work without Valkey.
type JSONCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewJSONCache creates a cache backed by the given Valkey client.
func NewJSONCache(client *redis.Client, ttl time.Duration) *JSONCache {
	if ttl == 0 {
		ttl = DefaultTTL
	}
	return &JSONCache{client: client, ttl: ttl}
}

// Get decodes the cached value for key into dst and reports a hit.
func (c *JSONCache) Get(ctx context.Context, key string, dst any) bool {
	if c == nil || c.client == nil {
		return false
	}
	raw, err := c.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false
	}
	if err != nil {
		slog.Warn("response cache get error", "key", key, "error", err)
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		slog.Warn("response cache decode error", "key", key, "error", err)
		return false
	}
	slog.Debug("response cache hit", "key", key)
	return true
}

// Set encodes v and stores it under key with the configured TTL.
func (c *JSONCache) Set(ctx context.Context, key string, v any) {
	if c == nil || c.client == nil {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		slog.Warn("response cache encode error", "key", key, "error", err)
		return
	}
	if err := c.client.Set(ctx, keyPrefix+key, raw, c.ttl).Err(); err != nil {
		slog.Warn("response cache set error", "key", key, "error", err)
	}
}

// Invalidate removes the given keys.
func (c *JSONCache) Invalidate(ctx context.Context, keys ...string) {
	if c == nil || c.client == nil || len(keys) == 0 {
		return
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = keyPrefix + k
	}
	if err := c.client.Del(ctx, full...).Err(); err != nil {
		slog.Warn("response cache invalidate error", "keys", keys, "error", err)
		return
	}
	slog.Debug("response cache invalidated", "keys", keys)
}

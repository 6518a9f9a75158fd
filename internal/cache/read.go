// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// read.go provides a Valkey-backed cache for serialized read responses.
// Post listings and detail lookups are stored so repeat requests skip the
// database entirely. Every mutation invalidates the whole prefix; the
// dataset is small and a category change can affect any listing.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// readKeyPrefix is the Valkey key prefix for cached read responses.
	readKeyPrefix = "read:"

	// DefaultReadTTL is how long a cached response stays valid without
	// an intervening mutation.
	DefaultReadTTL = 5 * time.Minute
)

// ReadCache stores serialized JSON responses in Valkey.
type ReadCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewReadCache creates a read cache backed by the given Valkey client.
func NewReadCache(client *redis.Client, ttl time.Duration) *ReadCache {
	if ttl == 0 {
		ttl = DefaultReadTTL
	}
	return &ReadCache{client: client, ttl: ttl}
}

// Get retrieves a cached response body. Returns false on miss or error;
// cache failures degrade to a database read, never to a request failure.
func (rc *ReadCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := rc.client.Get(ctx, readKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("read cache get error", "key", key, "error", err)
		return nil, false
	}
	slog.Debug("read cache hit", "key", key)
	return val, true
}

// Set stores a response body under the given key with the configured TTL.
func (rc *ReadCache) Set(ctx context.Context, key string, body []byte) {
	if err := rc.client.Set(ctx, readKeyPrefix+key, body, rc.ttl).Err(); err != nil {
		slog.Warn("read cache set error", "key", key, "error", err)
	}
}

// Invalidate removes every cached response by scanning for the prefix.
// Called after any post or category mutation.
func (rc *ReadCache) Invalidate(ctx context.Context) {
	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := rc.client.Scan(ctx, cursor, readKeyPrefix+"*", 100).Result()
		if err != nil {
			slog.Warn("read cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := rc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("read cache delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Debug("read cache invalidated", "deleted", deleted)
	}
}

// ListKey returns the cache key for a post listing, optionally filtered.
func ListKey(categoryID *int64) string {
	if categoryID == nil {
		return "posts"
	}
	return fmt.Sprintf("posts:category:%d", *categoryID)
}

// PostKey returns the cache key for a post detail lookup.
func PostKey(slug string) string {
	return "post:" + slug
}

// CategoriesKey returns the cache key for the category listing.
func CategoriesKey() string {
	return "categories"
}

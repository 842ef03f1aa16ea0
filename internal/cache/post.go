// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// post.go provides a Valkey-backed cache for rendered public post responses.
// When a published post is served, the response JSON is stored in Valkey so
// subsequent requests skip the DB query and Markdown rendering entirely.
// Any write to a post invalidates its entry.
package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// postKeyPrefix is the Valkey key prefix for cached post responses.
	postKeyPrefix = "post:"

	// DefaultPostTTL is how long a cached post response stays valid.
	DefaultPostTTL = 5 * time.Minute
)

// PostCache manages public post response caching in Valkey. A nil *PostCache
// is a no-op, so the API works without Valkey configured.
type PostCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPostCache creates a post cache backed by the given Valkey client.
func NewPostCache(client *redis.Client, ttl time.Duration) *PostCache {
	if ttl == 0 {
		ttl = DefaultPostTTL
	}
	return &PostCache{client: client, ttl: ttl}
}

// Get retrieves a cached response for a post slug. Returns false on miss.
func (pc *PostCache) Get(ctx context.Context, slug string) ([]byte, bool) {
	if pc == nil {
		return nil, false
	}
	val, err := pc.client.Get(ctx, postKeyPrefix+slug).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("post cache get error", "slug", slug, "error", err)
		return nil, false
	}
	slog.Debug("post cache hit", "slug", slug)
	return val, true
}

// Set stores a response for a post slug with the configured TTL.
func (pc *PostCache) Set(ctx context.Context, slug string, payload []byte) {
	if pc == nil {
		return
	}
	if err := pc.client.Set(ctx, postKeyPrefix+slug, payload, pc.ttl).Err(); err != nil {
		slog.Warn("post cache set error", "slug", slug, "error", err)
	}
}

// Invalidate removes a post's cached response by slug.
func (pc *PostCache) Invalidate(ctx context.Context, slug string) {
	if pc == nil {
		return
	}
	if err := pc.client.Del(ctx, postKeyPrefix+slug).Err(); err != nil {
		slog.Warn("post cache invalidate error", "slug", slug, "error", err)
	}
	slog.Debug("post cache invalidated", "slug", slug)
}

// InvalidateAll removes every cached post by scanning for the prefix. Used
// on bulk changes where any post could be affected.
func (pc *PostCache) InvalidateAll(ctx context.Context) {
	if pc == nil {
		return
	}
	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := pc.client.Scan(ctx, cursor, postKeyPrefix+"*", 100).Result()
		if err != nil {
			slog.Warn("post cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := pc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("post cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Info("post cache fully cleared", "deleted", deleted)
	}
}

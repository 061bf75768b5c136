// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// page.go provides a Valkey-backed full-page HTML cache for public
// portfolio pages. Each cached page is also indexed under its owner so
// an avatar or banner change can drop every page showing that user.
package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// pageKeyPrefix is the Valkey key prefix for cached pages.
	pageKeyPrefix = "page:"

	// ownerKeyPrefix prefixes the per-owner set of cached page keys.
	ownerKeyPrefix = "page-owner:"

	// DefaultPageTTL is how long a rendered page stays cached.
	DefaultPageTTL = 5 * time.Minute
)

// PageCache manages full-page HTML caching in Valkey.
type PageCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPageCache creates a new page cache backed by the given Valkey client.
func NewPageCache(client *redis.Client, ttl time.Duration) *PageCache {
	if ttl == 0 {
		ttl = DefaultPageTTL
	}
	return &PageCache{client: client, ttl: ttl}
}

// PortfolioKey returns the cache key for a public portfolio page.
func PortfolioKey(id int64) string {
	return fmt.Sprintf("portfolio:%d", id)
}

// Get retrieves cached HTML for a page key.
func (pc *PageCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := pc.client.Get(ctx, pageKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		slog.Warn("page cache get error", "key", key, "error", err)
		return nil, false
	}
	slog.Debug("page cache hit", "key", key)
	return val, true
}

// Set stores rendered HTML for a page key with the configured TTL and
// records the key under its owner.
func (pc *PageCache) Set(ctx context.Context, key string, owner uuid.UUID, html []byte) {
	ownerKey := ownerKeyPrefix + owner.String()
	_, err := pc.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, pageKeyPrefix+key, html, pc.ttl)
		pipe.SAdd(ctx, ownerKey, key)
		pipe.Expire(ctx, ownerKey, pc.ttl)
		return nil
	})
	if err != nil {
		slog.Warn("page cache set error", "key", key, "error", err)
	}
}

// InvalidatePage removes a single page from the cache.
func (pc *PageCache) InvalidatePage(ctx context.Context, key string) {
	if err := pc.client.Del(ctx, pageKeyPrefix+key).Err(); err != nil {
		slog.Warn("page cache invalidate error", "key", key, "error", err)
	}
	slog.Debug("page cache invalidated", "key", key)
}

// InvalidateOwner removes every cached page belonging to owner.
func (pc *PageCache) InvalidateOwner(ctx context.Context, owner uuid.UUID) {
	ownerKey := ownerKeyPrefix + owner.String()
	keys, err := pc.client.SMembers(ctx, ownerKey).Result()
	if err != nil {
		slog.Warn("page cache owner lookup error", "owner", owner, "error", err)
		return
	}

	del := make([]string, 0, len(keys)+1)
	for _, k := range keys {
		del = append(del, pageKeyPrefix+k)
	}
	del = append(del, ownerKey)

	if err := pc.client.Del(ctx, del...).Err(); err != nil {
		slog.Warn("page cache owner invalidate error", "owner", owner, "error", err)
		return
	}
	slog.Debug("page cache invalidated for owner", "owner", owner, "pages", len(keys))
}

// InvalidateAll removes all cached pages by scanning for the prefixes.
// Called at startup, since a deploy may change any renderer.
func (pc *PageCache) InvalidateAll(ctx context.Context) {
	var deleted int
	for _, pattern := range []string{pageKeyPrefix + "*", ownerKeyPrefix + "*"} {
		var cursor uint64
		for {
			keys, nextCursor, err := pc.client.Scan(ctx, cursor, pattern, 100).Result()
			if err != nil {
				slog.Warn("page cache scan error", "error", err)
				return
			}
			if len(keys) > 0 {
				if err := pc.client.Del(ctx, keys...).Err(); err != nil {
					slog.Warn("page cache bulk delete error", "error", err)
				}
				deleted += len(keys)
			}
			cursor = nextCursor
			if cursor == 0 {
				break
			}
		}
	}
	if deleted > 0 {
		slog.Info("page cache fully cleared", "deleted", deleted)
	}
}

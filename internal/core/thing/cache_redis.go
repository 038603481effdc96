// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package thing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/taibuivan/meeple/internal/platform/constants"
)

// RedisSearchCache keeps upstream search candidate lists in Redis for a fixed TTL.
type RedisSearchCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSearchCache(client *redis.Client, ttl time.Duration) *RedisSearchCache {
	return &RedisSearchCache{client: client, ttl: ttl}
}

// Get returns the cached candidates for query. A miss is not an error.
func (cache *RedisSearchCache) Get(context context.Context, query string) ([]SearchItem, bool, error) {
	raw, err := cache.client.Get(context, SearchCacheKey(query)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis: get search candidates: %w", err)
	}

	var items []SearchItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, false, fmt.Errorf("redis: decode search candidates: %w", err)
	}
	return items, true, nil
}

// Set stores the candidates for query with the cache TTL.
func (cache *RedisSearchCache) Set(context context.Context, query string, items []SearchItem) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("redis: encode search candidates: %w", err)
	}
	if err := cache.client.Set(context, SearchCacheKey(query), raw, cache.ttl).Err(); err != nil {
		return fmt.Errorf("redis: set search candidates: %w", err)
	}
	return nil
}

// SearchCacheKey derives the cache key of a free-text query. Queries that
// differ only in case, Unicode composition or spacing share a key.
func SearchCacheKey(query string) string {
	folded := cases.Fold().String(norm.NFKC.String(query))
	return constants.RedisPrefixSearch + strings.Join(strings.Fields(folded), " ")
}

// Package rediscache implements the optional Redis-backed post list cache.
package rediscache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"miniblog/internal/domain"
)

// listTTL bounds staleness when an invalidation is lost (e.g. a concurrent
// writer crashing between the insert and the delete).
const listTTL = 30 * time.Second

// RedisPostCache is the Redis implementation of repository.PostCache. It
// stores the full ordered list under a single key and relies on explicit
// invalidation after every write.
type RedisPostCache struct {
	client    *redis.Client
	keyPrefix string
}

func NewRedisPostCache(client *redis.Client, keyPrefix string) *RedisPostCache {
	if client == nil {
		panic("redis client cannot be nil for RedisPostCache")
	}
	if keyPrefix == "" {
		keyPrefix = "miniblog:"
	}
	return &RedisPostCache{client: client, keyPrefix: keyPrefix}
}

func (c *RedisPostCache) listKey() string {
	return c.keyPrefix + "posts:all"
}

func (c *RedisPostCache) GetList(ctx context.Context) ([]domain.Post, bool, error) {
	raw, err := c.client.Get(ctx, c.listKey()).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis: get %s: %w", c.listKey(), err)
	}

	var posts []domain.Post
	if err := json.Unmarshal([]byte(raw), &posts); err != nil {
		return nil, false, fmt.Errorf("redis: decode cached post list: %w", err)
	}
	return posts, true, nil
}

func (c *RedisPostCache) SetList(ctx context.Context, posts []domain.Post) error {
	raw, err := json.Marshal(posts)
	if err != nil {
		return fmt.Errorf("redis: encode post list: %w", err)
	}
	if err := c.client.Set(ctx, c.listKey(), raw, listTTL).Err(); err != nil {
		return fmt.Errorf("redis: set %s: %w", c.listKey(), err)
	}
	return nil
}

func (c *RedisPostCache) InvalidateList(ctx context.Context) error {
	if err := c.client.Del(ctx, c.listKey()).Err(); err != nil {
		return fmt.Errorf("redis: del %s: %w", c.listKey(), err)
	}
	return nil
}

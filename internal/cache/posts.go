package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/diario/diario/internal/model"
)

// Cache keys and TTLs.
const (
	recentPostsKey  = "posts:recent"
	postsVersionKey = "posts:version"

	// DefaultPostsTTL is used when a listing is stored with a zero TTL.
	DefaultPostsTTL = 30 * time.Second
)

// Common cache errors.
var (
	ErrCacheMiss = errors.New("cache miss")
)

// GetPosts returns the cached recent-posts list.
// Returns ErrCacheMiss if nothing is cached.
func (c *Cache) GetPosts(ctx context.Context) ([]*model.Post, error) {
	data, err := c.client.Get(ctx, recentPostsKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var posts []*model.Post
	if err := json.Unmarshal(data, &posts); err != nil {
		// A payload we cannot decode is treated as absent.
		c.client.Del(ctx, recentPostsKey)
		return nil, ErrCacheMiss
	}

	return posts, nil
}

// SetPosts stores the recent-posts list.
func (c *Cache) SetPosts(ctx context.Context, posts []*model.Post, ttl time.Duration) error {
	data, ttl, err := encodePosts(posts, ttl)
	if err != nil {
		return err
	}

	if err := c.client.Set(ctx, recentPostsKey, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache posts: %w", err)
	}

	return nil
}

// PostsVersion returns the listing generation. It starts at zero and is
// bumped by every InvalidatePosts.
func (c *Cache) PostsVersion(ctx context.Context) (int64, error) {
	version, err := c.client.Get(ctx, postsVersionKey).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("redis get failed: %w", err)
	}
	return version, nil
}

// setIfVersionScript writes the listing only while the generation still
// equals ARGV[1]. Returns 1 when written.
var setIfVersionScript = redis.NewScript(`
local current = tonumber(redis.call('GET', KEYS[1]) or '0')
if current ~= tonumber(ARGV[1]) then
	return 0
end
redis.call('SET', KEYS[2], ARGV[2], 'PX', ARGV[3])
return 1
`)

// SetPostsIfVersion stores the listing only if no invalidation happened
// since version was read. It reports whether the listing was stored.
func (c *Cache) SetPostsIfVersion(ctx context.Context, posts []*model.Post, ttl time.Duration, version int64) (bool, error) {
	data, ttl, err := encodePosts(posts, ttl)
	if err != nil {
		return false, err
	}

	stored, err := setIfVersionScript.Run(ctx, c.client,
		[]string{postsVersionKey, recentPostsKey},
		version, data, ttl.Milliseconds(),
	).Int()
	if err != nil {
		return false, fmt.Errorf("failed to cache posts: %w", err)
	}

	return stored == 1, nil
}

// InvalidatePosts bumps the listing generation and drops the cached list.
func (c *Cache) InvalidatePosts(ctx context.Context) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, postsVersionKey)
		pipe.Del(ctx, recentPostsKey)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to invalidate posts: %w", err)
	}
	return nil
}

func encodePosts(posts []*model.Post, ttl time.Duration) ([]byte, time.Duration, error) {
	if ttl <= 0 {
		ttl = DefaultPostsTTL
	}
	if posts == nil {
		posts = []*model.Post{}
	}

	data, err := json.Marshal(posts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to encode posts: %w", err)
	}
	return data, ttl, nil
}

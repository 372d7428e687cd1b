package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diario/diario/internal/model"
	"github.com/diario/diario/internal/testutil"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()

	ctx := context.Background()
	redisURL := testutil.RequireEnv(t, "REDIS_URL")

	c, err := New(ctx, redisURL)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	require.NoError(t, testutil.FlushRedis(ctx, c.Client()))
	return c
}

func TestCache_PostsRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t)

	_, err := c.GetPosts(ctx)
	assert.ErrorIs(t, err, ErrCacheMiss)

	author := testutil.NewTestUser(t)
	post := testutil.NewTestPost(t, author.ID)
	post.Author = author

	require.NoError(t, c.SetPosts(ctx, []*model.Post{post}, time.Minute))

	cached, err := c.GetPosts(ctx)
	require.NoError(t, err)
	require.Len(t, cached, 1)
	assert.Equal(t, post.ID, cached[0].ID)
	require.NotNil(t, cached[0].Author)
	assert.Equal(t, author.Name, cached[0].Author.Name)

	require.NoError(t, c.InvalidatePosts(ctx))
	_, err = c.GetPosts(ctx)
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestCache_SetPostsEmpty(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t)

	require.NoError(t, c.SetPosts(ctx, nil, 0))

	cached, err := c.GetPosts(ctx)
	require.NoError(t, err)
	assert.NotNil(t, cached)
	assert.Empty(t, cached)
}

func TestCache_SetPostsIfVersion(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t)

	version, err := c.PostsVersion(ctx)
	require.NoError(t, err)
	assert.Zero(t, version)

	author := testutil.NewTestUser(t)
	stale := []*model.Post{testutil.NewTestPost(t, author.ID)}

	// A post lands between reading the version and writing the listing.
	require.NoError(t, c.InvalidatePosts(ctx))

	stored, err := c.SetPostsIfVersion(ctx, stale, time.Minute, version)
	require.NoError(t, err)
	assert.False(t, stored)
	_, err = c.GetPosts(ctx)
	assert.ErrorIs(t, err, ErrCacheMiss)

	current, err := c.PostsVersion(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, current)

	stored, err = c.SetPostsIfVersion(ctx, stale, time.Minute, current)
	require.NoError(t, err)
	assert.True(t, stored)

	cached, err := c.GetPosts(ctx)
	require.NoError(t, err)
	assert.Len(t, cached, 1)

	ttl, err := c.Client().PTTL(ctx, recentPostsKey).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, 50*time.Second)
}

func TestCache_CorruptPayloadIsMiss(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t)

	require.NoError(t, c.Client().Set(ctx, recentPostsKey, "not-json", time.Minute).Err())

	_, err := c.GetPosts(ctx)
	assert.ErrorIs(t, err, ErrCacheMiss)

	exists, err := c.Client().Exists(ctx, recentPostsKey).Result()
	require.NoError(t, err)
	assert.Zero(t, exists)
}

func TestCache_CheckIPRateLimit(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t)

	ip := "203.0.113.7"
	var denied *RateLimitResult
	for i := 0; i < 6; i++ {
		res, err := c.CheckIPRateLimit(ctx, ip, 1, 3)
		require.NoError(t, err)
		if i < 3 {
			assert.True(t, res.Allowed, "request %d within burst should be allowed", i)
		}
		if !res.Allowed && denied == nil {
			denied = res
		}
	}

	require.NotNil(t, denied, "bucket should run dry after the burst")
	assert.Positive(t, denied.RetryAfter)
	assert.LessOrEqual(t, denied.RetryAfter, time.Second)
	assert.Zero(t, denied.Remaining)

	other, err := c.CheckIPRateLimit(ctx, "203.0.113.8", 1, 3)
	require.NoError(t, err)
	assert.True(t, other.Allowed, "buckets are per IP")
}

func TestCache_CheckIPRateLimit_Disabled(t *testing.T) {
	c := NewFromClient(nil)

	res, err := c.CheckIPRateLimit(context.Background(), "203.0.113.7", 0, 5)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
	assert.EqualValues(t, 5, res.Remaining)
}

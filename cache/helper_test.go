package cache_test

import (
	"context"
	"testing"
	"time"

	"quill/cache"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
}

func setupMiniredis(t *testing.T) {
	t.Helper()
	mr := miniredis.RunT(t)
	cache.Client = redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = cache.Client.Close()
		cache.Client = nil
	})
}

func TestGetSetJSON(t *testing.T) {
	setupMiniredis(t)
	ctx := context.Background()

	var missed payload
	found, err := cache.GetJSON(ctx, cache.PostKey(1), &missed)
	require.NoError(t, err)
	assert.False(t, found)

	stored := payload{ID: 1, Title: "Hello"}
	require.NoError(t, cache.SetJSON(ctx, cache.PostKey(1), stored, cache.PostTTL))

	var fetched payload
	found, err = cache.GetJSON(ctx, cache.PostKey(1), &fetched)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, stored, fetched)
}

func TestInvalidatePost_DropsEntryAndListing(t *testing.T) {
	setupMiniredis(t)
	ctx := context.Background()

	require.NoError(t, cache.SetJSON(ctx, cache.PostKey(1), payload{ID: 1}, cache.PostTTL))
	require.NoError(t, cache.SetJSON(ctx, cache.PostKey(2), payload{ID: 2}, cache.PostTTL))
	require.NoError(t, cache.SetJSON(ctx, cache.PostListKey(), []payload{{ID: 1}, {ID: 2}}, cache.PostTTL))

	cache.InvalidatePost(ctx, 1)

	var dest payload
	found, err := cache.GetJSON(ctx, cache.PostKey(1), &dest)
	require.NoError(t, err)
	assert.False(t, found, "written post must be evicted")

	var listing []payload
	found, err = cache.GetJSON(ctx, cache.PostListKey(), &listing)
	require.NoError(t, err)
	assert.False(t, found, "collection listing must be evicted")

	found, err = cache.GetJSON(ctx, cache.PostKey(2), &dest)
	require.NoError(t, err)
	assert.True(t, found, "unrelated posts stay cached")
}

func TestNilClientDegradesToNoCache(t *testing.T) {
	cache.Client = nil
	ctx := context.Background()

	var dest payload
	found, err := cache.GetJSON(ctx, cache.PostKey(1), &dest)
	require.NoError(t, err)
	assert.False(t, found)

	assert.NoError(t, cache.SetJSON(ctx, cache.PostKey(1), payload{}, time.Minute))
	cache.InvalidatePost(ctx, 1) // must not panic
}

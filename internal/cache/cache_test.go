package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

type cachedProfile struct {
	Username string `json:"username"`
	Bio      string `json:"bio"`
}

func useMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	prev := GetClient()
	SetClient(rdb)
	t.Cleanup(func() {
		SetClient(prev)
		_ = rdb.Close()
	})
	return mr
}

func TestGetSetJSONRoundTrip(t *testing.T) {
	useMiniredis(t)
	ctx := context.Background()

	var missing cachedProfile
	found, err := GetJSON(ctx, ProfileKey("ada"), &missing)
	assert.NoError(t, err)
	assert.False(t, found)

	stored := cachedProfile{Username: "ada", Bio: "writes about compilers"}
	assert.NoError(t, SetJSON(ctx, ProfileKey("ada"), stored, ProfileTTL))

	var loaded cachedProfile
	found, err = GetJSON(ctx, ProfileKey("ada"), &loaded)
	assert.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, stored, loaded)
}

func TestAsideFetchesOnceThenServesFromCache(t *testing.T) {
	useMiniredis(t)
	ctx := context.Background()

	fetches := 0
	fetch := func(dest *cachedProfile) func() error {
		return func() error {
			fetches++
			*dest = cachedProfile{Username: "brian", Bio: "fresh from the database"}
			return nil
		}
	}

	var first cachedProfile
	assert.NoError(t, Aside(ctx, UserKey(7), &first, UserTTL, fetch(&first)))
	assert.Equal(t, 1, fetches)
	assert.Equal(t, "brian", first.Username)

	var second cachedProfile
	assert.NoError(t, Aside(ctx, UserKey(7), &second, UserTTL, fetch(&second)))
	assert.Equal(t, 1, fetches, "second read should hit the cache")
	assert.Equal(t, first, second)
}

func TestAsideRefetchesAfterTTL(t *testing.T) {
	mr := useMiniredis(t)
	ctx := context.Background()

	fetches := 0
	var dest cachedProfile
	fetch := func() error {
		fetches++
		dest = cachedProfile{Username: "demo"}
		return nil
	}

	assert.NoError(t, Aside(ctx, ProfileKey("demo"), &dest, time.Minute, fetch))
	mr.FastForward(2 * time.Minute)
	assert.NoError(t, Aside(ctx, ProfileKey("demo"), &dest, time.Minute, fetch))
	assert.Equal(t, 2, fetches)
}

func TestInvalidatePostsListDropsFrontPage(t *testing.T) {
	useMiniredis(t)
	ctx := context.Background()

	assert.NoError(t, SetJSON(ctx, PostsListKey, []uint{5}, PostListTTL))

	InvalidatePostsList(ctx)

	var list []uint
	found, err := GetJSON(ctx, PostsListKey, &list)
	assert.NoError(t, err)
	assert.False(t, found)
}

func TestHelpersAreNoOpsWithoutClient(t *testing.T) {
	prev := GetClient()
	SetClient(nil)
	t.Cleanup(func() { SetClient(prev) })

	ctx := context.Background()
	assert.NoError(t, SetJSON(ctx, "key", "value", time.Minute))

	var dest string
	found, err := GetJSON(ctx, "key", &dest)
	assert.NoError(t, err)
	assert.False(t, found)

	// Aside falls straight through to the source of truth.
	fetched := false
	assert.NoError(t, Aside(ctx, "key", &dest, time.Minute, func() error {
		fetched = true
		dest = "from-db"
		return nil
	}))
	assert.True(t, fetched)
	assert.Equal(t, "from-db", dest)

	InvalidateUser(ctx, 1)
}

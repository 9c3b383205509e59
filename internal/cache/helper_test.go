package cache

import (
	"context"
	"testing"
	"time"

	"chirp/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestRedis points the package client at an in-process miniredis.
func setupTestRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	InitRedis(mr.Addr())
	require.NotNil(t, GetClient())
	t.Cleanup(func() { client = nil })

	return mr
}

func TestAside_MissThenHit(t *testing.T) {
	setupTestRedis(t)
	ctx := context.Background()

	fetchCalls := 0
	fetch := func(dest *models.User) func() error {
		return func() error {
			fetchCalls++
			dest.ID = 1
			dest.Email = "user1@test.com"
			return nil
		}
	}

	var first models.User
	require.NoError(t, Aside(ctx, UserKey(1), &first, UserTTL, fetch(&first)))
	assert.Equal(t, 1, fetchCalls)
	assert.Equal(t, "user1@test.com", first.Email)

	// Second read is served from the cache; the source is not consulted.
	var second models.User
	require.NoError(t, Aside(ctx, UserKey(1), &second, UserTTL, fetch(&second)))
	assert.Equal(t, 1, fetchCalls)
	assert.Equal(t, "user1@test.com", second.Email)
}

func TestAside_InvalidationForcesRefetch(t *testing.T) {
	setupTestRedis(t)
	ctx := context.Background()

	fetchCalls := 0
	load := func(dest *models.User) func() error {
		return func() error {
			fetchCalls++
			dest.ID = 1
			return nil
		}
	}

	var user models.User
	require.NoError(t, Aside(ctx, UserKey(1), &user, UserTTL, load(&user)))
	require.Equal(t, 1, fetchCalls)

	InvalidateUser(ctx, 1)

	var again models.User
	require.NoError(t, Aside(ctx, UserKey(1), &again, UserTTL, load(&again)))
	assert.Equal(t, 2, fetchCalls)
}

func TestAside_ExpiryForcesRefetch(t *testing.T) {
	mr := setupTestRedis(t)
	ctx := context.Background()

	fetchCalls := 0
	load := func(dest *models.Post) func() error {
		return func() error {
			fetchCalls++
			dest.ID = 9
			dest.Text = "hello"
			return nil
		}
	}

	var post models.Post
	require.NoError(t, Aside(ctx, PostKey(9), &post, PostTTL, load(&post)))
	require.Equal(t, 1, fetchCalls)

	mr.FastForward(PostTTL + time.Second)

	var again models.Post
	require.NoError(t, Aside(ctx, PostKey(9), &again, PostTTL, load(&again)))
	assert.Equal(t, 2, fetchCalls)
}

func TestAside_NoClientFallsThrough(t *testing.T) {
	client = nil

	fetchCalls := 0
	var user models.User
	err := Aside(context.Background(), UserKey(1), &user, UserTTL, func() error {
		fetchCalls++
		user.ID = 1
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, fetchCalls)
	assert.Equal(t, uint(1), user.ID)
}

func TestCachedUserNeverCarriesPasswordHash(t *testing.T) {
	mr := setupTestRedis(t)
	ctx := context.Background()

	user := models.User{ID: 1, Email: "user1@test.com", Password: "$2a$10$somebcrypthash"}
	require.NoError(t, SetJSON(ctx, UserKey(1), user, UserTTL))

	// The hash never reaches Redis
	raw, err := mr.Get(UserKey(1))
	require.NoError(t, err)
	assert.NotContains(t, raw, "somebcrypthash")

	// And a cache hit hands back an empty hash, never a bogus one
	var cached models.User
	found, err := GetJSON(ctx, UserKey(1), &cached)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "user1@test.com", cached.Email)
	assert.Empty(t, cached.Password)
}

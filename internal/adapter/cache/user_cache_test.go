package cache

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	domain "newsfeed-service/internal/domain/user"
)

// setupTestRedis creates a miniredis instance for testing
func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() {
		_ = client.Close()
	})
	return client, mr
}

func TestRedisUserCache_SetAndGet(t *testing.T) {
	client, _ := setupTestRedis(t)

	logger := zaptest.NewLogger(t)
	cache := NewRedisUserCache(client, 5*time.Minute, logger)

	user := &domain.User{
		ID:           1,
		Name:         "John Doe",
		Email:        "john@example.com",
		PasswordHash: "digest",
		Preferences:  []string{"tech", "cricket"},
	}

	err := cache.Set(context.Background(), user)
	require.NoError(t, err)

	// Verify data is in Redis under the expected key
	data, err := client.Get(context.Background(), "user:1").Bytes()
	require.NoError(t, err)

	var cached domain.User
	require.NoError(t, json.Unmarshal(data, &cached))
	assert.Equal(t, user.Email, cached.Email)

	got, err := cache.Get(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, user.Preferences, got.Preferences)
}

func TestRedisUserCache_SetNilUser(t *testing.T) {
	client, _ := setupTestRedis(t)

	cache := NewRedisUserCache(client, 5*time.Minute, zaptest.NewLogger(t))

	err := cache.Set(context.Background(), nil)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "cannot cache nil user")
}

func TestRedisUserCache_GetMiss(t *testing.T) {
	client, _ := setupTestRedis(t)

	cache := NewRedisUserCache(client, 5*time.Minute, zaptest.NewLogger(t))

	got, err := cache.Get(context.Background(), 99)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisUserCache_Delete(t *testing.T) {
	client, _ := setupTestRedis(t)

	cache := NewRedisUserCache(client, 5*time.Minute, zaptest.NewLogger(t))

	require.NoError(t, cache.Set(context.Background(), &domain.User{ID: 1, Email: "a@example.com"}))
	require.NoError(t, cache.Delete(context.Background(), 1))

	got, err := cache.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisUserCache_TTLExpiry(t *testing.T) {
	client, mr := setupTestRedis(t)

	cache := NewRedisUserCache(client, time.Minute, zaptest.NewLogger(t))

	require.NoError(t, cache.Set(context.Background(), &domain.User{ID: 1, Email: "a@example.com"}))

	mr.FastForward(2 * time.Minute)

	got, err := cache.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Nil(t, got)
}

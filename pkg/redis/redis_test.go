package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlacklistKey(t *testing.T) {
	assert.Equal(t, "blacklist:abc.def", blacklistKey("abc.def"))
}

// Runs against a real server when REDIS_TEST_ADDR is set.
func TestTokenBlacklist(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	defer client.Close()
	ctx := context.Background()
	require.NoError(t, client.Ping(ctx).Err())

	blacklist := NewTokenBlacklist(client)
	token := uuid.NewString()

	revoked, err := blacklist.IsRevoked(ctx, token)
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, blacklist.Revoke(ctx, token, time.Minute))
	revoked, err = blacklist.IsRevoked(ctx, token)
	require.NoError(t, err)
	assert.True(t, revoked)

	ttl, err := client.TTL(ctx, blacklistKey(token)).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, 50*time.Second)
}

func TestTokenBlacklist_Unreachable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()
	blacklist := NewTokenBlacklist(client)

	_, err := blacklist.IsRevoked(context.Background(), "token")
	assert.Error(t, err)
	assert.Error(t, blacklist.Revoke(context.Background(), "token", time.Minute))
}

package auth

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryRevocationStore_RevokeToken(t *testing.T) {
	store := NewInMemoryRevocationStore()
	ctx := context.Background()

	require.NoError(t, store.RevokeToken(ctx, "jti-1", time.Hour))

	revoked, err := store.IsTokenRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = store.IsTokenRevoked(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestInMemoryRevocationStore_Expiry(t *testing.T) {
	store := NewInMemoryRevocationStore()
	now := time.Date(2025, 9, 22, 10, 0, 0, 0, time.UTC)
	store.nowFunc = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.RevokeToken(ctx, "jti-expire", time.Minute))

	now = now.Add(2 * time.Minute)
	revoked, err := store.IsTokenRevoked(ctx, "jti-expire")
	require.NoError(t, err)
	assert.False(t, revoked)
	assert.Empty(t, store.tokens, "expired entries are dropped")
}

func TestInMemoryRevocationStore_RevokeUser(t *testing.T) {
	store := NewInMemoryRevocationStore()
	now := time.Date(2025, 9, 22, 10, 0, 0, 0, time.UTC)
	store.nowFunc = func() time.Time { return now }
	ctx := context.Background()

	issuedBefore := now.Add(-time.Hour)

	revoked, err := store.IsUserRevoked(ctx, "user-1", issuedBefore)
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, store.RevokeUser(ctx, "user-1", time.Hour))

	revoked, err = store.IsUserRevoked(ctx, "user-1", issuedBefore)
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = store.IsUserRevoked(ctx, "user-1", now.Add(time.Second))
	require.NoError(t, err)
	assert.False(t, revoked, "tokens issued after the revocation stay valid")

	revoked, err = store.IsUserRevoked(ctx, "user-2", issuedBefore)
	require.NoError(t, err)
	assert.False(t, revoked)
}

// TestRedisRevocationStore runs against a real server when POS_TEST_REDIS_ADDR is set
func TestRedisRevocationStore(t *testing.T) {
	addr := os.Getenv("POS_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("POS_TEST_REDIS_ADDR not set")
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })
	ctx := context.Background()
	require.NoError(t, client.Ping(ctx).Err())

	store := NewRedisRevocationStore(client)
	store.keyPrefix = "pos:test:" + time.Now().Format("150405.000000") + ":"

	require.NoError(t, store.RevokeToken(ctx, "jti-1", time.Minute))
	revoked, err := store.IsTokenRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	require.NoError(t, store.RevokeUser(ctx, "user-1", time.Minute))
	revoked, err = store.IsUserRevoked(ctx, "user-1", time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = store.IsUserRevoked(ctx, "user-2", time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.False(t, revoked)
}

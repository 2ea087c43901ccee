package cache

import (
	"context"
	"testing"
	"time"

	"github.com/binovo/connector-prestashop/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMemoryIdentityStore_MarkProcessed(t *testing.T) {
	store := NewMemoryIdentityStore(time.Hour)
	defer store.Close()
	ctx := context.Background()

	ok, err := store.MarkProcessed(ctx, "k1", time.Hour)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.MarkProcessed(ctx, "k1", time.Hour)
	require.NoError(t, err)
	assert.False(t, ok, "second submission collapses into the first")

	taken, err := store.IsProcessed(ctx, "k1")
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = store.IsProcessed(ctx, "other")
	require.NoError(t, err)
	assert.False(t, taken)
}

func TestMemoryIdentityStore_Expiry(t *testing.T) {
	store := NewMemoryIdentityStore(time.Hour)
	defer store.Close()
	ctx := context.Background()

	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	ok, _ := store.MarkProcessed(ctx, "k", time.Minute)
	require.True(t, ok)

	now = now.Add(time.Minute)
	taken, _ := store.IsProcessed(ctx, "k")
	assert.False(t, taken)

	ok, _ = store.MarkProcessed(ctx, "k", time.Minute)
	assert.True(t, ok, "expired key can be taken again")
}

func TestMemoryIdentityStore_ReleaseAndSweep(t *testing.T) {
	store := NewMemoryIdentityStore(time.Hour)
	defer store.Close()
	ctx := context.Background()

	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	_, _ = store.MarkProcessed(ctx, "a", time.Minute)
	_, _ = store.MarkProcessed(ctx, "b", time.Hour)
	require.NoError(t, store.Release(ctx, "b"))

	ok, _ := store.MarkProcessed(ctx, "b", time.Hour)
	assert.True(t, ok, "released key can be taken again")

	now = now.Add(2 * time.Minute)
	store.sweep()
	assert.Equal(t, 1, store.Len())
}

func TestMemoryIdentityStore_CloseTwice(t *testing.T) {
	store := NewMemoryIdentityStore(time.Millisecond)
	require.NoError(t, store.Close())
	require.NoError(t, store.Close())
}

func TestNewIdentityStore_Fallback(t *testing.T) {
	ctx := context.Background()

	store := NewIdentityStore(ctx, config.RedisConfig{Enabled: false}, zap.NewNop())
	defer store.Close()
	assert.IsType(t, &MemoryIdentityStore{}, store)

	unreachable := NewIdentityStore(ctx, config.RedisConfig{Enabled: true, Host: "127.0.0.1", Port: 1}, zap.NewNop())
	defer unreachable.Close()
	assert.IsType(t, &MemoryIdentityStore{}, unreachable)
}

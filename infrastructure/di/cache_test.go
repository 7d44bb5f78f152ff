package di

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryCache_SetAndGet(t *testing.T) {
	cache := NewQueryCache()
	defer cache.Close()
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "matters:user-1", []string{"2026-0001"}, 60))

	value, ok := cache.Get(ctx, "matters:user-1")
	require.True(t, ok)
	assert.Equal(t, []string{"2026-0001"}, value)

	_, ok = cache.Get(ctx, "matters:user-2")
	assert.False(t, ok)
}

func TestQueryCache_ExpiredEntryIsAbsent(t *testing.T) {
	cache := NewQueryCache()
	defer cache.Close()
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "key", "value", 0))
	time.Sleep(5 * time.Millisecond)

	_, ok := cache.Get(ctx, "key")
	assert.False(t, ok)
}

func TestQueryCache_DeleteAndClear(t *testing.T) {
	cache := NewQueryCache()
	defer cache.Close()
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "a", 1, 60))
	require.NoError(t, cache.Set(ctx, "b", 2, 60))

	require.NoError(t, cache.Delete(ctx, "a"))
	_, ok := cache.Get(ctx, "a")
	assert.False(t, ok)

	require.NoError(t, cache.Clear(ctx))
	_, ok = cache.Get(ctx, "b")
	assert.False(t, ok)
}

func TestQueryCache_CloseIsIdempotent(t *testing.T) {
	cache := NewQueryCache()
	cache.Close()
	cache.Close()
}

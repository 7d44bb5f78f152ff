package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenBucketLimiter_ExhaustsAndRefills(t *testing.T) {
	limiter := NewTokenBucketLimiter(3, 20*time.Millisecond)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, err := limiter.Allow(ctx, "client-1")
		require.NoError(t, err)
		assert.True(t, allowed, "request %d should be allowed", i+1)
	}

	allowed, err := limiter.Allow(ctx, "client-1")
	require.NoError(t, err)
	assert.False(t, allowed)

	// One refill interval restores one token.
	time.Sleep(25 * time.Millisecond)
	allowed, err = limiter.Allow(ctx, "client-1")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestTokenBucketLimiter_BucketsAreIndependent(t *testing.T) {
	limiter := NewTokenBucketLimiter(1, time.Minute)
	ctx := context.Background()

	allowed, err := limiter.Allow(ctx, "client-1")
	require.NoError(t, err)
	require.True(t, allowed)

	allowed, err = limiter.Allow(ctx, "client-1")
	require.NoError(t, err)
	assert.False(t, allowed)

	allowed, err = limiter.Allow(ctx, "client-2")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestTokenBucketLimiter_Reset(t *testing.T) {
	limiter := NewTokenBucketLimiter(1, time.Minute)
	ctx := context.Background()

	_, err := limiter.Allow(ctx, "client-1")
	require.NoError(t, err)

	allowed, err := limiter.Allow(ctx, "client-1")
	require.NoError(t, err)
	require.False(t, allowed)

	require.NoError(t, limiter.Reset(ctx, "client-1"))

	allowed, err = limiter.Allow(ctx, "client-1")
	require.NoError(t, err)
	assert.True(t, allowed)
}

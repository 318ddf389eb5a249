package ratelimit_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/mirror-api/internal/ratelimit"
)

func TestMemoryLimiter(t *testing.T) {
	limiter := ratelimit.NewMemory()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, remaining, _, err := limiter.Allow(ctx, "login:10.0.0.1", time.Minute, 3)
		require.NoError(t, err)
		require.True(t, allowed)
		require.Equal(t, 2-i, remaining)
	}
	allowed, remaining, reset, err := limiter.Allow(ctx, "login:10.0.0.1", time.Minute, 3)
	require.NoError(t, err)
	require.False(t, allowed)
	require.Zero(t, remaining)
	require.True(t, reset.After(time.Now()))

	allowed, _, _, err = limiter.Allow(ctx, "login:10.0.0.2", time.Minute, 3)
	require.NoError(t, err)
	require.True(t, allowed)
}

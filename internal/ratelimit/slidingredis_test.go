package ratelimit_test

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-grocer/internal/ratelimit"
)

func TestAllowWithinLimit(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	limiter := ratelimit.Limiter{Client: client, Prefix: "rl:"}
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, _, _, err := limiter.Allow(ctx, "client-a", time.Minute, 3)
		require.NoError(t, err)
		require.True(t, allowed)
	}
	allowed, remaining, _, err := limiter.Allow(ctx, "client-a", time.Minute, 3)
	require.NoError(t, err)
	require.False(t, allowed)
	require.Zero(t, remaining)
}

func TestAllowSeparateKeys(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	limiter := ratelimit.Limiter{Client: client, Prefix: "rl:"}
	ctx := context.Background()

	_, _, _, err = limiter.Allow(ctx, "client-a", time.Minute, 1)
	require.NoError(t, err)
	allowed, _, _, err := limiter.Allow(ctx, "client-b", time.Minute, 1)
	require.NoError(t, err)
	require.True(t, allowed)
}

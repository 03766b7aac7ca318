package middleware

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisLimiterForTest(t *testing.T) (*miniredis.Miniredis, *RedisLimiter) {
	t.Helper()
	m := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return m, NewRedisLimiter(client, "rl_test")
}

func TestRedisLimiter_FixedWindow(t *testing.T) {
	m, limiter := newRedisLimiterForTest(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		allowed, _, err := limiter.Allow(ctx, "auth:1.2.3.4", 5, 15*time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed, "request %d", i+1)
	}

	allowed, retryAfter, err := limiter.Allow(ctx, "auth:1.2.3.4", 5, 15*time.Minute)
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Greater(t, retryAfter, time.Duration(0))
	assert.LessOrEqual(t, retryAfter, 15*time.Minute)

	allowed, _, err = limiter.Allow(ctx, "auth:5.6.7.8", 5, 15*time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)

	m.FastForward(15 * time.Minute)
	allowed, _, err = limiter.Allow(ctx, "auth:1.2.3.4", 5, 15*time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestRedisLimiter_KeysCarryTTL(t *testing.T) {
	m, limiter := newRedisLimiterForTest(t)

	_, _, err := limiter.Allow(context.Background(), "auth:1.2.3.4", 5, time.Minute)
	require.NoError(t, err)

	assert.True(t, m.Exists("rl_test:auth:1.2.3.4"))
	assert.Equal(t, time.Minute, m.TTL("rl_test:auth:1.2.3.4"))
}

func TestRedisLimiter_BackendErrors(t *testing.T) {
	limiter := NewRedisLimiter(nil, "")
	_, _, err := limiter.Allow(context.Background(), "k", 5, time.Minute)
	assert.Error(t, err)

	m, limiter := newRedisLimiterForTest(t)
	m.Close()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, _, err = limiter.Allow(ctx, "k", 5, time.Minute)
	assert.Error(t, err)
}

func TestNewRedisClient(t *testing.T) {
	m := miniredis.RunT(t)

	client, err := NewRedisClient(context.Background(), "redis://"+m.Addr()+"/0")
	require.NoError(t, err)
	_ = client.Close()

	_, err = NewRedisClient(context.Background(), "not a url")
	assert.Error(t, err)
}

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRedisCacheUnreachable(t *testing.T) {
	_, err := NewRedisCache("127.0.0.1:1", "", 0)
	assert.Error(t, err)
}

func TestIncrWithTTL(t *testing.T) {
	mr := miniredis.RunT(t)
	c, err := NewRedisCache(mr.Addr(), "", 0)
	require.NoError(t, err)
	defer c.Close()

	ctx := context.Background()
	key := RateLimitKey("10.0.0.1", time.Unix(1_700_000_000, 0))

	n, err := c.IncrWithTTL(ctx, key, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, time.Minute, mr.TTL(key))

	n, err = c.IncrWithTTL(ctx, key, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	mr.FastForward(time.Minute)
	assert.False(t, mr.Exists(key))
	require.NoError(t, c.Ping(ctx))
}

func TestRateLimitKey(t *testing.T) {
	assert.Equal(t, "ratelimit:ip:10.0.0.1:1700000000", RateLimitKey("10.0.0.1", time.Unix(1_700_000_000, 0)))
}

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ninebox/ninebox/pkg/config"
)

func newMiniredis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func TestRedisRoundTrip(t *testing.T) {
	ctx := context.Background()
	mr, client := newMiniredis(t)
	c := NewRedis(client, time.Minute)

	c.Put(ctx, record("a"))
	assert.True(t, mr.Exists("ninebox:assessment:a"))
	assert.Equal(t, time.Minute, mr.TTL("ninebox:assessment:a"))

	got, ok := c.Get(ctx, "a")
	require.True(t, ok)
	assert.Equal(t, "emp-a", got.EmployeeID)
	require.NotNil(t, got.Input.Q1Score)
	assert.Equal(t, 3, *got.Input.Q1Score)
	assert.Equal(t, 3, got.Result.PerformanceScore)

	c.Invalidate(ctx, "a")
	_, ok = c.Get(ctx, "a")
	assert.False(t, ok)
}

func TestRedisExpiry(t *testing.T) {
	ctx := context.Background()
	mr, client := newMiniredis(t)
	c := NewRedis(client, 0)

	c.Put(ctx, record("a"))
	assert.Equal(t, defaultTTL, mr.TTL("ninebox:assessment:a"))

	mr.FastForward(defaultTTL + time.Second)
	_, ok := c.Get(ctx, "a")
	assert.False(t, ok)
}

func TestRedisCorruptValueIsMiss(t *testing.T) {
	ctx := context.Background()
	mr, client := newMiniredis(t)
	c := NewRedis(client, time.Minute)

	require.NoError(t, mr.Set("ninebox:assessment:bad", "not json"))
	_, ok := c.Get(ctx, "bad")
	assert.False(t, ok)
}

func TestNewSelectsBackend(t *testing.T) {
	ctx := context.Background()
	mr, _ := newMiniredis(t)

	c, err := New(ctx, config.CacheConfig{Backend: "none"})
	require.NoError(t, err)
	assert.IsType(t, Nop{}, c)

	c, err = New(ctx, config.CacheConfig{Backend: "memory", Size: 5})
	require.NoError(t, err)
	assert.IsType(t, &LRU{}, c)

	c, err = New(ctx, config.CacheConfig{Backend: "redis", RedisAddress: mr.Addr(), TTL: time.Minute})
	require.NoError(t, err)
	assert.IsType(t, &Redis{}, c)
	c.(*Redis).Close()

	_, err = New(ctx, config.CacheConfig{Backend: "memcached"})
	assert.Error(t, err)
}

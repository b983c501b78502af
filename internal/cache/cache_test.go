package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestFakeCache(t *testing.T) {
	ctx := context.Background()
	c := &FakeCache{}
	require.Panics(t, func() { c.Get(ctx, "k") })
	require.Panics(t, func() { c.Incr(ctx, "k") })
	require.Panics(t, func() { c.Expire(ctx, "k", time.Second) })
	require.Panics(t, func() { c.Del(ctx, "k") })
	require.Panics(t, func() { c.Ping(ctx) })
	require.NoError(t, c.Close())

	var expired time.Duration
	var deleted []string
	c.GetFn = func(context.Context, string) *redis.StringCmd { return redis.NewStringResult("v", nil) }
	c.IncrFn = func(context.Context, string) *redis.IntCmd { return redis.NewIntResult(3, nil) }
	c.ExpireFn = func(_ context.Context, _ string, exp time.Duration) *redis.BoolCmd {
		expired = exp
		return redis.NewBoolResult(true, nil)
	}
	c.DelFn = func(_ context.Context, keys ...string) *redis.IntCmd {
		deleted = keys
		return redis.NewIntResult(int64(len(keys)), nil)
	}
	c.PingFn = func(context.Context) *redis.StatusCmd { return redis.NewStatusResult("PONG", nil) }
	c.CloseFn = func() error { return errors.New("close") }

	require.Equal(t, "v", c.Get(ctx, "k").Val())
	require.Equal(t, int64(3), c.Incr(ctx, "k").Val())
	require.True(t, c.Expire(ctx, "k", time.Minute).Val())
	require.Equal(t, time.Minute, expired)
	require.Equal(t, int64(2), c.Del(ctx, "a", "b").Val())
	require.Equal(t, []string{"a", "b"}, deleted)
	require.Equal(t, "PONG", c.Ping(ctx).Val())
	require.EqualError(t, c.Close(), "close")
}

func TestRedisClientSatisfiesCache(t *testing.T) {
	var _ Cache = redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
}

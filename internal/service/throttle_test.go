package service

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"sweet-shop/internal/cache"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// memCounter backs a FakeCache with a map so throttle flows can be exercised.
type memCounter struct {
	counts  map[string]int64
	expires map[string]time.Duration
}

func newMemCache() (*cache.FakeCache, *memCounter) {
	m := &memCounter{counts: map[string]int64{}, expires: map[string]time.Duration{}}
	return &cache.FakeCache{
		GetFn: func(_ context.Context, key string) *redis.StringCmd {
			n, ok := m.counts[key]
			if !ok {
				return redis.NewStringResult("", redis.Nil)
			}
			return redis.NewStringResult(strconv.FormatInt(n, 10), nil)
		},
		IncrFn: func(_ context.Context, key string) *redis.IntCmd {
			m.counts[key]++
			return redis.NewIntResult(m.counts[key], nil)
		},
		ExpireFn: func(_ context.Context, key string, exp time.Duration) *redis.BoolCmd {
			m.expires[key] = exp
			return redis.NewBoolResult(true, nil)
		},
		DelFn: func(_ context.Context, keys ...string) *redis.IntCmd {
			for _, k := range keys {
				delete(m.counts, k)
			}
			return redis.NewIntResult(int64(len(keys)), nil)
		},
	}, m
}

func TestLoginThrottle(t *testing.T) {
	ctx := context.Background()
	c, m := newMemCache()
	th := NewLoginThrottle(c, 3, time.Minute, nil)

	require.False(t, th.Blocked(ctx, "a@b.co"))
	th.Fail(ctx, "a@b.co")
	th.Fail(ctx, "a@b.co")
	require.False(t, th.Blocked(ctx, "a@b.co"))
	th.Fail(ctx, "a@b.co")
	require.True(t, th.Blocked(ctx, "a@b.co"))
	require.False(t, th.Blocked(ctx, "other@b.co"))
	require.Equal(t, time.Minute, m.expires["login:failed:a@b.co"])
	require.Len(t, m.expires, 1)

	th.Reset(ctx, "a@b.co")
	require.False(t, th.Blocked(ctx, "a@b.co"))
}

func TestLoginThrottleDefaults(t *testing.T) {
	th := NewLoginThrottle(&cache.FakeCache{}, 0, 0, nil)
	require.Equal(t, DefaultLoginMaxAttempts, th.max)
	require.Equal(t, DefaultLoginWindow, th.window)
}

func TestLoginThrottleNil(t *testing.T) {
	var th *LoginThrottle
	ctx := context.Background()
	require.False(t, th.Blocked(ctx, "a@b.co"))
	th.Fail(ctx, "a@b.co")
	th.Reset(ctx, "a@b.co")
}

func TestLoginThrottleFailsOpen(t *testing.T) {
	ctx := context.Background()
	core, logs := observer.New(zap.WarnLevel)
	down := errors.New("connection refused")
	c := &cache.FakeCache{
		GetFn:  func(context.Context, string) *redis.StringCmd { return redis.NewStringResult("", down) },
		IncrFn: func(context.Context, string) *redis.IntCmd { return redis.NewIntResult(0, down) },
		DelFn:  func(context.Context, ...string) *redis.IntCmd { return redis.NewIntResult(0, down) },
	}
	th := NewLoginThrottle(c, 1, time.Minute, zap.New(core))

	require.False(t, th.Blocked(ctx, "a@b.co"))
	th.Fail(ctx, "a@b.co")
	th.Reset(ctx, "a@b.co")
	require.Equal(t, 3, logs.Len())
}

func TestLoginThrottleGarbageCount(t *testing.T) {
	c := &cache.FakeCache{GetFn: func(context.Context, string) *redis.StringCmd {
		return redis.NewStringResult("not-a-number", nil)
	}}
	th := NewLoginThrottle(c, 1, time.Minute, nil)
	require.False(t, th.Blocked(context.Background(), "a@b.co"))
}

// File: internal/service/throttle.go
package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"sweet-shop/internal/cache"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	DefaultLoginMaxAttempts = 5
	DefaultLoginWindow      = 15 * time.Minute
	loginAttemptsPrefix     = "login:failed:"
)

// LoginThrottle counts failed logins per email in Redis. Every method is
// safe on a nil receiver, which disables throttling. Redis errors are logged
// and treated as "not blocked".
type LoginThrottle struct {
	cache  cache.Cache
	max    int
	window time.Duration
	log    *zap.Logger
}

func NewLoginThrottle(c cache.Cache, maxAttempts int, window time.Duration, log *zap.Logger) *LoginThrottle {
	if maxAttempts <= 0 {
		maxAttempts = DefaultLoginMaxAttempts
	}
	if window <= 0 {
		window = DefaultLoginWindow
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &LoginThrottle{cache: c, max: maxAttempts, window: window, log: log}
}

func attemptsKey(email string) string { return loginAttemptsPrefix + email }

// Blocked reports whether email has used up its failed attempts.
func (t *LoginThrottle) Blocked(ctx context.Context, email string) bool {
	if t == nil {
		return false
	}
	val, err := t.cache.Get(ctx, attemptsKey(email)).Result()
	if errors.Is(err, redis.Nil) {
		return false
	}
	if err != nil {
		t.log.Warn("login throttle lookup failed", zap.Error(err))
		return false
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return false
	}
	return n >= t.max
}

// Fail records one failed attempt. The window starts at the first failure.
func (t *LoginThrottle) Fail(ctx context.Context, email string) {
	if t == nil {
		return
	}
	key := attemptsKey(email)
	n, err := t.cache.Incr(ctx, key).Result()
	if err != nil {
		t.log.Warn("login throttle increment failed", zap.Error(err))
		return
	}
	if n == 1 {
		if err := t.cache.Expire(ctx, key, t.window).Err(); err != nil {
			t.log.Warn("login throttle expire failed", zap.Error(err))
		}
	}
}

// Reset forgets the failed attempts for email.
func (t *LoginThrottle) Reset(ctx context.Context, email string) {
	if t == nil {
		return
	}
	if err := t.cache.Del(ctx, attemptsKey(email)).Err(); err != nil {
		t.log.Warn("login throttle reset failed", zap.Error(err))
	}
}

// Package ratelimit throttles signup attempts per client IP using
// atomic Redis Lua scripts. The GET then check then INCR pattern races
// under concurrent requests, so check and increment happen in one
// script invocation.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ignite/waitlist-api/internal/pkg/logger"
)

// Lua script for atomic check-and-increment. Only increments when the
// request is allowed, so denied requests never consume budget.
const checkIncrementScript = `
local key = KEYS[1]
local limit = tonumber(ARGV[1])
local ttl = tonumber(ARGV[2])

local current = tonumber(redis.call("GET", key) or "0")

if current + 1 > limit then
    return {0, 0}
end

local newVal = redis.call("INCR", key)
if newVal == 1 then
    redis.call("EXPIRE", key, ttl)
end

return {1, limit - newVal}
`

// Result describes a single rate limit decision.
type Result struct {
	Allowed   bool
	Remaining int
	// RetryAfter is how long until the current window rolls over. Only
	// meaningful when Allowed is false.
	RetryAfter time.Duration
	// Reset is the unix timestamp when the window rolls over.
	Reset int64
}

// Limiter enforces a fixed-window per-IP limit.
type Limiter struct {
	redis  *redis.Client
	script *redis.Script
	limit  int
	window time.Duration
}

// New creates a limiter with pre-compiled Lua script.
func New(client *redis.Client, limit int, window time.Duration) *Limiter {
	return &Limiter{
		redis:  client,
		script: redis.NewScript(checkIncrementScript),
		limit:  limit,
		window: window,
	}
}

// NewFromURL creates a limiter by connecting to Redis and verifying
// the connection.
func NewFromURL(redisURL string, limit int, window time.Duration) (*Limiter, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	return New(client, limit, window), nil
}

// Allow checks whether the given IP may attempt a signup in the
// current window and consumes one slot when it may. Redis failures
// fail open: a broken limiter must not take signups down with it.
func (l *Limiter) Allow(ctx context.Context, ip string) Result {
	windowSec := int64(l.window / time.Second)
	now := time.Now().Unix()
	bucket := now / windowSec
	reset := (bucket + 1) * windowSec

	key := fmt.Sprintf("ratelimit:signup:%s:%d", ip, bucket)

	// TTL covers the window plus slack so a key created late in the
	// window still outlives it.
	res, err := l.script.Run(ctx, l.redis,
		[]string{key},
		l.limit,
		windowSec*2,
	).Slice()
	if err != nil {
		logger.Warn("Rate limit check failed, allowing request", "error", err.Error())
		return Result{Allowed: true, Remaining: l.limit, Reset: reset}
	}

	allowed := res[0].(int64) == 1
	remaining := int(res[1].(int64))

	out := Result{Allowed: allowed, Remaining: remaining, Reset: reset}
	if !allowed {
		out.RetryAfter = time.Duration(reset-now) * time.Second
	}
	return out
}

// Close closes the Redis connection.
func (l *Limiter) Close() error {
	return l.redis.Close()
}

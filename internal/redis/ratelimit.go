package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

type RateLimitConfig struct {
	WriteLimit  int
	WriteWindow time.Duration
}

// RateLimiter counts catalog writes per caller in fixed windows.
type RateLimiter struct {
	client *goredis.Client
	config RateLimitConfig
}

type RateLimitResult struct {
	Allowed   bool
	Remaining int
	ResetIn   time.Duration
	Limit     int
}

func NewRateLimiter(client *goredis.Client, config RateLimitConfig) *RateLimiter {
	return &RateLimiter{client: client, config: config}
}

// windowScript counts one hit and returns {hits, pttl}. The first hit of a
// window starts its expiry.
var windowScript = goredis.NewScript(`
local hits = redis.call('INCR', KEYS[1])
if hits == 1 then
	redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
return {hits, redis.call('PTTL', KEYS[1])}
`)

func writeKey(userID string) string {
	return fmt.Sprintf("ratelimit:%s:writes", userID)
}

// AllowWrite consumes one write of the caller's quota. Rejected attempts
// still count within the current window.
func (r *RateLimiter) AllowWrite(ctx context.Context, userID string) (*RateLimitResult, error) {
	limit, window := r.config.WriteLimit, r.config.WriteWindow
	raw, err := windowScript.Run(ctx, r.client, []string{writeKey(userID)}, window.Milliseconds()).Int64Slice()
	if err != nil {
		return nil, fmt.Errorf("rate limit check failed: %w", err)
	}
	if len(raw) != 2 {
		return nil, fmt.Errorf("rate limit check failed: unexpected reply %v", raw)
	}

	hits := int(raw[0])
	resetIn := window
	if raw[1] > 0 {
		resetIn = time.Duration(raw[1]) * time.Millisecond
	}
	return &RateLimitResult{
		Allowed:   hits <= limit,
		Remaining: max(limit-hits, 0),
		ResetIn:   resetIn,
		Limit:     limit,
	}, nil
}

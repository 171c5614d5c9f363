package ratelimit

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "travelbook:ratelimit"

// RateLimitType buckets routes that share a request budget
type RateLimitType string

const (
	RateLimitTypeDefault         RateLimitType = "default"
	RateLimitTypePublic          RateLimitType = "public"
	RateLimitTypeAuth            RateLimitType = "auth"
	RateLimitTypeBooking         RateLimitType = "booking"
	RateLimitTypeBookingCritical RateLimitType = "booking_critical"
	RateLimitTypeAdmin           RateLimitType = "admin"
	RateLimitTypeUser            RateLimitType = "user"
	RateLimitTypeHealth          RateLimitType = "health"
)

// Config holds request budgets for one window. Types missing from Limits
// use DefaultLimit.
type Config struct {
	Enabled        bool
	Window         time.Duration
	DefaultLimit   int
	Limits         map[RateLimitType]int
	WhitelistedIPs []string
}

type Result struct {
	Allowed   bool  `json:"allowed"`
	Limit     int   `json:"limit"`
	Remaining int   `json:"remaining"`
	ResetTime int64 `json:"reset_time"`
}

// slidingWindow drops entries older than the window and admits the request
// while fewer than limit remain. Replies {allowed, count}.
var slidingWindow = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])

redis.call('ZREMRANGEBYSCORE', key, '-inf', now - window)
local count = redis.call('ZCARD', key)
local allowed = 0
if count < limit then
	redis.call('ZADD', key, now, ARGV[4])
	count = count + 1
	allowed = 1
end
redis.call('PEXPIRE', key, window)
return {allowed, count}
`)

// RateLimiter counts requests per client and route type in redis sorted sets
type RateLimiter struct {
	client    redis.Cmdable
	config    *Config
	whitelist map[string]struct{}
	seq       atomic.Uint64
}

func NewRateLimiter(client redis.Cmdable, config *Config) *RateLimiter {
	whitelist := make(map[string]struct{}, len(config.WhitelistedIPs))
	for _, ip := range config.WhitelistedIPs {
		whitelist[ip] = struct{}{}
	}
	return &RateLimiter{
		client:    client,
		config:    config,
		whitelist: whitelist,
	}
}

func (r *RateLimiter) Limit(limitType RateLimitType) int {
	if n, ok := r.config.Limits[limitType]; ok && n > 0 {
		return n
	}
	return r.config.DefaultLimit
}

// IsAllowed records one request and reports whether it fits the window.
// Disabled limiters and whitelisted clients never touch redis.
func (r *RateLimiter) IsAllowed(ctx context.Context, clientIP string, limitType RateLimitType) (*Result, error) {
	limit := r.Limit(limitType)
	now := time.Now()
	result := &Result{
		Allowed:   true,
		Limit:     limit,
		Remaining: limit,
		ResetTime: now.Add(r.config.Window).Unix(),
	}
	if !r.config.Enabled || r.isWhitelisted(clientIP) {
		return result, nil
	}

	key := fmt.Sprintf("%s:%s:%s", keyPrefix, limitType, clientIP)
	// unique members so requests within the same millisecond all count
	member := fmt.Sprintf("%d-%d", now.UnixNano(), r.seq.Add(1))

	reply, err := slidingWindow.Run(ctx, r.client, []string{key},
		now.UnixMilli(), r.config.Window.Milliseconds(), limit, member).Int64Slice()
	if err != nil {
		return nil, fmt.Errorf("rate limit script failed: %w", err)
	}
	if len(reply) != 2 {
		return nil, fmt.Errorf("unexpected rate limit reply %v", reply)
	}

	result.Allowed = reply[0] == 1
	result.Remaining = max(limit-int(reply[1]), 0)
	return result, nil
}

func (r *RateLimiter) isWhitelisted(ip string) bool {
	_, ok := r.whitelist[ip]
	return ok
}

package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// Upload actions limited per user.
const (
	ActionImageUpload = "upload_image"
	ActionVideoUpload = "upload_video"
)

// Limit describes one bucket: Capacity tokens, refilled at RefillPerMinute.
type Limit struct {
	Capacity        int64
	RefillPerMinute int64
}

// DefaultLimits are applied when the server does not override them.
var DefaultLimits = map[string]Limit{
	ActionImageUpload: {Capacity: 30, RefillPerMinute: 30},
	ActionVideoUpload: {Capacity: 10, RefillPerMinute: 10},
}

// Decision is the outcome of a single Take.
type Decision struct {
	Allowed   bool
	Remaining int64
	Limit     int64
}

// takeScript refills the bucket for the elapsed time and consumes one token
// if available. Returns {allowed, remaining}.
var takeScript = redis.NewScript(`
	local key = KEYS[1]
	local capacity = tonumber(ARGV[1])
	local refill_rate = tonumber(ARGV[2])
	local window = tonumber(ARGV[3])
	local now = tonumber(ARGV[4])

	local bucket = redis.call('HMGET', key, 'tokens', 'last_refill')
	local tokens = tonumber(bucket[1]) or capacity
	local last_refill = tonumber(bucket[2]) or now

	local refilled = math.floor(((now - last_refill) / window) * refill_rate)
	if refilled > 0 then
		tokens = math.min(capacity, tokens + refilled)
		last_refill = now
	end

	local allowed = 0
	if tokens > 0 then
		tokens = tokens - 1
		allowed = 1
	end

	redis.call('HSET', key, 'tokens', tokens, 'last_refill', last_refill)
	redis.call('EXPIRE', key, window * 2)
	return {allowed, tokens}
`)

// Limiter is a Redis backed token bucket keyed by user and action.
type Limiter struct {
	redis  *redis.Client
	limits map[string]Limit
	window time.Duration
}

// New creates a limiter. Actions missing from limits are not limited.
func New(client *redis.Client, limits map[string]Limit) *Limiter {
	if limits == nil {
		limits = DefaultLimits
	}
	return &Limiter{
		redis:  client,
		limits: limits,
		window: time.Minute,
	}
}

func key(userID, action string) string {
	return fmt.Sprintf("media:ratelimit:%s:%s", userID, action)
}

// Limited reports whether the action has a configured bucket.
func (l *Limiter) Limited(action string) bool {
	_, ok := l.limits[action]
	return ok
}

// Take consumes one token for userID/action.
func (l *Limiter) Take(ctx context.Context, userID, action string) (Decision, error) {
	limit, ok := l.limits[action]
	if !ok {
		return Decision{Allowed: true, Remaining: -1, Limit: -1}, nil
	}

	res, err := takeScript.Run(ctx, l.redis, []string{key(userID, action)},
		limit.Capacity, limit.RefillPerMinute, int64(l.window.Seconds()), time.Now().Unix()).Result()
	if err != nil {
		return Decision{}, fmt.Errorf("rate limit check failed: %w", err)
	}

	vals, ok := res.([]interface{})
	if !ok || len(vals) != 2 {
		return Decision{}, fmt.Errorf("unexpected rate limit script result %T", res)
	}
	allowed, _ := vals[0].(int64)
	remaining, _ := vals[1].(int64)

	return Decision{
		Allowed:   allowed == 1,
		Remaining: remaining,
		Limit:     limit.Capacity,
	}, nil
}

// Reset clears the bucket for userID/action.
func (l *Limiter) Reset(ctx context.Context, userID, action string) error {
	return l.redis.Del(ctx, key(userID, action)).Err()
}

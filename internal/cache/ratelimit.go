package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"time"

	"github.com/redis/go-redis/v9"
)

const rateLimitIPPrefix = "ratelimit:ip:"

// RateLimitResult is the outcome of one rate limit check.
type RateLimitResult struct {
	Allowed    bool
	Remaining  int64
	ResetAt    time.Time
	RetryAfter time.Duration
}

// tokenBucketScript refills and takes one token atomically. Time comes from
// the Redis server so every API replica shares one clock.
//
// Returns {allowed, retry_after_ms, remaining_tokens, refill_ms}.
var tokenBucketScript = redis.NewScript(`
local key = KEYS[1]
local rate = tonumber(ARGV[1])
local burst = tonumber(ARGV[2])
local ttl_ms = tonumber(ARGV[3])

local t = redis.call('TIME')
local now_ms = t[1] * 1000 + math.floor(t[2] / 1000)

local state = redis.call('HMGET', key, 'tokens', 'ts')
local tokens = tonumber(state[1]) or burst
local ts = tonumber(state[2]) or now_ms

tokens = math.min(burst, tokens + math.max(0, now_ms - ts) * rate / 1000)

local allowed = 0
local retry_ms = 0
if tokens >= 1 then
	tokens = tokens - 1
	allowed = 1
else
	retry_ms = math.ceil((1 - tokens) * 1000 / rate)
end

redis.call('HSET', key, 'tokens', tostring(tokens), 'ts', now_ms)
redis.call('PEXPIRE', key, ttl_ms)

local refill_ms = math.ceil((burst - tokens) * 1000 / rate)
return {allowed, retry_ms, math.floor(tokens), refill_ms}
`)

// CheckIPRateLimit takes a token from the bucket of ip. The bucket holds
// burst tokens and refills at ratePerSecond. A non-positive rate disables
// limiting. Raw IPs are never stored.
func (c *Cache) CheckIPRateLimit(ctx context.Context, ip string, ratePerSecond, burst int) (*RateLimitResult, error) {
	if ratePerSecond <= 0 {
		return &RateLimitResult{Allowed: true, Remaining: int64(burst), ResetAt: time.Now()}, nil
	}
	if burst < 1 {
		burst = 1
	}

	reply, err := tokenBucketScript.Run(ctx, c.client,
		[]string{ipKey(ip)},
		ratePerSecond, burst, bucketTTL(ratePerSecond, burst).Milliseconds(),
	).Int64Slice()
	if err != nil {
		return nil, fmt.Errorf("rate limit script: %w", err)
	}
	if len(reply) != 4 {
		return nil, fmt.Errorf("rate limit script: unexpected reply length %d", len(reply))
	}

	return &RateLimitResult{
		Allowed:    reply[0] == 1,
		RetryAfter: time.Duration(reply[1]) * time.Millisecond,
		Remaining:  reply[2],
		ResetAt:    time.Now().Add(time.Duration(reply[3]) * time.Millisecond),
	}, nil
}

// bucketTTL is how long an idle bucket lives: the time to refill from
// empty, plus a second of slack. A full bucket is the same as no key.
func bucketTTL(ratePerSecond, burst int) time.Duration {
	refill := math.Ceil(float64(burst) / float64(ratePerSecond) * 1000)
	return time.Duration(refill)*time.Millisecond + time.Second
}

// ipKey is the Redis key for ip: a truncated SHA-256 so addresses are not kept.
func ipKey(ip string) string {
	sum := sha256.Sum256([]byte(ip))
	return rateLimitIPPrefix + hex.EncodeToString(sum[:8])
}

// Package ratelimiter provides a Redis-backed token bucket shared by all
// server replicas.
package ratelimiter

import (
	"context"
	"log/slog"
	"math"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// BucketConfig sizes one token bucket.
type BucketConfig struct {
	Capacity   int64
	RefillRate float64 // tokens per second
}

// NewBucketConfigFromPerMinute returns a bucket that allows perMinute calls
// in a burst and refills at the same rate.
func NewBucketConfigFromPerMinute(perMinute int) BucketConfig {
	if perMinute <= 0 {
		return BucketConfig{}
	}
	return BucketConfig{
		Capacity:   int64(perMinute),
		RefillRate: float64(perMinute) / 60.0,
	}
}

// RedisLuaLimiter applies one bucket configuration to many subjects, one
// Redis hash per subject under prefix.
type RedisLuaLimiter struct {
	redis  *redis.Client
	prefix string
	bucket BucketConfig
	script *redis.Script
	now    func() time.Time
}

// NewRedisLuaLimiter returns nil when rdb is nil; a nil limiter allows everything.
func NewRedisLuaLimiter(rdb *redis.Client, prefix string, bucket BucketConfig) *RedisLuaLimiter {
	if rdb == nil {
		return nil
	}
	return &RedisLuaLimiter{
		redis:  rdb,
		prefix: prefix,
		bucket: bucket,
		script: redis.NewScript(luaTokenBucketScript),
		now:    time.Now,
	}
}

// KEYS[1] bucket hash; ARGV capacity, refill rate, now (s), cost, ttl (s).
const luaTokenBucketScript = `
local key = KEYS[1]
local capacity = tonumber(ARGV[1])
local refill_rate = tonumber(ARGV[2])
local now = tonumber(ARGV[3])
local cost = tonumber(ARGV[4])
local ttl = tonumber(ARGV[5])

local tokens = capacity
local last_refill = now

local data = redis.call("HMGET", key, "tokens", "last_refill")
if data[1] then
  tokens = tonumber(data[1])
end
if data[2] then
  last_refill = tonumber(data[2])
end

local delta = math.max(0, now - last_refill)
tokens = math.min(capacity, tokens + delta * refill_rate)

local allowed = 0
local retry_after = 0
if tokens >= cost then
  tokens = tokens - cost
  allowed = 1
elseif refill_rate > 0 then
  retry_after = (cost - tokens) / refill_rate
end

redis.call("HSET", key, "tokens", tokens, "last_refill", now)
redis.call("EXPIRE", key, ttl)

return { allowed, tostring(retry_after) }
`

// Allow takes one token from subject's bucket. Redis failures fail open and
// are returned for logging only.
func (l *RedisLuaLimiter) Allow(ctx context.Context, subject string) (bool, time.Duration, error) {
	if l == nil || l.redis == nil || l.bucket.Capacity <= 0 || l.bucket.RefillRate <= 0 {
		return true, 0, nil
	}
	nowSec := float64(l.now().UnixNano()) / 1e9
	ttl := int64(math.Ceil(float64(l.bucket.Capacity)/l.bucket.RefillRate)) + 1

	res, err := l.script.Run(ctx, l.redis, []string{l.prefix + subject},
		l.bucket.Capacity, l.bucket.RefillRate, nowSec, 1, ttl).Slice()
	if err != nil {
		slog.Error("redis rate limiter script error", slog.String("subject", subject), slog.Any("error", err))
		return true, 0, err
	}
	if len(res) < 2 {
		slog.Error("redis rate limiter unexpected script result", slog.Any("result", res))
		return true, 0, nil
	}
	allowed := toInt64(res[0]) == 1
	retryAfter := time.Duration(toFloat64(res[1]) * float64(time.Second))
	return allowed, retryAfter, nil
}

func toInt64(v any) int64 {
	switch t := v.(type) {
	case int64:
		return t
	case int:
		return int64(t)
	case float64:
		return int64(t)
	default:
		return 0
	}
}

func toFloat64(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case int64:
		return float64(t)
	case string:
		f, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

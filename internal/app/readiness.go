package app

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	httpserver "github.com/fairyhunter13/ai-mock-interview/internal/adapter/httpserver"
)

// Pinger is the minimal interface for a store capable of Ping.
type Pinger interface {
	Ping(ctx context.Context) error
}

// RedisPingResult is the minimal return type of a Redis client's Ping.
type RedisPingResult interface{ Err() error }

// RedisClient is the minimal interface for a Redis client needed for readiness.
type RedisClient interface {
	Ping(ctx context.Context) RedisPingResult
}

// BuildReadinessChecks returns one check per configured dependency. The
// storage check is always present; redis only when a client is given.
func BuildReadinessChecks(storageName string, store Pinger, rdb RedisClient) []httpserver.ReadinessCheck {
	checks := []httpserver.ReadinessCheck{{
		Name: storageName,
		Check: func(ctx context.Context) error {
			if store == nil {
				return fmt.Errorf("%s not configured", storageName)
			}
			return store.Ping(ctx)
		},
	}}
	if rdb != nil {
		checks = append(checks, httpserver.ReadinessCheck{
			Name:  "redis",
			Check: func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		})
	}
	return checks
}

type redisPinger struct{ c redis.UniversalClient }

func (p redisPinger) Ping(ctx context.Context) RedisPingResult { return p.c.Ping(ctx) }

// RedisReadiness adapts a go-redis client to RedisClient.
func RedisReadiness(c redis.UniversalClient) RedisClient {
	if c == nil {
		return nil
	}
	return redisPinger{c: c}
}

// Package cache provides read-through caches for assessment records.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ninebox/ninebox/pkg/assessment"
	"github.com/ninebox/ninebox/pkg/config"
)

// Cache holds recently read assessment records keyed by record ID.
// Implementations must be safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, id string) (*assessment.Record, bool)
	Put(ctx context.Context, rec *assessment.Record)
	Invalidate(ctx context.Context, id string)
}

// New creates the cache selected by cfg.Backend.
func New(ctx context.Context, cfg config.CacheConfig) (Cache, error) {
	switch cfg.Backend {
	case "", "none":
		return Nop{}, nil
	case "memory":
		return NewLRU(cfg.Size), nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:         cfg.RedisAddress,
			Password:     cfg.RedisPassword,
			DB:           cfg.RedisDB,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
			PoolSize:     10,
			MinIdleConns: 2,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, fmt.Errorf("redis ping failed: %w", err)
		}
		return NewRedis(client, cfg.TTL), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}

// Nop is a Cache that never stores anything.
type Nop struct{}

func (Nop) Get(context.Context, string) (*assessment.Record, bool) { return nil, false }
func (Nop) Put(context.Context, *assessment.Record)                {}
func (Nop) Invalidate(context.Context, string)                     {}

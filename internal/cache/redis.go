package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ninebox/ninebox/pkg/assessment"
)

const (
	keyPrefix  = "ninebox:assessment:"
	defaultTTL = 5 * time.Minute
)

// Redis caches records as JSON values with a TTL. Redis failures degrade to
// cache misses.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis wraps an existing client. A non-positive ttl defaults to five minutes.
func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Redis{client: client, ttl: ttl}
}

func redisKey(id string) string {
	return keyPrefix + id
}

func (r *Redis) Get(ctx context.Context, id string) (*assessment.Record, bool) {
	data, err := r.client.Get(ctx, redisKey(id)).Bytes()
	if err != nil {
		return nil, false
	}
	var rec assessment.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, false
	}
	return &rec, true
}

func (r *Redis) Put(ctx context.Context, rec *assessment.Record) {
	if rec == nil || rec.ID == "" {
		return
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return
	}
	r.client.Set(ctx, redisKey(rec.ID), data, r.ttl)
}

func (r *Redis) Invalidate(ctx context.Context, id string) {
	r.client.Del(ctx, redisKey(id))
}

// Close releases the underlying client.
func (r *Redis) Close() error {
	return r.client.Close()
}

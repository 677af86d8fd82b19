package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fleet-analytics-service/internal/domain"
	"fleet-analytics-service/internal/platform/obs"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis-backed cache for computed metric summaries. Summaries are
// deterministic over an unchanged record set, so a short TTL bounds
// staleness after new records are written while keeping repeated
// report requests off the record store.
type RedisMetricsCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisMetricsCache(client *redis.Client, ttl time.Duration) *RedisMetricsCache {
	return &RedisMetricsCache{Client: client, TTL: ttl}
}

// Return the cached summary for key, or nil on a miss. A corrupt
// cached value is treated as a miss rather than failing the request.
func (c *RedisMetricsCache) GetSummary(ctx context.Context, key string) (_ *domain.Metrics, err error) {
	defer obs.Time(ctx, "cache.metrics.get")(&err)

	if c.Client == nil {
		return nil, errors.New("metrics cache: client is nil")
	}

	raw, err := c.Client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get metrics cache: key %q: %w", key, err)
	}

	var m domain.Metrics
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return nil, nil
	}

	return &m, nil
}

// Store a computed summary under key with the configured TTL.
func (c *RedisMetricsCache) PutSummary(ctx context.Context, key string, m domain.Metrics) (err error) {
	defer obs.Time(ctx, "cache.metrics.put")(&err)

	if c.Client == nil {
		return errors.New("metrics cache: client is nil")
	}

	b, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("put metrics cache: marshal summary for key %q: %w", key, err)
	}

	if err := c.Client.Set(ctx, key, b, c.TTL).Err(); err != nil {
		return fmt.Errorf("put metrics cache: set key %q: %w", key, err)
	}

	return nil
}

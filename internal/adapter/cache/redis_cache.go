package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/simaogato/savingsplan-backend/internal/domain"
)

// DefaultTTL bounds how long an evaluated plan is served from Redis
const DefaultTTL = 10 * time.Minute

// RedisPlanCache stores evaluated plans as JSON in Redis
type RedisPlanCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisPlanCache connects to addr and verifies the connection
func NewRedisPlanCache(ctx context.Context, addr string, ttl time.Duration, logger *zap.Logger) (*RedisPlanCache, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", addr, err)
	}

	return &RedisPlanCache{
		client: rdb,
		ttl:    ttl,
		logger: logger.Named("cache"),
	}, nil
}

// Get returns the cached plan for key. Errors are treated as misses.
func (c *RedisPlanCache) Get(ctx context.Context, key string) (*domain.Plan, bool) {
	val, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("redis get failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}

	var plan domain.Plan
	if err := json.Unmarshal(val, &plan); err != nil {
		c.logger.Warn("discarding undecodable cached plan", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return &plan, true
}

// Set stores plan under key with the cache TTL
func (c *RedisPlanCache) Set(ctx context.Context, key string, plan *domain.Plan) error {
	data, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("failed to encode plan: %w", err)
	}
	return c.client.Set(ctx, key, data, c.ttl).Err()
}

// Close releases the Redis connection pool
func (c *RedisPlanCache) Close() error {
	return c.client.Close()
}

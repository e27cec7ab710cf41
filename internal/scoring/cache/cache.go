// Package cache provides a Redis-backed cache for the latest prediction per
// lead and the most recent benchmark snapshot. The cache is best effort:
// every read has an authoritative recompute path behind it.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"leadscore_backend/internal/scoring/domain"
	"leadscore_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	benchmarkKey        = "scoring:benchmark"
	predictionKeyPrefix = "scoring:prediction:"

	benchmarkTTL  = 30 * time.Minute
	predictionTTL = 24 * time.Hour
)

// Cache wraps a Redis client. A nil client disables caching entirely; all
// getters miss and all setters are no-ops.
type Cache struct {
	client *redis.Client
	log    *logger.Logger
}

// New creates a cache over the given Redis client (may be nil).
func New(client *redis.Client, log *logger.Logger) *Cache {
	return &Cache{client: client, log: log}
}

// SetBenchmark stores the latest benchmark snapshot.
func (c *Cache) SetBenchmark(ctx context.Context, b domain.Benchmark) {
	c.set(ctx, benchmarkKey, b, benchmarkTTL)
}

// Benchmark returns the cached benchmark snapshot, if present.
func (c *Cache) Benchmark(ctx context.Context) (domain.Benchmark, bool) {
	var b domain.Benchmark
	ok := c.get(ctx, benchmarkKey, &b)
	return b, ok
}

// SetPrediction stores a lead's latest prediction. Only the latest is kept.
func (c *Cache) SetPrediction(ctx context.Context, p domain.Prediction) {
	c.set(ctx, predictionKeyPrefix+p.LeadID.String(), p, predictionTTL)
}

// Prediction returns a lead's cached prediction, if present.
func (c *Cache) Prediction(ctx context.Context, leadID uuid.UUID) (domain.Prediction, bool) {
	var p domain.Prediction
	ok := c.get(ctx, predictionKeyPrefix+leadID.String(), &p)
	return p, ok
}

// InvalidatePrediction drops a lead's cached prediction, forcing the next
// read to recompute from the latest score record.
func (c *Cache) InvalidatePrediction(ctx context.Context, leadID uuid.UUID) {
	if c.client == nil {
		return
	}
	if err := c.client.Del(ctx, predictionKeyPrefix+leadID.String()).Err(); err != nil && c.log != nil {
		c.log.Warn("cache invalidate failed", "leadId", leadID, "error", err)
	}
}

func (c *Cache) set(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if c.client == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil && c.log != nil {
		c.log.Warn("cache write failed", "key", key, "error", err)
	}
}

func (c *Cache) get(ctx context.Context, key string, out interface{}) bool {
	if c.client == nil {
		return false
	}
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) && c.log != nil {
			c.log.Warn("cache read failed", "key", key, "error", err)
		}
		return false
	}
	return json.Unmarshal(data, out) == nil
}

package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/parttracker/backend-go/internal/config"
	"github.com/parttracker/backend-go/internal/domain"
	"github.com/redis/go-redis/v9"
)

const (
	forecastKeyPrefix = "forecast:rows"
	scanBatchSize     = 100
)

// ForecastCache caches whole forecast results per filter. The engine is
// deterministic, so a cached result is exactly what a recomputation would
// produce until the warehouse data moves.
type ForecastCache interface {
	Get(ctx context.Context, filter domain.ForecastFilter) ([]domain.ForecastRow, bool, error)
	Set(ctx context.Context, filter domain.ForecastFilter, rows []domain.ForecastRow) error
	InvalidateAll(ctx context.Context) error
}

type redisForecastCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopForecastCache struct{}

func NewForecastCache(cfg config.CacheConfig) (ForecastCache, error) {
	if !cfg.Enabled {
		return &noopForecastCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisForecastCache{
		client: client,
		ttl:    ttl,
	}, nil
}

func NewNoopForecastCache() ForecastCache {
	return &noopForecastCache{}
}

func (c *redisForecastCache) Get(ctx context.Context, filter domain.ForecastFilter) ([]domain.ForecastRow, bool, error) {
	key := buildForecastKey(filter)

	payload, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var rows []domain.ForecastRow
	if err := json.Unmarshal(payload, &rows); err != nil {
		return nil, false, fmt.Errorf("decode forecast cache: %w", err)
	}

	return rows, true, nil
}

func (c *redisForecastCache) Set(ctx context.Context, filter domain.ForecastFilter, rows []domain.ForecastRow) error {
	key := buildForecastKey(filter)
	payload, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("encode forecast cache: %w", err)
	}

	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}

	return nil
}

func (c *redisForecastCache) InvalidateAll(ctx context.Context) error {
	return deleteKeysWithPrefix(ctx, c.client, forecastKeyPrefix, scanBatchSize)
}

func (c *noopForecastCache) Get(context.Context, domain.ForecastFilter) ([]domain.ForecastRow, bool, error) {
	return nil, false, nil
}

func (c *noopForecastCache) Set(context.Context, domain.ForecastFilter, []domain.ForecastRow) error {
	return nil
}

func (c *noopForecastCache) InvalidateAll(context.Context) error {
	return nil
}

// buildForecastKey hashes the canonical JSON of the filter so equal
// filters always hit the same key.
func buildForecastKey(filter domain.ForecastFilter) string {
	payload, _ := json.Marshal(filter)
	sum := sha1.Sum(payload)
	return forecastKeyPrefix + ":" + hex.EncodeToString(sum[:])
}

package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pawmart/PetShopGo/internal/domain"
)

const keyPrefix = "rating-stats:"

// StatsCache implements repository.StatsCache using Redis. A miss is
// (nil, nil); any backend error surfaces to the caller, which treats it as
// a miss and falls through to Postgres.
type StatsCache struct {
	client *redis.Client
}

// NewStatsCache creates a new Redis-backed rating-stats cache.
func NewStatsCache(client *redis.Client) *StatsCache {
	return &StatsCache{client: client}
}

// Get retrieves cached stats for a product.
func (c *StatsCache) Get(ctx context.Context, productID string) (*domain.RatingStats, error) {
	data, err := c.client.Get(ctx, keyPrefix+productID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get rating stats: %w", err)
	}

	var stats domain.RatingStats
	if err := json.Unmarshal(data, &stats); err != nil {
		return nil, fmt.Errorf("unmarshal rating stats: %w", err)
	}

	return &stats, nil
}

// Set stores stats with the given TTL.
func (c *StatsCache) Set(ctx context.Context, stats *domain.RatingStats, ttl time.Duration) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("marshal rating stats: %w", err)
	}

	if err := c.client.Set(ctx, keyPrefix+stats.ProductID, data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set rating stats: %w", err)
	}

	return nil
}

// Invalidate drops the cached stats for a product.
func (c *StatsCache) Invalidate(ctx context.Context, productID string) error {
	if err := c.client.Del(ctx, keyPrefix+productID).Err(); err != nil {
		return fmt.Errorf("redis del rating stats: %w", err)
	}

	return nil
}

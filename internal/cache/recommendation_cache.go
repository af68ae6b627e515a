// internal/cache/recommendation_cache.go
package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/praveenkumar-ap/PulseCast/internal/config"
	"github.com/praveenkumar-ap/PulseCast/internal/domain"
	"github.com/redis/go-redis/v9"
)

const (
	recommendationKeyPrefix   = "optimizer:recommendations"
	recommendationScanBatches = 100
)

// RecommendationCache caches recommendation list queries. Entries are
// invalidated wholesale after each optimizer run since any run can change
// what "latest" means for many filters at once.
type RecommendationCache interface {
	Get(ctx context.Context, filter domain.RecommendationFilter) ([]domain.InventoryRecommendation, bool, error)
	Set(ctx context.Context, filter domain.RecommendationFilter, recs []domain.InventoryRecommendation) error
	InvalidateAll(ctx context.Context) error
}

type redisRecommendationCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopRecommendationCache struct{}

func NewRecommendationCache(cfg config.CacheConfig) (RecommendationCache, error) {
	if !cfg.Enabled {
		return &noopRecommendationCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisRecommendationCache{client: client, ttl: ttl}, nil
}

func NewNoopRecommendationCache() RecommendationCache {
	return &noopRecommendationCache{}
}

func (c *redisRecommendationCache) Get(ctx context.Context, filter domain.RecommendationFilter) ([]domain.InventoryRecommendation, bool, error) {
	key := buildRecommendationKey(filter)

	payload, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var recs []domain.InventoryRecommendation
	if err := json.Unmarshal(payload, &recs); err != nil {
		return nil, false, fmt.Errorf("decode recommendation cache: %w", err)
	}

	return recs, true, nil
}

func (c *redisRecommendationCache) Set(ctx context.Context, filter domain.RecommendationFilter, recs []domain.InventoryRecommendation) error {
	key := buildRecommendationKey(filter)
	payload, err := json.Marshal(recs)
	if err != nil {
		return fmt.Errorf("encode recommendation cache: %w", err)
	}

	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisRecommendationCache) InvalidateAll(ctx context.Context) error {
	return deleteKeysWithPrefix(ctx, c.client, recommendationKeyPrefix, recommendationScanBatches)
}

func (n *noopRecommendationCache) Get(ctx context.Context, filter domain.RecommendationFilter) ([]domain.InventoryRecommendation, bool, error) {
	return nil, false, nil
}

func (n *noopRecommendationCache) Set(ctx context.Context, filter domain.RecommendationFilter, recs []domain.InventoryRecommendation) error {
	return nil
}

func (n *noopRecommendationCache) InvalidateAll(ctx context.Context) error {
	return nil
}

func buildRecommendationKey(filter domain.RecommendationFilter) string {
	return fmt.Sprintf("%s:%s", recommendationKeyPrefix, recommendationFilterHash(filter))
}

func recommendationFilterHash(filter domain.RecommendationFilter) string {
	parts := []string{}

	if filter.SKUID != "" {
		parts = append(parts, "sku_id="+strings.TrimSpace(filter.SKUID))
	}
	if filter.SourceType != "" {
		parts = append(parts, "source_type="+strings.ToUpper(strings.TrimSpace(filter.SourceType)))
	}
	if filter.SourceID != "" {
		parts = append(parts, "source_id="+strings.TrimSpace(filter.SourceID))
	}
	if filter.FromMonth != "" {
		parts = append(parts, "from_month="+filter.FromMonth)
	}
	if filter.ToMonth != "" {
		parts = append(parts, "to_month="+filter.ToMonth)
	}
	if filter.Limit > 0 {
		parts = append(parts, fmt.Sprintf("limit=%d", filter.Limit))
	}

	if len(parts) == 0 {
		return "default"
	}

	sort.Strings(parts)
	raw := strings.Join(parts, "|")
	sum := sha1.Sum([]byte(raw))
	return hex.EncodeToString(sum[:])
}

package matcher

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"tavara-care/internal/metrics"
	"tavara-care/internal/models"
	"tavara-care/internal/utils"
)

// ResultCache memoizes a family's ranked match list. Entries are never
// invalidated when profiles change.
type ResultCache interface {
	Get(ctx context.Context, familyUserID string) ([]models.PresentedMatch, bool)
	Set(ctx context.Context, familyUserID string, matches []models.PresentedMatch)
}

// MemoryCache lives as long as the presenter that owns it.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string][]models.PresentedMatch
}

// NewMemoryCache creates an empty in-process cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string][]models.PresentedMatch)}
}

// Get returns the cached list for a family.
func (c *MemoryCache) Get(_ context.Context, familyUserID string) ([]models.PresentedMatch, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	m, ok := c.entries[familyUserID]
	metrics.MatchCacheRequests.WithLabelValues("memory", hitLabel(ok)).Inc()
	return m, ok
}

// Set stores the list for a family.
func (c *MemoryCache) Set(_ context.Context, familyUserID string, matches []models.PresentedMatch) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[familyUserID] = matches
}

const redisKeyPrefix = "tavara:matches:"

// RedisCache shares ranked lists between server instances for a fixed TTL.
// Redis failures degrade to cache misses.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisCache wraps a Redis client.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{
		client: client,
		ttl:    ttl,
		logger: utils.Named("match_cache"),
	}
}

// Get returns the cached list for a family.
func (c *RedisCache) Get(ctx context.Context, familyUserID string) ([]models.PresentedMatch, bool) {
	val, err := c.client.Get(ctx, redisKeyPrefix+familyUserID).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("Match cache read failed", zap.String("family_user_id", familyUserID), zap.Error(err))
		}
		metrics.MatchCacheRequests.WithLabelValues("redis", hitLabel(false)).Inc()
		return nil, false
	}

	var matches []models.PresentedMatch
	if err := json.Unmarshal([]byte(val), &matches); err != nil {
		c.logger.Warn("Discarding unreadable cache entry", zap.String("family_user_id", familyUserID), zap.Error(err))
		metrics.MatchCacheRequests.WithLabelValues("redis", hitLabel(false)).Inc()
		return nil, false
	}

	metrics.MatchCacheRequests.WithLabelValues("redis", hitLabel(true)).Inc()
	return matches, true
}

// Set stores the list for a family.
func (c *RedisCache) Set(ctx context.Context, familyUserID string, matches []models.PresentedMatch) {
	data, err := json.Marshal(matches)
	if err != nil {
		c.logger.Warn("Failed to encode match cache entry", zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, redisKeyPrefix+familyUserID, data, c.ttl).Err(); err != nil {
		c.logger.Warn("Match cache write failed", zap.String("family_user_id", familyUserID), zap.Error(err))
	}
}

func hitLabel(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}

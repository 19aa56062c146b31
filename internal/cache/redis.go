// Package cache provides a Redis-backed cache of redacted texts, keyed by a
// hash of the original text. Redaction is deterministic for a fixed catalog,
// so cached results never go stale until the catalog changes; the TTL guards
// against exactly that.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Config contains cache configuration.
type Config struct {
	RedisURL       string
	DefaultTTL     time.Duration
	MaxConnections int
	MinIdleConns   int
	KeyPrefix      string
}

// Stats reports cache performance counters.
type Stats struct {
	Hits    int64   `json:"hits"`
	Misses  int64   `json:"misses"`
	HitRate float64 `json:"hit_rate"`
}

// RedactionCache caches redacted texts in Redis.
type RedactionCache struct {
	client *redis.Client
	config *Config
	logger *zap.Logger
	hits   int64
	misses int64
}

// New creates a Redis-backed redaction cache and verifies connectivity.
func New(config *Config, logger *zap.Logger) (*RedactionCache, error) {
	opts, err := redis.ParseURL(config.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	opts.PoolSize = config.MaxConnections
	opts.MinIdleConns = config.MinIdleConns

	if config.KeyPrefix == "" {
		config.KeyPrefix = "anon:text:"
	}

	cache := &RedactionCache{
		client: redis.NewClient(opts),
		config: config,
		logger: logger,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := cache.client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Redaction cache initialized",
		zap.String("redis_url", maskRedisURL(config.RedisURL)),
		zap.Int("max_connections", config.MaxConnections),
		zap.Duration("default_ttl", config.DefaultTTL))

	return cache, nil
}

// Get returns the cached redaction for text, if present.
func (c *RedactionCache) Get(ctx context.Context, text string) (string, bool) {
	val, err := c.client.Get(ctx, c.key(text)).Result()
	if err == redis.Nil {
		atomic.AddInt64(&c.misses, 1)
		return "", false
	}
	if err != nil {
		c.logger.Warn("Cache lookup failed", zap.Error(err))
		atomic.AddInt64(&c.misses, 1)
		return "", false
	}

	atomic.AddInt64(&c.hits, 1)
	return val, true
}

// Set stores the redaction for text with the configured TTL.
func (c *RedactionCache) Set(ctx context.Context, text, redacted string) error {
	if err := c.client.Set(ctx, c.key(text), redacted, c.config.DefaultTTL).Err(); err != nil {
		return fmt.Errorf("failed to cache redaction: %w", err)
	}
	return nil
}

// Clear removes all keys under the cache prefix.
func (c *RedactionCache) Clear(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, c.config.KeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("failed to delete cache key: %w", err)
		}
	}
	return iter.Err()
}

// Stats returns current hit/miss counters.
func (c *RedactionCache) Stats() Stats {
	hits := atomic.LoadInt64(&c.hits)
	misses := atomic.LoadInt64(&c.misses)

	var rate float64
	if total := hits + misses; total > 0 {
		rate = float64(hits) / float64(total) * 100
	}
	return Stats{Hits: hits, Misses: misses, HitRate: rate}
}

// Close closes the Redis client.
func (c *RedactionCache) Close() error { return c.client.Close() }

func (c *RedactionCache) key(text string) string {
	sum := sha256.Sum256([]byte(text))
	return c.config.KeyPrefix + hex.EncodeToString(sum[:])
}

// maskRedisURL hides credentials before the URL reaches a log line.
func maskRedisURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	u.User = url.UserPassword(u.User.Username(), "***")
	return u.String()
}

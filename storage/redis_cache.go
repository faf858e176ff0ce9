package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"review-sentiment/models"
)

const redisKeyPrefix = "review-sentiment:"

// RedisPageCache stores pages as JSON values with a TTL
type RedisPageCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisClient creates a go-redis client from a URL (e.g., "redis://localhost:6379")
func NewRedisClient(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	return redis.NewClient(opts), nil
}

// NewRedisPageCache creates a RedisPageCache on an existing client
func NewRedisPageCache(rdb *redis.Client, ttl time.Duration) *RedisPageCache {
	return &RedisPageCache{rdb: rdb, ttl: ttl}
}

func (c *RedisPageCache) Get(ctx context.Context, key string) ([]models.RawRecord, bool, error) {
	data, err := c.rdb.Get(ctx, redisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", key, err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var records []models.RawRecord
	if err := dec.Decode(&records); err != nil {
		return nil, false, fmt.Errorf("decode cached page %s: %w", key, err)
	}
	return records, true, nil
}

func (c *RedisPageCache) Set(ctx context.Context, key string, records []models.RawRecord) error {
	if records == nil {
		records = []models.RawRecord{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode page %s: %w", key, err)
	}
	if err := c.rdb.Set(ctx, redisKeyPrefix+key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Ping verifies the Redis connection
func (c *RedisPageCache) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Close closes the Redis connection
func (c *RedisPageCache) Close() error {
	return c.rdb.Close()
}

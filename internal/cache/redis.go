package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	"go_gizmo/internal/dnstypes"
)

// NewClient connects to Redis and pings it
func NewClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// RedisListCache keeps provider listings per domain in Redis.
// Redis errors degrade to cache misses; they never fail a listing.
type RedisListCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *logrus.Entry
}

// NewRedisListCache creates a listing cache; ttl <= 0 means one minute
func NewRedisListCache(client *redis.Client, ttl time.Duration, logger *logrus.Entry) *RedisListCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	return &RedisListCache{
		client: client,
		ttl:    ttl,
		logger: logger.WithField("component", "record-cache"),
	}
}

// Key returns the Redis key of a domain's listing
func Key(domainID int) string {
	return fmt.Sprintf("gizmo:records:%d", domainID)
}

func (c *RedisListCache) Get(ctx context.Context, domainID int) ([]dnstypes.Record, bool) {
	raw, err := c.client.Get(ctx, Key(domainID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.WithError(err).WithField("domain_id", domainID).Warn("record cache read failed")
		}
		return nil, false
	}

	var records []dnstypes.Record
	if err := json.Unmarshal(raw, &records); err != nil {
		c.logger.WithError(err).WithField("domain_id", domainID).Warn("dropping corrupt record cache entry")
		c.Invalidate(ctx, domainID)
		return nil, false
	}
	return records, true
}

func (c *RedisListCache) Set(ctx context.Context, domainID int, records []dnstypes.Record) {
	raw, err := json.Marshal(records)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, Key(domainID), raw, c.ttl).Err(); err != nil {
		c.logger.WithError(err).WithField("domain_id", domainID).Warn("record cache write failed")
	}
}

func (c *RedisListCache) Invalidate(ctx context.Context, domainID int) {
	if err := c.client.Del(ctx, Key(domainID)).Err(); err != nil {
		c.logger.WithError(err).WithField("domain_id", domainID).Warn("record cache invalidation failed")
	}
}

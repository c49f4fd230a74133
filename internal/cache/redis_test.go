package cache

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	"go_gizmo/internal/dns"
	"go_gizmo/internal/dnstypes"
)

var _ dns.ListCache = (*RedisListCache)(nil)

func TestKey(t *testing.T) {
	if got := Key(42); got != "gizmo:records:42" {
		t.Errorf("Key(42) = %q", got)
	}
}

// unreachableCache points at a port nothing listens on
func unreachableCache(t *testing.T) *RedisListCache {
	t.Helper()
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { client.Close() })

	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewRedisListCache(client, 0, logrus.NewEntry(log))
}

func TestRedisListCacheDegradesToMiss(t *testing.T) {
	c := unreachableCache(t)
	ctx := context.Background()

	c.Set(ctx, 1, []dnstypes.Record{{Name: "www", Type: "A", Value: "1.2.3.4", TTL: 600}})
	if _, ok := c.Get(ctx, 1); ok {
		t.Error("Get() should miss when Redis is unreachable")
	}
	c.Invalidate(ctx, 1)
}

func TestNewRedisListCacheDefaults(t *testing.T) {
	c := unreachableCache(t)
	if c.ttl != time.Minute {
		t.Errorf("ttl = %s; want 1m", c.ttl)
	}
}

func TestNewClientUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if _, err := NewClient(ctx, "127.0.0.1:1", "", 0); err == nil {
		t.Error("NewClient() should fail when Redis is unreachable")
	}
}

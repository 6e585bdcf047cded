// AngelaMos | 2026
// redis_test.go

package core

import (
	"testing"
	"time"

	"github.com/oonkoo/dashboard-api/internal/config"
)

func TestRedisOptions(t *testing.T) {
	opts, err := redisOptions(config.RedisConfig{
		URL:          "redis://:secret@cache.internal:6380/2",
		PoolSize:     12,
		MinIdleConns: 3,
		PoolTimeout:  10 * time.Second,
	})
	if err != nil {
		t.Fatalf("redisOptions: %v", err)
	}

	if opts.Addr != "cache.internal:6380" || opts.DB != 2 || opts.Password != "secret" {
		t.Fatalf("url not applied: addr=%s db=%d", opts.Addr, opts.DB)
	}
	if opts.PoolSize != 12 || opts.MinIdleConns != 3 {
		t.Fatalf("pool sizing not applied: %d/%d", opts.PoolSize, opts.MinIdleConns)
	}
	if opts.PoolTimeout != 10*time.Second {
		t.Fatalf("pool timeout = %s", opts.PoolTimeout)
	}
}

func TestRedisOptionsRejectsBadURL(t *testing.T) {
	if _, err := redisOptions(config.RedisConfig{URL: "http://nope"}); err == nil {
		t.Fatal("expected error for non-redis scheme")
	}
}

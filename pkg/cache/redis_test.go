package cache

import (
	"context"
	"os"
	"testing"
	"time"
)

// Set READABILITY_TEST_REDIS_URL (e.g. redis://localhost:6379/15) to run
// against a live server. The tests clear the readability: prefix of that
// database.
func newTestRedis(t *testing.T) *RedisCache {
	t.Helper()
	url := os.Getenv("READABILITY_TEST_REDIS_URL")
	if url == "" {
		t.Skip("READABILITY_TEST_REDIS_URL not set")
	}
	c, err := NewRedisCache(context.Background(), url)
	if err != nil {
		t.Fatalf("NewRedisCache: %v", err)
	}
	t.Cleanup(func() {
		_, _ = c.Clear(context.Background())
		c.Close()
	})
	return c
}

func TestRedisCache(t *testing.T) {
	ctx := context.Background()
	c := newTestRedis(t)

	if _, hit, err := c.Get(ctx, "missing"); hit || err != nil {
		t.Fatalf("Get missing = hit %v, err %v", hit, err)
	}
	if err := c.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "k")
	if err != nil || !hit || string(data) != "v" {
		t.Fatalf("Get k = %q, hit %v, err %v", data, hit, err)
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("entry should be gone after Delete")
	}
}

func TestRedisCacheClear(t *testing.T) {
	ctx := context.Background()
	c := newTestRedis(t)

	for _, k := range []string{"a", "b"} {
		if err := c.Set(ctx, k, []byte(k), 0); err != nil {
			t.Fatal(err)
		}
	}
	n, err := c.Clear(ctx)
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if n != 2 {
		t.Errorf("Clear removed %d keys, want 2", n)
	}
}

func TestNewRedisCacheBadURL(t *testing.T) {
	if _, err := NewRedisCache(context.Background(), "http://not-redis"); err == nil {
		t.Error("NewRedisCache should reject a non-redis url")
	}
}

package cache

import (
	"context"
	"os"
	"testing"
	"time"
)

// exerciseBackend runs the common Cache contract against c.
func exerciseBackend(t *testing.T, c Cache) {
	t.Helper()
	ctx := context.Background()
	key := "test:" + t.Name()
	t.Cleanup(func() { _ = c.Delete(ctx, key) })

	if _, hit, err := c.Get(ctx, key); err != nil || hit {
		t.Fatalf("Get before Set = hit %v, err %v", hit, err)
	}
	if err := c.Set(ctx, key, []byte("payload"), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, key)
	if err != nil || !hit || string(data) != "payload" {
		t.Fatalf("Get = %q, %v, %v", data, hit, err)
	}
	if err := c.Delete(ctx, key); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, key); hit {
		t.Error("entry present after Delete")
	}
}

func TestRedisCache(t *testing.T) {
	addr := os.Getenv("ERDLAYOUT_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("ERDLAYOUT_TEST_REDIS_ADDR not set")
	}
	c, err := NewRedisCache(context.Background(), RedisConfig{Addr: addr})
	if err != nil {
		t.Fatalf("NewRedisCache: %v", err)
	}
	defer c.Close()
	exerciseBackend(t, c)
}

func TestMongoCache(t *testing.T) {
	uri := os.Getenv("ERDLAYOUT_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("ERDLAYOUT_TEST_MONGO_URI not set")
	}
	c, err := NewMongoCache(context.Background(), MongoConfig{URI: uri, Collection: "cache_test"})
	if err != nil {
		t.Fatalf("NewMongoCache: %v", err)
	}
	defer c.Close()
	exerciseBackend(t, c)
}

func TestClassifyErrors(t *testing.T) {
	if classifyRedis(nil) != nil || classifyMongo(nil) != nil {
		t.Error("nil errors must stay nil")
	}
	if IsRetryable(classifyRedis(ErrNotFound)) {
		t.Error("plain redis errors must not be retryable")
	}
}

package cache

import (
	"context"
	"testing"

	"github.com/redis/go-redis/v9"
)

func stubRedis(t *testing.T) *string {
	t.Helper()

	origNewClient := newRedisClient
	origPing := pingRedis
	t.Cleanup(func() {
		newRedisClient = origNewClient
		pingRedis = origPing
		Client = nil
	})

	var capturedAddr string
	newRedisClient = func(opts *redis.Options) *redis.Client {
		capturedAddr = opts.Addr
		return redis.NewClient(opts)
	}
	pingRedis = func(ctx context.Context, client *redis.Client) error {
		return nil
	}
	return &capturedAddr
}

func TestInitRedisWithCustomAddr(t *testing.T) {
	t.Setenv("REDIS_URL", "redis:9999")
	addr := stubRedis(t)

	InitRedis(context.Background())
	if *addr != "redis:9999" {
		t.Fatalf("expected custom addr, got %s", *addr)
	}
}

func TestInitRedisDefaults(t *testing.T) {
	t.Setenv("REDIS_URL", "")
	addr := stubRedis(t)

	InitRedis(context.Background())
	if *addr != "localhost:6379" {
		t.Fatalf("expected default addr, got %s", *addr)
	}
}

func TestInitRedisParsesURL(t *testing.T) {
	t.Setenv("REDIS_URL", "redis://:secret@cache:6380/2")
	addr := stubRedis(t)

	InitRedis(context.Background())
	if *addr != "cache:6380" {
		t.Fatalf("expected parsed addr, got %s", *addr)
	}
	if Client.Options().DB != 2 || Client.Options().Password != "secret" {
		t.Fatalf("unexpected parsed options: %+v", Client.Options())
	}
}

func TestKeys(t *testing.T) {
	if got := DashboardKey("abc"); got != "dashboard:abc" {
		t.Fatalf("unexpected dashboard key %s", got)
	}
	if got := NarrativeKey("f00"); got != "narrative:f00" {
		t.Fatalf("unexpected narrative key %s", got)
	}
}

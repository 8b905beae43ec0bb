package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestNew_RequiresClient(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Fatalf("expected error without client")
	}
}

func TestNew_DefaultPrefix(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	defer client.Close() //nolint:errcheck
	c, err := New(Config{Client: client})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	if c.keyPrefix != DefaultKeyPrefix {
		t.Fatalf("keyPrefix=%q", c.keyPrefix)
	}
}

func TestRedisCache(t *testing.T) {
	// Skip test if Redis is not available
	client := redis.NewClient(&redis.Options{
		Addr: "127.0.0.1:6379",
		DB:   3,
	})
	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}
	defer client.FlushDB(ctx)

	c, err := New(Config{Client: client, KeyPrefix: "lpdb:test:"})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	defer c.Close() //nolint:errcheck

	t.Run("miss", func(t *testing.T) {
		_, ok, err := c.Get(ctx, "/nope")
		if err != nil || ok {
			t.Fatalf("ok=%v err=%v", ok, err)
		}
	})

	t.Run("set and get", func(t *testing.T) {
		if err := c.Set(ctx, "/player?wiki=dota2", []byte(`{"result":[]}`), time.Minute); err != nil {
			t.Fatalf("Set() failed: %v", err)
		}
		got, ok, err := c.Get(ctx, "/player?wiki=dota2")
		if err != nil || !ok || string(got) != `{"result":[]}` {
			t.Fatalf("got=%q ok=%v err=%v", got, ok, err)
		}
		ttl := client.TTL(ctx, "lpdb:test:/player?wiki=dota2").Val()
		if ttl <= 0 || ttl > time.Minute {
			t.Fatalf("ttl=%v", ttl)
		}
	})
}

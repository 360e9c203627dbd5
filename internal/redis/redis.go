// Package redis wraps the go-redis client this service uses for the
// per-IP rate-limiting counter in front of the HTTP routes (§6 domain
// stack). The flow engine itself never touches Redis: sessions are
// in-memory and ephemeral (§1 Non-goals).
package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/pytake/flowengine/internal/config"
)

// Client wraps *redis.Client so callers depend on this package, not
// go-redis directly, the same indirection the teacher's internal/redis
// package gives its callers.
type Client struct {
	*redis.Client
}

// Connect dials Redis and verifies reachability with a Ping before
// returning, so a misconfigured host fails fast at startup rather than
// on the first rate-limited request.
func Connect(cfg *config.Config) (*Client, error) {
	opts := &redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.RedisHost, cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}

	client := redis.NewClient(opts)

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return &Client{client}, nil
}

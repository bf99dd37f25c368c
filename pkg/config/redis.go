package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// InitRedis connects to REDIS_URL. It returns nil, nil when no URL is set.
// Both redis://host:port/db URLs and bare host:port addresses are accepted.
func InitRedis(ctx context.Context, rawURL string) (*redis.Client, error) {
	if rawURL == "" {
		return nil, nil
	}

	opts := &redis.Options{Addr: rawURL}
	if strings.Contains(rawURL, "://") {
		parsed, err := redis.ParseURL(rawURL)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		opts = parsed
	}

	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// Package cache provides the Redis-backed credential cache.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultCredentialTTL bounds how long a token → user id mapping is kept.
// Callers still confirm a hit against the user store.
const DefaultCredentialTTL = 15 * time.Minute

var ErrMiss = errors.New("cache miss")

// CredentialCache maps issued tokens to user ids.
type CredentialCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCredentialCache(client *redis.Client, ttl time.Duration) *CredentialCache {
	if ttl <= 0 {
		ttl = DefaultCredentialTTL
	}
	return &CredentialCache{client: client, ttl: ttl}
}

func credentialKey(token string) string {
	return "connectly:credential:" + token
}

// Get returns the user id cached for token, or ErrMiss.
func (c *CredentialCache) Get(ctx context.Context, token string) (string, error) {
	userID, err := c.client.Get(ctx, credentialKey(token)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrMiss
	}
	if err != nil {
		return "", fmt.Errorf("redis get credential: %w", err)
	}
	return userID, nil
}

func (c *CredentialCache) Set(ctx context.Context, token, userID string) error {
	if err := c.client.Set(ctx, credentialKey(token), userID, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set credential: %w", err)
	}
	return nil
}

// Delete evicts token; evicting an absent token is not an error.
func (c *CredentialCache) Delete(ctx context.Context, token string) error {
	if err := c.client.Del(ctx, credentialKey(token)).Err(); err != nil {
		return fmt.Errorf("redis delete credential: %w", err)
	}
	return nil
}

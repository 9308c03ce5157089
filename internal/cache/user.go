package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/jobtrack/jobtrack/internal/model"
)

// userKeyPrefix is the Redis key prefix for cached user profiles.
const userKeyPrefix = "user:profile:"

// userKey builds the cache key for a user ID.
func userKey(id string) string {
	return userKeyPrefix + id
}

// GetUser retrieves a cached user profile.
// Returns ErrCacheMiss if not found.
func (c *Cache) GetUser(ctx context.Context, id string) (*model.User, error) {
	data, err := c.client.Get(ctx, userKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var user model.User
	if err := json.Unmarshal(data, &user); err != nil {
		// Corrupted entry - drop it and treat as miss
		_ = c.client.Del(ctx, userKey(id)).Err()
		return nil, ErrCacheMiss
	}

	return &user, nil
}

// SetUser caches a user profile.
func (c *Cache) SetUser(ctx context.Context, user *model.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}

	return c.client.Set(ctx, userKey(user.ID), data, c.userTTL).Err()
}

// DeleteUser evicts a cached user profile.
func (c *Cache) DeleteUser(ctx context.Context, id string) error {
	return c.client.Del(ctx, userKey(id)).Err()
}

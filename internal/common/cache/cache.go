package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Service is a read-through cache over Redis. Server state is cached as
// whole snapshots and invalidated explicitly when a mutation succeeds,
// never patched in place.
type Service struct {
	client *redis.Client
}

func NewService(client *redis.Client) *Service {
	return &Service{client: client}
}

// Get reads a cached value into dest. Returns redis.Nil on a miss.
func (c *Service) Get(ctx context.Context, key string, dest interface{}) error {
	data, err := c.client.Get(ctx, key).Result()
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(data), dest)
}

// Set stores a value with a TTL.
func (c *Service) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}
	return c.client.Set(ctx, key, string(data), ttl).Err()
}

// Delete removes a single key.
func (c *Service) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}

// DeletePattern removes every key matching the pattern.
func (c *Service) DeletePattern(ctx context.Context, pattern string) error {
	keys, err := c.client.Keys(ctx, pattern).Result()
	if err != nil {
		return err
	}
	if len(keys) > 0 {
		return c.client.Del(ctx, keys...).Err()
	}
	return nil
}

// GetOrSet reads through the cache: a miss invokes setter, stores the
// result under key and copies it into dest.
func (c *Service) GetOrSet(ctx context.Context, key string, dest interface{}, ttl time.Duration, setter func() (interface{}, error)) error {
	if err := c.Get(ctx, key, dest); err == nil {
		return nil
	}

	value, err := setter()
	if err != nil {
		return err
	}

	if err := c.Set(ctx, key, value, ttl); err != nil {
		return err
	}

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}

// InvalidateUser drops every cached snapshot derived from a user's account:
// the user record itself, earnings stats, wallet details and withdrawals.
func (c *Service) InvalidateUser(ctx context.Context, userID int64) error {
	patterns := []string{
		fmt.Sprintf("cache:user:%d", userID),
		fmt.Sprintf("cache:user_stats:%d", userID),
		fmt.Sprintf("cache:wallet_details:%d", userID),
		fmt.Sprintf("cache:withdrawals:%d", userID),
	}
	for _, pattern := range patterns {
		if err := c.DeletePattern(ctx, pattern); err != nil {
			return fmt.Errorf("failed to delete pattern %s: %w", pattern, err)
		}
	}
	return nil
}

// InvalidateWallet drops the cached wallet details and withdrawal list
// after a wallet save or withdrawal mutation.
func (c *Service) InvalidateWallet(ctx context.Context, userID int64) error {
	patterns := []string{
		fmt.Sprintf("cache:wallet_details:%d", userID),
		fmt.Sprintf("cache:withdrawals:%d", userID),
	}
	for _, pattern := range patterns {
		if err := c.DeletePattern(ctx, pattern); err != nil {
			return fmt.Errorf("failed to delete pattern %s: %w", pattern, err)
		}
	}
	return nil
}

// InvalidateSettings drops the cached app settings after an admin update.
func (c *Service) InvalidateSettings(ctx context.Context) error {
	return c.Delete(ctx, "cache:app_settings")
}

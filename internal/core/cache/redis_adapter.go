package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisAdapter implements the Cache interface using Redis.
// Plain values are strings, counter sets are sorted sets.
type RedisAdapter struct {
	client *redis.Client
}

// NewRedisAdapter creates a new Redis cache adapter.
// The redisURL should be in the format: redis://[:password@]host[:port][/database]
func NewRedisAdapter(redisURL string) (*RedisAdapter, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	return &RedisAdapter{client: redis.NewClient(opts)}, nil
}

// Get retrieves a value from Redis by key.
func (r *RedisAdapter) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get key %s: %w", key, err)
	}
	return val, nil
}

// Set stores a value in Redis with the specified TTL.
func (r *RedisAdapter) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set key %s: %w", key, err)
	}
	return nil
}

// Delete removes a value from Redis by key.
func (r *RedisAdapter) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete key %s: %w", key, err)
	}
	return nil
}

// Increment bumps member's score with ZINCRBY.
func (r *RedisAdapter) Increment(ctx context.Context, set, member string, delta float64) error {
	if err := r.client.ZIncrBy(ctx, set, delta, member).Err(); err != nil {
		return fmt.Errorf("failed to increment %s in %s: %w", member, set, err)
	}
	return nil
}

// Trim drops the lowest scored members with ZREMRANGEBYRANK so at most keep remain.
// A non-positive keep leaves the set untouched.
func (r *RedisAdapter) Trim(ctx context.Context, set string, keep int64) error {
	if keep <= 0 {
		return nil
	}
	if err := r.client.ZRemRangeByRank(ctx, set, 0, -(keep + 1)).Err(); err != nil {
		return fmt.Errorf("failed to trim %s: %w", set, err)
	}
	return nil
}

// Top reads the n highest scored members. Ties are ordered by member, descending, as Redis does.
func (r *RedisAdapter) Top(ctx context.Context, set string, n int64) ([]ScoredMember, error) {
	if n <= 0 {
		return []ScoredMember{}, nil
	}

	entries, err := r.client.ZRevRangeWithScores(ctx, set, 0, n-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read top of %s: %w", set, err)
	}

	members := make([]ScoredMember, 0, len(entries))
	for _, entry := range entries {
		member, ok := entry.Member.(string)
		if !ok {
			member = fmt.Sprint(entry.Member)
		}
		members = append(members, ScoredMember{Member: member, Score: entry.Score})
	}
	return members, nil
}

// Ping checks if Redis is reachable.
func (r *RedisAdapter) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// Close closes the Redis connection.
func (r *RedisAdapter) Close() error {
	return r.client.Close()
}

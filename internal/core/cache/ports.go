package cache

import (
	"context"
	"errors"
	"time"
)

// ErrKeyNotFound is returned by Get when the key does not exist or has expired.
var ErrKeyNotFound = errors.New("key not found")

// ScoredMember is one entry of a counter set.
type ScoredMember struct {
	Member string
	Score  float64
}

// Cache defines the caching operations interface following hexagonal architecture.
// This is a port that can be implemented by different cache providers (Redis, Memcached, etc.).
type Cache interface {
	// Get retrieves a value from the cache by key.
	// Returns ErrKeyNotFound (wrapped) when the key is missing.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value in the cache with the specified key and TTL.
	// TTL of 0 means no expiration.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value from the cache by key.
	Delete(ctx context.Context, key string) error

	// Increment adds delta to member's score in the counter set.
	Increment(ctx context.Context, set, member string, delta float64) error

	// Trim keeps the keep highest scored members of the counter set and removes the rest.
	Trim(ctx context.Context, set string, keep int64) error

	// Top returns up to n members of the counter set, highest score first.
	Top(ctx context.Context, set string, n int64) ([]ScoredMember, error)

	// Ping checks if the cache service is reachable.
	Ping(ctx context.Context) error

	// Close closes the cache connection.
	Close() error
}

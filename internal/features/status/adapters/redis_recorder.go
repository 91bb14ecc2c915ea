package adapters

import (
	"context"
	"fmt"

	"shipment-status/internal/core/cache"
	"shipment-status/internal/features/status/domain"
)

const unmappedSetKey = "status:unmapped"

// DefaultMaxMembers bounds the counter set when no explicit bound is configured.
const DefaultMaxMembers = 1000

// RedisUnmappedRecorder implements ports.UnmappedRecorder on top of the cache counter set.
// The set never holds more than maxMembers statuses; the least seen ones are evicted first.
type RedisUnmappedRecorder struct {
	cache      cache.Cache
	maxMembers int64
}

// NewRedisUnmappedRecorder creates a new RedisUnmappedRecorder.
// A non-positive maxMembers falls back to DefaultMaxMembers.
func NewRedisUnmappedRecorder(c cache.Cache, maxMembers int) *RedisUnmappedRecorder {
	if maxMembers <= 0 {
		maxMembers = DefaultMaxMembers
	}
	return &RedisUnmappedRecorder{
		cache:      c,
		maxMembers: int64(maxMembers),
	}
}

// Record increments the counter for canonical and evicts the least seen statuses past the bound.
func (r *RedisUnmappedRecorder) Record(ctx context.Context, canonical string) error {
	if err := r.cache.Increment(ctx, unmappedSetKey, canonical, 1); err != nil {
		return fmt.Errorf("failed to record unmapped status: %w", err)
	}
	if err := r.cache.Trim(ctx, unmappedSetKey, r.maxMembers); err != nil {
		return fmt.Errorf("failed to bound unmapped statuses: %w", err)
	}
	return nil
}

// Top reads the most frequent unmapped statuses.
func (r *RedisUnmappedRecorder) Top(ctx context.Context, limit int) ([]domain.UnmappedStatus, error) {
	members, err := r.cache.Top(ctx, unmappedSetKey, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to read unmapped statuses: %w", err)
	}

	statuses := make([]domain.UnmappedStatus, 0, len(members))
	for _, m := range members {
		statuses = append(statuses, domain.UnmappedStatus{
			Canonical: m.Member,
			Count:     int64(m.Score),
		})
	}
	return statuses, nil
}

// NopUnmappedRecorder discards everything. Used when Redis is not configured.
type NopUnmappedRecorder struct{}

// Record does nothing.
func (NopUnmappedRecorder) Record(context.Context, string) error { return nil }

// Top always returns an empty list.
func (NopUnmappedRecorder) Top(context.Context, int) ([]domain.UnmappedStatus, error) {
	return []domain.UnmappedStatus{}, nil
}

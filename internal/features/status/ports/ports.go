package ports

import (
	"context"

	"shipment-status/internal/features/status/domain"
)

// StatusNormalizer is the primary port used by other features to turn vendor text into a Result.
type StatusNormalizer interface {
	Normalize(ctx context.Context, raw string) domain.Result
}

// UnmappedRecorder is the secondary port that remembers statuses which fell through to the default stage.
type UnmappedRecorder interface {
	// Record counts one occurrence of a canonicalized status.
	Record(ctx context.Context, canonical string) error
	// Top returns the most frequent statuses, most frequent first.
	Top(ctx context.Context, limit int) ([]domain.UnmappedStatus, error)
}

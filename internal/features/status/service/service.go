package service

import (
	"context"
	"errors"
	"fmt"

	"shipment-status/internal/features/status/domain"
	"shipment-status/internal/features/status/ports"

	"go.uber.org/zap"
)

// DefaultUnmappedLimit is used when a caller asks for a non-positive number of unmapped statuses.
const DefaultUnmappedLimit = 20

// MaxUnmappedLimit caps a single unmapped status query.
const MaxUnmappedLimit = 500

// MaxRecordedLength is the longest canonical status kept for telemetry, in bytes.
// Vendor vocabulary is short; longer input is logged but not recorded.
const MaxRecordedLength = 128

// ErrInvalidLimit is returned when an unmapped status query asks for too many rows.
var ErrInvalidLimit = errors.New("invalid limit")

// StatusService wraps the pure normalizer with fall-through telemetry.
type StatusService struct {
	recorder ports.UnmappedRecorder
	logger   *zap.Logger
}

// NewStatusService creates a new StatusService.
func NewStatusService(recorder ports.UnmappedRecorder, logger *zap.Logger) *StatusService {
	return &StatusService{
		recorder: recorder,
		logger:   logger,
	}
}

// Normalize classifies raw and records it when no rule recognized it.
// Recording never changes the returned Result.
func (s *StatusService) Normalize(ctx context.Context, raw string) domain.Result {
	stage, matched := domain.Classify(raw)
	if !matched {
		s.recordUnmapped(ctx, raw)
	}
	return domain.Describe(stage)
}

// NormalizeBatch normalizes every status, preserving input order.
func (s *StatusService) NormalizeBatch(ctx context.Context, raws []string) []domain.Result {
	results := make([]domain.Result, 0, len(raws))
	for _, raw := range raws {
		results = append(results, s.Normalize(ctx, raw))
	}
	return results
}

// Unmapped returns the most frequent fall-through statuses.
func (s *StatusService) Unmapped(ctx context.Context, limit int) ([]domain.UnmappedStatus, error) {
	if limit <= 0 {
		limit = DefaultUnmappedLimit
	}
	if limit > MaxUnmappedLimit {
		return nil, fmt.Errorf("%w: must not exceed %d", ErrInvalidLimit, MaxUnmappedLimit)
	}

	statuses, err := s.recorder.Top(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list unmapped statuses: %w", err)
	}
	return statuses, nil
}

func (s *StatusService) recordUnmapped(ctx context.Context, raw string) {
	canonical := domain.Canonicalize(raw)
	if canonical == "" {
		return
	}

	if len(canonical) > MaxRecordedLength {
		s.logger.Debug("Discarding oversized unrecognized status",
			zap.Int("length", len(canonical)),
		)
		return
	}

	s.logger.Warn("Unrecognized shipment status",
		zap.String("raw_status", raw),
		zap.String("canonical", canonical),
	)

	if err := s.recorder.Record(ctx, canonical); err != nil {
		s.logger.Error("Failed to record unrecognized status",
			zap.String("canonical", canonical),
			zap.Error(err),
		)
	}
}

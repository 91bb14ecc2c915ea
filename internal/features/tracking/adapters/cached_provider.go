package adapter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shipment-status/internal/core/cache"
	"shipment-status/internal/core/logger"
	"shipment-status/internal/features/tracking/domain"

	"go.uber.org/zap"
)

// RawSource is a provider able to split fetching from parsing, so payloads can be cached.
type RawSource interface {
	Name() string
	FetchRaw(ctx context.Context, shipmentID string) ([]byte, error)
	Parse(body []byte, shipmentID string) (*domain.Shipment, error)
}

// CachedProvider keeps raw provider payloads in the cache for a short TTL.
// Only the vendor payload is cached: normalization always runs on the freshly parsed status.
type CachedProvider struct {
	source RawSource
	cache  cache.Cache
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedProvider wraps source with a payload cache.
func NewCachedProvider(source RawSource, c cache.Cache, ttl time.Duration) *CachedProvider {
	return &CachedProvider{
		source: source,
		cache:  c,
		ttl:    ttl,
		logger: logger.Named("tracking-cache"),
	}
}

// Name implements ports.TrackingProvider.
func (p *CachedProvider) Name() string {
	return p.source.Name()
}

// GetShipment serves the payload from cache when present, otherwise fetches and stores it.
// Cache failures are logged and fall back to the source. A cached payload that
// no longer parses is evicted and fetched again.
func (p *CachedProvider) GetShipment(ctx context.Context, shipmentID string) (*domain.Shipment, error) {
	key := p.key(shipmentID)

	body, err := p.cache.Get(ctx, key)
	switch {
	case err == nil:
		shipment, parseErr := p.source.Parse(body, shipmentID)
		if parseErr == nil {
			return shipment, nil
		}
		p.logger.Warn("Evicting unreadable cached payload", zap.String("key", key), zap.Error(parseErr))
		if err := p.cache.Delete(ctx, key); err != nil {
			p.logger.Warn("Tracking cache delete failed", zap.String("key", key), zap.Error(err))
		}
	case !errors.Is(err, cache.ErrKeyNotFound):
		p.logger.Warn("Tracking cache read failed", zap.String("key", key), zap.Error(err))
	}

	body, err = p.source.FetchRaw(ctx, shipmentID)
	if err != nil {
		return nil, err
	}

	shipment, err := p.source.Parse(body, shipmentID)
	if err != nil {
		return nil, err
	}

	if err := p.cache.Set(ctx, key, body, p.ttl); err != nil {
		p.logger.Warn("Tracking cache write failed", zap.String("key", key), zap.Error(err))
	}

	return shipment, nil
}

func (p *CachedProvider) key(shipmentID string) string {
	return fmt.Sprintf("tracking:raw:%s:%s", p.source.Name(), shipmentID)
}

package adapter

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"shipment-status/internal/core/logger"
	"shipment-status/internal/features/tracking/domain"
	"shipment-status/internal/features/tracking/ports"

	"go.uber.org/zap"
)

// FallbackProvider asks each provider in turn until one answers.
// A not-found answer is authoritative and stops the chain.
type FallbackProvider struct {
	providers []ports.TrackingProvider
	logger    *zap.Logger
}

// NewFallbackProvider creates a FallbackProvider over providers, tried in order.
func NewFallbackProvider(providers ...ports.TrackingProvider) *FallbackProvider {
	return &FallbackProvider{
		providers: providers,
		logger:    logger.Named("tracking-fallback"),
	}
}

// Name lists the chained providers.
func (p *FallbackProvider) Name() string {
	names := make([]string, 0, len(p.providers))
	for _, provider := range p.providers {
		names = append(names, provider.Name())
	}
	return strings.Join(names, ">")
}

// GetShipment implements ports.TrackingProvider.
func (p *FallbackProvider) GetShipment(ctx context.Context, shipmentID string) (*domain.Shipment, error) {
	var errs []error

	for _, provider := range p.providers {
		shipment, err := provider.GetShipment(ctx, shipmentID)
		if err == nil {
			return shipment, nil
		}
		if errors.Is(err, ports.ErrShipmentNotFound) {
			return nil, err
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		p.logger.Warn("Tracking provider failed, trying next",
			zap.String("provider", provider.Name()),
			zap.String("shipment_id", shipmentID),
			zap.Error(err),
		)
		errs = append(errs, fmt.Errorf("%s: %w", provider.Name(), err))
	}

	if len(errs) == 0 {
		return nil, ports.ErrProviderUnavailable
	}
	return nil, fmt.Errorf("%w: %w", ports.ErrProviderUnavailable, errors.Join(errs...))
}

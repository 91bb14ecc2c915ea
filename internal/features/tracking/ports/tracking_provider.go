package ports

import (
	"context"

	"shipment-status/internal/features/tracking/domain"
)

// TrackingProvider defines the interface for shipment tracking backends.
type TrackingProvider interface {
	// GetShipment retrieves the current tracking record for a shipment.
	// Implementations return an error wrapping ErrShipmentNotFound when the provider has no such shipment.
	GetShipment(ctx context.Context, shipmentID string) (*domain.Shipment, error)
	// Name identifies the provider in logs.
	Name() string
}

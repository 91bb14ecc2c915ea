package ports

import "errors"

var (
	// ErrShipmentNotFound is returned when a provider does not know the shipment.
	ErrShipmentNotFound = errors.New("shipment not found")
	// ErrProviderUnavailable is returned when no provider could answer.
	ErrProviderUnavailable = errors.New("tracking provider unavailable")
)

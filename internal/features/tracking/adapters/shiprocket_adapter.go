package adapter

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"shipment-status/internal/core/config"
	"shipment-status/internal/core/httpclient"
	"shipment-status/internal/core/logger"
	"shipment-status/internal/features/tracking/domain"
	"shipment-status/internal/features/tracking/ports"

	"go.uber.org/zap"
)

// maxPayloadBytes bounds a tracking response body.
const maxPayloadBytes = 2 << 20

// ShiprocketAdapter fetches shipment tracking from the Shiprocket logistics aggregator API.
type ShiprocketAdapter struct {
	// client is the rate limited HTTP client used for API requests.
	client *http.Client
	// config holds the API connection details.
	config config.ShiprocketConfig
	logger *zap.Logger
}

// NewShiprocketAdapter creates a new ShiprocketAdapter.
func NewShiprocketAdapter(cfg config.ShiprocketConfig) *ShiprocketAdapter {
	limiter := httpclient.NewLimiter(cfg.RatePerSecond, cfg.RateBurst)
	return &ShiprocketAdapter{
		client: httpclient.NewClient(cfg.Timeout(), limiter),
		config: cfg,
		logger: logger.Named("shiprocket"),
	}
}

// Name implements ports.TrackingProvider.
func (a *ShiprocketAdapter) Name() string {
	return "shiprocket"
}

// GetShipment fetches the tracking record keyed by shipment ID.
func (a *ShiprocketAdapter) GetShipment(ctx context.Context, shipmentID string) (*domain.Shipment, error) {
	body, err := a.fetch(ctx, shipmentID)
	if err != nil {
		return nil, err
	}
	return parseShiprocketPayload(body, shipmentID)
}

// FetchRaw returns the unparsed tracking payload. Used by the raw payload cache.
func (a *ShiprocketAdapter) FetchRaw(ctx context.Context, shipmentID string) ([]byte, error) {
	return a.fetch(ctx, shipmentID)
}

// Parse turns a payload from FetchRaw into a Shipment.
func (a *ShiprocketAdapter) Parse(body []byte, shipmentID string) (*domain.Shipment, error) {
	return parseShiprocketPayload(body, shipmentID)
}

func (a *ShiprocketAdapter) fetch(ctx context.Context, shipmentID string) ([]byte, error) {
	endpoint := fmt.Sprintf("%s/v1/external/courier/track/shipment/%s", a.config.URL, url.PathEscape(shipmentID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+a.config.APIToken)
	req.Header.Set("Accept", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ports.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ports.ErrShipmentNotFound, shipmentID)
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		a.logger.Error("Tracking API rejected credentials", zap.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("tracking API rejected credentials: status %d", resp.StatusCode)
	case resp.StatusCode >= http.StatusInternalServerError || resp.StatusCode == http.StatusTooManyRequests:
		return nil, fmt.Errorf("%w: status %d", ports.ErrProviderUnavailable, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("tracking API returned status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPayloadBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	a.logger.Debug("Fetched tracking payload",
		zap.String("shipment_id", shipmentID),
		zap.Int("bytes", len(body)),
	)

	return body, nil
}

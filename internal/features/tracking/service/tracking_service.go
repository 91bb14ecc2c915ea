package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	statusdomain "shipment-status/internal/features/status/domain"
	statusports "shipment-status/internal/features/status/ports"
	"shipment-status/internal/features/tracking/domain"
	"shipment-status/internal/features/tracking/ports"

	"golang.org/x/sync/errgroup"
)

var (
	// ErrInvalidShipmentID is returned when a lookup is attempted with a blank shipment ID.
	ErrInvalidShipmentID = errors.New("invalid shipment id")
	// ErrEmptyOrder is returned when an order has no items.
	ErrEmptyOrder = errors.New("order has no items")
)

// TrackingService resolves shipments through a provider and attaches their normalized status.
type TrackingService struct {
	provider       ports.TrackingProvider
	normalizer     statusports.StatusNormalizer
	maxConcurrency int
}

// NewTrackingService creates a new TrackingService.
// maxConcurrency bounds the parallel lookups of a single order; values below 1 mean 1.
func NewTrackingService(provider ports.TrackingProvider, normalizer statusports.StatusNormalizer, maxConcurrency int) *TrackingService {
	if maxConcurrency < 1 {
		maxConcurrency = 1
	}
	return &TrackingService{
		provider:       provider,
		normalizer:     normalizer,
		maxConcurrency: maxConcurrency,
	}
}

// GetShipmentStatus fetches a shipment and normalizes its current status.
func (s *TrackingService) GetShipmentStatus(ctx context.Context, shipmentID string) (*domain.ShipmentStatus, error) {
	shipmentID = strings.TrimSpace(shipmentID)
	if shipmentID == "" {
		return nil, ErrInvalidShipmentID
	}

	shipment, err := s.provider.GetShipment(ctx, shipmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get shipment %s from %s: %w", shipmentID, s.provider.Name(), err)
	}

	return &domain.ShipmentStatus{
		Shipment: shipment,
		Status:   s.normalizer.Normalize(ctx, shipment.RawStatus),
	}, nil
}

// GetOrderStatus resolves every shipment of an order concurrently and summarizes the order.
// A single failed lookup fails the whole call.
func (s *TrackingService) GetOrderStatus(ctx context.Context, order domain.Order) (*domain.OrderStatus, error) {
	if len(order.Items) == 0 {
		return nil, ErrEmptyOrder
	}

	ids := order.ShipmentIDs()
	statuses := make([]domain.ShipmentStatus, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrency)

	for i, id := range ids {
		g.Go(func() error {
			status, err := s.GetShipmentStatus(gctx, id)
			if err != nil {
				return err
			}
			statuses[i] = *status
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	byID := make(map[string]statusdomain.Result, len(ids))
	results := make([]statusdomain.Result, 0, len(ids))
	for i, id := range ids {
		byID[id] = statuses[i].Status
		results = append(results, statuses[i].Status)
	}

	items := make([]domain.ItemStatus, 0, len(order.Items))
	for _, item := range order.Items {
		status, ok := byID[item.ShipmentID]
		if !ok {
			// Not yet handed to a courier; it holds the order summary back too.
			status = statusdomain.Describe(statusdomain.StageOrderPlaced)
			results = append(results, status)
		}
		items = append(items, domain.ItemStatus{Item: item, Status: status})
	}

	return &domain.OrderStatus{
		OrderID:   order.OrderID,
		Summary:   domain.Summarize(results),
		Shipments: statuses,
		Items:     items,
	}, nil
}

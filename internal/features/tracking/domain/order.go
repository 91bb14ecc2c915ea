package domain

import (
	statusdomain "shipment-status/internal/features/status/domain"
)

// Order is the subset of a customer order needed to report its delivery progress.
type Order struct {
	// OrderID is the storefront order identifier.
	OrderID string `json:"order_id"`
	// Items are the purchased items. Items shipped together share a ShipmentID.
	Items []OrderItem `json:"items"`
}

// OrderItem is a purchased item and the shipment carrying it.
type OrderItem struct {
	Name     string `json:"name"`
	SKU      string `json:"sku"`
	Quantity int    `json:"quantity"`
	// ShipmentID is empty until the item has been handed to a courier.
	ShipmentID string `json:"shipment_id,omitempty"`
}

// ItemStatus is an order item with the status of its shipment.
type ItemStatus struct {
	Item   OrderItem           `json:"item"`
	Status statusdomain.Result `json:"status"`
}

// OrderStatus is the delivery progress of a whole order.
type OrderStatus struct {
	OrderID string `json:"order_id"`
	// Summary is the order level status shown in order lists.
	Summary statusdomain.Result `json:"summary"`
	// Shipments holds one entry per distinct shipment, in first-seen item order.
	Shipments []ShipmentStatus `json:"shipments"`
	// Items holds one entry per order item, in request order.
	Items []ItemStatus `json:"items"`
}

// ShipmentIDs returns the distinct non-empty shipment IDs in first-seen order.
func (o Order) ShipmentIDs() []string {
	seen := make(map[string]struct{}, len(o.Items))
	ids := make([]string, 0, len(o.Items))
	for _, item := range o.Items {
		if item.ShipmentID == "" {
			continue
		}
		if _, ok := seen[item.ShipmentID]; ok {
			continue
		}
		seen[item.ShipmentID] = struct{}{}
		ids = append(ids, item.ShipmentID)
	}
	return ids
}

// Summarize picks the order level status from per-shipment results.
// The least advanced happy-path stage wins.
// Exception stages are never ranked against happy-path ones: they only decide the summary when
// every shipment is off the happy path, and then Returned outranks Undelivered.
// With no shipments at all the order is still Order Placed.
func Summarize(results []statusdomain.Result) statusdomain.Result {
	var (
		slowest   *statusdomain.Result
		anyReturn bool
		anyOther  bool
	)

	for i := range results {
		r := results[i]
		switch {
		case r.Stage.IsHappyPath():
			if slowest == nil || r.ProgressIndex < slowest.ProgressIndex {
				slowest = &results[i]
			}
		case r.Stage == statusdomain.StageReturned:
			anyReturn = true
		default:
			anyOther = true
		}
	}

	switch {
	case slowest != nil:
		return *slowest
	case anyReturn:
		return statusdomain.Describe(statusdomain.StageReturned)
	case anyOther:
		return statusdomain.Describe(statusdomain.StageUndelivered)
	default:
		return statusdomain.Describe(statusdomain.StageOrderPlaced)
	}
}

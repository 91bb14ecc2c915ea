package domain

import (
	"time"

	statusdomain "shipment-status/internal/features/status/domain"
)

// Shipment is the raw tracking record returned by a logistics provider.
type Shipment struct {
	// ShipmentID is the provider's shipment identifier used for lookups.
	ShipmentID string `json:"shipment_id"`
	// AWB is the courier airway bill number.
	AWB string `json:"awb"`
	// Courier is the courier company name reported by the provider.
	Courier string `json:"courier"`
	// RawStatus is the provider's current status text, unmodified.
	RawStatus string `json:"raw_status"`
	// TrackURL is the provider's public tracking page, if any.
	TrackURL string `json:"track_url,omitempty"`
	// Activities are the scan events, newest first as the provider reports them.
	Activities []Activity `json:"activities"`
}

// Activity is one scan event in a shipment's history.
type Activity struct {
	// Date is when the event occurred. Zero if the provider's date could not be parsed.
	Date time.Time `json:"date"`
	// RawStatus is the provider's status label for the event.
	RawStatus string `json:"raw_status"`
	// Activity is the free text description.
	Activity string `json:"activity"`
	// Location is where the scan happened.
	Location string `json:"location"`
}

// ShipmentStatus pairs a shipment with its normalized status.
type ShipmentStatus struct {
	Shipment *Shipment           `json:"shipment"`
	Status   statusdomain.Result `json:"status"`
}

package adapter

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"shipment-status/internal/features/tracking/domain"
	"shipment-status/internal/features/tracking/ports"
)

// shiprocketActivityLayout is the activity timestamp format, e.g. "2021-12-23 14:19:37".
const shiprocketActivityLayout = "2006-01-02 15:04:05"

// shiprocketResponse represents the JSON structure returned by the tracking endpoint.
type shiprocketResponse struct {
	TrackingData struct {
		TrackStatus    int `json:"track_status"`
		ShipmentStatus int `json:"shipment_status"`
		ShipmentTrack  []struct {
			ShipmentID    json.RawMessage `json:"shipment_id"`
			AWBCode       string          `json:"awb_code"`
			CourierName   string          `json:"courier_name"`
			CurrentStatus string          `json:"current_status"`
		} `json:"shipment_track"`
		Activities []struct {
			Date          string `json:"date"`
			Status        string `json:"status"`
			Activity      string `json:"activity"`
			Location      string `json:"location"`
			SRStatusLabel string `json:"sr-status-label"`
		} `json:"shipment_track_activities"`
		TrackURL string `json:"track_url"`
		Error    string `json:"error"`
	} `json:"tracking_data"`
}

// parseShiprocketPayload maps a tracking payload to a domain Shipment.
// requestedID is used when the payload does not echo the shipment ID.
func parseShiprocketPayload(body []byte, requestedID string) (*domain.Shipment, error) {
	var resp shiprocketResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse tracking response: %w", err)
	}

	data := resp.TrackingData
	if len(data.ShipmentTrack) == 0 {
		if data.Error != "" {
			return nil, fmt.Errorf("%w: %s: %s", ports.ErrShipmentNotFound, requestedID, data.Error)
		}
		return nil, fmt.Errorf("%w: %s", ports.ErrShipmentNotFound, requestedID)
	}

	track := data.ShipmentTrack[0]

	shipment := &domain.Shipment{
		ShipmentID: requestedID,
		AWB:        track.AWBCode,
		Courier:    track.CourierName,
		RawStatus:  track.CurrentStatus,
		TrackURL:   data.TrackURL,
		Activities: make([]domain.Activity, 0, len(data.Activities)),
	}
	if id := strings.Trim(string(track.ShipmentID), `"`); id != "" && id != "null" && id != "0" {
		shipment.ShipmentID = id
	}

	for _, a := range data.Activities {
		// The label is the aggregator's own vocabulary; fall back to the courier's scan text.
		raw := a.SRStatusLabel
		if raw == "" {
			raw = a.Activity
		}

		date, err := time.Parse(shiprocketActivityLayout, strings.TrimSpace(a.Date))
		if err != nil {
			date = time.Time{}
		}

		shipment.Activities = append(shipment.Activities, domain.Activity{
			Date:      date,
			RawStatus: raw,
			Activity:  a.Activity,
			Location:  a.Location,
		})
	}

	return shipment, nil
}

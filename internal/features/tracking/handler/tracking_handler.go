package handler

import (
	"errors"

	"shipment-status/internal/core/logger"
	"shipment-status/internal/features/tracking/domain"
	"shipment-status/internal/features/tracking/ports"
	"shipment-status/internal/features/tracking/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// TrackingHandler handles HTTP requests for shipment and order tracking.
type TrackingHandler struct {
	trackingService *service.TrackingService
}

// NewTrackingHandler creates a new TrackingHandler.
func NewTrackingHandler(trackingService *service.TrackingService) *TrackingHandler {
	return &TrackingHandler{
		trackingService: trackingService,
	}
}

// ErrorResponse represents an error response with Ray ID.
type ErrorResponse struct {
	// Message is the error description.
	Message string `json:"message"`
	// RayID is the unique request identifier for tracing.
	RayID string `json:"ray_id,omitempty"`
}

// Register mounts the tracking routes on app.
func (h *TrackingHandler) Register(app fiber.Router) {
	app.Get("/tracking/:shipmentId", h.GetShipmentStatus)
	app.Post("/orders/status", h.GetOrderStatus)
}

// GetShipmentStatus godoc
// @Summary Get the normalized status of a shipment
// @Description Fetches the shipment from the logistics provider and maps its status to a canonical stage
// @Tags tracking
// @Produce json
// @Param shipmentId path string true "Shipment ID"
// @Success 200 {object} domain.ShipmentStatus
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /tracking/{shipmentId} [get]
func (h *TrackingHandler) GetShipmentStatus(c *fiber.Ctx) error {
	status, err := h.trackingService.GetShipmentStatus(c.UserContext(), c.Params("shipmentId"))
	if err != nil {
		return h.errorResponse(c, err)
	}

	return c.JSON(status)
}

// GetOrderStatus godoc
// @Summary Get the delivery progress of an order
// @Description Resolves every shipment of the order and returns per-item statuses and an order summary
// @Tags tracking
// @Accept json
// @Produce json
// @Param order body domain.Order true "Order"
// @Success 200 {object} domain.OrderStatus
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /orders/status [post]
func (h *TrackingHandler) GetOrderStatus(c *fiber.Ctx) error {
	var order domain.Order
	if err := c.BodyParser(&order); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: "invalid request body",
			RayID:   rayID(c),
		})
	}

	status, err := h.trackingService.GetOrderStatus(c.UserContext(), order)
	if err != nil {
		return h.errorResponse(c, err)
	}

	return c.JSON(status)
}

func (h *TrackingHandler) errorResponse(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidShipmentID), errors.Is(err, service.ErrEmptyOrder):
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: err.Error(),
			RayID:   rayID(c),
		})
	case errors.Is(err, ports.ErrShipmentNotFound):
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Message: "shipment not found",
			RayID:   rayID(c),
		})
	case errors.Is(err, ports.ErrProviderUnavailable):
		logger.Get().Warn("Tracking provider unavailable",
			zap.String("ray_id", rayID(c)),
			zap.Error(err),
		)
		return c.Status(fiber.StatusBadGateway).JSON(ErrorResponse{
			Message: "tracking provider unavailable",
			RayID:   rayID(c),
		})
	}

	logger.Get().Error("Failed to resolve tracking",
		zap.String("ray_id", rayID(c)),
		zap.Error(err),
	)
	return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
		Message: "Internal server error",
		RayID:   rayID(c),
	})
}

func rayID(c *fiber.Ctx) string {
	id, ok := c.Locals("requestid").(string)
	if !ok {
		return "unknown"
	}
	return id
}

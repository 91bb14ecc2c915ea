package handler

import (
	"errors"
	"net/http"
	"strconv"

	"shipment-status/internal/core/logger"
	"shipment-status/internal/features/status/domain"
	"shipment-status/internal/features/status/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// maxBatchSize caps the number of statuses normalized by one POST.
const maxBatchSize = 1000

// StatusHandler handles HTTP requests for status normalization.
type StatusHandler struct {
	service *service.StatusService
}

// NewStatusHandler creates a new StatusHandler.
func NewStatusHandler(s *service.StatusService) *StatusHandler {
	return &StatusHandler{
		service: s,
	}
}

// ErrorResponse represents an error response with Ray ID.
type ErrorResponse struct {
	// Message is the error description.
	Message string `json:"message"`
	// RayID is the unique request identifier for tracing.
	RayID string `json:"ray_id,omitempty"`
}

// BatchRequest is the body of POST /status/normalize.
type BatchRequest struct {
	Statuses []string `json:"statuses"`
}

// BatchResponse holds one result per requested status, in request order.
type BatchResponse struct {
	Results []domain.Result `json:"results"`
}

// StagesResponse describes the full stage table.
type StagesResponse struct {
	Stages    []domain.Result `json:"stages"`
	HappyPath []domain.Result `json:"happy_path"`
}

// UnmappedResponse lists statuses that fell through to the default stage.
type UnmappedResponse struct {
	Statuses []domain.UnmappedStatus `json:"statuses"`
}

// Register mounts the status routes on app.
func (h *StatusHandler) Register(app fiber.Router) {
	app.Get("/status/normalize", h.Normalize)
	app.Post("/status/normalize", h.NormalizeBatch)
	app.Get("/status/stages", h.Stages)
	app.Get("/admin/unmapped-statuses", h.Unmapped)
}

// Normalize godoc
// @Summary Normalize a vendor shipment status
// @Description Maps a raw logistics status to its canonical stage, label, progress index and color. A missing value is treated as empty.
// @Tags status
// @Produce json
// @Param raw query string false "Raw vendor status"
// @Success 200 {object} domain.Result
// @Router /status/normalize [get]
func (h *StatusHandler) Normalize(c *fiber.Ctx) error {
	return c.JSON(h.service.Normalize(c.UserContext(), c.Query("raw")))
}

// NormalizeBatch godoc
// @Summary Normalize many vendor statuses
// @Tags status
// @Accept json
// @Produce json
// @Param body body BatchRequest true "Statuses"
// @Success 200 {object} BatchResponse
// @Failure 400 {object} ErrorResponse
// @Router /status/normalize [post]
func (h *StatusHandler) NormalizeBatch(c *fiber.Ctx) error {
	var req BatchRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: "invalid request body",
			RayID:   rayID(c),
		})
	}

	if len(req.Statuses) > maxBatchSize {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: "too many statuses, max " + strconv.Itoa(maxBatchSize),
			RayID:   rayID(c),
		})
	}

	return c.JSON(BatchResponse{
		Results: h.service.NormalizeBatch(c.UserContext(), req.Statuses),
	})
}

// Stages godoc
// @Summary List canonical stages
// @Tags status
// @Produce json
// @Success 200 {object} StagesResponse
// @Router /status/stages [get]
func (h *StatusHandler) Stages(c *fiber.Ctx) error {
	return c.JSON(StagesResponse{
		Stages:    domain.Stages(),
		HappyPath: domain.HappyPath(),
	})
}

// Unmapped godoc
// @Summary List unrecognized vendor statuses
// @Description Most frequent raw statuses that fell through to the default stage.
// @Tags admin
// @Produce json
// @Param limit query int false "Rows to return (default 20)"
// @Success 200 {object} UnmappedResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /admin/unmapped-statuses [get]
func (h *StatusHandler) Unmapped(c *fiber.Ctx) error {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
				Message: "limit must be a non-negative integer",
				RayID:   rayID(c),
			})
		}
		limit = parsed
	}

	statuses, err := h.service.Unmapped(c.UserContext(), limit)
	if err != nil {
		if errors.Is(err, service.ErrInvalidLimit) {
			return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
				Message: err.Error(),
				RayID:   rayID(c),
			})
		}

		logger.Get().Error("Failed to list unmapped statuses",
			zap.String("ray_id", rayID(c)),
			zap.Error(err),
		)
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Message: "Internal server error",
			RayID:   rayID(c),
		})
	}

	return c.JSON(UnmappedResponse{Statuses: statuses})
}

func rayID(c *fiber.Ctx) string {
	id, ok := c.Locals("requestid").(string)
	if !ok {
		return "unknown"
	}
	return id
}

package sales

import (
	"sales-reconciler/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the sales reconciler.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the reconciler routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Get("/health", h.HandleHealth)
	app.Get("/latest-report", h.HandleLatestReport)
}

// HandleHealth is the liveness probe.
func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	return c.SendString("ok")
}

// HandleLatestReport runs the reconciliation synchronously and reports the
// result: 200 on success, 400 on a run-level failure (no export, empty
// export), 500 on an unexpected internal failure.
func (h *Handler) HandleLatestReport(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	result, err := h.service.Reconcile(c.Context())
	if err != nil {
		l.Error("Reconciliation run failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "internal",
			"message": err.Error(),
		})
	}

	status := fiber.StatusOK
	if !result.Success {
		status = fiber.StatusBadRequest
		l.Warn("Reconciliation run reported failure", zap.String("message", result.Message))
	}

	return c.Status(status).JSON(result)
}

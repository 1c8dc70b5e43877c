package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const readinessTimeout = 3 * time.Second

// Pinger is satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Store is a named dependency checked by the readiness probe.
type Store struct {
	Name string
	DB   Pinger
}

type HealthHandler struct {
	stores  []Store
	version string
	logger  *zap.Logger
}

func NewHealthHandler(stores []Store, version string, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		stores:  stores,
		version: version,
		logger:  logger,
	}
}

// Ready godoc
// @Summary Readiness probe
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /ready [get]
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), readinessTimeout)
	defer cancel()

	for _, store := range h.stores {
		if err := store.DB.Ping(ctx); err != nil {
			h.logger.Error("Readiness check failed", zap.String("store", store.Name), zap.Error(err))
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"error": "Service not ready",
			})
		}
	}

	return c.JSON(fiber.Map{"status": "ready"})
}

// Healthy godoc
// @Summary Liveness probe
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /healthy [get]
func (h *HealthHandler) Healthy(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "healthy"})
}

// Version godoc
// @Summary Service version
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /version [get]
func (h *HealthHandler) Version(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"version": h.version})
}

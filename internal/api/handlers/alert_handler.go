package handlers

import (
	"context"
	"errors"

	"ai-insights/internal/dto"
	"ai-insights/internal/models"
	"ai-insights/internal/repository"
	"ai-insights/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AlertManager interface {
	CreateConfiguration(ctx context.Context, cfg *models.AlertConfiguration) error
	UpdateConfiguration(ctx context.Context, id uuid.UUID, username string, patch models.AlertConfigPatch) error
	ListConfigurations(ctx context.Context, username string, activeOnly bool) ([]*models.AlertConfiguration, error)
}

// AlertChecker evaluates alerts over the user's recent transactions.
type AlertChecker interface {
	CheckAlertsNow(ctx context.Context, username string) ([]models.Alert, error)
}

type AlertHandler struct {
	alerts  AlertManager
	checker AlertChecker
	logger  *zap.Logger
}

func NewAlertHandler(alerts AlertManager, checker AlertChecker, logger *zap.Logger) *AlertHandler {
	return &AlertHandler{
		alerts:  alerts,
		checker: checker,
		logger:  logger,
	}
}

// ListAlerts godoc
// @Summary List alert configurations
// @Tags alerts
// @Produce json
// @Param active_only query bool false "Only active configurations"
// @Security Bearer
// @Success 200 {object} dto.AlertConfigListResponse
// @Router /api/v1/alerts [get]
func (h *AlertHandler) ListAlerts(c *fiber.Ctx) error {
	username, err := getUsername(c)
	if err != nil {
		return unauthorized(c)
	}

	configs, err := h.alerts.ListConfigurations(c.UserContext(), username, c.QueryBool("active_only", true))
	if err != nil {
		h.logger.Error("Failed to list alert configurations", zap.String("username", username), zap.Error(err))
		return internalError(c)
	}
	if configs == nil {
		configs = []*models.AlertConfiguration{}
	}

	return c.JSON(dto.AlertConfigListResponse{
		Success:        true,
		Configurations: configs,
		Timestamp:      timestamp(),
	})
}

// CreateAlert godoc
// @Summary Create an alert configuration
// @Tags alerts
// @Accept json
// @Produce json
// @Param request body dto.AlertConfigRequest true "Alert configuration"
// @Security Bearer
// @Success 201 {object} models.AlertConfiguration
// @Failure 400 {object} map[string]string
// @Router /api/v1/alerts [post]
func (h *AlertHandler) CreateAlert(c *fiber.Ctx) error {
	username, err := getUsername(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.AlertConfigRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	cfg := req.ToModel(username)
	if err := h.alerts.CreateConfiguration(c.UserContext(), cfg); err != nil {
		if errors.Is(err, service.ErrInvalidAlertConfig) {
			return badRequest(c, err.Error())
		}
		h.logger.Error("Failed to create alert configuration", zap.String("username", username), zap.Error(err))
		return internalError(c)
	}

	return c.Status(fiber.StatusCreated).JSON(cfg)
}

// UpdateAlert godoc
// @Summary Update an alert configuration
// @Description Only threshold_value, threshold_period, notification_method and is_active can change
// @Tags alerts
// @Accept json
// @Produce json
// @Param id path string true "Alert configuration ID"
// @Param request body models.AlertConfigPatch true "Fields to change"
// @Security Bearer
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/alerts/{id} [patch]
func (h *AlertHandler) UpdateAlert(c *fiber.Ctx) error {
	username, err := getUsername(c)
	if err != nil {
		return unauthorized(c)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid alert configuration ID")
	}

	var patch models.AlertConfigPatch
	if err := c.BodyParser(&patch); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if err := h.alerts.UpdateConfiguration(c.UserContext(), id, username, patch); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidAlertConfig):
			return badRequest(c, err.Error())
		case errors.Is(err, repository.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Alert configuration not found",
			})
		}
		h.logger.Error("Failed to update alert configuration", zap.String("username", username), zap.Error(err))
		return internalError(c)
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"message":   "Alert configuration updated",
		"timestamp": timestamp(),
	})
}

// CheckAlerts godoc
// @Summary Evaluate alerts now
// @Description Runs every alert check over recent transactions without storing the results
// @Tags alerts
// @Produce json
// @Security Bearer
// @Success 200 {object} dto.AlertCheckResponse
// @Router /api/v1/alerts/check [get]
func (h *AlertHandler) CheckAlerts(c *fiber.Ctx) error {
	username, err := getUsername(c)
	if err != nil {
		return unauthorized(c)
	}

	alerts, err := h.checker.CheckAlertsNow(c.UserContext(), username)
	if err != nil {
		h.logger.Error("Failed to check alerts", zap.String("username", username), zap.Error(err))
		return internalError(c)
	}

	return c.JSON(dto.AlertCheckResponse{
		Success:   true,
		Alerts:    alerts,
		Count:     len(alerts),
		Timestamp: timestamp(),
	})
}

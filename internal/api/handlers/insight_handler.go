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

const defaultInsightLimit = 20

type InsightManager interface {
	ListInsights(ctx context.Context, username string, limit int, unreadOnly bool) ([]*models.Insight, error)
	GenerateDailyInsights(ctx context.Context, username string) ([]*models.Insight, error)
	MarkInsightRead(ctx context.Context, id uuid.UUID, username string) error
	Dashboard(ctx context.Context, username string) *service.DashboardData
}

type InsightHandler struct {
	insights InsightManager
	logger   *zap.Logger
}

func NewInsightHandler(insights InsightManager, logger *zap.Logger) *InsightHandler {
	return &InsightHandler{
		insights: insights,
		logger:   logger,
	}
}

// ListInsights godoc
// @Summary List stored insights
// @Tags insights
// @Produce json
// @Param unread_only query bool false "Only unread insights"
// @Param limit query int false "Maximum number of insights"
// @Security Bearer
// @Success 200 {object} dto.InsightListResponse
// @Router /api/v1/insights [get]
func (h *InsightHandler) ListInsights(c *fiber.Ctx) error {
	username, err := getUsername(c)
	if err != nil {
		return unauthorized(c)
	}

	limit := c.QueryInt("limit", defaultInsightLimit)
	unreadOnly := c.QueryBool("unread_only", false)

	insights, err := h.insights.ListInsights(c.UserContext(), username, limit, unreadOnly)
	if err != nil {
		h.logger.Error("Failed to list insights", zap.String("username", username), zap.Error(err))
		return internalError(c)
	}
	if insights == nil {
		insights = []*models.Insight{}
	}

	return c.JSON(dto.InsightListResponse{
		Success:   true,
		Insights:  insights,
		Count:     len(insights),
		Timestamp: timestamp(),
	})
}

// GenerateInsights godoc
// @Summary Generate and store today's insights
// @Tags insights
// @Produce json
// @Security Bearer
// @Success 200 {object} dto.GenerateInsightsResponse
// @Router /api/v1/insights/generate [post]
func (h *InsightHandler) GenerateInsights(c *fiber.Ctx) error {
	username, err := getUsername(c)
	if err != nil {
		return unauthorized(c)
	}

	insights, err := h.insights.GenerateDailyInsights(c.UserContext(), username)
	if err != nil {
		h.logger.Error("Failed to generate daily insights", zap.String("username", username), zap.Error(err))
		return internalError(c)
	}

	return c.JSON(dto.GenerateInsightsResponse{
		Success:   true,
		Insights:  insights,
		Generated: len(insights),
		Timestamp: timestamp(),
	})
}

// MarkRead godoc
// @Summary Mark an insight as read
// @Tags insights
// @Produce json
// @Param id path string true "Insight ID"
// @Security Bearer
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Router /api/v1/insights/{id}/read [put]
func (h *InsightHandler) MarkRead(c *fiber.Ctx) error {
	username, err := getUsername(c)
	if err != nil {
		return unauthorized(c)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid insight ID")
	}

	if err := h.insights.MarkInsightRead(c.UserContext(), id, username); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Insight not found",
			})
		}
		h.logger.Error("Failed to mark insight read", zap.String("username", username), zap.Error(err))
		return internalError(c)
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"message":   "Insight marked as read",
		"timestamp": timestamp(),
	})
}

// Dashboard godoc
// @Summary Get the dashboard overview
// @Tags insights
// @Produce json
// @Security Bearer
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/dashboard [get]
func (h *InsightHandler) Dashboard(c *fiber.Ctx) error {
	username, err := getUsername(c)
	if err != nil {
		return unauthorized(c)
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"data":      h.insights.Dashboard(c.UserContext(), username),
		"timestamp": timestamp(),
	})
}

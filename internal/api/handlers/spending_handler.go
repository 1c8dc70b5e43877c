package handlers

import (
	"context"

	"ai-insights/internal/dto"
	"ai-insights/internal/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const defaultSpendingPeriod = "this_month"

type SpendingReporter interface {
	SpendingByCategory(ctx context.Context, username, period string) ([]models.CategorySpending, error)
	SpendingTrends(ctx context.Context, username, period string) ([]models.DailySpending, error)
	MonthlyComparison(ctx context.Context, username string) ([]models.MonthlySpending, error)
}

type SpendingHandler struct {
	reporter SpendingReporter
	logger   *zap.Logger
}

func NewSpendingHandler(reporter SpendingReporter, logger *zap.Logger) *SpendingHandler {
	return &SpendingHandler{
		reporter: reporter,
		logger:   logger,
	}
}

func (h *SpendingHandler) respond(c *fiber.Ctx, report string, period string, data interface{}, err error) error {
	if err != nil {
		h.logger.Error("Failed to build spending report", zap.String("report", report), zap.Error(err))
		return internalError(c)
	}
	return c.JSON(dto.SpendingResponse{
		Success:   true,
		Period:    period,
		Data:      data,
		Timestamp: timestamp(),
	})
}

// Categories godoc
// @Summary Spending by amount bucket
// @Tags spending
// @Produce json
// @Param period query string false "Time period token, e.g. this_month"
// @Security Bearer
// @Success 200 {object} dto.SpendingResponse
// @Router /api/v1/spending/categories [get]
func (h *SpendingHandler) Categories(c *fiber.Ctx) error {
	username, err := getUsername(c)
	if err != nil {
		return unauthorized(c)
	}

	period := c.Query("period", defaultSpendingPeriod)
	data, err := h.reporter.SpendingByCategory(c.UserContext(), username, period)
	if data == nil {
		data = []models.CategorySpending{}
	}
	return h.respond(c, "categories", period, data, err)
}

// Trends godoc
// @Summary Daily spending
// @Tags spending
// @Produce json
// @Param period query string false "Time period token, e.g. last_week"
// @Security Bearer
// @Success 200 {object} dto.SpendingResponse
// @Router /api/v1/spending/trends [get]
func (h *SpendingHandler) Trends(c *fiber.Ctx) error {
	username, err := getUsername(c)
	if err != nil {
		return unauthorized(c)
	}

	period := c.Query("period", defaultSpendingPeriod)
	data, err := h.reporter.SpendingTrends(c.UserContext(), username, period)
	if data == nil {
		data = []models.DailySpending{}
	}
	return h.respond(c, "trends", period, data, err)
}

// Monthly godoc
// @Summary Monthly spending over the last year
// @Tags spending
// @Produce json
// @Security Bearer
// @Success 200 {object} dto.SpendingResponse
// @Router /api/v1/spending/monthly [get]
func (h *SpendingHandler) Monthly(c *fiber.Ctx) error {
	username, err := getUsername(c)
	if err != nil {
		return unauthorized(c)
	}

	data, err := h.reporter.MonthlyComparison(c.UserContext(), username)
	if data == nil {
		data = []models.MonthlySpending{}
	}
	return h.respond(c, "monthly", "", data, err)
}

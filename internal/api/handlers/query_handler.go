package handlers

import (
	"context"
	"strings"

	"ai-insights/internal/dto"
	"ai-insights/internal/models"
	"ai-insights/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type QueryProcessor interface {
	ProcessQuery(ctx context.Context, username, query string) *service.QueryResult
}

type QueryAssistant interface {
	SuggestRelated(ctx context.Context, query string) []string
	Clarify(ctx context.Context, query string) string
}

type VisualizationAdvisor interface {
	SuggestImprovements(ctx context.Context, viz models.VisualizationConfig, feedback string) models.VisualizationConfig
}

type QueryHandler struct {
	processor QueryProcessor
	assistant QueryAssistant
	advisor   VisualizationAdvisor
	logger    *zap.Logger
}

func NewQueryHandler(processor QueryProcessor, assistant QueryAssistant, advisor VisualizationAdvisor, logger *zap.Logger) *QueryHandler {
	return &QueryHandler{
		processor: processor,
		assistant: assistant,
		advisor:   advisor,
		logger:    logger,
	}
}

// ProcessQuery godoc
// @Summary Ask a question about your spending
// @Description Answers a natural-language question with data, insights and charts
// @Tags query
// @Accept json
// @Produce json
// @Param request body dto.QueryRequest true "Query request"
// @Security Bearer
// @Success 200 {object} service.QueryResult
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /api/v1/query [post]
func (h *QueryHandler) ProcessQuery(c *fiber.Ctx) error {
	username, err := getUsername(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.QueryRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if strings.TrimSpace(req.Query) == "" {
		return badRequest(c, "Query is required")
	}

	result := h.processor.ProcessQuery(c.UserContext(), username, req.Query)
	if !result.Success {
		h.logger.Info("Query not answered", zap.String("username", username), zap.String("reason", result.Error))
	}

	return c.JSON(result)
}

// Suggestions godoc
// @Summary Suggest related questions
// @Tags query
// @Produce json
// @Param q query string true "Original question"
// @Security Bearer
// @Success 200 {object} dto.SuggestionsResponse
// @Router /api/v1/query/suggestions [get]
func (h *QueryHandler) Suggestions(c *fiber.Ctx) error {
	if _, err := getUsername(c); err != nil {
		return unauthorized(c)
	}

	query := c.Query("q")
	if strings.TrimSpace(query) == "" {
		return badRequest(c, "Query parameter q is required")
	}

	return c.JSON(dto.SuggestionsResponse{
		Success:     true,
		Suggestions: h.assistant.SuggestRelated(c.UserContext(), query),
		Timestamp:   timestamp(),
	})
}

// Clarify godoc
// @Summary Ask for a clarification of a vague question
// @Tags query
// @Accept json
// @Produce json
// @Param request body dto.QueryRequest true "Query request"
// @Security Bearer
// @Success 200 {object} dto.ClarificationResponse
// @Router /api/v1/query/clarify [post]
func (h *QueryHandler) Clarify(c *fiber.Ctx) error {
	if _, err := getUsername(c); err != nil {
		return unauthorized(c)
	}

	var req dto.QueryRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	return c.JSON(dto.ClarificationResponse{
		Success:       true,
		Clarification: h.assistant.Clarify(c.UserContext(), req.Query),
		Timestamp:     timestamp(),
	})
}

// ImproveVisualization godoc
// @Summary Improve a chart from user feedback
// @Tags visualizations
// @Accept json
// @Produce json
// @Param request body dto.ImproveVisualizationRequest true "Chart and feedback"
// @Security Bearer
// @Success 200 {object} dto.VisualizationResponse
// @Router /api/v1/visualizations/improve [post]
func (h *QueryHandler) ImproveVisualization(c *fiber.Ctx) error {
	if _, err := getUsername(c); err != nil {
		return unauthorized(c)
	}

	var req dto.ImproveVisualizationRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if strings.TrimSpace(req.Feedback) == "" {
		return badRequest(c, "Feedback is required")
	}

	return c.JSON(dto.VisualizationResponse{
		Success:       true,
		Visualization: h.advisor.SuggestImprovements(c.UserContext(), req.Config, req.Feedback),
		Timestamp:     timestamp(),
	})
}

// ChartType godoc
// @Summary Describe a chart type
// @Tags visualizations
// @Produce json
// @Param type path string true "Chart type"
// @Success 200 {object} dto.ChartTypeResponse
// @Router /api/v1/charts/{type} [get]
func (h *QueryHandler) ChartType(c *fiber.Ctx) error {
	chartType := c.Params("type")
	return c.JSON(dto.ChartTypeResponse{
		ChartType:   chartType,
		Description: service.ChartTypeDescription(chartType),
	})
}

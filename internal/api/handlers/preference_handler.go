package handlers

import (
	"context"
	"errors"
	"strings"

	"ai-insights/internal/dto"
	"ai-insights/internal/models"
	"ai-insights/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type PreferenceManager interface {
	GetPreferences(ctx context.Context, username string) []*models.Preference
	UpdatePreferences(ctx context.Context, username string, preferences map[string]interface{}) bool
	LearnFromInteraction(ctx context.Context, username, interactionType string, insightID *uuid.UUID, data map[string]interface{}) (uuid.UUID, error)
	GetPersonalizedRecommendations(ctx context.Context, username string) []interface{}
	SetAlertPreferences(ctx context.Context, username string, cfg *models.AlertConfiguration) (*models.AlertConfiguration, error)
}

type PreferenceHandler struct {
	preferences PreferenceManager
	logger      *zap.Logger
}

func NewPreferenceHandler(preferences PreferenceManager, logger *zap.Logger) *PreferenceHandler {
	return &PreferenceHandler{
		preferences: preferences,
		logger:      logger,
	}
}

// GetPreferences godoc
// @Summary Get stored preferences
// @Tags preferences
// @Produce json
// @Security Bearer
// @Success 200 {object} dto.PreferencesResponse
// @Router /api/v1/preferences [get]
func (h *PreferenceHandler) GetPreferences(c *fiber.Ctx) error {
	username, err := getUsername(c)
	if err != nil {
		return unauthorized(c)
	}

	prefs := h.preferences.GetPreferences(c.UserContext(), username)
	if prefs == nil {
		prefs = []*models.Preference{}
	}

	return c.JSON(dto.PreferencesResponse{
		Success:     true,
		Preferences: prefs,
		Timestamp:   timestamp(),
	})
}

// UpdatePreferences godoc
// @Summary Update preferences
// @Description Mapping values are stored one record per key
// @Tags preferences
// @Accept json
// @Produce json
// @Param request body dto.UpdatePreferencesRequest true "Preferences"
// @Security Bearer
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/preferences [post]
func (h *PreferenceHandler) UpdatePreferences(c *fiber.Ctx) error {
	username, err := getUsername(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.UpdatePreferencesRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if len(req.Preferences) == 0 {
		return badRequest(c, "Preferences are required")
	}

	ok := h.preferences.UpdatePreferences(c.UserContext(), username, req.Preferences)
	message := "Preferences updated successfully"
	if !ok {
		message = "Failed to update preferences"
	}

	return c.JSON(fiber.Map{
		"success":   ok,
		"message":   message,
		"timestamp": timestamp(),
	})
}

// SetAlertPreferences godoc
// @Summary Store alert preferences
// @Description An empty body stores the default daily spending alert
// @Tags preferences
// @Accept json
// @Produce json
// @Param request body dto.AlertConfigRequest false "Alert configuration"
// @Security Bearer
// @Success 201 {object} models.AlertConfiguration
// @Failure 400 {object} map[string]string
// @Router /api/v1/preferences/alerts [post]
func (h *PreferenceHandler) SetAlertPreferences(c *fiber.Ctx) error {
	username, err := getUsername(c)
	if err != nil {
		return unauthorized(c)
	}

	var cfg *models.AlertConfiguration
	if len(c.Body()) > 0 {
		var req dto.AlertConfigRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}
		cfg = req.ToModel(username)
	}

	saved, err := h.preferences.SetAlertPreferences(c.UserContext(), username, cfg)
	if err != nil {
		if errors.Is(err, service.ErrInvalidAlertConfig) {
			return badRequest(c, err.Error())
		}
		h.logger.Error("Failed to set alert preferences", zap.String("username", username), zap.Error(err))
		return internalError(c)
	}

	return c.Status(fiber.StatusCreated).JSON(saved)
}

// LogInteraction godoc
// @Summary Record an interaction
// @Description Logs the interaction and learns preferences from it
// @Tags preferences
// @Accept json
// @Produce json
// @Param request body dto.InteractionRequest true "Interaction"
// @Security Bearer
// @Success 200 {object} dto.InteractionResponse
// @Router /api/v1/interactions [post]
func (h *PreferenceHandler) LogInteraction(c *fiber.Ctx) error {
	username, err := getUsername(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.InteractionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if strings.TrimSpace(req.InteractionType) == "" {
		return badRequest(c, "Interaction type is required")
	}

	var insightID *uuid.UUID
	if req.InsightID != "" {
		id, err := uuid.Parse(req.InsightID)
		if err != nil {
			return badRequest(c, "Invalid insight ID")
		}
		insightID = &id
	}

	id, err := h.preferences.LearnFromInteraction(c.UserContext(), username, req.InteractionType, insightID, req.InteractionData)
	if err != nil {
		h.logger.Error("Failed to log interaction", zap.String("username", username), zap.Error(err))
		return internalError(c)
	}

	return c.JSON(dto.InteractionResponse{
		Success:       true,
		InteractionID: id.String(),
		Timestamp:     timestamp(),
	})
}

// Recommendations godoc
// @Summary Get personalized recommendations
// @Tags preferences
// @Produce json
// @Security Bearer
// @Success 200 {object} dto.RecommendationsResponse
// @Router /api/v1/recommendations [get]
func (h *PreferenceHandler) Recommendations(c *fiber.Ctx) error {
	username, err := getUsername(c)
	if err != nil {
		return unauthorized(c)
	}

	return c.JSON(dto.RecommendationsResponse{
		Success:         true,
		Recommendations: h.preferences.GetPersonalizedRecommendations(c.UserContext(), username),
		Timestamp:       timestamp(),
	})
}

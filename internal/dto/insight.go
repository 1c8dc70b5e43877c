package dto

import (
	"ai-insights/internal/models"
)

type InsightListResponse struct {
	Success   bool              `json:"success"`
	Insights  []*models.Insight `json:"insights"`
	Count     int               `json:"count"`
	Timestamp string            `json:"timestamp"`
}

type GenerateInsightsResponse struct {
	Success   bool              `json:"success"`
	Insights  []*models.Insight `json:"insights"`
	Generated int               `json:"generated"`
	Timestamp string            `json:"timestamp"`
}

type InteractionRequest struct {
	InteractionType string                 `json:"interaction_type"`
	InsightID       string                 `json:"insight_id,omitempty"`
	InteractionData map[string]interface{} `json:"interaction_data,omitempty"`
}

type InteractionResponse struct {
	Success       bool   `json:"success"`
	InteractionID string `json:"interaction_id"`
	Timestamp     string `json:"timestamp"`
}

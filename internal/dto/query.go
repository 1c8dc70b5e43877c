package dto

import (
	"ai-insights/internal/models"
)

type QueryRequest struct {
	Query string `json:"query"`
}

type SuggestionsResponse struct {
	Success     bool     `json:"success"`
	Suggestions []string `json:"suggestions"`
	Timestamp   string   `json:"timestamp"`
}

type ClarificationResponse struct {
	Success       bool   `json:"success"`
	Clarification string `json:"clarification"`
	Timestamp     string `json:"timestamp"`
}

type ImproveVisualizationRequest struct {
	Config   models.VisualizationConfig `json:"config"`
	Feedback string                     `json:"feedback"`
}

type VisualizationResponse struct {
	Success       bool                       `json:"success"`
	Visualization models.VisualizationConfig `json:"visualization"`
	Timestamp     string                     `json:"timestamp"`
}

type ChartTypeResponse struct {
	ChartType   string `json:"chart_type"`
	Description string `json:"description"`
}

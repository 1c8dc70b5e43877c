package dto

import (
	"ai-insights/internal/models"
)

type UpdatePreferencesRequest struct {
	Preferences map[string]interface{} `json:"preferences"`
}

type PreferencesResponse struct {
	Success     bool                 `json:"success"`
	Preferences []*models.Preference `json:"preferences"`
	Timestamp   string               `json:"timestamp"`
}

type RecommendationsResponse struct {
	Success         bool          `json:"success"`
	Recommendations []interface{} `json:"recommendations"`
	Timestamp       string        `json:"timestamp"`
}

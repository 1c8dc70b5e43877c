package dto

import (
	"ai-insights/internal/models"
)

// AlertConfigRequest creates an alert configuration. Omitted fields take the
// default daily spending alert values.
type AlertConfigRequest struct {
	AlertType          string   `json:"alert_type"`
	AlertName          string   `json:"alert_name"`
	ThresholdValue     *float64 `json:"threshold_value"`
	ThresholdPeriod    string   `json:"threshold_period"`
	NotificationMethod string   `json:"notification_method"`
}

func (r AlertConfigRequest) ToModel(username string) *models.AlertConfiguration {
	cfg := &models.AlertConfiguration{
		Username:           username,
		AlertType:          models.AlertType(r.AlertType),
		AlertName:          r.AlertName,
		ThresholdValue:     100,
		ThresholdPeriod:    models.ThresholdPeriod(r.ThresholdPeriod),
		NotificationMethod: r.NotificationMethod,
	}
	if r.ThresholdValue != nil {
		cfg.ThresholdValue = *r.ThresholdValue
	}
	return cfg
}

type AlertConfigListResponse struct {
	Success        bool                         `json:"success"`
	Configurations []*models.AlertConfiguration `json:"configurations"`
	Timestamp      string                       `json:"timestamp"`
}

type AlertCheckResponse struct {
	Success   bool           `json:"success"`
	Alerts    []models.Alert `json:"alerts"`
	Count     int            `json:"count"`
	Timestamp string         `json:"timestamp"`
}

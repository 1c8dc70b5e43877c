package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type AlertType string

const (
	AlertSpendingThreshold AlertType = "spending_threshold"
	AlertCategoryBudget    AlertType = "category_budget"
	AlertUnusualSpending   AlertType = "unusual_spending"
	AlertLowBalance        AlertType = "low_balance"
	AlertImprovement       AlertType = "improvement_alert"
)

func (t AlertType) Valid() bool {
	switch t {
	case AlertSpendingThreshold, AlertCategoryBudget, AlertUnusualSpending, AlertLowBalance, AlertImprovement:
		return true
	}
	return false
}

type ThresholdPeriod string

const (
	PeriodDaily   ThresholdPeriod = "daily"
	PeriodWeekly  ThresholdPeriod = "weekly"
	PeriodMonthly ThresholdPeriod = "monthly"
)

func (p ThresholdPeriod) Valid() bool {
	switch p {
	case PeriodDaily, PeriodWeekly, PeriodMonthly:
		return true
	}
	return false
}

const NotificationInApp = "in_app"

// AlertConfiguration is unique per (username, alert_type, alert_name).
type AlertConfiguration struct {
	ID                 uuid.UUID       `db:"id" json:"id"`
	Username           string          `db:"username" json:"username"`
	AlertType          AlertType       `db:"alert_type" json:"alert_type"`
	AlertName          string          `db:"alert_name" json:"alert_name"`
	ThresholdValue     float64         `db:"threshold_value" json:"threshold_value"`
	ThresholdPeriod    ThresholdPeriod `db:"threshold_period" json:"threshold_period"`
	IsActive           bool            `db:"is_active" json:"is_active"`
	NotificationMethod string          `db:"notification_method" json:"notification_method"`
	CreatedAt          time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time       `db:"updated_at" json:"updated_at"`
}

// AlertConfigPatch holds the only fields an update may change. Nil means untouched.
type AlertConfigPatch struct {
	ThresholdValue     *float64         `json:"threshold_value,omitempty"`
	ThresholdPeriod    *ThresholdPeriod `json:"threshold_period,omitempty"`
	NotificationMethod *string          `json:"notification_method,omitempty"`
	IsActive           *bool            `json:"is_active,omitempty"`
}

func (p AlertConfigPatch) Empty() bool {
	return p.ThresholdValue == nil && p.ThresholdPeriod == nil && p.NotificationMethod == nil && p.IsActive == nil
}

// AlertData is the closed family of payloads an alert can carry.
type AlertData interface {
	alertData()
}

// Alert is an ephemeral finding of one evaluation cycle.
type Alert struct {
	Type          AlertType  `json:"type"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Data          AlertData  `json:"data"`
	Priority      int        `json:"priority"`
	AlertConfigID *uuid.UUID `json:"alert_config_id"`
}

type ThresholdAlertData struct {
	ThresholdValue float64         `json:"threshold_value"`
	ActualSpending float64         `json:"actual_spending"`
	Period         ThresholdPeriod `json:"period"`
	ExcessAmount   float64         `json:"excess_amount"`
}

func (ThresholdAlertData) alertData() {}

type CategoryBudgetAlertData struct {
	Category       string          `json:"category"`
	ThresholdValue float64         `json:"threshold_value"`
	ActualSpending float64         `json:"actual_spending"`
	Period         ThresholdPeriod `json:"period"`
	ExcessAmount   float64         `json:"excess_amount"`
}

func (CategoryBudgetAlertData) alertData() {}

type LowBalanceAlertData struct {
	CurrentBalance float64 `json:"current_balance"`
	ThresholdValue float64 `json:"threshold_value"`
	Deficit        float64 `json:"deficit"`
}

func (LowBalanceAlertData) alertData() {}

// PatternAlertData passes an AI detected pattern through untouched.
type PatternAlertData struct {
	Pattern AIPayload
}

func (PatternAlertData) alertData() {}

func (d PatternAlertData) MarshalJSON() ([]byte, error) {
	if d.Pattern == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(d.Pattern)
}

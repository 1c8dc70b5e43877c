package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type InsightType string

const (
	InsightSpendingTrends InsightType = "spending_trends"
	InsightCategory       InsightType = "category_analysis"
	InsightImprovement    InsightType = "improvement_analysis"
)

// Insight is a persisted ai_insights row. Data and VisualizationConfig keep
// the JSON written at generation time.
type Insight struct {
	ID                  uuid.UUID       `db:"id" json:"id"`
	Username            string          `db:"username" json:"username"`
	InsightType         string          `db:"insight_type" json:"insight_type"`
	Title               string          `db:"title" json:"title"`
	Description         string          `db:"description" json:"description"`
	Data                json.RawMessage `db:"data" json:"data"`
	VisualizationConfig json.RawMessage `db:"visualization_config" json:"visualization_config,omitempty"`
	Priority            int             `db:"priority" json:"priority"`
	IsRead              bool            `db:"is_read" json:"is_read"`
	CreatedAt           time.Time       `db:"created_at" json:"created_at"`
	ExpiresAt           *time.Time      `db:"expires_at" json:"expires_at,omitempty"`
}

// InsightData is the closed family of payloads an insight can carry.
type InsightData interface {
	insightData()
}

// VisualizationHint is the chart suggestion attached to a generated insight.
type VisualizationHint struct {
	ChartType string `json:"chart_type"`
	XAxis     string `json:"x_axis,omitempty"`
	YAxis     string `json:"y_axis,omitempty"`
	DataKey   string `json:"data_key,omitempty"`
}

// GeneratedInsight is produced by the insight analyses before persistence.
type GeneratedInsight struct {
	Type          InsightType        `json:"type"`
	Title         string             `json:"title"`
	Description   string             `json:"description"`
	Data          InsightData        `json:"data"`
	Priority      int                `json:"priority"`
	Visualization *VisualizationHint `json:"visualization_config,omitempty"`
}

// TrendInsightData passes the AI trend analysis through untouched.
type TrendInsightData struct {
	Analysis AIPayload
}

func (TrendInsightData) insightData() {}

func (d TrendInsightData) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Analysis)
}

type CategoryAmount struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

type CategoryInsightData struct {
	Categories    []CategoryAmount `json:"categories"`
	TotalAmount   float64          `json:"total_amount"`
	TopCategory   string           `json:"top_category"`
	TopAmount     float64          `json:"top_amount"`
	TopPercentage float64          `json:"top_percentage"`
}

func (CategoryInsightData) insightData() {}

type PeriodSummary struct {
	Total   float64 `json:"total"`
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

type ImprovementInsightData struct {
	RecentPeriod          PeriodSummary `json:"recent_period"`
	OlderPeriod           PeriodSummary `json:"older_period"`
	ImprovementPercentage float64       `json:"improvement_percentage"`
	IsImprovement         bool          `json:"is_improvement"`
	TrendDirection        string        `json:"trend_direction"`
}

func (ImprovementInsightData) insightData() {}

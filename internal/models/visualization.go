package models

import (
	"errors"
	"fmt"
	"time"
)

// Row is one result row of an executed query, keyed by column name.
type Row = map[string]interface{}

type Axis struct {
	Field string `json:"field,omitempty"`
	Label string `json:"label,omitempty"`
	Type  string `json:"type,omitempty"`
}

// VisualizationConfig describes one chart; regenerated per request.
type VisualizationConfig struct {
	ID               string     `json:"id"`
	Type             string     `json:"type"`
	ChartType        string     `json:"chart_type"`
	Title            string     `json:"title"`
	XAxis            *Axis      `json:"x_axis,omitempty"`
	YAxis            *Axis      `json:"y_axis,omitempty"`
	CategoryField    string     `json:"category_field,omitempty"`
	ValueField       string     `json:"value_field,omitempty"`
	DataKey          string     `json:"data_key,omitempty"`
	ComparisonFields []string   `json:"comparison_fields,omitempty"`
	Data             []Row      `json:"data"`
	ColorScheme      string     `json:"color_scheme,omitempty"`
	Description      string     `json:"description,omitempty"`
	InsightType      string     `json:"insight_type,omitempty"`
	CreatedAt        *time.Time `json:"created_at,omitempty"`
}

var ErrInvalidVisualization = errors.New("invalid visualization config")

// Validate reports whether the config carries every field a chart needs.
func (v VisualizationConfig) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"id", v.ID},
		{"type", v.Type},
		{"chart_type", v.ChartType},
		{"title", v.Title},
	}
	for _, field := range required {
		if field.value == "" {
			return fmt.Errorf("%w: missing %s", ErrInvalidVisualization, field.name)
		}
	}
	if len(v.Data) == 0 {
		return fmt.Errorf("%w: empty data", ErrInvalidVisualization)
	}
	return nil
}

package models

import (
	"errors"
	"testing"
)

func TestVisualizationConfigValidate(t *testing.T) {
	valid := VisualizationConfig{
		ID:        "trend_20240101_120000",
		Type:      "trend_analysis",
		ChartType: "line",
		Title:     "Spending Trends",
		Data:      []Row{{"amount": 10.0}},
	}

	if err := valid.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*VisualizationConfig)
	}{
		{"missing id", func(v *VisualizationConfig) { v.ID = "" }},
		{"missing type", func(v *VisualizationConfig) { v.Type = "" }},
		{"missing chart type", func(v *VisualizationConfig) { v.ChartType = "" }},
		{"missing title", func(v *VisualizationConfig) { v.Title = "" }},
		{"nil data", func(v *VisualizationConfig) { v.Data = nil }},
		{"empty data", func(v *VisualizationConfig) { v.Data = []Row{} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalidVisualization) {
				t.Errorf("Validate() error = %v, want ErrInvalidVisualization", err)
			}
		})
	}
}

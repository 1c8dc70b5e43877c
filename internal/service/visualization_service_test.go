package service

import (
	"context"
	"testing"
	"time"

	"ai-insights/internal/models"

	"go.uber.org/zap"
)

var vizNow = time.Date(2024, 3, 9, 8, 30, 5, 0, time.UTC)

func newVisualizationService(llm Gateway) *VisualizationService {
	svc := NewVisualizationService(llm, zap.NewNop())
	svc.now = func() time.Time { return vizNow }
	return svc
}

func trendRows() []models.Row {
	return []models.Row{
		{"timestamp": vizNow.Add(-time.Hour), "amount": 12.5},
		{"timestamp": vizNow, "amount": 40.0},
	}
}

func TestBuildIntentChartDefaults(t *testing.T) {
	svc := newVisualizationService(offlineGateway())
	ctx := context.Background()

	tests := []struct {
		analysis  models.AnalysisType
		wantID    string
		wantChart string
		wantTitle string
	}{
		{models.AnalysisSpendingTrends, "trend_20240309_083005", "line", "Spending Trends"},
		{models.AnalysisCategory, "category_20240309_083005", "pie", "Spending by Category"},
		{models.AnalysisImprovement, "improvement_20240309_083005", "bar", "Spending Improvement"},
		{models.AnalysisGeneral, "general_20240309_083005", "bar", "Spending Analysis"},
	}

	for _, tt := range tests {
		t.Run(string(tt.analysis), func(t *testing.T) {
			intent := &models.QueryIntent{AnalysisType: tt.analysis, NeedsVisualization: true}
			vizs := svc.Build(ctx, trendRows(), nil, intent)
			if len(vizs) != 1 {
				t.Fatalf("Build() returned %d charts, want 1", len(vizs))
			}
			viz := vizs[0]
			if viz.ID != tt.wantID || viz.ChartType != tt.wantChart || viz.Title != tt.wantTitle {
				t.Errorf("viz = %+v", viz)
			}
			if len(viz.Data) != 2 {
				t.Errorf("Data has %d rows, want 2", len(viz.Data))
			}
		})
	}
}

func TestBuildTrendNeedsTimestamps(t *testing.T) {
	svc := newVisualizationService(offlineGateway())
	intent := &models.QueryIntent{AnalysisType: models.AnalysisSpendingTrends, NeedsVisualization: true}

	rows := []models.Row{{"category": "coffee", "amount": 4.0}}
	if vizs := svc.Build(context.Background(), rows, nil, intent); len(vizs) != 0 {
		t.Errorf("Build() = %+v, want no trend chart without timestamps", vizs)
	}
}

func TestBuildUsesAIConfig(t *testing.T) {
	llm, _ := newGateway(map[string]string{
		"Create a visualization configuration for spending category data": `{"chart_type": "donut", "title": "Where it went", "color_scheme": "pastel"}`,
	})
	svc := newVisualizationService(llm)
	intent := &models.QueryIntent{AnalysisType: models.AnalysisCategory, NeedsVisualization: true}

	vizs := svc.Build(context.Background(), trendRows(), nil, intent)
	if len(vizs) != 1 {
		t.Fatalf("Build() returned %d charts", len(vizs))
	}
	viz := vizs[0]
	if viz.ChartType != "donut" || viz.Title != "Where it went" || viz.ColorScheme != "pastel" || viz.CategoryField != "category" {
		t.Errorf("viz = %+v", viz)
	}
}

func TestBuildEnhancesInsightHints(t *testing.T) {
	svc := newVisualizationService(offlineGateway())
	insights := []models.GeneratedInsight{
		{
			Type:          models.InsightImprovement,
			Title:         "Spending Improvement Analysis",
			Visualization: &models.VisualizationHint{ChartType: "bar", XAxis: "period", YAxis: "amount"},
		},
		{Type: models.InsightCategory, Title: "No chart"},
	}

	vizs := svc.Build(context.Background(), trendRows(), insights, &models.QueryIntent{})
	if len(vizs) != 1 {
		t.Fatalf("Build() returned %d charts, want 1", len(vizs))
	}
	viz := vizs[0]
	if viz.ID != "improvement_analysis_20240309_083005" || viz.Type != "improvement_analysis" {
		t.Errorf("viz = %+v", viz)
	}
	if viz.XAxis == nil || viz.XAxis.Field != "period" || viz.YAxis.Field != "amount" {
		t.Errorf("axes = %+v %+v", viz.XAxis, viz.YAxis)
	}
	if viz.Description != "Data visualization" || viz.CreatedAt == nil {
		t.Errorf("viz = %+v", viz)
	}
}

func TestBuildDropsEmptyCharts(t *testing.T) {
	svc := newVisualizationService(offlineGateway())
	insights := []models.GeneratedInsight{{
		Type:          models.InsightCategory,
		Title:         "Spending Category Breakdown",
		Visualization: &models.VisualizationHint{ChartType: "pie", DataKey: "categories"},
	}}
	intent := &models.QueryIntent{AnalysisType: models.AnalysisGeneral, NeedsVisualization: true}

	if vizs := svc.Build(context.Background(), nil, insights, intent); len(vizs) != 0 {
		t.Errorf("Build() = %+v, want charts without data dropped", vizs)
	}
}

func TestSuggestImprovements(t *testing.T) {
	base := models.VisualizationConfig{
		ID: "general_1", Type: "general_analysis", ChartType: "bar", Title: "Spending",
		Data: []models.Row{{"amount": 1.0}}, ColorScheme: "blue",
	}

	offline := newVisualizationService(offlineGateway())
	if got := offline.SuggestImprovements(context.Background(), base, "too plain"); got.ChartType != "bar" {
		t.Errorf("offline suggestion changed the chart: %+v", got)
	}

	llm, _ := newGateway(map[string]string{
		"Improve this visualization": `{"chart_type": "area", "color_scheme": "sunset"}`,
	})
	got := newVisualizationService(llm).SuggestImprovements(context.Background(), base, "too plain")
	if got.ChartType != "area" || got.ColorScheme != "sunset" || got.Title != "Spending" || got.ID != "general_1" {
		t.Errorf("SuggestImprovements() = %+v", got)
	}
}

func TestChartTypeDescription(t *testing.T) {
	if got := ChartTypeDescription("pie"); got != "Pie chart for proportional data" {
		t.Errorf("ChartTypeDescription(pie) = %q", got)
	}
	if got := ChartTypeDescription("radar"); got != defaultChartLabel {
		t.Errorf("ChartTypeDescription(radar) = %q", got)
	}
}

package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ai-insights/internal/models"

	"go.uber.org/zap"
)

const (
	idTimeLayout      = "20060102_150405"
	promptSampleRows  = 5
	defaultChartLabel = "Custom chart"
)

var chartTypeDescriptions = map[string]string{
	"line":      "Line chart for trends over time",
	"bar":       "Bar chart for categorical comparisons",
	"pie":       "Pie chart for proportional data",
	"scatter":   "Scatter plot for correlations",
	"area":      "Area chart for cumulative data",
	"histogram": "Histogram for distribution analysis",
}

// ChartTypeDescription names what a chart type is good for.
func ChartTypeDescription(chartType string) string {
	if d, ok := chartTypeDescriptions[chartType]; ok {
		return d
	}
	return defaultChartLabel
}

type VisualizationService struct {
	llm    Gateway
	now    func() time.Time
	logger *zap.Logger
}

func NewVisualizationService(llm Gateway, logger *zap.Logger) *VisualizationService {
	return &VisualizationService{
		llm:    llm,
		now:    time.Now,
		logger: logger,
	}
}

// Build returns the usable charts for a query result: one for the intent
// when a chart was asked for, plus one per insight that carries a hint.
func (s *VisualizationService) Build(ctx context.Context, rows []models.Row, insights []models.GeneratedInsight, intent *models.QueryIntent) []models.VisualizationConfig {
	var candidates []models.VisualizationConfig

	if intent.NeedsVisualization {
		if viz := s.forIntent(ctx, rows, intent); viz != nil {
			candidates = append(candidates, *viz)
		}
	}
	for _, insight := range insights {
		if insight.Visualization != nil {
			candidates = append(candidates, s.enhance(insight, rows))
		}
	}

	visualizations := make([]models.VisualizationConfig, 0, len(candidates))
	for _, viz := range candidates {
		if err := viz.Validate(); err != nil {
			s.logger.Warn("Dropping visualization", zap.String("id", viz.ID), zap.Error(err))
			continue
		}
		visualizations = append(visualizations, viz)
	}

	s.logger.Info("Created visualizations", zap.Int("count", len(visualizations)))
	return visualizations
}

func (s *VisualizationService) forIntent(ctx context.Context, rows []models.Row, intent *models.QueryIntent) *models.VisualizationConfig {
	switch intent.AnalysisType {
	case models.AnalysisSpendingTrends:
		return s.trend(ctx, rows, intent)
	case models.AnalysisCategory:
		return s.category(ctx, rows, intent)
	case models.AnalysisImprovement:
		return s.improvement(ctx, rows, intent)
	default:
		return s.general(ctx, rows, intent)
	}
}

func (s *VisualizationService) configPrompt(subject string, rows []models.Row, intent *models.QueryIntent, asks string) string {
	sample := rows
	if len(sample) > promptSampleRows {
		sample = sample[:promptSampleRows]
	}
	encodedSample, _ := json.Marshal(sample)
	encodedIntent, _ := json.Marshal(intent)

	return fmt.Sprintf(`Create a visualization configuration for %s:

Data sample: %s
Query intent: %s

Determine:
%s

Respond in JSON format with visualization configuration.`, subject, encodedSample, encodedIntent, asks)
}

func stringOr(p models.AIPayload, key, fallback string) string {
	if v, ok := p.String(key); ok && v != "" {
		return v
	}
	return fallback
}

func axisFrom(p models.AIPayload, key string) *models.Axis {
	obj, ok := p.Object(key)
	if !ok {
		return &models.Axis{}
	}
	return &models.Axis{
		Field: stringOr(obj, "field", ""),
		Label: stringOr(obj, "label", ""),
		Type:  stringOr(obj, "type", ""),
	}
}

func (s *VisualizationService) vizID(prefix string) string {
	return prefix + "_" + s.now().Format(idTimeLayout)
}

// trend needs time-stamped rows; anything else gets no trend chart.
func (s *VisualizationService) trend(ctx context.Context, rows []models.Row, intent *models.QueryIntent) *models.VisualizationConfig {
	if len(rows) == 0 {
		return nil
	}
	if _, ok := rows[0]["timestamp"]; !ok {
		return nil
	}

	cfg := s.llm.StructuredOr(ctx, s.configPrompt("spending trends data", rows, intent,
		"1. Best chart type (line, area, bar)\n2. X-axis configuration (time field)\n3. Y-axis configuration (amount field)\n4. Color scheme\n5. Title and labels"),
		models.AIPayload{})

	return &models.VisualizationConfig{
		ID:        s.vizID("trend"),
		Type:      "trend_analysis",
		ChartType: stringOr(cfg, "chart_type", "line"),
		Title:     stringOr(cfg, "title", "Spending Trends"),
		XAxis: &models.Axis{
			Field: stringOr(cfg, "x_axis_field", "timestamp"),
			Label: stringOr(cfg, "x_axis_label", "Date"),
			Type:  "datetime",
		},
		YAxis: &models.Axis{
			Field: stringOr(cfg, "y_axis_field", "amount"),
			Label: stringOr(cfg, "y_axis_label", "Amount ($)"),
			Type:  "number",
		},
		Data:        rows,
		ColorScheme: stringOr(cfg, "color_scheme", "blue"),
		Description: "Shows your spending patterns over time",
	}
}

func (s *VisualizationService) category(ctx context.Context, rows []models.Row, intent *models.QueryIntent) *models.VisualizationConfig {
	cfg := s.llm.StructuredOr(ctx, s.configPrompt("spending category data", rows, intent,
		"1. Best chart type (pie, bar, donut)\n2. Category field\n3. Value field\n4. Color scheme\n5. Title and labels"),
		models.AIPayload{})

	return &models.VisualizationConfig{
		ID:            s.vizID("category"),
		Type:          "category_analysis",
		ChartType:     stringOr(cfg, "chart_type", "pie"),
		Title:         stringOr(cfg, "title", "Spending by Category"),
		CategoryField: stringOr(cfg, "category_field", "category"),
		ValueField:    stringOr(cfg, "value_field", "amount"),
		Data:          rows,
		ColorScheme:   stringOr(cfg, "color_scheme", "rainbow"),
		Description:   "Shows how your spending is distributed across categories",
	}
}

func (s *VisualizationService) improvement(ctx context.Context, rows []models.Row, intent *models.QueryIntent) *models.VisualizationConfig {
	cfg := s.llm.StructuredOr(ctx, s.configPrompt("spending improvement data", rows, intent,
		"1. Best chart type (bar, line, area)\n2. Comparison fields\n3. Color scheme (use green for improvements, red for concerns)\n4. Title and labels"),
		models.AIPayload{})

	fields, ok := cfg.Strings("comparison_fields")
	if !ok || len(fields) == 0 {
		fields = []string{"current", "previous"}
	}

	return &models.VisualizationConfig{
		ID:               s.vizID("improvement"),
		Type:             "improvement_analysis",
		ChartType:        stringOr(cfg, "chart_type", "bar"),
		Title:            stringOr(cfg, "title", "Spending Improvement"),
		ComparisonFields: fields,
		Data:             rows,
		ColorScheme:      stringOr(cfg, "color_scheme", "improvement"),
		Description:      "Shows how your spending has improved over time",
	}
}

func (s *VisualizationService) general(ctx context.Context, rows []models.Row, intent *models.QueryIntent) *models.VisualizationConfig {
	cfg := s.llm.StructuredOr(ctx, s.configPrompt("general spending data", rows, intent,
		"1. Best chart type based on data structure\n2. Appropriate fields for axes\n3. Color scheme\n4. Title and labels"),
		models.AIPayload{})

	return &models.VisualizationConfig{
		ID:          s.vizID("general"),
		Type:        "general_analysis",
		ChartType:   stringOr(cfg, "chart_type", "bar"),
		Title:       stringOr(cfg, "title", "Spending Analysis"),
		XAxis:       axisFrom(cfg, "x_axis"),
		YAxis:       axisFrom(cfg, "y_axis"),
		Data:        rows,
		ColorScheme: stringOr(cfg, "color_scheme", "blue"),
		Description: "Shows your spending data in an easy-to-understand format",
	}
}

// enhance turns an insight's chart hint into a full config over rows.
func (s *VisualizationService) enhance(insight models.GeneratedInsight, rows []models.Row) models.VisualizationConfig {
	hint := insight.Visualization
	created := s.now()

	viz := models.VisualizationConfig{
		ID:          s.vizID(string(insight.Type)),
		Type:        string(insight.Type),
		ChartType:   hint.ChartType,
		Title:       insight.Title,
		DataKey:     hint.DataKey,
		Data:        rows,
		Description: insight.Description,
		InsightType: string(insight.Type),
		CreatedAt:   &created,
	}
	if hint.XAxis != "" {
		viz.XAxis = &models.Axis{Field: hint.XAxis}
	}
	if hint.YAxis != "" {
		viz.YAxis = &models.Axis{Field: hint.YAxis}
	}
	if viz.Description == "" {
		viz.Description = "Data visualization"
	}
	return viz
}

// SuggestImprovements overlays AI suggested fields onto a copy of viz.
// The original config is returned when the AI has nothing to add.
func (s *VisualizationService) SuggestImprovements(ctx context.Context, viz models.VisualizationConfig, feedback string) models.VisualizationConfig {
	encoded, err := json.Marshal(viz)
	if err != nil {
		return viz
	}

	prompt := fmt.Sprintf(`Improve this visualization based on user feedback:

Current visualization: %s
User feedback: "%s"

Suggest improvements for:
1. Chart type
2. Color scheme
3. Labels and titles
4. Data presentation
5. Overall clarity

Respond with an improved visualization configuration in JSON format.`, encoded, feedback)

	improved := s.llm.GenerateStructured(ctx, prompt)
	if improved == nil {
		return viz
	}

	var base models.AIPayload
	if err := json.Unmarshal(encoded, &base); err != nil {
		return viz
	}
	merged, err := json.Marshal(base.Merge(improved))
	if err != nil {
		return viz
	}

	result := models.VisualizationConfig{}
	if err := json.Unmarshal(merged, &result); err != nil {
		s.logger.Warn("Ignoring malformed visualization suggestion", zap.Error(err))
		return viz
	}
	return result
}

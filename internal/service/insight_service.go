package service

import (
	"context"
	"fmt"
	"math"
	"sort"

	"ai-insights/internal/models"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	minImprovementTransactions = 10
	improvementThreshold       = 5.0
	defaultTrendDescription    = "Your spending patterns show interesting trends over time."
)

type InsightService struct {
	llm    Gateway
	logger *zap.Logger
}

func NewInsightService(llm Gateway, logger *zap.Logger) *InsightService {
	return &InsightService{
		llm:    llm,
		logger: logger,
	}
}

// Generate runs the analysis the intent asks for. A general intent runs all three.
func (s *InsightService) Generate(ctx context.Context, txs []models.Transaction, intent *models.QueryIntent, username string) []models.GeneratedInsight {
	var insight *models.GeneratedInsight
	switch intent.AnalysisType {
	case models.AnalysisSpendingTrends:
		insight = s.AnalyzeTrends(ctx, txs, username)
	case models.AnalysisCategory:
		insight = s.AnalyzeCategories(ctx, txs)
	case models.AnalysisImprovement:
		insight = s.AnalyzeImprovements(ctx, txs)
	default:
		return s.GenerateAll(ctx, txs, username)
	}

	if insight == nil {
		return []models.GeneratedInsight{}
	}
	return []models.GeneratedInsight{*insight}
}

// GenerateAll runs the three analyses concurrently and returns every
// non-empty result in trend, category, improvement order.
func (s *InsightService) GenerateAll(ctx context.Context, txs []models.Transaction, username string) []models.GeneratedInsight {
	analyses := []struct {
		name string
		run  func(ctx context.Context) *models.GeneratedInsight
	}{
		{"spending_trends", func(ctx context.Context) *models.GeneratedInsight { return s.AnalyzeTrends(ctx, txs, username) }},
		{"category_analysis", func(ctx context.Context) *models.GeneratedInsight { return s.AnalyzeCategories(ctx, txs) }},
		{"improvement_analysis", func(ctx context.Context) *models.GeneratedInsight { return s.AnalyzeImprovements(ctx, txs) }},
	}

	results := make([]*models.GeneratedInsight, len(analyses))
	g, gctx := errgroup.WithContext(ctx)
	for i, a := range analyses {
		g.Go(func() error {
			results[i] = s.runAnalysis(gctx, a.name, username, a.run)
			return nil
		})
	}
	_ = g.Wait()

	insights := make([]models.GeneratedInsight, 0, len(results))
	for _, r := range results {
		if r != nil {
			insights = append(insights, *r)
		}
	}
	return insights
}

// runAnalysis turns a panicking analysis into a missing insight.
func (s *InsightService) runAnalysis(
	ctx context.Context,
	name, username string,
	run func(ctx context.Context) *models.GeneratedInsight,
) (insight *models.GeneratedInsight) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Insight analysis panicked",
				zap.String("analysis", name),
				zap.String("username", username),
				zap.Any("panic", r),
			)
			insight = nil
		}
	}()
	return run(ctx)
}

// AnalyzeTrends needs an AI trend analysis; without one there is no insight.
func (s *InsightService) AnalyzeTrends(ctx context.Context, txs []models.Transaction, username string) *models.GeneratedInsight {
	if len(txs) == 0 {
		return nil
	}

	analysis := s.llm.AnalyzeData(ctx, txs, string(models.InsightSpendingTrends), "Analyze spending trends for user "+username)
	if analysis == nil {
		s.logger.Warn("Trend analysis unavailable", zap.String("username", username))
		return nil
	}

	return &models.GeneratedInsight{
		Type:        models.InsightSpendingTrends,
		Title:       "Spending Trend Analysis",
		Description: s.llm.DescribeOr(ctx, analysis, string(models.InsightSpendingTrends), defaultTrendDescription),
		Data:        models.TrendInsightData{Analysis: analysis},
		Priority:    2,
		Visualization: &models.VisualizationHint{
			ChartType: "line",
			XAxis:     "date",
			YAxis:     "amount",
		},
	}
}

// CategoryBreakdown buckets amounts and picks the bucket with the largest sum.
// Ties go to the earlier bucket.
func CategoryBreakdown(txs []models.Transaction) models.CategoryInsightData {
	sums := make([]float64, len(models.AmountBuckets))
	var total float64
	for _, tx := range txs {
		total += tx.Amount
		for i, b := range models.AmountBuckets {
			if tx.Amount < b.Upper {
				sums[i] += tx.Amount
				break
			}
		}
	}

	data := models.CategoryInsightData{
		Categories:  make([]models.CategoryAmount, 0, len(sums)),
		TotalAmount: total,
	}
	top := 0
	for i, b := range models.AmountBuckets {
		data.Categories = append(data.Categories, models.CategoryAmount{Category: b.Label, Amount: sums[i]})
		if sums[i] > sums[top] {
			top = i
		}
	}

	data.TopCategory = models.AmountBuckets[top].Label
	data.TopAmount = sums[top]
	if total > 0 {
		data.TopPercentage = data.TopAmount / total * 100
	}
	return data
}

func (s *InsightService) AnalyzeCategories(ctx context.Context, txs []models.Transaction) *models.GeneratedInsight {
	if len(txs) == 0 {
		return nil
	}

	data := CategoryBreakdown(txs)
	fallback := fmt.Sprintf("Your spending is highest in %s at $%.2f (%.1f%% of total spending).",
		data.TopCategory, data.TopAmount, data.TopPercentage)

	return &models.GeneratedInsight{
		Type:        models.InsightCategory,
		Title:       "Spending Category Breakdown",
		Description: s.llm.DescribeOr(ctx, data, string(models.InsightCategory), fallback),
		Data:        data,
		Priority:    2,
		Visualization: &models.VisualizationHint{
			ChartType: "pie",
			DataKey:   "categories",
		},
	}
}

// ImprovementComparison splits txs at the midpoint into recent and older
// halves. Lists with timestamps are ordered newest first before splitting.
func ImprovementComparison(txs []models.Transaction) models.ImprovementInsightData {
	ordered := newestFirst(txs)
	mid := len(ordered) / 2
	recent, older := summarize(ordered[:mid]), summarize(ordered[mid:])

	var pct float64
	if older.Average > 0 {
		pct = (older.Average - recent.Average) / older.Average * 100
	}

	improving := pct > improvementThreshold
	direction := "increased"
	if improving {
		direction = "decreased"
	}

	return models.ImprovementInsightData{
		RecentPeriod:          recent,
		OlderPeriod:           older,
		ImprovementPercentage: pct,
		IsImprovement:         improving,
		TrendDirection:        direction,
	}
}

func newestFirst(txs []models.Transaction) []models.Transaction {
	ordered := make([]models.Transaction, len(txs))
	copy(ordered, txs)
	for _, tx := range ordered {
		if tx.Timestamp.IsZero() {
			return ordered
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Timestamp.After(ordered[j].Timestamp)
	})
	return ordered
}

func summarize(txs []models.Transaction) models.PeriodSummary {
	summary := models.PeriodSummary{
		Total: models.TotalAmount(txs),
		Count: len(txs),
	}
	if summary.Count > 0 {
		summary.Average = summary.Total / float64(summary.Count)
	}
	return summary
}

func (s *InsightService) AnalyzeImprovements(ctx context.Context, txs []models.Transaction) *models.GeneratedInsight {
	if len(txs) < minImprovementTransactions {
		return nil
	}

	data := ImprovementComparison(txs)
	fallback := fmt.Sprintf("Your average spending has %s by %.1f%% compared to the previous period. Consider reviewing your spending habits.",
		data.TrendDirection, math.Abs(data.ImprovementPercentage))
	priority := 2
	if data.IsImprovement {
		fallback = fmt.Sprintf("Great news! Your average spending has %s by %.1f%% compared to the previous period.",
			data.TrendDirection, math.Abs(data.ImprovementPercentage))
		priority = 3
	}

	return &models.GeneratedInsight{
		Type:        models.InsightImprovement,
		Title:       "Spending Improvement Analysis",
		Description: s.llm.DescribeOr(ctx, data, string(models.InsightImprovement), fallback),
		Data:        data,
		Priority:    priority,
		Visualization: &models.VisualizationHint{
			ChartType: "bar",
			XAxis:     "period",
			YAxis:     "amount",
		},
	}
}

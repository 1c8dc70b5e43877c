package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"ai-insights/internal/models"
	"ai-insights/pkg/config"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	msgIntentUnavailable = "Could not understand your query. Please try rephrasing it."
	msgSQLUnavailable    = "Could not generate appropriate query for your request."
	msgNoData            = "No data found for your query."
	msgQueryFailed       = "An error occurred while processing your query. Please try again."

	dailyTransactionLimit     = 100
	dashboardInsightLimit     = 10
	dashboardTransactionLimit = 20

	interactionQueryProcessed = "query_processed"
)

// QueryResult is the outcome of one natural-language query. On failure only
// Success, Error and Timestamp are set.
type QueryResult struct {
	Success        bool                         `json:"success"`
	Error          string                       `json:"error,omitempty"`
	Intent         *models.QueryIntent          `json:"query_intent,omitempty"`
	Data           []models.Row                 `json:"data,omitempty"`
	Insights       []models.GeneratedInsight    `json:"insights,omitempty"`
	Visualizations []models.VisualizationConfig `json:"visualizations,omitempty"`
	Timestamp      time.Time                    `json:"timestamp"`
}

type DashboardData struct {
	Insights            []*models.Insight            `json:"insights"`
	Preferences         []*models.Preference         `json:"preferences"`
	RecentTransactions  []models.Transaction         `json:"recent_transactions"`
	CurrentBalance      float64                      `json:"current_balance"`
	AlertConfigurations []*models.AlertConfiguration `json:"alert_configurations"`
	Timestamp           time.Time                    `json:"timestamp"`
}

type OrchestratorService struct {
	understanding *QueryUnderstandingService
	preferences   *PreferenceService
	analyst       *DataAnalystService
	insights      *InsightService
	alerts        *AlertService
	visualization *VisualizationService
	insightStore  InsightStore
	cfg           *config.InsightsConfig
	logger        *zap.Logger
}

func NewOrchestratorService(
	understanding *QueryUnderstandingService,
	preferences *PreferenceService,
	analyst *DataAnalystService,
	insights *InsightService,
	alerts *AlertService,
	visualization *VisualizationService,
	insightStore InsightStore,
	cfg *config.InsightsConfig,
	logger *zap.Logger,
) *OrchestratorService {
	return &OrchestratorService{
		understanding: understanding,
		preferences:   preferences,
		analyst:       analyst,
		insights:      insights,
		alerts:        alerts,
		visualization: visualization,
		insightStore:  insightStore,
		cfg:           cfg,
		logger:        logger,
	}
}

func failedQuery(reason string) *QueryResult {
	return &QueryResult{
		Success:   false,
		Error:     reason,
		Timestamp: time.Now().UTC(),
	}
}

// ProcessQuery answers a natural-language question. Expected failures come
// back as an unsuccessful result with a reason; partial results are never returned.
func (s *OrchestratorService) ProcessQuery(ctx context.Context, username, query string) (result *QueryResult) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Query processing panicked", zap.String("username", username), zap.Any("panic", r))
			result = failedQuery(msgQueryFailed)
		}
	}()

	result, err := s.processQuery(ctx, username, query)
	if err != nil {
		switch {
		case errors.Is(err, ErrIntentUnavailable):
			return failedQuery(msgIntentUnavailable)
		case errors.Is(err, ErrSQLUnavailable):
			return failedQuery(msgSQLUnavailable)
		case errors.Is(err, ErrNoData):
			return failedQuery(msgNoData)
		default:
			s.logger.Error("Error processing user query", zap.String("username", username), zap.Error(err))
			return failedQuery(msgQueryFailed)
		}
	}
	return result
}

func (s *OrchestratorService) processQuery(ctx context.Context, username, query string) (*QueryResult, error) {
	s.logger.Info("Processing query", zap.String("username", username), zap.String("query", query))

	// 1. Understand the query intent
	intent, err := s.understanding.Understand(ctx, query)
	if err != nil {
		return nil, err
	}

	// 2. Get user preferences for context
	prefs := s.preferences.GetPreferences(ctx, username)

	// 3. Generate SQL for the intent
	sql := s.analyst.GenerateSQL(ctx, intent, username, prefs)
	if sql == "" {
		return nil, ErrSQLUnavailable
	}

	// 4. Execute it
	rows := s.analyst.Execute(ctx, sql, username)
	if len(rows) == 0 {
		return nil, ErrNoData
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// 5. Generate insights
	insights := s.insights.Generate(ctx, models.TransactionsFromRows(rows), intent, username)

	// 6. Visualize when asked to
	visualizations := []models.VisualizationConfig{}
	if intent.NeedsVisualization {
		visualizations = s.visualization.Build(ctx, rows, insights, intent)
	}

	// 7. Log the interaction for learning
	_, err = s.preferences.LogInteraction(ctx, username, interactionQueryProcessed, nil, map[string]interface{}{
		"query":              query,
		"intent":             intent,
		"insights_generated": len(insights),
	})
	if err != nil {
		s.logger.Warn("Failed to log query interaction", zap.String("username", username), zap.Error(err))
	}

	return &QueryResult{
		Success:        true,
		Intent:         intent,
		Data:           rows,
		Insights:       insights,
		Visualizations: visualizations,
		Timestamp:      time.Now().UTC(),
	}, nil
}

// GenerateDailyInsights runs every analysis and alert check over the user's
// recent transactions and persists the findings as insights.
func (s *OrchestratorService) GenerateDailyInsights(ctx context.Context, username string) ([]*models.Insight, error) {
	s.logger.Info("Generating daily insights", zap.String("username", username))

	// Preferences are loaded but not yet weighed by the analyses.
	prefs := s.preferences.GetPreferences(ctx, username)
	s.logger.Debug("Loaded preferences for daily insights", zap.String("username", username), zap.Int("count", len(prefs)))

	txs, err := s.analyst.RecentTransactions(ctx, username, dailyTransactionLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}
	if len(txs) == 0 {
		return []*models.Insight{}, nil
	}

	generated := s.insights.GenerateAll(ctx, txs, username)
	alerts := s.alerts.CheckAlerts(ctx, txs, username)

	now := time.Now()
	expires := now.AddDate(0, 0, s.cfg.ExpiryDays)

	records := make([]*models.Insight, 0, len(generated)+len(alerts))
	for _, g := range generated {
		record, err := newInsightRecord(username, string(g.Type), g.Title, g.Description, g.Data, g.Visualization, g.Priority, now, expires)
		if err != nil {
			s.logger.Warn("Skipping insight", zap.String("username", username), zap.Error(err))
			continue
		}
		records = append(records, record)
	}
	for _, a := range alerts {
		record, err := newInsightRecord(username, string(a.Type), a.Title, a.Description, a.Data, nil, a.Priority, now, expires)
		if err != nil {
			s.logger.Warn("Skipping alert", zap.String("username", username), zap.Error(err))
			continue
		}
		records = append(records, record)
	}

	saved := make([]*models.Insight, 0, len(records))
	for _, record := range records {
		if err := s.insightStore.Create(ctx, record); err != nil {
			s.logger.Error("Failed to save insight",
				zap.String("username", username),
				zap.String("insight_type", record.InsightType),
				zap.Error(err),
			)
			continue
		}
		saved = append(saved, record)
	}

	s.logger.Info("Generated daily insights", zap.String("username", username), zap.Int("count", len(saved)))
	return saved, nil
}

// storableText drops byte sequences that are not UTF-8; Postgres rejects them in text columns.
func storableText(s string) string {
	return strings.ToValidUTF8(s, "")
}

func newInsightRecord(
	username, insightType, title, description string,
	data interface{},
	hint *models.VisualizationHint,
	priority int,
	created, expires time.Time,
) (*models.Insight, error) {
	encoded, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s data: %w", insightType, err)
	}

	record := &models.Insight{
		ID:          uuid.New(),
		Username:    username,
		InsightType: insightType,
		Title:       storableText(title),
		Description: storableText(description),
		Data:        encoded,
		Priority:    priority,
		CreatedAt:   created,
		ExpiresAt:   &expires,
	}
	if hint != nil {
		viz, err := json.Marshal(hint)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s visualization: %w", insightType, err)
		}
		record.VisualizationConfig = viz
	}
	return record, nil
}

// Dashboard assembles the user's overview. Each part degrades to empty on failure.
func (s *OrchestratorService) Dashboard(ctx context.Context, username string) *DashboardData {
	data := &DashboardData{
		Insights:            []*models.Insight{},
		RecentTransactions:  []models.Transaction{},
		AlertConfigurations: []*models.AlertConfiguration{},
		Timestamp:           time.Now().UTC(),
	}

	if insights, err := s.insightStore.ListByUsername(ctx, username, dashboardInsightLimit, true); err != nil {
		s.logger.Error("Failed to load insights", zap.String("username", username), zap.Error(err))
	} else if insights != nil {
		data.Insights = insights
	}

	data.Preferences = s.preferences.GetPreferences(ctx, username)

	if txs, err := s.analyst.RecentTransactions(ctx, username, dashboardTransactionLimit); err != nil {
		s.logger.Error("Failed to load transactions", zap.String("username", username), zap.Error(err))
	} else if txs != nil {
		data.RecentTransactions = txs
	}

	if balance, err := s.analyst.Balance(ctx, username); err != nil {
		s.logger.Error("Failed to load balance", zap.String("username", username), zap.Error(err))
	} else {
		data.CurrentBalance = balance
	}

	if configs, err := s.alerts.ListConfigurations(ctx, username, true); err != nil {
		s.logger.Error("Failed to load alert configurations", zap.String("username", username), zap.Error(err))
	} else if configs != nil {
		data.AlertConfigurations = configs
	}

	return data
}

func (s *OrchestratorService) ListInsights(ctx context.Context, username string, limit int, unreadOnly bool) ([]*models.Insight, error) {
	if limit <= 0 || limit > s.cfg.MaxPerUser {
		limit = s.cfg.MaxPerUser
	}
	return s.insightStore.ListByUsername(ctx, username, limit, unreadOnly)
}

func (s *OrchestratorService) MarkInsightRead(ctx context.Context, id uuid.UUID, username string) error {
	return s.insightStore.MarkRead(ctx, id, username)
}

// CheckAlertsNow evaluates the user's alerts over recent transactions without persisting them.
func (s *OrchestratorService) CheckAlertsNow(ctx context.Context, username string) ([]models.Alert, error) {
	txs, err := s.analyst.RecentTransactions(ctx, username, dailyTransactionLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}
	return s.alerts.CheckAlerts(ctx, txs, username), nil
}

package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ai-insights/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	defaultAlertName            = "Default Alert"
	defaultAlertThreshold       = 100.0
	minUnusualTransactions      = 10
	minImprovementAlertTxs      = 20
	defaultUnusualDescription   = "Unusual spending pattern detected"
	defaultImprovementAlertDesc = "Positive spending improvement detected"
)

var budgetCategoryKeywords = map[string][]string{
	"coffee":        {"coffee", "starbucks", "cafe"},
	"food":          {"restaurant", "dining", "food", "lunch", "dinner"},
	"entertainment": {"movie", "game", "netflix", "spotify"},
	"shopping":      {"amazon", "store", "retail"},
}

// BalanceSource resolves a user's current balance.
type BalanceSource interface {
	Balance(ctx context.Context, username string) (float64, error)
}

type AlertService struct {
	llm      Gateway
	configs  AlertConfigStore
	balances BalanceSource
	now      func() time.Time
	logger   *zap.Logger
}

func NewAlertService(llm Gateway, configs AlertConfigStore, balances BalanceSource, logger *zap.Logger) *AlertService {
	return &AlertService{
		llm:      llm,
		configs:  configs,
		balances: balances,
		now:      time.Now,
		logger:   logger,
	}
}

func applyAlertDefaults(cfg *models.AlertConfiguration) {
	if cfg.AlertType == "" {
		cfg.AlertType = models.AlertSpendingThreshold
	}
	if cfg.AlertName == "" {
		cfg.AlertName = defaultAlertName
	}
	if cfg.ThresholdPeriod == "" {
		cfg.ThresholdPeriod = models.PeriodDaily
	}
	if cfg.NotificationMethod == "" {
		cfg.NotificationMethod = models.NotificationInApp
	}
}

func validateAlertConfig(cfg *models.AlertConfiguration) error {
	if !cfg.AlertType.Valid() {
		return fmt.Errorf("%w: unknown alert type %q", ErrInvalidAlertConfig, cfg.AlertType)
	}
	if !cfg.ThresholdPeriod.Valid() {
		return fmt.Errorf("%w: unknown threshold period %q", ErrInvalidAlertConfig, cfg.ThresholdPeriod)
	}
	if cfg.ThresholdValue < 0 {
		return fmt.Errorf("%w: threshold must not be negative", ErrInvalidAlertConfig)
	}
	if strings.TrimSpace(cfg.AlertName) == "" {
		return fmt.Errorf("%w: alert name is required", ErrInvalidAlertConfig)
	}
	return nil
}

// CreateConfiguration stores an active configuration, filling unset fields
// with the default alert values. A configuration with the same type and name
// is replaced.
func (s *AlertService) CreateConfiguration(ctx context.Context, cfg *models.AlertConfiguration) error {
	cfg.IsActive = true
	applyAlertDefaults(cfg)
	if err := validateAlertConfig(cfg); err != nil {
		return err
	}
	if err := s.configs.Upsert(ctx, cfg); err != nil {
		return fmt.Errorf("failed to create alert configuration: %w", err)
	}

	s.logger.Info("Created alert configuration",
		zap.String("username", cfg.Username),
		zap.String("alert_type", string(cfg.AlertType)),
		zap.String("alert_name", cfg.AlertName),
	)
	return nil
}

// UpdateConfiguration applies the allow-listed fields of patch to one of the
// user's configurations.
func (s *AlertService) UpdateConfiguration(ctx context.Context, id uuid.UUID, username string, patch models.AlertConfigPatch) error {
	if patch.Empty() {
		return fmt.Errorf("%w: nothing to update", ErrInvalidAlertConfig)
	}
	if patch.ThresholdValue != nil && *patch.ThresholdValue < 0 {
		return fmt.Errorf("%w: threshold must not be negative", ErrInvalidAlertConfig)
	}
	if patch.ThresholdPeriod != nil && !patch.ThresholdPeriod.Valid() {
		return fmt.Errorf("%w: unknown threshold period %q", ErrInvalidAlertConfig, *patch.ThresholdPeriod)
	}

	if err := s.configs.Update(ctx, id, username, patch); err != nil {
		return err
	}

	s.logger.Info("Updated alert configuration", zap.String("username", username), zap.String("id", id.String()))
	return nil
}

func (s *AlertService) ListConfigurations(ctx context.Context, username string, activeOnly bool) ([]*models.AlertConfiguration, error) {
	return s.configs.List(ctx, username, activeOnly)
}

type alertCheck struct {
	name string
	run  func(ctx context.Context) ([]models.Alert, error)
}

// CheckAlerts evaluates every alert kind against txs. Checks run
// concurrently and a failing check contributes nothing.
func (s *AlertService) CheckAlerts(ctx context.Context, txs []models.Transaction, username string) []models.Alert {
	if len(txs) == 0 {
		return []models.Alert{}
	}

	configs, err := s.configs.List(ctx, username, true)
	if err != nil {
		s.logger.Error("Error getting alert configs", zap.String("username", username), zap.Error(err))
		configs = nil
	}

	checks := []alertCheck{
		{"spending_threshold", func(context.Context) ([]models.Alert, error) { return s.thresholdAlerts(txs, configs), nil }},
		{"category_budget", func(context.Context) ([]models.Alert, error) { return s.categoryBudgetAlerts(txs, configs), nil }},
		{"unusual_spending", func(ctx context.Context) ([]models.Alert, error) { return s.unusualSpendingAlerts(ctx, txs, username), nil }},
		{"low_balance", func(ctx context.Context) ([]models.Alert, error) { return s.lowBalanceAlerts(ctx, username, configs) }},
		{"improvement_alert", func(ctx context.Context) ([]models.Alert, error) { return s.improvementAlerts(ctx, txs, username), nil }},
	}

	results := make([][]models.Alert, len(checks))
	g, gctx := errgroup.WithContext(ctx)
	for i, check := range checks {
		g.Go(func() error {
			results[i] = s.runCheck(gctx, check, username)
			return nil
		})
	}
	_ = g.Wait()

	alerts := []models.Alert{}
	for _, r := range results {
		alerts = append(alerts, r...)
	}

	s.logger.Info("Checked alerts", zap.String("username", username), zap.Int("count", len(alerts)))
	return alerts
}

func (s *AlertService) runCheck(ctx context.Context, check alertCheck, username string) (alerts []models.Alert) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Alert check panicked",
				zap.String("check", check.name),
				zap.String("username", username),
				zap.Any("panic", r),
			)
			alerts = nil
		}
	}()

	alerts, err := check.run(ctx)
	if err != nil {
		s.logger.Error("Alert check failed",
			zap.String("check", check.name),
			zap.String("username", username),
			zap.Error(err),
		)
		return nil
	}
	return alerts
}

// periodStart returns the start of a threshold window; unknown periods cover the last day.
func (s *AlertService) periodStart(period models.ThresholdPeriod) time.Time {
	now := s.now()
	switch period {
	case models.PeriodDaily:
		y, m, d := now.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	case models.PeriodWeekly:
		return now.AddDate(0, 0, -7)
	case models.PeriodMonthly:
		return now.AddDate(0, 0, -30)
	default:
		return now.AddDate(0, 0, -1)
	}
}

func (s *AlertService) spendingSince(txs []models.Transaction, start time.Time, keep func(models.Transaction) bool) float64 {
	var total float64
	for _, tx := range txs {
		if tx.Timestamp.Before(start) {
			continue
		}
		if keep == nil || keep(tx) {
			total += tx.Amount
		}
	}
	return total
}

func configsOfType(configs []*models.AlertConfiguration, alertType models.AlertType) []*models.AlertConfiguration {
	var out []*models.AlertConfiguration
	for _, c := range configs {
		if c.AlertType == alertType {
			out = append(out, c)
		}
	}
	return out
}

func (s *AlertService) thresholdAlerts(txs []models.Transaction, configs []*models.AlertConfiguration) []models.Alert {
	var alerts []models.Alert
	for _, cfg := range configsOfType(configs, models.AlertSpendingThreshold) {
		spent := s.spendingSince(txs, s.periodStart(cfg.ThresholdPeriod), nil)
		if spent <= cfg.ThresholdValue {
			continue
		}

		id := cfg.ID
		alerts = append(alerts, models.Alert{
			Type:  models.AlertSpendingThreshold,
			Title: "Spending Alert: " + cfg.AlertName,
			Description: fmt.Sprintf("You've spent $%.2f this %s, exceeding your threshold of $%.2f",
				spent, cfg.ThresholdPeriod, cfg.ThresholdValue),
			Data: models.ThresholdAlertData{
				ThresholdValue: cfg.ThresholdValue,
				ActualSpending: spent,
				Period:         cfg.ThresholdPeriod,
				ExcessAmount:   spent - cfg.ThresholdValue,
			},
			Priority:      3,
			AlertConfigID: &id,
		})
	}
	return alerts
}

func categoryKeywords(category string) []string {
	lower := strings.ToLower(category)
	if kws, ok := budgetCategoryKeywords[lower]; ok {
		return kws
	}
	return []string{lower}
}

// categoryBudgetAlerts treats the alert name as the budgeted category.
func (s *AlertService) categoryBudgetAlerts(txs []models.Transaction, configs []*models.AlertConfiguration) []models.Alert {
	var alerts []models.Alert
	for _, cfg := range configsOfType(configs, models.AlertCategoryBudget) {
		category := cfg.AlertName
		keywords := categoryKeywords(category)
		spent := s.spendingSince(txs, s.periodStart(cfg.ThresholdPeriod), func(tx models.Transaction) bool {
			return containsAny(strings.ToLower(tx.Description), keywords)
		})
		if spent <= cfg.ThresholdValue {
			continue
		}

		id := cfg.ID
		alerts = append(alerts, models.Alert{
			Type:  models.AlertCategoryBudget,
			Title: "Category Budget Alert: " + category,
			Description: fmt.Sprintf("You've spent $%.2f on %s this %s, exceeding your budget of $%.2f",
				spent, category, cfg.ThresholdPeriod, cfg.ThresholdValue),
			Data: models.CategoryBudgetAlertData{
				Category:       category,
				ThresholdValue: cfg.ThresholdValue,
				ActualSpending: spent,
				Period:         cfg.ThresholdPeriod,
				ExcessAmount:   spent - cfg.ThresholdValue,
			},
			Priority:      3,
			AlertConfigID: &id,
		})
	}
	return alerts
}

func (s *AlertService) lowBalanceAlerts(ctx context.Context, username string, configs []*models.AlertConfiguration) ([]models.Alert, error) {
	balanceConfigs := configsOfType(configs, models.AlertLowBalance)
	if len(balanceConfigs) == 0 {
		return nil, nil
	}

	balance, err := s.balances.Balance(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to get balance: %w", err)
	}

	var alerts []models.Alert
	for _, cfg := range balanceConfigs {
		if balance >= cfg.ThresholdValue {
			continue
		}

		id := cfg.ID
		alerts = append(alerts, models.Alert{
			Type:        models.AlertLowBalance,
			Title:       "Low Balance Alert",
			Description: fmt.Sprintf("Your current balance ($%.2f) is below your threshold ($%.2f)", balance, cfg.ThresholdValue),
			Data: models.LowBalanceAlertData{
				CurrentBalance: balance,
				ThresholdValue: cfg.ThresholdValue,
				Deficit:        cfg.ThresholdValue - balance,
			},
			Priority:      4,
			AlertConfigID: &id,
		})
	}
	return alerts, nil
}

// patternAlerts turns the objects listed under key in an AI analysis into alerts.
func (s *AlertService) patternAlerts(
	ctx context.Context,
	txs []models.Transaction,
	username, kind, key, note string,
	keep func(models.AIPayload) bool,
	build func(description string, data models.AIPayload) models.Alert,
	defaultDescription string,
) []models.Alert {
	analysis := s.llm.AnalyzeData(ctx, txs, kind, note+username)
	patterns, ok := analysis.Objects(key)
	if !ok {
		return nil
	}

	var alerts []models.Alert
	for _, p := range patterns {
		if keep != nil && !keep(p) {
			continue
		}
		description, ok := p.String("description")
		if !ok || description == "" {
			description = defaultDescription
		}
		data, _ := p.Object("data")
		alerts = append(alerts, build(description, data))
	}
	return alerts
}

func (s *AlertService) unusualSpendingAlerts(ctx context.Context, txs []models.Transaction, username string) []models.Alert {
	if len(txs) < minUnusualTransactions {
		return nil
	}
	return s.patternAlerts(ctx, txs, username,
		"unusual_spending_detection", "unusual_patterns", "Detect unusual spending patterns for user ",
		nil,
		func(description string, data models.AIPayload) models.Alert {
			return models.Alert{
				Type:        models.AlertUnusualSpending,
				Title:       "Unusual Spending Pattern Detected",
				Description: description,
				Data:        models.PatternAlertData{Pattern: data},
				Priority:    2,
			}
		},
		defaultUnusualDescription,
	)
}

func (s *AlertService) improvementAlerts(ctx context.Context, txs []models.Transaction, username string) []models.Alert {
	if len(txs) < minImprovementAlertTxs {
		return nil
	}
	return s.patternAlerts(ctx, txs, username,
		"spending_improvement_analysis", "improvements", "Analyze spending improvements for user ",
		func(p models.AIPayload) bool {
			positive, _ := p.Bool("is_positive")
			return positive
		},
		func(description string, data models.AIPayload) models.Alert {
			return models.Alert{
				Type:        models.AlertImprovement,
				Title:       "Great Job! Spending Improvement Detected",
				Description: description,
				Data:        models.PatternAlertData{Pattern: data},
				Priority:    1,
			}
		},
		defaultImprovementAlertDesc,
	)
}

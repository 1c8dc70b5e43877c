package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"ai-insights/internal/models"

	"go.uber.org/zap"
)

const schemaDescription = `Database Schema:

ACCOUNTS DATABASE:
- users: accountid (CHAR(10)), username (VARCHAR(64)), firstname, lastname, birthday, timezone, address, state, zip, ssn
- contacts: username (VARCHAR(64)), label, account_num (CHAR(10)), routing_num (CHAR(9)), is_external (BOOLEAN)
- user_preferences: username, preference_type, preference_key, preference_value (JSONB)
- ai_insights: username, insight_type, title, description, data (JSONB), priority, is_read, created_at
- user_interactions: username, interaction_type, insight_id, interaction_data (JSONB), created_at
- alert_configurations: username, alert_type, alert_name, threshold_value, threshold_period, is_active

LEDGER DATABASE:
- transactions: transaction_id (BIGINT), from_acct (CHAR(10)), to_acct (CHAR(10)),
  from_route (CHAR(9)), to_route (CHAR(9)), amount (INT), timestamp (TIMESTAMP)

Common query patterns:
- Get user transactions: filter transactions on from_acct or to_acct equal to the user's account id
- Filter by time: WHERE timestamp >= 'YYYY-MM-DD' AND timestamp <= 'YYYY-MM-DD'
- Group by categories: Use CASE statements to categorize transactions
- Calculate totals: SUM(amount) with appropriate GROUP BY clauses`

const spendingCategoryPreference = "spending_category"

var forbiddenSQLKeywords = []string{"DROP", "DELETE", "UPDATE", "INSERT", "ALTER"}

// ValidateSQL accepts a single read-only statement: it must start with
// SELECT and contain none of the write keywords anywhere, in any case.
func ValidateSQL(sql string) (string, error) {
	trimmed := strings.TrimSpace(sql)
	upper := strings.ToUpper(trimmed)
	if !strings.HasPrefix(upper, "SELECT") {
		return "", fmt.Errorf("%w: only SELECT statements are allowed", ErrUnsafeSQL)
	}
	for _, kw := range forbiddenSQLKeywords {
		if strings.Contains(upper, kw) {
			return "", fmt.Errorf("%w: contains %s", ErrUnsafeSQL, kw)
		}
	}
	return trimmed, nil
}

// targetsLedger reports whether a statement should run against the ledger store.
func targetsLedger(sql string) bool {
	return strings.Contains(strings.ToLower(sql), "transactions")
}

type DataAnalystService struct {
	llm      Gateway
	users    UserDirectory
	ledger   Ledger
	accounts SQLRunner
	ledgerDB SQLRunner
	now      func() time.Time
	logger   *zap.Logger
}

func NewDataAnalystService(
	llm Gateway,
	users UserDirectory,
	ledger Ledger,
	accounts SQLRunner,
	ledgerDB SQLRunner,
	logger *zap.Logger,
) *DataAnalystService {
	return &DataAnalystService{
		llm:      llm,
		users:    users,
		ledger:   ledger,
		accounts: accounts,
		ledgerDB: ledgerDB,
		now:      time.Now,
		logger:   logger,
	}
}

// GenerateSQL returns a validated statement for the intent, or "" when the
// AI produced nothing usable.
func (s *DataAnalystService) GenerateSQL(ctx context.Context, intent *models.QueryIntent, username string, prefs []*models.Preference) string {
	queryContext := s.buildQueryContext(ctx, intent, username, prefs)

	raw := s.llm.GenerateSQL(ctx, intent.OriginalQuery, schemaDescription+"\n\nContext: "+queryContext)
	if raw == "" {
		return ""
	}

	sql, err := ValidateSQL(raw)
	if err != nil {
		s.logger.Error("Rejected generated SQL", zap.String("username", username), zap.Error(err))
		return ""
	}

	s.logger.Info("Generated SQL query", zap.String("username", username), zap.String("sql", sql))
	return sql
}

func (s *DataAnalystService) buildQueryContext(ctx context.Context, intent *models.QueryIntent, username string, prefs []*models.Preference) string {
	parts := []string{"User: " + username}

	if accountID, err := s.users.AccountID(ctx, username); err == nil {
		parts = append(parts, "Account id: "+accountID)
	}
	if intent.TimePeriod != "" {
		parts = append(parts, "Time period: "+intent.TimePeriod)
	}
	if len(intent.Categories) > 0 {
		parts = append(parts, "Categories: "+strings.Join(intent.Categories, ", "))
	}
	if intent.AnalysisType != "" {
		parts = append(parts, "Analysis type: "+string(intent.AnalysisType))
	}

	var prefParts []string
	for _, pref := range prefs {
		if pref.PreferenceType == spendingCategoryPreference {
			prefParts = append(prefParts, pref.PreferenceKey+": "+formatPreferenceValue(pref.PreferenceValue))
		}
	}
	if len(prefParts) > 0 {
		parts = append(parts, "User preferences: "+strings.Join(prefParts, ", "))
	}

	return strings.Join(parts, "; ")
}

func formatPreferenceValue(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(raw)
}

// Execute runs sql against the store it names. Store failures yield no rows.
func (s *DataAnalystService) Execute(ctx context.Context, sql, username string) []models.Row {
	runner, store := s.accounts, "accounts"
	if targetsLedger(sql) {
		runner, store = s.ledgerDB, "ledger"
	}

	rows, err := runner.Run(ctx, sql)
	if err != nil {
		s.logger.Error("Error executing query",
			zap.String("username", username),
			zap.String("store", store),
			zap.Error(err),
		)
		return []models.Row{}
	}

	s.logger.Info("Query executed",
		zap.String("username", username),
		zap.String("store", store),
		zap.Int("rows", len(rows)),
	)
	return rows
}

func (s *DataAnalystService) window(period string) (time.Time, time.Time) {
	until := s.now()
	return until.AddDate(0, 0, -TimePeriodDays(period)), until
}

// SpendingByCategory aggregates outgoing spending by amount bucket.
func (s *DataAnalystService) SpendingByCategory(ctx context.Context, username, period string) ([]models.CategorySpending, error) {
	accountID, err := s.users.AccountID(ctx, username)
	if err != nil {
		return nil, err
	}
	since, until := s.window(period)
	return s.ledger.SpendingByCategory(ctx, accountID, since, until)
}

// SpendingTrends aggregates outgoing spending per day.
func (s *DataAnalystService) SpendingTrends(ctx context.Context, username, period string) ([]models.DailySpending, error) {
	accountID, err := s.users.AccountID(ctx, username)
	if err != nil {
		return nil, err
	}
	since, until := s.window(period)
	return s.ledger.SpendingTrends(ctx, accountID, since, until)
}

// MonthlyComparison aggregates outgoing spending over the last twelve months.
func (s *DataAnalystService) MonthlyComparison(ctx context.Context, username string) ([]models.MonthlySpending, error) {
	accountID, err := s.users.AccountID(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.ledger.MonthlyComparison(ctx, accountID)
}

// RecentTransactions returns the user's newest transactions in either direction.
func (s *DataAnalystService) RecentTransactions(ctx context.Context, username string, limit int) ([]models.Transaction, error) {
	accountID, err := s.users.AccountID(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.ledger.ListByAccount(ctx, accountID, limit, 0)
}

// Balance is the user's lifetime inflow minus outflow.
func (s *DataAnalystService) Balance(ctx context.Context, username string) (float64, error) {
	accountID, err := s.users.AccountID(ctx, username)
	if err != nil {
		return 0, err
	}
	return s.ledger.Balance(ctx, accountID)
}

package repository

import (
	"context"
	"fmt"
	"time"

	"ai-insights/internal/models"
	"ai-insights/pkg/postgres"

	"github.com/Masterminds/squirrel"
	"go.uber.org/zap"
)

// LedgerRepository issues read-only statements against the ledger store.
type LedgerRepository struct {
	db         postgres.DB
	routingNum string
	logger     *zap.Logger
}

// NewLedgerRepository counts balance movements only on routes of the local bank.
func NewLedgerRepository(db postgres.DB, localRoutingNum string, logger *zap.Logger) *LedgerRepository {
	return &LedgerRepository{
		db:         db,
		routingNum: localRoutingNum,
		logger:     logger,
	}
}

// ListByAccount returns transactions sent or received by the account, newest first.
func (r *LedgerRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]models.Transaction, error) {
	query := squirrel.Select("transaction_id", "from_acct", "to_acct", "from_route", "to_route", "amount", "timestamp").
		From("transactions").
		Where(squirrel.Or{
			squirrel.Eq{"from_acct": accountID},
			squirrel.Eq{"to_acct": accountID},
		}).
		OrderBy("timestamp DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var transactions []models.Transaction
	for rows.Next() {
		var (
			tx     models.Transaction
			amount int64
		)
		if err := rows.Scan(&tx.ID, &tx.FromAccount, &tx.ToAccount, &tx.FromRoute, &tx.ToRoute, &amount, &tx.Timestamp); err != nil {
			return nil, err
		}
		tx.Amount = float64(amount)
		transactions = append(transactions, tx)
	}

	return transactions, rows.Err()
}

// Balance is lifetime inflow minus outflow for the account on the local routing number.
func (r *LedgerRepository) Balance(ctx context.Context, accountID string) (float64, error) {
	query := squirrel.Select().
		Column(squirrel.Expr("COALESCE(SUM(CASE WHEN to_acct = ? AND to_route = ? THEN amount ELSE 0 END), 0)::float8", accountID, r.routingNum)).
		Column(squirrel.Expr("COALESCE(SUM(CASE WHEN from_acct = ? AND from_route = ? THEN amount ELSE 0 END), 0)::float8", accountID, r.routingNum)).
		From("transactions").
		Where(squirrel.Or{
			squirrel.Eq{"from_acct": accountID},
			squirrel.Eq{"to_acct": accountID},
		}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return 0, err
	}

	var incoming, outgoing float64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&incoming, &outgoing); err != nil {
		return 0, fmt.Errorf("failed to compute balance: %w", err)
	}
	return incoming - outgoing, nil
}

// bucketCase labels each row with its amount bucket. Thresholds and names are
// constants, so they are inlined rather than bound.
func bucketCase() squirrel.CaseBuilder {
	caseExpr := squirrel.Case()
	for _, b := range models.AmountBuckets[:len(models.AmountBuckets)-1] {
		caseExpr = caseExpr.When(fmt.Sprintf("amount < %g", b.Upper), fmt.Sprintf("'%s'", b.Name))
	}
	last := models.AmountBuckets[len(models.AmountBuckets)-1]
	return caseExpr.Else(fmt.Sprintf("'%s'", last.Name))
}

// SpendingByCategory aggregates outgoing transactions per amount bucket.
func (r *LedgerRepository) SpendingByCategory(ctx context.Context, accountID string, since, until time.Time) ([]models.CategorySpending, error) {
	query := squirrel.Select().
		Column(squirrel.Alias(bucketCase(), "category")).
		Columns("COUNT(*) AS transaction_count", "SUM(amount)::float8 AS total_amount", "AVG(amount)::float8 AS avg_amount").
		From("transactions").
		Where(squirrel.Eq{"from_acct": accountID}).
		Where(squirrel.GtOrEq{"timestamp": since}).
		Where(squirrel.LtOrEq{"timestamp": until}).
		GroupBy("category").
		OrderBy("total_amount DESC").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query spending by category: %w", err)
	}
	defer rows.Close()

	var result []models.CategorySpending
	for rows.Next() {
		var s models.CategorySpending
		if err := rows.Scan(&s.Category, &s.TransactionCount, &s.TotalAmount, &s.AvgAmount); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

// SpendingTrends aggregates outgoing transactions per day, oldest first.
func (r *LedgerRepository) SpendingTrends(ctx context.Context, accountID string, since, until time.Time) ([]models.DailySpending, error) {
	query := squirrel.Select(
		"DATE(timestamp) AS date", "COUNT(*) AS transaction_count",
		"SUM(amount)::float8 AS total_amount", "AVG(amount)::float8 AS avg_amount",
	).
		From("transactions").
		Where(squirrel.Eq{"from_acct": accountID}).
		Where(squirrel.GtOrEq{"timestamp": since}).
		Where(squirrel.LtOrEq{"timestamp": until}).
		GroupBy("DATE(timestamp)").
		OrderBy("date ASC").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query spending trends: %w", err)
	}
	defer rows.Close()

	var result []models.DailySpending
	for rows.Next() {
		var s models.DailySpending
		if err := rows.Scan(&s.Date, &s.TransactionCount, &s.TotalAmount, &s.AvgAmount); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

// MonthlyComparison aggregates outgoing transactions per month over the last year, newest first.
func (r *LedgerRepository) MonthlyComparison(ctx context.Context, accountID string) ([]models.MonthlySpending, error) {
	query := squirrel.Select(
		"EXTRACT(YEAR FROM timestamp)::int AS year", "EXTRACT(MONTH FROM timestamp)::int AS month",
		"COUNT(*) AS transaction_count", "SUM(amount)::float8 AS total_amount", "AVG(amount)::float8 AS avg_amount",
	).
		From("transactions").
		Where(squirrel.Eq{"from_acct": accountID}).
		Where("timestamp >= CURRENT_DATE - INTERVAL '12 months'").
		GroupBy("EXTRACT(YEAR FROM timestamp)", "EXTRACT(MONTH FROM timestamp)").
		OrderBy("year DESC", "month DESC").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query monthly comparison: %w", err)
	}
	defer rows.Close()

	var result []models.MonthlySpending
	for rows.Next() {
		var (
			s           models.MonthlySpending
			year, month int32
		)
		if err := rows.Scan(&year, &month, &s.TransactionCount, &s.TotalAmount, &s.AvgAmount); err != nil {
			return nil, err
		}
		s.Year, s.Month = int(year), int(month)
		result = append(result, s)
	}
	return result, rows.Err()
}

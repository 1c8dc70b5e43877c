package repository

import (
	"context"
	"fmt"

	"ai-insights/internal/models"
	"ai-insights/pkg/postgres"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// QueryRunner executes already validated, generated SQL and returns rows keyed by column.
type QueryRunner struct {
	db     postgres.DB
	store  string
	logger *zap.Logger
}

func NewQueryRunner(db postgres.DB, store string, logger *zap.Logger) *QueryRunner {
	return &QueryRunner{
		db:     db,
		store:  store,
		logger: logger,
	}
}

func (r *QueryRunner) Run(ctx context.Context, sql string) ([]models.Row, error) {
	rows, err := r.db.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query on %s: %w", r.store, err)
	}

	result, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s rows: %w", r.store, err)
	}

	r.logger.Debug("Generated query executed", zap.String("store", r.store), zap.Int("rows", len(result)))
	return result, nil
}

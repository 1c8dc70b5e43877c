package main

import (
	"context"
	"fmt"
	"log"

	"ai-insights/pkg/config"
	"ai-insights/pkg/logger"
	"ai-insights/pkg/postgres"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var tables = []string{
	"user_preferences",
	"ai_insights",
	"user_interactions",
	"alert_configurations",
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS user_preferences (
		id UUID PRIMARY KEY,
		username VARCHAR(64) NOT NULL REFERENCES users(username) ON DELETE CASCADE,
		preference_type VARCHAR(50) NOT NULL,
		preference_key VARCHAR(100) NOT NULL,
		preference_value JSONB NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE (username, preference_type, preference_key)
	)`,
	`CREATE TABLE IF NOT EXISTS ai_insights (
		id UUID PRIMARY KEY,
		username VARCHAR(64) NOT NULL REFERENCES users(username) ON DELETE CASCADE,
		insight_type VARCHAR(50) NOT NULL,
		title VARCHAR(200) NOT NULL,
		description TEXT NOT NULL,
		data JSONB NOT NULL,
		visualization_config JSONB,
		priority INTEGER NOT NULL DEFAULT 1,
		is_read BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		expires_at TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS user_interactions (
		id UUID PRIMARY KEY,
		username VARCHAR(64) NOT NULL REFERENCES users(username) ON DELETE CASCADE,
		interaction_type VARCHAR(50) NOT NULL,
		insight_id UUID REFERENCES ai_insights(id) ON DELETE SET NULL,
		interaction_data JSONB,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS alert_configurations (
		id UUID PRIMARY KEY,
		username VARCHAR(64) NOT NULL REFERENCES users(username) ON DELETE CASCADE,
		alert_type VARCHAR(50) NOT NULL,
		alert_name VARCHAR(100) NOT NULL,
		threshold_value DECIMAL(15,2) NOT NULL,
		threshold_period VARCHAR(20) NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		notification_method VARCHAR(20) NOT NULL DEFAULT 'in_app',
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE (username, alert_type, alert_name)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_user_preferences_username ON user_preferences (username)`,
	`CREATE INDEX IF NOT EXISTS idx_user_preferences_type ON user_preferences (preference_type)`,
	`CREATE INDEX IF NOT EXISTS idx_ai_insights_username ON ai_insights (username)`,
	`CREATE INDEX IF NOT EXISTS idx_ai_insights_type ON ai_insights (insight_type)`,
	`CREATE INDEX IF NOT EXISTS idx_ai_insights_created ON ai_insights (created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_ai_insights_unread ON ai_insights (username, is_read) WHERE is_read = FALSE`,
	`CREATE INDEX IF NOT EXISTS idx_user_interactions_username ON user_interactions (username)`,
	`CREATE INDEX IF NOT EXISTS idx_user_interactions_type ON user_interactions (interaction_type)`,
	`CREATE INDEX IF NOT EXISTS idx_user_interactions_created ON user_interactions (created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_alert_configs_username ON alert_configurations (username)`,
	`CREATE INDEX IF NOT EXISTS idx_alert_configs_type ON alert_configurations (alert_type)`,
	`CREATE INDEX IF NOT EXISTS idx_alert_configs_active ON alert_configurations (username, is_active) WHERE is_active = TRUE`,
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logger.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	appLogger := logger.Get()

	// Connect to the accounts database
	ctx := context.Background()
	db, err := postgres.NewPool(ctx, "accounts", &cfg.AccountsDB, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	appLogger.Info("Creating AI insight tables...")

	if err := createSchema(ctx, db, appLogger); err != nil {
		appLogger.Fatal("Failed to create tables", zap.Error(err))
	}

	if err := verifyTables(ctx, db, appLogger); err != nil {
		appLogger.Fatal("Table verification failed", zap.Error(err))
	}

	appLogger.Info("Database initialization completed successfully!")
}

// createSchema runs every statement in one transaction.
func createSchema(ctx context.Context, db *pgxpool.Pool, logger *zap.Logger) error {
	return pgx.BeginFunc(ctx, db, func(tx pgx.Tx) error {
		for _, stmt := range schema {
			if _, err := tx.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("failed to execute schema statement: %w", err)
			}
		}
		logger.Info("Schema applied", zap.Int("statements", len(schema)))
		return nil
	})
}

func verifyTables(ctx context.Context, db *pgxpool.Pool, logger *zap.Logger) error {
	for _, table := range tables {
		query := squirrel.Select("1").
			Prefix("SELECT EXISTS (").
			From("information_schema.tables").
			Where(squirrel.Eq{"table_schema": "public", "table_name": table}).
			Suffix(")").
			PlaceholderFormat(squirrel.Dollar)

		sql, args, err := query.ToSql()
		if err != nil {
			return fmt.Errorf("failed to build query: %w", err)
		}

		var exists bool
		if err := db.QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check table %s: %w", table, err)
		}
		if !exists {
			return fmt.Errorf("table %s does not exist", table)
		}
		logger.Info("Table exists", zap.String("table", table))
	}
	return nil
}

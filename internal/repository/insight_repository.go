package repository

import (
	"context"
	"fmt"

	"ai-insights/internal/models"
	"ai-insights/pkg/postgres"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var insightColumns = []string{
	"id", "username", "insight_type", "title", "description", "data", "visualization_config",
	"priority", "is_read", "created_at", "expires_at",
}

type InsightRepository struct {
	db     postgres.DB
	logger *zap.Logger
}

func NewInsightRepository(db postgres.DB, logger *zap.Logger) *InsightRepository {
	return &InsightRepository{
		db:     db,
		logger: logger,
	}
}

func (r *InsightRepository) Create(ctx context.Context, insight *models.Insight) error {
	var vizConfig interface{}
	if len(insight.VisualizationConfig) > 0 {
		vizConfig = string(insight.VisualizationConfig)
	}

	query := squirrel.Insert("ai_insights").
		Columns(insightColumns...).
		Values(
			insight.ID, insight.Username, insight.InsightType, insight.Title, insight.Description,
			string(insight.Data), vizConfig, insight.Priority, insight.IsRead, insight.CreatedAt, insight.ExpiresAt,
		).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("failed to insert insight: %w", err)
	}
	return nil
}

// ListByUsername returns the newest, highest priority insights first.
func (r *InsightRepository) ListByUsername(ctx context.Context, username string, limit int, unreadOnly bool) ([]*models.Insight, error) {
	where := squirrel.Eq{"username": username}
	if unreadOnly {
		where["is_read"] = false
	}

	query := squirrel.Select(insightColumns...).
		From("ai_insights").
		Where(where).
		OrderBy("priority DESC", "created_at DESC").
		Limit(uint64(limit)).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query insights: %w", err)
	}
	defer rows.Close()

	var insights []*models.Insight
	for rows.Next() {
		var (
			insight   models.Insight
			data      []byte
			vizConfig []byte
		)
		if err := rows.Scan(
			&insight.ID, &insight.Username, &insight.InsightType, &insight.Title, &insight.Description,
			&data, &vizConfig, &insight.Priority, &insight.IsRead, &insight.CreatedAt, &insight.ExpiresAt,
		); err != nil {
			return nil, err
		}
		insight.Data = data
		insight.VisualizationConfig = vizConfig
		insights = append(insights, &insight)
	}

	return insights, rows.Err()
}

// MarkRead flags one of the user's insights as read.
func (r *InsightRepository) MarkRead(ctx context.Context, id uuid.UUID, username string) error {
	query := squirrel.Update("ai_insights").
		Set("is_read", true).
		Where(squirrel.Eq{"id": id, "username": username}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("failed to mark insight read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

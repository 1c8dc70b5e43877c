package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"ai-insights/internal/models"
	"ai-insights/pkg/postgres"

	"github.com/Masterminds/squirrel"
	"go.uber.org/zap"
)

type InteractionRepository struct {
	db     postgres.DB
	logger *zap.Logger
}

func NewInteractionRepository(db postgres.DB, logger *zap.Logger) *InteractionRepository {
	return &InteractionRepository{
		db:     db,
		logger: logger,
	}
}

func (r *InteractionRepository) Create(ctx context.Context, interaction *models.Interaction) error {
	var data interface{}
	if interaction.InteractionData != nil {
		raw, err := json.Marshal(interaction.InteractionData)
		if err != nil {
			return fmt.Errorf("failed to encode interaction data: %w", err)
		}
		data = string(raw)
	}

	query := squirrel.Insert("user_interactions").
		Columns("id", "username", "interaction_type", "insight_id", "interaction_data", "created_at").
		Values(interaction.ID, interaction.Username, interaction.InteractionType, interaction.InsightID, data, interaction.CreatedAt).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("failed to insert interaction: %w", err)
	}
	return nil
}

func (r *InteractionRepository) ListRecent(ctx context.Context, username string, limit int) ([]*models.Interaction, error) {
	query := squirrel.Select("id", "username", "interaction_type", "insight_id", "interaction_data", "created_at").
		From("user_interactions").
		Where(squirrel.Eq{"username": username}).
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query interactions: %w", err)
	}
	defer rows.Close()

	var interactions []*models.Interaction
	for rows.Next() {
		var (
			interaction models.Interaction
			raw         []byte
		)
		if err := rows.Scan(
			&interaction.ID, &interaction.Username, &interaction.InteractionType, &interaction.InsightID, &raw, &interaction.CreatedAt,
		); err != nil {
			return nil, err
		}
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &interaction.InteractionData); err != nil {
				r.logger.Warn("Skipping undecodable interaction data", zap.String("id", interaction.ID.String()), zap.Error(err))
			}
		}
		interactions = append(interactions, &interaction)
	}

	return interactions, rows.Err()
}

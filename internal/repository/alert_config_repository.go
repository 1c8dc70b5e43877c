package repository

import (
	"context"
	"fmt"
	"time"

	"ai-insights/internal/models"
	"ai-insights/pkg/postgres"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var alertConfigColumns = []string{
	"id", "username", "alert_type", "alert_name", "threshold_value", "threshold_period",
	"is_active", "notification_method", "created_at", "updated_at",
}

type AlertConfigRepository struct {
	db     postgres.DB
	logger *zap.Logger
}

func NewAlertConfigRepository(db postgres.DB, logger *zap.Logger) *AlertConfigRepository {
	return &AlertConfigRepository{
		db:     db,
		logger: logger,
	}
}

// Upsert creates cfg or, on a (username, alert_type, alert_name) conflict,
// reactivates the existing row with the new threshold settings.
func (r *AlertConfigRepository) Upsert(ctx context.Context, cfg *models.AlertConfiguration) error {
	if cfg.ID == uuid.Nil {
		cfg.ID = uuid.New()
	}
	now := time.Now()

	query := squirrel.Insert("alert_configurations").
		Columns(alertConfigColumns...).
		Values(
			cfg.ID, cfg.Username, cfg.AlertType, cfg.AlertName, cfg.ThresholdValue, cfg.ThresholdPeriod,
			cfg.IsActive, cfg.NotificationMethod, now, now,
		).
		Suffix("ON CONFLICT (username, alert_type, alert_name) DO UPDATE SET " +
			"threshold_value = EXCLUDED.threshold_value, threshold_period = EXCLUDED.threshold_period, " +
			"notification_method = EXCLUDED.notification_method, is_active = EXCLUDED.is_active, " +
			"updated_at = EXCLUDED.updated_at RETURNING id, created_at, updated_at").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&cfg.ID, &cfg.CreatedAt, &cfg.UpdatedAt); err != nil {
		return fmt.Errorf("failed to upsert alert configuration: %w", err)
	}
	return nil
}

func (r *AlertConfigRepository) List(ctx context.Context, username string, activeOnly bool) ([]*models.AlertConfiguration, error) {
	where := squirrel.Eq{"username": username}
	if activeOnly {
		where["is_active"] = true
	}

	query := squirrel.Select(alertConfigColumns...).
		From("alert_configurations").
		Where(where).
		OrderBy("created_at DESC").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query alert configurations: %w", err)
	}
	defer rows.Close()

	var configs []*models.AlertConfiguration
	for rows.Next() {
		var cfg models.AlertConfiguration
		if err := rows.Scan(
			&cfg.ID, &cfg.Username, &cfg.AlertType, &cfg.AlertName, &cfg.ThresholdValue, &cfg.ThresholdPeriod,
			&cfg.IsActive, &cfg.NotificationMethod, &cfg.CreatedAt, &cfg.UpdatedAt,
		); err != nil {
			return nil, err
		}
		configs = append(configs, &cfg)
	}

	return configs, rows.Err()
}

// Update applies the non-nil fields of patch to one of the user's configurations.
func (r *AlertConfigRepository) Update(ctx context.Context, id uuid.UUID, username string, patch models.AlertConfigPatch) error {
	set := map[string]interface{}{"updated_at": time.Now()}
	if patch.ThresholdValue != nil {
		set["threshold_value"] = *patch.ThresholdValue
	}
	if patch.ThresholdPeriod != nil {
		set["threshold_period"] = *patch.ThresholdPeriod
	}
	if patch.NotificationMethod != nil {
		set["notification_method"] = *patch.NotificationMethod
	}
	if patch.IsActive != nil {
		set["is_active"] = *patch.IsActive
	}

	query := squirrel.Update("alert_configurations").
		SetMap(set).
		Where(squirrel.Eq{"id": id, "username": username}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("failed to update alert configuration: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

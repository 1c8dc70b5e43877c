package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"ai-insights/internal/models"
	"ai-insights/pkg/postgres"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

var preferenceColumns = []string{
	"id", "username", "preference_type", "preference_key", "preference_value", "created_at", "updated_at",
}

type PreferenceRepository struct {
	db     postgres.DB
	logger *zap.Logger
}

func NewPreferenceRepository(db postgres.DB, logger *zap.Logger) *PreferenceRepository {
	return &PreferenceRepository{
		db:     db,
		logger: logger,
	}
}

func (r *PreferenceRepository) ListByUsername(ctx context.Context, username string) ([]*models.Preference, error) {
	query := squirrel.Select(preferenceColumns...).
		From("user_preferences").
		Where(squirrel.Eq{"username": username}).
		OrderBy("created_at DESC").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query preferences: %w", err)
	}
	defer rows.Close()

	var preferences []*models.Preference
	for rows.Next() {
		pref, err := scanPreference(rows)
		if err != nil {
			return nil, err
		}
		preferences = append(preferences, pref)
	}

	return preferences, rows.Err()
}

func (r *PreferenceRepository) Get(ctx context.Context, username, prefType, key string) (*models.Preference, error) {
	query := squirrel.Select(preferenceColumns...).
		From("user_preferences").
		Where(squirrel.Eq{"username": username, "preference_type": prefType, "preference_key": key}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	pref, err := scanPreference(r.db.QueryRow(ctx, sql, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return pref, err
}

// Upsert writes pref, overwriting the value of an existing (username, type, key) row.
func (r *PreferenceRepository) Upsert(ctx context.Context, pref *models.Preference) error {
	value, err := json.Marshal(pref.PreferenceValue)
	if err != nil {
		return fmt.Errorf("failed to encode preference value: %w", err)
	}

	if pref.ID == uuid.Nil {
		pref.ID = uuid.New()
	}
	now := time.Now()

	query := squirrel.Insert("user_preferences").
		Columns(preferenceColumns...).
		Values(pref.ID, pref.Username, pref.PreferenceType, pref.PreferenceKey, string(value), now, now).
		Suffix("ON CONFLICT (username, preference_type, preference_key) DO UPDATE " +
			"SET preference_value = EXCLUDED.preference_value, updated_at = EXCLUDED.updated_at " +
			"RETURNING id, created_at, updated_at").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&pref.ID, &pref.CreatedAt, &pref.UpdatedAt); err != nil {
		return fmt.Errorf("failed to upsert preference: %w", err)
	}

	return nil
}

func scanPreference(row pgx.Row) (*models.Preference, error) {
	var (
		pref models.Preference
		raw  []byte
	)
	if err := row.Scan(
		&pref.ID, &pref.Username, &pref.PreferenceType, &pref.PreferenceKey, &raw, &pref.CreatedAt, &pref.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &pref.PreferenceValue); err != nil {
			return nil, fmt.Errorf("failed to decode preference value: %w", err)
		}
	}
	return &pref, nil
}

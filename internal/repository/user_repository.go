package repository

import (
	"context"
	"errors"
	"fmt"

	"ai-insights/pkg/postgres"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// UserRepository reads the bank's users table in the accounts store.
type UserRepository struct {
	db     postgres.DB
	logger *zap.Logger
}

func NewUserRepository(db postgres.DB, logger *zap.Logger) *UserRepository {
	return &UserRepository{
		db:     db,
		logger: logger,
	}
}

func (r *UserRepository) AccountID(ctx context.Context, username string) (string, error) {
	query := squirrel.Select("accountid").
		From("users").
		Where(squirrel.Eq{"username": username}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return "", err
	}

	var accountID string
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&accountID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to resolve account: %w", err)
	}
	return accountID, nil
}

func (r *UserRepository) ListUsernames(ctx context.Context) ([]string, error) {
	query := squirrel.Select("username").
		From("users").
		OrderBy("username")

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var usernames []string
	for rows.Next() {
		var username string
		if err := rows.Scan(&username); err != nil {
			return nil, err
		}
		usernames = append(usernames, username)
	}
	return usernames, rows.Err()
}

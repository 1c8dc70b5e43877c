package service

import (
	"context"
	"time"

	"ai-insights/internal/models"

	"github.com/google/uuid"
)

// The interfaces below are satisfied by the repository package and let
// services be exercised with in-memory fakes.

type PreferenceStore interface {
	ListByUsername(ctx context.Context, username string) ([]*models.Preference, error)
	Get(ctx context.Context, username, prefType, key string) (*models.Preference, error)
	Upsert(ctx context.Context, pref *models.Preference) error
}

type InteractionStore interface {
	Create(ctx context.Context, interaction *models.Interaction) error
	ListRecent(ctx context.Context, username string, limit int) ([]*models.Interaction, error)
}

type InsightStore interface {
	Create(ctx context.Context, insight *models.Insight) error
	ListByUsername(ctx context.Context, username string, limit int, unreadOnly bool) ([]*models.Insight, error)
	MarkRead(ctx context.Context, id uuid.UUID, username string) error
}

type AlertConfigStore interface {
	Upsert(ctx context.Context, cfg *models.AlertConfiguration) error
	List(ctx context.Context, username string, activeOnly bool) ([]*models.AlertConfiguration, error)
	Update(ctx context.Context, id uuid.UUID, username string, patch models.AlertConfigPatch) error
}

type UserDirectory interface {
	AccountID(ctx context.Context, username string) (string, error)
	ListUsernames(ctx context.Context) ([]string, error)
}

type Ledger interface {
	ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]models.Transaction, error)
	Balance(ctx context.Context, accountID string) (float64, error)
	SpendingByCategory(ctx context.Context, accountID string, since, until time.Time) ([]models.CategorySpending, error)
	SpendingTrends(ctx context.Context, accountID string, since, until time.Time) ([]models.DailySpending, error)
	MonthlyComparison(ctx context.Context, accountID string) ([]models.MonthlySpending, error)
}

// SQLRunner executes one read-only statement against a single store.
type SQLRunner interface {
	Run(ctx context.Context, sql string) ([]models.Row, error)
}

package models

import (
	"time"

	"github.com/google/uuid"
)

const DefaultPreferenceKey = "default"

// Preference is unique per (username, preference_type, preference_key).
type Preference struct {
	ID              uuid.UUID   `db:"id" json:"id"`
	Username        string      `db:"username" json:"username"`
	PreferenceType  string      `db:"preference_type" json:"preference_type"`
	PreferenceKey   string      `db:"preference_key" json:"preference_key"`
	PreferenceValue interface{} `db:"preference_value" json:"preference_value"`
	CreatedAt       time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time   `db:"updated_at" json:"updated_at"`
}

// Interaction is an append-only record of something the user did.
type Interaction struct {
	ID              uuid.UUID              `db:"id" json:"id"`
	Username        string                 `db:"username" json:"username"`
	InteractionType string                 `db:"interaction_type" json:"interaction_type"`
	InsightID       *uuid.UUID             `db:"insight_id" json:"insight_id,omitempty"`
	InteractionData map[string]interface{} `db:"interaction_data" json:"interaction_data,omitempty"`
	CreatedAt       time.Time              `db:"created_at" json:"created_at"`
}

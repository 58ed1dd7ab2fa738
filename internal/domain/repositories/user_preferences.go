package repositories

import (
	"context"

	"resumecrafter/internal/domain/models"
)

// UserPreferencesRepository defines data access for per-user additional prompts
type UserPreferencesRepository interface {
	// GetByUserID retrieves the preference for a user.
	// Returns nil, nil when the user has never saved one.
	GetByUserID(ctx context.Context, userID string) (*models.UserPreference, error)

	// Upsert creates or replaces the user's preference (last write wins).
	// prefs is updated in place with the stored timestamps.
	Upsert(ctx context.Context, prefs *models.UserPreference) error
}

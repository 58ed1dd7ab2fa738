package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"resumecrafter/internal/domain/models"
	"resumecrafter/internal/domain/repositories"
)

// PostgresUserPreferencesRepository implements the UserPreferencesRepository interface
type PostgresUserPreferencesRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewUserPreferencesRepository creates a new PostgresUserPreferencesRepository
func NewUserPreferencesRepository(config *RepositoryConfig) repositories.UserPreferencesRepository {
	return &PostgresUserPreferencesRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// GetByUserID retrieves the preference for a specific user
func (r *PostgresUserPreferencesRepository) GetByUserID(ctx context.Context, userID string) (*models.UserPreference, error) {
	query := fmt.Sprintf(`
		SELECT user_id, additional_prompt, created_at, updated_at
		FROM %s
		WHERE user_id = $1
	`, r.tables.UserPreferences)

	var prefs models.UserPreference
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, userID).Scan(
		&prefs.UserID,
		&prefs.AdditionalPrompt,
		&prefs.CreatedAt,
		&prefs.UpdatedAt,
	)
	if err != nil {
		if IsPgNoRowsError(err) {
			// Never saved - absent, not an error
			return nil, nil
		}
		return nil, storeError("get user preference", err)
	}

	return &prefs, nil
}

// Upsert creates or replaces the user's preference
func (r *PostgresUserPreferencesRepository) Upsert(ctx context.Context, prefs *models.UserPreference) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (user_id, additional_prompt, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE SET
			additional_prompt = EXCLUDED.additional_prompt,
			updated_at = EXCLUDED.updated_at
		RETURNING user_id, additional_prompt, created_at, updated_at
	`, r.tables.UserPreferences)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		prefs.UserID,
		prefs.AdditionalPrompt,
		prefs.CreatedAt,
		prefs.UpdatedAt,
	).Scan(
		&prefs.UserID,
		&prefs.AdditionalPrompt,
		&prefs.CreatedAt,
		&prefs.UpdatedAt,
	)
	if err != nil {
		return storeError("upsert user preference", err)
	}

	r.logger.Debug("user preference upserted", "user_id", prefs.UserID)
	return nil
}

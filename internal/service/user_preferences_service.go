package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"resumecrafter/internal/domain"
	"resumecrafter/internal/domain/models"
	"resumecrafter/internal/domain/repositories"
	"resumecrafter/internal/domain/services"
)

// maxPreferenceLength bounds the stored additional prompt
const maxPreferenceLength = 10000

// UserPreferencesService implements the UserPreferencesService interface
type UserPreferencesService struct {
	prefsRepo repositories.UserPreferencesRepository
	logger    *slog.Logger
	now       func() time.Time
}

// NewUserPreferencesService creates a new user preferences service
func NewUserPreferencesService(
	prefsRepo repositories.UserPreferencesRepository,
	logger *slog.Logger,
) services.UserPreferencesService {
	return &UserPreferencesService{
		prefsRepo: prefsRepo,
		logger:    logger,
		now:       time.Now,
	}
}

// GetPreference retrieves the additional prompt for a user
func (s *UserPreferencesService) GetPreference(ctx context.Context, userID string) (string, error) {
	if userID == "" {
		// Anonymous callers have nothing stored
		return "", nil
	}

	prefs, err := s.prefsRepo.GetByUserID(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("get preference: %w", err)
	}
	if prefs == nil {
		s.logger.Debug("no preference found", "user_id", userID)
		return "", nil
	}

	return prefs.AdditionalPrompt, nil
}

// SetPreference replaces the additional prompt for a user
func (s *UserPreferencesService) SetPreference(ctx context.Context, userID, text string) (string, error) {
	if userID == "" {
		return "", &domain.UnauthorizedError{Message: "authentication required"}
	}

	if err := validation.Validate(text, validation.Length(0, maxPreferenceLength)); err != nil {
		return "", &domain.ValidationError{Message: fmt.Sprintf("prompt: %v", err)}
	}

	now := s.now()
	prefs := &models.UserPreference{
		UserID:           userID,
		AdditionalPrompt: text,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.prefsRepo.Upsert(ctx, prefs); err != nil {
		return "", fmt.Errorf("upsert preference: %w", err)
	}

	s.logger.Info("user preference updated",
		"user_id", userID,
		"length", len(text),
	)

	return prefs.AdditionalPrompt, nil
}

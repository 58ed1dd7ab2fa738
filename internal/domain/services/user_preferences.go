package services

import (
	"context"
)

// UserPreferencesService defines the business logic for the per-user additional prompt
type UserPreferencesService interface {
	// GetPreference returns the stored additional prompt.
	// An empty userID (anonymous caller) or a user who never saved one
	// yields "", nil. Store failures wrap domain.ErrStoreUnavailable.
	GetPreference(ctx context.Context, userID string) (string, error)

	// SetPreference replaces the user's additional prompt and returns the stored text.
	// Fails with domain.ErrUnauthorized when userID is empty.
	SetPreference(ctx context.Context, userID, text string) (string, error)
}

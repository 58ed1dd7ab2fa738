package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumecrafter/internal/domain"
	"resumecrafter/internal/domain/models"
	"resumecrafter/internal/repository/memory"
)

func TestGetPreferenceAbsent(t *testing.T) {
	ctx := context.Background()
	svc := NewUserPreferencesService(memory.NewStore().Preferences(), testLogger())

	for _, userID := range []string{"", "user_without_prefs"} {
		got, err := svc.GetPreference(ctx, userID)
		require.NoError(t, err)
		assert.Empty(t, got)
	}
}

func TestSetPreferenceLastWriteWins(t *testing.T) {
	ctx := context.Background()
	svc := NewUserPreferencesService(memory.NewStore().Preferences(), testLogger())

	for _, text := range []string{"first", "second", "Focus on fintech"} {
		stored, err := svc.SetPreference(ctx, "user_a", text)
		require.NoError(t, err)
		assert.Equal(t, text, stored)
	}

	got, err := svc.GetPreference(ctx, "user_a")
	require.NoError(t, err)
	assert.Equal(t, "Focus on fintech", got)

	other, err := svc.GetPreference(ctx, "user_b")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestSetPreferenceRequiresUser(t *testing.T) {
	svc := NewUserPreferencesService(memory.NewStore().Preferences(), testLogger())

	_, err := svc.SetPreference(context.Background(), "", "text")
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
}

func TestSetPreferenceTooLong(t *testing.T) {
	svc := NewUserPreferencesService(memory.NewStore().Preferences(), testLogger())

	_, err := svc.SetPreference(context.Background(), "user_a", strings.Repeat("x", maxPreferenceLength+1))
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

type brokenPrefsRepo struct{}

func (brokenPrefsRepo) GetByUserID(context.Context, string) (*models.UserPreference, error) {
	return nil, domain.ErrStoreUnavailable
}

func (brokenPrefsRepo) Upsert(context.Context, *models.UserPreference) error {
	return domain.ErrStoreUnavailable
}

func TestPreferenceStoreFailureIsDistinct(t *testing.T) {
	ctx := context.Background()
	svc := NewUserPreferencesService(brokenPrefsRepo{}, testLogger())

	_, err := svc.GetPreference(ctx, "user_a")
	assert.True(t, errors.Is(err, domain.ErrStoreUnavailable))
	assert.False(t, errors.Is(err, domain.ErrNotFound))

	_, err = svc.SetPreference(ctx, "user_a", "text")
	assert.True(t, errors.Is(err, domain.ErrStoreUnavailable))
}

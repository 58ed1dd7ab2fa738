package repositories

import (
	"context"

	"resumecrafter/internal/domain/models"
)

// ChatRepository defines data access for chat sessions
type ChatRepository interface {
	// Create persists a new session and fills in its ID and timestamps.
	Create(ctx context.Context, chat *models.ChatSession) error

	// GetByIDForUser returns the session only when it is owned by userID.
	// A missing chat and another user's chat both yield domain.ErrNotFound.
	GetByIDForUser(ctx context.Context, chatID, userID string) (*models.ChatSession, error)

	// AppendTurns appends turns in order to the session matching
	// (chatID, userID) as one atomic update. A non-matching pair is not
	// an error: the result reports MatchedCount 0.
	AppendTurns(ctx context.Context, chatID, userID string, turns []models.Turn) (*models.AppendResult, error)
}

// UserChatIndexRepository defines data access for per-user chat listings
type UserChatIndexRepository interface {
	// AppendSummary creates the user's index if absent and appends summary.
	AppendSummary(ctx context.Context, userID string, summary models.ChatSummary) error

	// GetByUserID returns the user's index, or nil, nil when none exists.
	GetByUserID(ctx context.Context, userID string) (*models.UserChatIndex, error)
}

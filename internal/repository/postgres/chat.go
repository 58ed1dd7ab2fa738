package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"resumecrafter/internal/domain"
	"resumecrafter/internal/domain/models"
	"resumecrafter/internal/domain/repositories"
)

// PostgresChatRepository implements repositories.ChatRepository.
// History is one JSONB array per chat so an append is a single-row update.
type PostgresChatRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewChatRepository creates a new PostgresChatRepository
func NewChatRepository(config *RepositoryConfig) repositories.ChatRepository {
	return &PostgresChatRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Create inserts a new chat session
func (r *PostgresChatRepository) Create(ctx context.Context, chat *models.ChatSession) error {
	history, err := json.Marshal(chat.History)
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (user_id, history)
		VALUES ($1, $2::jsonb)
		RETURNING id::text, created_at, updated_at
	`, r.tables.Chats)

	executor := GetExecutor(ctx, r.pool)
	err = executor.QueryRow(ctx, query, chat.UserID, string(history)).Scan(
		&chat.ID,
		&chat.CreatedAt,
		&chat.UpdatedAt,
	)
	if err != nil {
		return storeError("create chat", err)
	}

	return nil
}

// GetByIDForUser retrieves a chat owned by userID
func (r *PostgresChatRepository) GetByIDForUser(ctx context.Context, chatID, userID string) (*models.ChatSession, error) {
	// Anything that is not a UUID cannot name a stored chat
	if _, err := uuid.Parse(chatID); err != nil {
		return nil, &domain.NotFoundError{Message: "chat not found"}
	}

	query := fmt.Sprintf(`
		SELECT id::text, user_id, history, created_at, updated_at
		FROM %s
		WHERE id = $1 AND user_id = $2
	`, r.tables.Chats)

	var (
		chat    models.ChatSession
		history []byte
	)
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, chatID, userID).Scan(
		&chat.ID,
		&chat.UserID,
		&history,
		&chat.CreatedAt,
		&chat.UpdatedAt,
	)
	if err != nil {
		if IsPgNoRowsError(err) || IsPgInvalidTextError(err) {
			return nil, &domain.NotFoundError{Message: "chat not found"}
		}
		return nil, storeError("get chat", err)
	}

	if err := json.Unmarshal(history, &chat.History); err != nil {
		return nil, fmt.Errorf("decode chat history: %w", err)
	}

	return &chat, nil
}

// AppendTurns concatenates turns onto the chat's history in one statement
func (r *PostgresChatRepository) AppendTurns(ctx context.Context, chatID, userID string, turns []models.Turn) (*models.AppendResult, error) {
	if _, err := uuid.Parse(chatID); err != nil {
		return &models.AppendResult{Acknowledged: true}, nil
	}

	payload, err := json.Marshal(turns)
	if err != nil {
		return nil, fmt.Errorf("marshal turns: %w", err)
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET history = history || $3::jsonb,
			updated_at = now()
		WHERE id = $1 AND user_id = $2
	`, r.tables.Chats)

	executor := GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, query, chatID, userID, string(payload))
	if err != nil {
		return nil, storeError("append turns", err)
	}

	matched := tag.RowsAffected()
	if matched == 0 {
		r.logger.Debug("append matched no chat", "chat_id", chatID, "user_id", userID)
	}

	return &models.AppendResult{
		Acknowledged:  true,
		MatchedCount:  matched,
		ModifiedCount: matched,
	}, nil
}

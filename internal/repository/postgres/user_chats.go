package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"resumecrafter/internal/domain/models"
	"resumecrafter/internal/domain/repositories"
)

// PostgresUserChatIndexRepository implements repositories.UserChatIndexRepository
type PostgresUserChatIndexRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewUserChatIndexRepository creates a new PostgresUserChatIndexRepository
func NewUserChatIndexRepository(config *RepositoryConfig) repositories.UserChatIndexRepository {
	return &PostgresUserChatIndexRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// AppendSummary upserts the user's index row and appends summary to it
func (r *PostgresUserChatIndexRepository) AppendSummary(ctx context.Context, userID string, summary models.ChatSummary) error {
	payload, err := json.Marshal([]models.ChatSummary{summary})
	if err != nil {
		return fmt.Errorf("marshal chat summary: %w", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (user_id, chats)
		VALUES ($1, $2::jsonb)
		ON CONFLICT (user_id) DO UPDATE SET
			chats = %s.chats || EXCLUDED.chats,
			updated_at = now()
	`, r.tables.UserChats, r.tables.UserChats)

	executor := GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, userID, string(payload)); err != nil {
		return storeError("append chat summary", err)
	}

	return nil
}

// GetByUserID retrieves the user's chat index
func (r *PostgresUserChatIndexRepository) GetByUserID(ctx context.Context, userID string) (*models.UserChatIndex, error) {
	query := fmt.Sprintf(`
		SELECT user_id, chats, created_at, updated_at
		FROM %s
		WHERE user_id = $1
	`, r.tables.UserChats)

	var (
		index models.UserChatIndex
		chats []byte
	)
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, userID).Scan(
		&index.UserID,
		&chats,
		&index.CreatedAt,
		&index.UpdatedAt,
	)
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, nil
		}
		return nil, storeError("get chat index", err)
	}

	if err := json.Unmarshal(chats, &index.Chats); err != nil {
		return nil, fmt.Errorf("decode chat index: %w", err)
	}

	return &index, nil
}

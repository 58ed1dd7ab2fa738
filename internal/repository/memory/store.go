// Package memory keeps chats, chat indexes and preferences in-process.
// It backs STORE=memory for local runs and the service tests.
package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"resumecrafter/internal/domain"
	"resumecrafter/internal/domain/models"
	"resumecrafter/internal/domain/repositories"
)

// Store holds every collection behind one lock.
type Store struct {
	mu      sync.RWMutex
	chats   map[string]models.ChatSession
	indexes map[string]models.UserChatIndex
	prefs   map[string]models.UserPreference

	now func() time.Time
}

// NewStore initializes an empty in-memory store.
func NewStore() *Store {
	return &Store{
		chats:   make(map[string]models.ChatSession),
		indexes: make(map[string]models.UserChatIndex),
		prefs:   make(map[string]models.UserPreference),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Chats returns the store as a ChatRepository.
func (s *Store) Chats() repositories.ChatRepository { return chatRepo{s} }

// ChatIndexes returns the store as a UserChatIndexRepository.
func (s *Store) ChatIndexes() repositories.UserChatIndexRepository { return indexRepo{s} }

// Preferences returns the store as a UserPreferencesRepository.
func (s *Store) Preferences() repositories.UserPreferencesRepository { return prefsRepo{s} }

type chatRepo struct{ s *Store }

func (r chatRepo) Create(_ context.Context, chat *models.ChatSession) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := r.s.now()
	chat.ID = uuid.NewString()
	chat.CreatedAt = now
	chat.UpdatedAt = now

	stored := *chat
	stored.History = cloneTurns(chat.History)
	r.s.chats[chat.ID] = stored
	return nil
}

func (r chatRepo) GetByIDForUser(_ context.Context, chatID, userID string) (*models.ChatSession, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	chat, ok := r.s.chats[chatID]
	if !ok || chat.UserID != userID {
		return nil, &domain.NotFoundError{Message: "chat not found"}
	}
	chat.History = cloneTurns(chat.History)
	return &chat, nil
}

func (r chatRepo) AppendTurns(_ context.Context, chatID, userID string, turns []models.Turn) (*models.AppendResult, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	chat, ok := r.s.chats[chatID]
	if !ok || chat.UserID != userID {
		return &models.AppendResult{Acknowledged: true}, nil
	}
	chat.History = append(cloneTurns(chat.History), cloneTurns(turns)...)
	chat.UpdatedAt = r.s.now()
	r.s.chats[chatID] = chat

	return &models.AppendResult{Acknowledged: true, MatchedCount: 1, ModifiedCount: 1}, nil
}

type indexRepo struct{ s *Store }

func (r indexRepo) AppendSummary(_ context.Context, userID string, summary models.ChatSummary) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := r.s.now()
	index, ok := r.s.indexes[userID]
	if !ok {
		index = models.UserChatIndex{UserID: userID, CreatedAt: now}
	}
	index.Chats = append(slices.Clone(index.Chats), summary)
	index.UpdatedAt = now
	r.s.indexes[userID] = index
	return nil
}

func (r indexRepo) GetByUserID(_ context.Context, userID string) (*models.UserChatIndex, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	index, ok := r.s.indexes[userID]
	if !ok {
		return nil, nil
	}
	index.Chats = slices.Clone(index.Chats)
	return &index, nil
}

type prefsRepo struct{ s *Store }

func (r prefsRepo) GetByUserID(_ context.Context, userID string) (*models.UserPreference, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	prefs, ok := r.s.prefs[userID]
	if !ok {
		return nil, nil
	}
	return &prefs, nil
}

func (r prefsRepo) Upsert(_ context.Context, prefs *models.UserPreference) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if existing, ok := r.s.prefs[prefs.UserID]; ok {
		prefs.CreatedAt = existing.CreatedAt
	}
	r.s.prefs[prefs.UserID] = *prefs
	return nil
}

func cloneTurns(turns []models.Turn) []models.Turn {
	out := make([]models.Turn, len(turns))
	for i, t := range turns {
		out[i] = models.Turn{Role: t.Role, Parts: slices.Clone(t.Parts)}
	}
	return out
}

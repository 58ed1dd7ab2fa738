package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"golang.org/x/sync/errgroup"

	"resumecrafter/internal/config"
	"resumecrafter/internal/domain"
	"resumecrafter/internal/domain/models"
	"resumecrafter/internal/domain/repositories"
	"resumecrafter/internal/domain/services"
)

// ChatService implements the ChatService interface
type ChatService struct {
	chatRepo  repositories.ChatRepository
	indexRepo repositories.UserChatIndexRepository
	prefs     services.UserPreferencesService
	logger    *slog.Logger
	now       func() time.Time
}

// NewChatService creates a new chat service
func NewChatService(
	chatRepo repositories.ChatRepository,
	indexRepo repositories.UserChatIndexRepository,
	prefs services.UserPreferencesService,
	logger *slog.Logger,
) services.ChatService {
	return &ChatService{
		chatRepo:  chatRepo,
		indexRepo: indexRepo,
		prefs:     prefs,
		logger:    logger,
		now:       time.Now,
	}
}

// CreateChat creates a chat from its first user message and lists it
func (s *ChatService) CreateChat(ctx context.Context, req *services.CreateChatRequest) (string, error) {
	if req.UserID == "" {
		return "", &domain.UnauthorizedError{Message: "authentication required"}
	}
	if err := validation.ValidateStruct(req,
		validation.Field(&req.Text, validation.Required),
	); err != nil {
		return "", &domain.ValidationError{Message: err.Error()}
	}

	chat := &models.ChatSession{
		UserID:  req.UserID,
		History: []models.Turn{models.NewTextTurn(models.RoleUser, req.Text, "")},
	}
	if err := s.chatRepo.Create(ctx, chat); err != nil {
		return "", fmt.Errorf("create chat: %w", err)
	}

	summary := models.ChatSummary{
		ChatID:    chat.ID,
		Title:     TruncateTitle(req.Text),
		CreatedAt: s.now().UTC(),
	}
	if err := s.indexRepo.AppendSummary(ctx, req.UserID, summary); err != nil {
		// The chat row stays behind unlisted; there is no compensating delete
		s.logger.Error("chat created but index update failed",
			"chat_id", chat.ID,
			"user_id", req.UserID,
			"error", err,
		)
		return "", fmt.Errorf("append chat summary: %w", err)
	}

	s.logger.Info("chat created", "chat_id", chat.ID, "user_id", req.UserID)
	return chat.ID, nil
}

// ListChats loads the index and the preference concurrently.
// Only an index failure fails the listing.
func (s *ChatService) ListChats(ctx context.Context, userID string) (*services.ChatListResponse, error) {
	if userID == "" {
		return nil, &domain.UnauthorizedError{Message: "authentication required"}
	}

	var (
		index      *models.UserChatIndex
		preference string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		index, err = s.indexRepo.GetByUserID(gctx, userID)
		if err != nil {
			return fmt.Errorf("get chat index: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		// The listing is still served without the preference
		var err error
		preference, err = s.prefs.GetPreference(gctx, userID)
		if err != nil {
			s.logger.Warn("preference lookup failed, listing chats without it",
				"user_id", userID,
				"error", err,
			)
			preference = ""
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	resp := &services.ChatListResponse{Chats: []models.ChatSummary{}}
	if index != nil && index.Chats != nil {
		resp.Chats = index.Chats
	}
	if preference != "" {
		resp.AdditionalPrompt = &preference
	}
	return resp, nil
}

// GetChat retrieves a chat owned by userID
func (s *ChatService) GetChat(ctx context.Context, chatID, userID string) (*models.ChatSession, error) {
	if userID == "" {
		return nil, &domain.UnauthorizedError{Message: "authentication required"}
	}
	return s.chatRepo.GetByIDForUser(ctx, chatID, userID)
}

// AppendTurns appends the question (if any) and then the answer
func (s *ChatService) AppendTurns(ctx context.Context, req *services.AppendTurnsRequest) (*models.AppendResult, error) {
	if req.UserID == "" {
		return nil, &domain.UnauthorizedError{Message: "authentication required"}
	}

	turns := BuildExchange(req.Question, req.Answer, req.Img)
	if len(turns) == 0 {
		return nil, &domain.ValidationError{Message: "question or answer is required"}
	}

	result, err := s.chatRepo.AppendTurns(ctx, req.ChatID, req.UserID, turns)
	if err != nil {
		return nil, fmt.Errorf("append turns: %w", err)
	}

	if result.MatchedCount == 0 {
		// Reported, not rejected: the caller still receives the acknowledgment
		s.logger.Warn("append matched no chat", "chat_id", req.ChatID, "user_id", req.UserID)
	}
	return result, nil
}

// BuildExchange returns the turns for one question/answer exchange, always
// user before assistant. The image is attached to the user turn.
func BuildExchange(question, answer, img string) []models.Turn {
	turns := make([]models.Turn, 0, 2)
	if question != "" {
		turns = append(turns, models.NewTextTurn(models.RoleUser, question, img))
	}
	if answer != "" {
		turns = append(turns, models.NewTextTurn(models.RoleAssistant, answer, ""))
	}
	return turns
}

// TruncateTitle returns the first MaxChatTitleLength characters of text.
func TruncateTitle(text string) string {
	runes := []rune(text)
	if len(runes) <= config.MaxChatTitleLength {
		return text
	}
	return string(runes[:config.MaxChatTitleLength])
}

package services

import (
	"context"

	"resumecrafter/internal/domain/models"
)

// ChatService defines the business logic for persisted chat sessions
type ChatService interface {
	// CreateChat stores a chat whose history is the single user turn
	// req.Text, then appends its summary to the user's chat index.
	// The two writes are independent: if the index write fails the chat
	// remains stored but unlisted.
	CreateChat(ctx context.Context, req *CreateChatRequest) (string, error)

	// ListChats returns the user's summaries in creation order together
	// with the stored additional prompt. A failed preference lookup leaves
	// the prompt absent instead of failing the listing.
	ListChats(ctx context.Context, userID string) (*ChatListResponse, error)

	// GetChat returns the chat only when owned by userID.
	GetChat(ctx context.Context, chatID, userID string) (*models.ChatSession, error)

	// AppendTurns appends the question as a user turn followed by the
	// answer as an assistant turn. A chat id that matches nothing still
	// succeeds with MatchedCount 0.
	AppendTurns(ctx context.Context, req *AppendTurnsRequest) (*models.AppendResult, error)
}

// CreateChatRequest is the DTO for creating a chat
type CreateChatRequest struct {
	UserID string `json:"-"` // Set by handler from auth context
	Text   string `json:"text"`
}

// AppendTurnsRequest is the DTO for appending a question/answer exchange
type AppendTurnsRequest struct {
	ChatID   string `json:"-"`
	UserID   string `json:"-"`
	Question string `json:"question,omitempty"`
	Answer   string `json:"answer"`
	Img      string `json:"img,omitempty"`
}

// ChatListResponse pairs the chat index with the caller's preference
type ChatListResponse struct {
	Chats            []models.ChatSummary `json:"chats"`
	AdditionalPrompt *string              `json:"additional_prompt"`
}

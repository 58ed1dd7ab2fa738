package handler

import (
	"log/slog"
	"net/http"

	"resumecrafter/internal/domain/services"
	"resumecrafter/internal/httputil"
)

// ChatHandler handles chat persistence requests
// Handlers only communicate with services, never repositories
type ChatHandler struct {
	chatService services.ChatService
	logger      *slog.Logger
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chatService services.ChatService, logger *slog.Logger) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		logger:      logger,
	}
}

// CreateChat creates a chat from its first message
// POST /api/chats
// Returns 201 with the new chat id as a JSON string
func (h *ChatHandler) CreateChat(w http.ResponseWriter, r *http.Request) {
	var req services.CreateChatRequest
	if !parseBody(w, r, h.logger, &req) {
		return
	}
	req.UserID = httputil.GetUserID(r)

	chatID, err := h.chatService.CreateChat(r.Context(), &req)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, chatID)
}

// ListChats returns the caller's chat summaries and stored additional prompt
// GET /api/chats
func (h *ChatHandler) ListChats(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r)

	list, err := h.chatService.ListChats(r.Context(), userID)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, list)
}

// GetChat retrieves a single chat owned by the caller
// GET /api/chats/{id}
func (h *ChatHandler) GetChat(w http.ResponseWriter, r *http.Request) {
	chatID, ok := httputil.PathParam(w, r, "id", "Chat ID")
	if !ok {
		return
	}

	userID := httputil.GetUserID(r)
	chat, err := h.chatService.GetChat(r.Context(), chatID, userID)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, chat)
}

// AppendTurns appends a question/answer exchange to a chat
// PUT /api/chats/{id}
func (h *ChatHandler) AppendTurns(w http.ResponseWriter, r *http.Request) {
	chatID, ok := httputil.PathParam(w, r, "id", "Chat ID")
	if !ok {
		return
	}

	var req services.AppendTurnsRequest
	if !parseBody(w, r, h.logger, &req) {
		return
	}
	req.ChatID = chatID
	req.UserID = httputil.GetUserID(r)

	result, err := h.chatService.AppendTurns(r.Context(), &req)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}

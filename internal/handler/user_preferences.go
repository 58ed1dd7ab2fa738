package handler

import (
	"log/slog"
	"net/http"

	"resumecrafter/internal/domain/services"
	"resumecrafter/internal/httputil"
)

// UserPreferencesHandler handles the additional prompt endpoint
type UserPreferencesHandler struct {
	service services.UserPreferencesService
	logger  *slog.Logger
}

// NewUserPreferencesHandler creates a new user preferences handler
func NewUserPreferencesHandler(service services.UserPreferencesService, logger *slog.Logger) *UserPreferencesHandler {
	return &UserPreferencesHandler{
		service: service,
		logger:  logger,
	}
}

type savePromptRequest struct {
	Prompt string `json:"prompt"`
}

type savePromptResponse struct {
	Success       bool   `json:"success"`
	UpdatedPrompt string `json:"updatedPrompt"`
}

// SavePrompt stores the caller's additional prompt
// POST /api/prompt
func (h *UserPreferencesHandler) SavePrompt(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r)

	var req savePromptRequest
	if !parseBody(w, r, h.logger, &req) {
		return
	}

	stored, err := h.service.SetPreference(r.Context(), userID, req.Prompt)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, savePromptResponse{
		Success:       true,
		UpdatedPrompt: stored,
	})
}

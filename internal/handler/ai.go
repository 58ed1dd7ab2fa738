package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"resumecrafter/internal/domain"
	llmSvc "resumecrafter/internal/domain/services/llm"
	"resumecrafter/internal/handler/sse"
	"resumecrafter/internal/httputil"
)

// AIHandler streams completions to the client as raw text
type AIHandler struct {
	resume  llmSvc.ResumeService
	general llmSvc.GeneralChatService
	logger  *slog.Logger
}

// NewAIHandler creates a new completion streaming handler
func NewAIHandler(resume llmSvc.ResumeService, general llmSvc.GeneralChatService, logger *slog.Logger) *AIHandler {
	return &AIHandler{
		resume:  resume,
		general: general,
		logger:  logger,
	}
}

type resumeStreamRequest struct {
	Messages             json.RawMessage `json:"messages"`
	JobDescription       string          `json:"job_description"`
	SpecialCustomization string          `json:"special_customization"`
}

type generalStreamRequest struct {
	Messages json.RawMessage `json:"messages"`
}

// StreamResume relays a resume generation
// POST /ai/openai
func (h *AIHandler) StreamResume(w http.ResponseWriter, r *http.Request) {
	var req resumeStreamRequest
	if !parseBody(w, r, h.logger, &req) {
		return
	}

	// A job description alone is enough to generate; a malformed history
	// is then treated as empty.
	messages, err := decodeMessages(req.Messages)
	if err != nil {
		if req.JobDescription == "" {
			handleError(w, r, h.logger, err)
			return
		}
		messages = nil
	}

	h.relay(w, r, func(sink llmSvc.StreamSink) error {
		return h.resume.StreamResume(r.Context(), &llmSvc.ResumeRequest{
			UserID:               httputil.GetUserID(r),
			Messages:             messages,
			JobDescription:       req.JobDescription,
			SpecialCustomization: req.SpecialCustomization,
		}, sink)
	})
}

// StreamGeneral relays a completion for an arbitrary history
// POST /ai/general
func (h *AIHandler) StreamGeneral(w http.ResponseWriter, r *http.Request) {
	var req generalStreamRequest
	if !parseBody(w, r, h.logger, &req) {
		return
	}

	messages, err := decodeMessages(req.Messages)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	h.relay(w, r, func(sink llmSvc.StreamSink) error {
		return h.general.StreamGeneral(r.Context(), &llmSvc.GeneralChatRequest{
			Messages: messages,
		}, sink)
	})
}

// relay runs stream against a raw-text sink. Errors surface as problem
// JSON only while nothing has been written; afterwards the response is
// simply cut short.
func (h *AIHandler) relay(w http.ResponseWriter, r *http.Request, stream func(llmSvc.StreamSink) error) {
	sink := sse.NewWriter(w)

	err := stream(sink)
	if err == nil {
		return
	}

	logger := httputil.Logger(r, h.logger)
	if errors.Is(err, sse.ErrStreamingUnsupported) {
		logger.Error("response writer cannot flush", "error", err)
	}
	if !sink.Started() {
		handleError(w, r, h.logger, err)
		return
	}

	if r.Context().Err() != nil {
		logger.Info("client disconnected mid-stream", "error", err)
		return
	}
	logger.Warn("stream truncated", "error", err)
}

// decodeMessages accepts an absent or null history as empty and rejects
// anything that is not an array of messages.
func decodeMessages(raw json.RawMessage) ([]llmSvc.Message, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	if trimmed[0] != '[' {
		return nil, &domain.ValidationError{Message: "messages must be an array"}
	}

	var messages []llmSvc.Message
	if err := json.Unmarshal(trimmed, &messages); err != nil {
		return nil, &domain.ValidationError{Message: "messages must be an array of {role, content} objects"}
	}
	return messages, nil
}

package llm

import (
	"context"
	"log/slog"

	"resumecrafter/internal/config"
	"resumecrafter/internal/domain"
	llmSvc "resumecrafter/internal/domain/services/llm"
)

// GeneralChatService relays an unauthenticated chat completion.
// The history is forwarded exactly as received: no system prompt and no
// temperature override.
type GeneralChatService struct {
	relay  *Relay
	model  string
	logger *slog.Logger
}

// NewGeneralChatService creates a new general chat service
func NewGeneralChatService(relay *Relay, model string, logger *slog.Logger) llmSvc.GeneralChatService {
	return &GeneralChatService{
		relay:  relay,
		model:  model,
		logger: logger,
	}
}

// StreamGeneral relays the completion for req.Messages to sink
func (s *GeneralChatService) StreamGeneral(ctx context.Context, req *llmSvc.GeneralChatRequest, sink llmSvc.StreamSink) error {
	if len(req.Messages) == 0 {
		return &domain.ValidationError{Message: "messages must contain at least one entry"}
	}
	if err := validateMessages(req.Messages); err != nil {
		return err
	}

	s.logger.Debug("general chat started", "history", len(req.Messages))

	return s.relay.Run(ctx, &llmSvc.CompletionRequest{
		Model:     s.model,
		Messages:  req.Messages,
		MaxTokens: config.MaxOutputTokens,
	}, sink)
}

package llm

import (
	"context"
	"fmt"
	"log/slog"

	"resumecrafter/internal/config"
	"resumecrafter/internal/domain/services"
	llmSvc "resumecrafter/internal/domain/services/llm"
	"resumecrafter/internal/service/llm/prompt"
)

// ResumeService composes the system prompt and relays the resume stream
type ResumeService struct {
	prefs    services.UserPreferencesService
	composer *prompt.Composer
	relay    *Relay
	model    string
	logger   *slog.Logger
}

// NewResumeService creates a new resume generation service
func NewResumeService(
	prefs services.UserPreferencesService,
	composer *prompt.Composer,
	relay *Relay,
	model string,
	logger *slog.Logger,
) llmSvc.ResumeService {
	return &ResumeService{
		prefs:    prefs,
		composer: composer,
		relay:    relay,
		model:    model,
		logger:   logger,
	}
}

// StreamResume builds [developer prompt, ...history, JD instruction?] and
// relays the completion to sink.
func (s *ResumeService) StreamResume(ctx context.Context, req *llmSvc.ResumeRequest, sink llmSvc.StreamSink) error {
	if err := validateMessages(req.Messages); err != nil {
		return err
	}

	// A failed lookup generates without the stored preference
	preference, err := s.prefs.GetPreference(ctx, req.UserID)
	if err != nil {
		s.logger.Warn("preference lookup failed, continuing without it",
			"user_id", req.UserID,
			"error", err,
		)
		preference = ""
	}

	systemPrompt, err := s.composer.Compose(prompt.Input{
		JobDescription:       req.JobDescription,
		UserPreference:       preference,
		SpecialCustomization: req.SpecialCustomization,
	})
	if err != nil {
		return fmt.Errorf("compose system prompt: %w", err)
	}

	messages := make([]llmSvc.Message, 0, len(req.Messages)+2)
	messages = append(messages, llmSvc.Message{Role: llmSvc.RoleDeveloper, Content: systemPrompt})
	messages = append(messages, req.Messages...)

	completion := &llmSvc.CompletionRequest{
		Model:     s.model,
		MaxTokens: config.MaxOutputTokens,
	}
	if req.JobDescription != "" {
		messages = append(messages, llmSvc.Message{
			Role:    llmSvc.RoleUser,
			Content: s.composer.JobDescriptionInstruction(),
		})
		temperature := config.ResumeTemperature
		completion.Temperature = &temperature
	}
	completion.Messages = messages

	s.logger.Info("resume generation started",
		"user_id", req.UserID,
		"history", len(req.Messages),
		"has_job_description", req.JobDescription != "",
		"has_preference", preference != "",
		"has_customization", req.SpecialCustomization != "",
	)

	return s.relay.Run(ctx, completion, sink)
}

package llm

import (
	"fmt"
	"log/slog"
	"time"

	"resumecrafter/internal/config"
	"resumecrafter/internal/domain/services"
	llmSvc "resumecrafter/internal/domain/services/llm"
	"resumecrafter/internal/service/llm/prompt"
	"resumecrafter/internal/service/llm/providers/lorem"
	"resumecrafter/internal/service/llm/providers/openai"
)

// loremWordDelay paces the mock provider at about ten words per second
const loremWordDelay = 100 * time.Millisecond

// NewProvider returns the completion provider named by cfg.UpstreamProvider
//
// Supported providers:
//   - "openai" - OpenAI chat completions (requires OPENAI_API_KEY)
//   - "lorem" - Mock provider for local development (no API key required)
func NewProvider(cfg *config.Config, logger *slog.Logger) (llmSvc.CompletionProvider, error) {
	switch cfg.UpstreamProvider {
	case "openai":
		provider, err := openai.NewProvider(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create OpenAI provider: %w", err)
		}
		return provider, nil

	case "lorem":
		return lorem.NewProvider(loremWordDelay), nil

	default:
		return nil, fmt.Errorf("unsupported provider: %s", cfg.UpstreamProvider)
	}
}

// Services holds the streaming services exposed over HTTP
type Services struct {
	Resume  llmSvc.ResumeService
	General llmSvc.GeneralChatService
}

// SetupServices wires the composer, relay and streaming services around provider
func SetupServices(
	provider llmSvc.CompletionProvider,
	prefs services.UserPreferencesService,
	cfg *config.Config,
	logger *slog.Logger,
) (*Services, error) {
	composer, err := prompt.NewComposer()
	if err != nil {
		return nil, fmt.Errorf("failed to load prompt template: %w", err)
	}

	relay := NewRelay(provider, cfg.UpstreamTimeout, logger)

	logger.Info("completion provider ready",
		"provider", provider.Name(),
		"model", cfg.OpenAIModel,
		"timeout", cfg.UpstreamTimeout,
	)

	return &Services{
		Resume:  NewResumeService(prefs, composer, relay, cfg.OpenAIModel, logger),
		General: NewGeneralChatService(relay, cfg.OpenAIModel, logger),
	}, nil
}

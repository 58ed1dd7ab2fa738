// Package openai streams chat completions from the OpenAI API.
package openai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	goopenai "github.com/sashabaranov/go-openai"

	"resumecrafter/internal/domain"
	llmSvc "resumecrafter/internal/domain/services/llm"
)

// Provider implements llmSvc.CompletionProvider over go-openai.
type Provider struct {
	client *goopenai.Client
	logger *slog.Logger
}

// NewProvider creates a provider for apiKey. baseURL overrides the API
// endpoint (e.g. a proxy or a test server) when non-empty.
func NewProvider(apiKey, baseURL string, logger *slog.Logger) (*Provider, error) {
	if apiKey == "" {
		return nil, errors.New("OPENAI_API_KEY environment variable not set")
	}

	cfg := goopenai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}

	return &Provider{
		client: goopenai.NewClientWithConfig(cfg),
		logger: logger,
	}, nil
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "openai"
}

// StreamCompletion opens a streaming chat completion. Errors returned
// directly mean the request was rejected before any fragment was produced.
func (p *Provider) StreamCompletion(ctx context.Context, req *llmSvc.CompletionRequest) (<-chan llmSvc.StreamEvent, error) {
	stream, err := p.client.CreateChatCompletionStream(ctx, toOpenAIRequest(req))
	if err != nil {
		p.logAPIError("create chat completion stream", err)
		return nil, fmt.Errorf("%w: %w", domain.ErrUpstream, err)
	}

	events := make(chan llmSvc.StreamEvent)
	go func() {
		defer close(events)
		defer stream.Close()

		for {
			resp, err := stream.Recv()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				p.logAPIError("receive chat completion chunk", err)
				send(ctx, events, llmSvc.StreamEvent{Err: fmt.Errorf("%w: %w", domain.ErrUpstream, err)})
				return
			}

			for _, choice := range resp.Choices {
				if choice.Delta.Content == "" {
					continue
				}
				if !send(ctx, events, llmSvc.StreamEvent{Delta: choice.Delta.Content}) {
					return
				}
			}
		}
	}()

	return events, nil
}

// send delivers ev unless ctx is cancelled first.
func send(ctx context.Context, events chan<- llmSvc.StreamEvent, ev llmSvc.StreamEvent) bool {
	select {
	case events <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}

func toOpenAIRequest(req *llmSvc.CompletionRequest) goopenai.ChatCompletionRequest {
	messages := make([]goopenai.ChatCompletionMessage, len(req.Messages))
	for i, msg := range req.Messages {
		messages[i] = toOpenAIMessage(msg)
	}

	out := goopenai.ChatCompletionRequest{
		Model:               req.Model,
		Messages:            messages,
		MaxCompletionTokens: req.MaxTokens,
		Stream:              true,
	}
	if req.Temperature != nil {
		out.Temperature = *req.Temperature
	}
	return out
}

// toOpenAIMessage sets exactly one of Content and MultiContent; go-openai
// refuses to marshal a message carrying both.
func toOpenAIMessage(msg llmSvc.Message) goopenai.ChatCompletionMessage {
	if msg.Parts == nil {
		return goopenai.ChatCompletionMessage{Role: msg.Role, Content: msg.Content}
	}

	parts := make([]goopenai.ChatMessagePart, 0, len(msg.Parts))
	for _, part := range msg.Parts {
		switch part.Type {
		case llmSvc.PartTypeImageURL:
			if part.ImageURL == nil {
				continue
			}
			parts = append(parts, goopenai.ChatMessagePart{
				Type: goopenai.ChatMessagePartTypeImageURL,
				ImageURL: &goopenai.ChatMessageImageURL{
					URL:    part.ImageURL.URL,
					Detail: goopenai.ImageURLDetail(part.ImageURL.Detail),
				},
			})
		default:
			parts = append(parts, goopenai.ChatMessagePart{
				Type: goopenai.ChatMessagePartTypeText,
				Text: part.Text,
			})
		}
	}
	return goopenai.ChatCompletionMessage{Role: msg.Role, MultiContent: parts}
}

func (p *Provider) logAPIError(op string, err error) {
	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) {
		p.logger.Error("openai request failed",
			"op", op,
			"status", apiErr.HTTPStatusCode,
			"type", apiErr.Type,
			"message", apiErr.Message,
		)
		return
	}
	p.logger.Error("openai request failed", "op", op, "error", err)
}

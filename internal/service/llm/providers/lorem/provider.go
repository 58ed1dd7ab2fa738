package lorem

import (
	"context"
	"strings"
	"time"

	loremgen "github.com/bozaro/golorem"

	llmSvc "resumecrafter/internal/domain/services/llm"
)

// Provider is a mock completion provider that streams lorem ipsum text.
// Used for development without an API key (UPSTREAM_PROVIDER=lorem).
type Provider struct {
	generator *loremgen.Lorem
	delay     time.Duration
}

// NewProvider creates a lorem provider that waits delay between words.
func NewProvider(delay time.Duration) *Provider {
	return &Provider{
		generator: loremgen.New(),
		delay:     delay,
	}
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "lorem"
}

// StreamCompletion streams a few paragraphs one word per event, capped
// at req.MaxTokens words.
func (p *Provider) StreamCompletion(ctx context.Context, req *llmSvc.CompletionRequest) (<-chan llmSvc.StreamEvent, error) {
	maxWords := req.MaxTokens
	if maxWords <= 0 {
		maxWords = 200
	}
	words := strings.Fields(p.generateText(maxWords))

	events := make(chan llmSvc.StreamEvent)
	go func() {
		defer close(events)

		for i, word := range words {
			delta := word
			if i < len(words)-1 {
				delta += " "
			}

			select {
			case events <- llmSvc.StreamEvent{Delta: delta}:
			case <-ctx.Done():
				return
			}

			if p.delay > 0 {
				select {
				case <-time.After(p.delay):
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return events, nil
}

// generateText builds paragraphs until roughly targetWords words exist.
func (p *Provider) generateText(targetWords int) string {
	var paragraphs []string
	count := 0
	for count < targetWords && len(paragraphs) < 3 {
		paragraph := p.generator.Paragraph(3, 5)
		paragraphs = append(paragraphs, paragraph)
		count += len(strings.Fields(paragraph))
	}

	words := strings.Fields(strings.Join(paragraphs, "\n\n"))
	if len(words) > targetWords {
		words = words[:targetWords]
	}
	return strings.Join(words, " ")
}

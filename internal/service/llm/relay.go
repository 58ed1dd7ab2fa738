package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"resumecrafter/internal/domain"
	llmSvc "resumecrafter/internal/domain/services/llm"
)

// Relay forwards upstream fragments to a StreamSink as they arrive.
// Nothing is buffered: each non-empty delta becomes exactly one write.
type Relay struct {
	provider llmSvc.CompletionProvider
	timeout  time.Duration
	logger   *slog.Logger
}

// NewRelay creates a relay over provider. A zero timeout leaves
// generation bounded only by the request context.
func NewRelay(provider llmSvc.CompletionProvider, timeout time.Duration, logger *slog.Logger) *Relay {
	return &Relay{
		provider: provider,
		timeout:  timeout,
		logger:   logger,
	}
}

// Run submits req and relays its fragments to sink, closing sink when the
// upstream stream completes. On error sink is left open; callers inspect
// sink.Started() to decide between an error payload and truncation.
func (r *Relay) Run(ctx context.Context, req *llmSvc.CompletionRequest, sink llmSvc.StreamSink) error {
	if r.timeout > 0 {
		var cancelTimeout context.CancelFunc
		ctx, cancelTimeout = context.WithTimeout(ctx, r.timeout)
		defer cancelTimeout()
	}

	// Leaving Run for any reason stops the upstream request
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	start := time.Now()
	events, err := r.provider.StreamCompletion(ctx, req)
	if err != nil {
		return upstreamError(err)
	}

	fragments := 0
	for event := range events {
		if event.Err != nil {
			r.logger.Warn("upstream stream failed",
				"provider", r.provider.Name(),
				"fragments", fragments,
				"error", event.Err,
			)
			return upstreamError(event.Err)
		}
		if event.Delta == "" {
			continue
		}
		if err := sink.WriteFragment(event.Delta); err != nil {
			// Client went away; the deferred cancel aborts upstream
			return fmt.Errorf("write fragment: %w", err)
		}
		fragments++
	}

	// A provider closes its channel on cancellation without an error event
	if err := ctx.Err(); err != nil {
		return upstreamError(err)
	}

	r.logger.Debug("stream completed",
		"provider", r.provider.Name(),
		"model", req.Model,
		"fragments", fragments,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return sink.Close()
}

func upstreamError(err error) error {
	if errors.Is(err, domain.ErrUpstream) {
		return err
	}
	return fmt.Errorf("%w: %w", domain.ErrUpstream, err)
}

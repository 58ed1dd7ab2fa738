package llm

import (
	"context"
)

// StreamSink is the client-facing output of a relayed stream.
type StreamSink interface {
	// WriteFragment writes one text fragment and flushes it to the client.
	WriteFragment(text string) error

	// Close signals the end of the response.
	Close() error

	// Started reports whether any bytes reached the client.
	Started() bool
}

// ResumeService streams resume generations built from the composed
// system prompt.
type ResumeService interface {
	StreamResume(ctx context.Context, req *ResumeRequest, sink StreamSink) error
}

// GeneralChatService streams completions for a caller-supplied history,
// forwarded without a system prompt.
type GeneralChatService interface {
	StreamGeneral(ctx context.Context, req *GeneralChatRequest, sink StreamSink) error
}

// ResumeRequest is the input of a resume generation.
type ResumeRequest struct {
	UserID               string    // Optional; empty skips the preference lookup
	Messages             []Message
	JobDescription       string
	SpecialCustomization string
}

// GeneralChatRequest is the input of a general chat completion.
type GeneralChatRequest struct {
	Messages []Message
}

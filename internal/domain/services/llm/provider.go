package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
)

// Message roles accepted from clients and sent upstream
const (
	RoleSystem    = "system"
	RoleDeveloper = "developer"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Content part types accepted in an array-valued message content
const (
	PartTypeText     = "text"
	PartTypeImageURL = "image_url"
)

// Message is one entry of the conversation submitted upstream.
// Content holds a plain string body; Parts holds an array body
// (text and image_url parts). At most one of them is set.
type Message struct {
	Role    string
	Content string
	Parts   []ContentPart
}

// ContentPart is one element of an array-valued message content.
type ContentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *ImageURL `json:"image_url,omitempty"`
}

// ImageURL references an image attached to a message.
type ImageURL struct {
	URL    string `json:"url"`
	Detail string `json:"detail,omitempty"`
}

type wireMessage struct {
	Role    string          `json:"role"`
	Content json.RawMessage `json:"content,omitempty"`
}

// UnmarshalJSON accepts content as a string, an array of parts, or null.
func (m *Message) UnmarshalJSON(data []byte) error {
	var wire wireMessage
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	*m = Message{Role: wire.Role}
	content := bytes.TrimSpace(wire.Content)
	switch {
	case len(content) == 0 || bytes.Equal(content, []byte("null")):
		return nil
	case content[0] == '"':
		return json.Unmarshal(content, &m.Content)
	case content[0] == '[':
		if err := json.Unmarshal(content, &m.Parts); err != nil {
			return err
		}
		if m.Parts == nil {
			m.Parts = []ContentPart{}
		}
		return nil
	default:
		return errors.New("message content must be a string or an array of parts")
	}
}

// MarshalJSON writes Parts as the content array when set, else Content.
func (m Message) MarshalJSON() ([]byte, error) {
	var content interface{} = m.Content
	if m.Parts != nil {
		content = m.Parts
	}
	return json.Marshal(struct {
		Role    string      `json:"role"`
		Content interface{} `json:"content"`
	}{m.Role, content})
}

// CompletionProvider is the upstream completion capability.
// Implementations are constructed explicitly and injected.
type CompletionProvider interface {
	// Name returns the provider name (e.g., "openai", "lorem")
	Name() string

	// StreamCompletion submits req in streaming mode. The returned channel
	// yields fragments in arrival order and is closed when the upstream
	// stream ends. A failure is delivered as a final event with Err set.
	// Cancelling ctx stops the upstream request and closes the channel.
	StreamCompletion(ctx context.Context, req *CompletionRequest) (<-chan StreamEvent, error)
}

// CompletionRequest contains the parameters for one upstream generation.
type CompletionRequest struct {
	Model    string
	Messages []Message

	// MaxTokens bounds the generated output
	MaxTokens int

	// Temperature is nil when the provider default should be used
	Temperature *float32
}

// StreamEvent is one item of an upstream stream: either a text delta or
// the terminal error.
type StreamEvent struct {
	Delta string
	Err   error
}

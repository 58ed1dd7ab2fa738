package models

import (
	"time"
)

// Turn roles
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Part is one piece of a turn's content.
type Part struct {
	Text string `json:"text"`
	Img  string `json:"img,omitempty"` // Uploaded image path, if any
}

// Turn is one role-tagged entry in a chat's history.
// Turns are immutable once appended and always carry at least one part.
type Turn struct {
	Role  string `json:"role"` // "user" or "assistant"
	Parts []Part `json:"parts"`
}

// NewTextTurn builds a single-part turn.
func NewTextTurn(role, text, img string) Turn {
	return Turn{
		Role:  role,
		Parts: []Part{{Text: text, Img: img}},
	}
}

// ChatSession is one persisted conversation owned by a single user.
// History is append-only; insertion order is conversation order.
type ChatSession struct {
	ID        string    `json:"_id"`
	UserID    string    `json:"userId"`
	History   []Turn    `json:"history"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ChatSummary is the listing entry for a chat in a user's index.
type ChatSummary struct {
	ChatID    string    `json:"_id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
}

// UserChatIndex holds one user's chat summaries in creation order.
type UserChatIndex struct {
	UserID    string        `json:"userId"`
	Chats     []ChatSummary `json:"chats"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// AppendResult acknowledges a history append.
// MatchedCount is 0 when no chat matched the (chat id, user id) pair.
type AppendResult struct {
	Acknowledged  bool  `json:"acknowledged"`
	MatchedCount  int64 `json:"matchedCount"`
	ModifiedCount int64 `json:"modifiedCount"`
}

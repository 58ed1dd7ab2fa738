package models

import (
	"time"
)

// UserPreference stores the free-text "additional prompt" a user wants
// applied to every resume generation. One row per user; last write wins.
type UserPreference struct {
	UserID           string    `json:"user_id" db:"user_id"`
	AdditionalPrompt string    `json:"additional_prompt" db:"additional_prompt"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" db:"updated_at"`
}

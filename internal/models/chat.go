package models

import (
	"time"

	"github.com/google/uuid"
)

// MaxChatMessageLen is the longest accepted chat message, in runes.
const MaxChatMessageLen = 1000

// ChatMessage is one line in the campfire chat. Messages are append-only.
type ChatMessage struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`

	// UserName is resolved from the author's profile.
	UserName string `json:"user_name"`
}

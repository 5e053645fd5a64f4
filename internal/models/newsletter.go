package models

import (
	"time"

	"github.com/google/uuid"
)

// NewsletterSignup is a subscribed email address. Emails are stored
// trimmed and lower-cased, and are unique.
type NewsletterSignup struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	RemindDaily bool      `json:"remind_daily"`
	CreatedAt   time.Time `json:"created_at"`
}

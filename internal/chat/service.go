// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package chat is the campfire chat room: message history, posting with
// moderation, and realtime push over websockets fed by Postgres
// LISTEN/NOTIFY.
package chat

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"designcamp/internal/ai"
	"designcamp/internal/models"
)

// HistoryLimit is how many messages History and the timeline hold.
const HistoryLimit = 100

// Errors returned by Post. The messages are shown to users.
var (
	ErrEmptyMessage   = errors.New("Message cannot be empty.")
	ErrMessageTooLong = errors.New("Message must be 1000 characters or fewer.")
	ErrMessageFlagged = errors.New("Message was flagged by moderation.")
)

// Store is the chat persistence. *store.ChatStore satisfies it.
type Store interface {
	Insert(ctx context.Context, userID uuid.UUID, message string) (*models.ChatMessage, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.ChatMessage, error)
	Recent(ctx context.Context, limit int) ([]models.ChatMessage, error)
	After(ctx context.Context, since time.Time, limit int) ([]models.ChatMessage, error)
}

// Moderator checks text before it is posted. *ai.Registry satisfies it.
type Moderator interface {
	CheckPrompt(ctx context.Context, text string) (*ai.ModerationResult, error)
}

// Service reads and writes chat messages.
type Service struct {
	store     Store
	moderator Moderator
	hub       *Hub
}

// NewService creates the chat service. moderator and hub may be nil.
func NewService(store Store, moderator Moderator, hub *Hub) *Service {
	return &Service{store: store, moderator: moderator, hub: hub}
}

// History returns the latest messages, oldest first.
func (s *Service) History(ctx context.Context) ([]models.ChatMessage, error) {
	return s.store.Recent(ctx, HistoryLimit)
}

// Post validates, moderates and stores a message, then pushes it to
// connected clients.
func (s *Service) Post(ctx context.Context, userID uuid.UUID, text string) (*models.ChatMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}
	if utf8.RuneCountInString(text) > models.MaxChatMessageLen {
		return nil, ErrMessageTooLong
	}

	if s.moderator != nil {
		result, err := s.moderator.CheckPrompt(ctx, text)
		switch {
		case err != nil:
			// Fail open: an unreachable moderation API must not block chat.
			slog.Warn("chat moderation unavailable", "error", err)
		case !result.Safe:
			slog.Info("chat message flagged", "user_id", userID, "categories", result.Categories)
			return nil, ErrMessageFlagged
		}
	}

	m, err := s.store.Insert(ctx, userID, text)
	if err != nil {
		return nil, err
	}
	s.Deliver(*m)
	return m, nil
}

// Deliver pushes a stored message to websocket clients. Duplicates from
// the listener and from Post are collapsed by the timeline.
func (s *Service) Deliver(m models.ChatMessage) {
	if s.hub != nil {
		s.hub.Publish(m)
	}
}

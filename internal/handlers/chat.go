package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"designcamp/internal/chat"
	"designcamp/internal/middleware"
	"designcamp/internal/models"
)

// ChatService reads and posts chat messages. *chat.Service satisfies it.
type ChatService interface {
	History(ctx context.Context) ([]models.ChatMessage, error)
	Post(ctx context.Context, userID uuid.UUID, text string) (*models.ChatMessage, error)
}

// Chat serves the community chat. The websocket endpoint is handled by
// chat.Handler; this group covers the JSON routes.
type Chat struct {
	chat ChatService
}

// NewChat creates the handler group.
func NewChat(svc ChatService) *Chat {
	return &Chat{chat: svc}
}

type postMessageRequest struct {
	Message string `json:"message"`
}

// History returns the latest messages, oldest first.
func (h *Chat) History(w http.ResponseWriter, r *http.Request) {
	msgs, err := h.chat.History(r.Context())
	if err != nil {
		serverError(w, "chat history failed", err)
		return
	}
	if msgs == nil {
		msgs = []models.ChatMessage{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"messages": msgs})
}

// Post stores a message for the signed-in camper.
func (h *Chat) Post(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req postMessageRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	m, err := h.chat.Post(r.Context(), sess.UserID, req.Message)
	switch {
	case err == nil:
		writeJSON(w, http.StatusCreated, map[string]any{"message": m})
	case errors.Is(err, chat.ErrEmptyMessage),
		errors.Is(err, chat.ErrMessageTooLong),
		errors.Is(err, chat.ErrMessageFlagged):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		serverError(w, "post chat message failed", err)
	}
}

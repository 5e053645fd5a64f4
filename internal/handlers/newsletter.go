package handlers

import (
	"context"
	"errors"
	"net/http"

	"designcamp/internal/camp"
	"designcamp/internal/models"
)

// Subscriber records newsletter signups. *camp.NewsletterService
// satisfies it.
type Subscriber interface {
	Subscribe(ctx context.Context, email string, remindDaily bool) (*models.NewsletterSignup, error)
}

// Newsletter serves the signup form.
type Newsletter struct {
	signups Subscriber
}

// NewNewsletter creates the handler group.
func NewNewsletter(signups Subscriber) *Newsletter {
	return &Newsletter{signups: signups}
}

type subscribeRequest struct {
	Email       string `json:"email"`
	RemindDaily bool   `json:"remind_daily"`
}

// Subscribe adds an email to the newsletter. Signing up twice is not an
// error.
func (h *Newsletter) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req subscribeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	_, err := h.signups.Subscribe(r.Context(), req.Email, req.RemindDaily)
	switch {
	case err == nil:
		writeJSON(w, http.StatusCreated, map[string]string{"status": "subscribed"})
	case errors.Is(err, camp.ErrAlreadySubscribed):
		writeJSON(w, http.StatusOK, map[string]string{"status": "already_subscribed"})
	case errors.Is(err, camp.ErrInvalidEmail):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		serverError(w, "newsletter signup failed", err)
	}
}

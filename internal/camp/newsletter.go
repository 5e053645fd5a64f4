package camp

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"designcamp/internal/models"
	"designcamp/internal/validate"
)

// NewsletterService handles newsletter signups.
type NewsletterService struct {
	signups NewsletterRepo
}

// NewNewsletterService creates the service.
func NewNewsletterService(signups NewsletterRepo) *NewsletterService {
	return &NewsletterService{signups: signups}
}

// NormalizeEmail trims and lower-cases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Subscribe stores a signup. A repeat of an existing address, in any
// case or spacing, returns ErrAlreadySubscribed.
func (n *NewsletterService) Subscribe(ctx context.Context, email string, remindDaily bool) (*models.NewsletterSignup, error) {
	email = NormalizeEmail(email)
	if !strings.Contains(email, "@") || validate.Var(email, "required,email,max=255") != nil {
		return nil, ErrInvalidEmail
	}

	s, err := n.signups.Subscribe(ctx, email, remindDaily)
	if errors.Is(err, ErrAlreadySubscribed) {
		return nil, ErrAlreadySubscribed
	}
	if err != nil {
		return nil, err
	}
	slog.Info("newsletter signup", "remind_daily", remindDaily)
	return s, nil
}

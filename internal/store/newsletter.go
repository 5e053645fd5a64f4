package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"designcamp/internal/models"
)

// ErrAlreadySubscribed is returned when the email is already on the list.
var ErrAlreadySubscribed = errors.New("email already subscribed")

// NewsletterStore handles newsletter signups.
type NewsletterStore struct {
	db *sql.DB
}

// NewNewsletterStore creates a new NewsletterStore.
func NewNewsletterStore(db *sql.DB) *NewsletterStore {
	return &NewsletterStore{db: db}
}

const newsletterColumns = `id, email, remind_daily, created_at`

func scanSignup(row scanner) (*models.NewsletterSignup, error) {
	n := &models.NewsletterSignup{}
	if err := row.Scan(&n.ID, &n.Email, &n.RemindDaily, &n.CreatedAt); err != nil {
		return nil, err
	}
	return n, nil
}

// Subscribe adds an already-normalized email. A duplicate returns
// ErrAlreadySubscribed.
func (s *NewsletterStore) Subscribe(ctx context.Context, email string, remindDaily bool) (*models.NewsletterSignup, error) {
	n, err := scanSignup(s.db.QueryRowContext(ctx, `
		INSERT INTO newsletter_signups (email, remind_daily)
		VALUES ($1, $2)
		RETURNING `+newsletterColumns,
		email, remindDaily,
	))
	if IsUniqueViolation(err) {
		return nil, ErrAlreadySubscribed
	}
	if err != nil {
		return nil, fmt.Errorf("subscribe: %w", err)
	}
	return n, nil
}

// List returns every signup, newest first.
func (s *NewsletterStore) List(ctx context.Context) ([]models.NewsletterSignup, error) {
	return s.list(ctx, "list signups",
		`SELECT `+newsletterColumns+` FROM newsletter_signups ORDER BY created_at DESC`)
}

// ListReminders returns the signups that asked for the daily reminder.
func (s *NewsletterStore) ListReminders(ctx context.Context) ([]models.NewsletterSignup, error) {
	return s.list(ctx, "list reminder signups",
		`SELECT `+newsletterColumns+` FROM newsletter_signups WHERE remind_daily ORDER BY created_at`)
}

func (s *NewsletterStore) list(ctx context.Context, op, query string, args ...any) ([]models.NewsletterSignup, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var out []models.NewsletterSignup
	for rows.Next() {
		n, err := scanSignup(rows)
		if err != nil {
			return nil, fmt.Errorf("%s scan: %w", op, err)
		}
		out = append(out, *n)
	}
	return out, rows.Err()
}

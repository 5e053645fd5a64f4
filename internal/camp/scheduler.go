package camp

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"designcamp/internal/mail"
	"designcamp/internal/models"
)

// TodayProvider returns the current daily challenge.
type TodayProvider interface {
	Today(ctx context.Context) (*models.Challenge, error)
}

// Scheduler sends the daily reminder mail once per UTC day, at or after
// the configured hour. It also warms the daily challenge so the first
// visitor does not wait on generation.
type Scheduler struct {
	challenges  TodayProvider
	subscribers NewsletterRepo
	mailer      mail.Mailer
	hour        int
	siteURL     string
	interval    time.Duration
	now         func() time.Time

	lastRun string
}

// NewScheduler creates a scheduler that ticks every minute.
func NewScheduler(challenges TodayProvider, subscribers NewsletterRepo, mailer mail.Mailer, hourUTC int, siteURL string) *Scheduler {
	return &Scheduler{
		challenges:  challenges,
		subscribers: subscribers,
		mailer:      mailer,
		hour:        hourUTC,
		siteURL:     strings.TrimRight(siteURL, "/"),
		interval:    time.Minute,
		now:         time.Now,
	}
}

// Run ticks until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	slog.Info("reminder scheduler started", "hour_utc", s.hour)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			slog.Info("reminder scheduler stopped")
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

// tick sends today's reminders if they are due. It reports how many
// mails went out.
func (s *Scheduler) tick(ctx context.Context) int {
	now := s.now().UTC()
	day := now.Format(models.DateLayout)
	if now.Hour() < s.hour || s.lastRun == day {
		return 0
	}

	challenge, err := s.challenges.Today(ctx)
	if err != nil {
		// Retried on the next tick.
		slog.Error("reminder: could not load today's challenge", "error", err)
		return 0
	}

	subs, err := s.subscribers.ListReminders(ctx)
	if err != nil {
		slog.Error("reminder: could not list subscribers", "error", err)
		return 0
	}

	body := s.reminderBody(challenge)
	sent := 0
	for _, sub := range subs {
		if ctx.Err() != nil {
			return sent
		}
		msg := mail.Message{
			To:       sub.Email,
			Subject:  "Today's challenge: " + challenge.Title,
			Markdown: body,
		}
		if err := s.mailer.Send(ctx, msg); err != nil {
			slog.Warn("reminder: send failed", "error", err)
			continue
		}
		sent++
	}

	s.lastRun = day
	slog.Info("reminder mails sent", "date", day, "sent", sent, "subscribers", len(subs))
	return sent
}

func (s *Scheduler) reminderBody(c *models.Challenge) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", c.Title)
	fmt.Fprintf(&b, "**%s** · %s", c.Difficulty, c.Category)
	if c.TimeEstimate != "" {
		fmt.Fprintf(&b, " · %s", c.TimeEstimate)
	}
	b.WriteString("\n\n")
	if c.Description != "" {
		b.WriteString(c.Description)
		b.WriteString("\n\n")
	}
	if s.siteURL != "" {
		fmt.Fprintf(&b, "[Open today's challenge](%s/challenges/%s)\n", s.siteURL, c.ID)
	}
	return b.String()
}

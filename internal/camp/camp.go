// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package camp holds the Design Camp domain services: the daily challenge
// lifecycle, the Camp Track wizard and its recommendations, submission
// uploads, newsletter signups and the reminder scheduler. Services depend
// on small interfaces so HTTP handlers and tests can wire them freely.
package camp

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/google/uuid"

	"designcamp/internal/generator"
	"designcamp/internal/models"
	"designcamp/internal/store"
)

// Domain errors. Handlers match them with errors.Is.
var (
	ErrNoContent          = errors.New("Please add at least one image, Figma link, or external URL.")
	ErrTooManyImages      = errors.New("You can upload at most 5 images.")
	ErrUnsupportedImage   = errors.New("Images must be JPEG, PNG, GIF or WebP.")
	ErrImageTooLarge      = errors.New("Each image must be 10 MB or smaller.")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidEmail       = errors.New("Please enter a valid email address.")
	ErrIncomplete         = errors.New("preferences are incomplete")
	ErrInvalidFilter      = errors.New("invalid filter")
	ErrChallengeNotFound  = errors.New("challenge not found")
	ErrAlreadySubscribed  = store.ErrAlreadySubscribed
	ErrStorageUnavailable = errors.New("image storage is not configured")
)

// ChallengeRepo is the challenge persistence the services need.
type ChallengeRepo interface {
	FindByDate(ctx context.Context, date time.Time) (*models.Challenge, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Challenge, error)
	InsertForDate(ctx context.Context, c *models.Challenge) (*models.Challenge, error)
	Archive(ctx context.Context, today time.Time, f models.ArchiveFilter) ([]models.Challenge, error)
	MatchByDifficulty(ctx context.Context, level string, limit int) ([]models.Challenge, error)
}

// SubmissionRepo is the submission persistence the services need.
type SubmissionRepo interface {
	Create(ctx context.Context, sub *models.Submission) error
	ListRecent(ctx context.Context, limit int) ([]models.Submission, error)
	ListByChallenge(ctx context.Context, challengeID uuid.UUID, limit int) ([]models.Submission, error)
	HasSubmitted(ctx context.Context, userID, challengeID uuid.UUID) (bool, error)
}

// PreferencesRepo stores Camp Track answers.
type PreferencesRepo interface {
	Upsert(ctx context.Context, p *models.UserPreferences) (*models.UserPreferences, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) (*models.UserPreferences, error)
}

// TemplateRepo matches curated project templates.
type TemplateRepo interface {
	MatchBySkillLevel(ctx context.Context, level string, limit int) ([]models.ProjectTemplate, error)
}

// NewsletterRepo stores newsletter signups.
type NewsletterRepo interface {
	Subscribe(ctx context.Context, email string, remindDaily bool) (*models.NewsletterSignup, error)
	ListReminders(ctx context.Context) ([]models.NewsletterSignup, error)
}

// ObjectStore is the slice of *storage.Client used for submission images.
type ObjectStore interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) error
	Delete(ctx context.Context, key string) error
	FileURL(key string) string
}

// Invalidator drops cached responses. *cache.JSONCache satisfies it.
type Invalidator interface {
	Invalidate(ctx context.Context)
}

// ChallengeGenerator produces a new challenge. *generator.ChallengeGenerator
// satisfies it.
type ChallengeGenerator interface {
	Generate(ctx context.Context, h generator.Hints) (*models.Challenge, error)
}

// utcDate returns midnight UTC of the calendar date of t.
func utcDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

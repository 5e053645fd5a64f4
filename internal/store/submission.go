package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"designcamp/internal/models"
)

// SubmissionStore handles submission database operations.
type SubmissionStore struct {
	db *sql.DB
}

// NewSubmissionStore creates a new SubmissionStore.
func NewSubmissionStore(db *sql.DB) *SubmissionStore {
	return &SubmissionStore{db: db}
}

const submissionColumns = `s.id, s.challenge_id, s.user_id, s.image_urls, s.thumbnail_urls,
	s.figma_link, s.external_url, s.notes, s.created_at,
	COALESCE(p.name, ''), p.profile_image, COALESCE(c.title, '')`

const submissionFrom = ` FROM submissions s
	LEFT JOIN profiles p ON p.user_id = s.user_id
	LEFT JOIN challenges c ON c.id = s.challenge_id`

func scanSubmission(row scanner) (*models.Submission, error) {
	sub := &models.Submission{}
	var author string
	err := row.Scan(
		&sub.ID, &sub.ChallengeID, &sub.UserID, textArray(&sub.ImageURLs), textArray(&sub.ThumbnailURLs),
		&sub.FigmaLink, &sub.ExternalURL, &sub.Notes, &sub.CreatedAt,
		&author, &sub.AuthorImage, &sub.ChallengeTitle,
	)
	if err != nil {
		return nil, err
	}
	if author == "" {
		author = models.DefaultDisplayName
	}
	sub.AuthorName = author
	if sub.ImageURLs == nil {
		sub.ImageURLs = []string{}
	}
	if sub.ThumbnailURLs == nil {
		sub.ThumbnailURLs = []string{}
	}
	return sub, nil
}

// Create inserts a submission and returns its generated ID and timestamp.
func (s *SubmissionStore) Create(ctx context.Context, sub *models.Submission) error {
	images := sub.ImageURLs
	if images == nil {
		images = []string{}
	}
	thumbs := sub.ThumbnailURLs
	if thumbs == nil {
		thumbs = []string{}
	}

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO submissions (challenge_id, user_id, image_urls, thumbnail_urls, figma_link, external_url, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`,
		sub.ChallengeID, sub.UserID, images, thumbs, sub.FigmaLink, sub.ExternalURL, sub.Notes,
	).Scan(&sub.ID, &sub.CreatedAt)
	if err != nil {
		return fmt.Errorf("create submission: %w", err)
	}
	sub.ImageURLs = images
	sub.ThumbnailURLs = thumbs
	return nil
}

// FindByID returns one submission with its author and challenge title.
// Returns nil if not found.
func (s *SubmissionStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Submission, error) {
	sub, err := scanSubmission(s.db.QueryRowContext(ctx,
		`SELECT `+submissionColumns+submissionFrom+` WHERE s.id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find submission: %w", err)
	}
	return sub, nil
}

// ListRecent returns the newest submissions across all challenges.
func (s *SubmissionStore) ListRecent(ctx context.Context, limit int) ([]models.Submission, error) {
	return s.list(ctx, "list recent submissions",
		`SELECT `+submissionColumns+submissionFrom+` ORDER BY s.created_at DESC LIMIT $1`, limit)
}

// ListByChallenge returns a challenge's submissions, newest first.
func (s *SubmissionStore) ListByChallenge(ctx context.Context, challengeID uuid.UUID, limit int) ([]models.Submission, error) {
	return s.list(ctx, "list challenge submissions",
		`SELECT `+submissionColumns+submissionFrom+`
		 WHERE s.challenge_id = $1 ORDER BY s.created_at DESC LIMIT $2`, challengeID, limit)
}

// ListByUser returns a camper's own submissions, newest first.
func (s *SubmissionStore) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.Submission, error) {
	return s.list(ctx, "list user submissions",
		`SELECT `+submissionColumns+submissionFrom+`
		 WHERE s.user_id = $1 ORDER BY s.created_at DESC LIMIT $2`, userID, limit)
}

// HasSubmitted reports whether the user has any submission for the challenge.
func (s *SubmissionStore) HasSubmitted(ctx context.Context, userID, challengeID uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM submissions WHERE user_id = $1 AND challenge_id = $2)
	`, userID, challengeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("has submitted: %w", err)
	}
	return exists, nil
}

// Delete removes a submission by ID.
func (s *SubmissionStore) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM submissions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete submission: %w", err)
	}
	return nil
}

func (s *SubmissionStore) list(ctx context.Context, op, query string, args ...any) ([]models.Submission, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var out []models.Submission
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, fmt.Errorf("%s scan: %w", op, err)
		}
		out = append(out, *sub)
	}
	return out, rows.Err()
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"designcamp/internal/models"
)

// ChallengeStore handles challenge database operations.
type ChallengeStore struct {
	db *sql.DB
}

// NewChallengeStore creates a new ChallengeStore.
func NewChallengeStore(db *sql.DB) *ChallengeStore {
	return &ChallengeStore{db: db}
}

const challengeColumns = `id, title, description, category, difficulty, time_estimate, challenge_date,
	example_outputs, full_description, background_context, challenge_task, constraints,
	bonus_challenge, created_at`

func scanChallenge(row scanner) (*models.Challenge, error) {
	c := &models.Challenge{}
	var (
		timeEstimate, full, background, task, bonus *string
		constraints                                 []string
	)
	err := row.Scan(
		&c.ID, &c.Title, &c.Description, &c.Category, &c.Difficulty, &timeEstimate, &c.ChallengeDate,
		textArray(&c.ExampleOutputs), &full, &background, &task, textArray(&constraints),
		&bonus, &c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.TimeEstimate = deref(timeEstimate)
	c.ChallengeDate = dateOnly(c.ChallengeDate)
	c.Content = models.NewChallengeContent(deref(full), deref(background), deref(task), constraints, deref(bonus))
	return c, nil
}

// contentArgs splits a content variant back into its nullable columns.
func contentArgs(content models.ChallengeContent) (full, background, task *string, constraints []string, bonus *string) {
	constraints = []string{}
	switch c := content.(type) {
	case models.StructuredContent:
		background = nullIfEmpty(c.BackgroundContext)
		task = nullIfEmpty(c.ChallengeTask)
		bonus = nullIfEmpty(c.BonusChallenge)
		if c.Constraints != nil {
			constraints = c.Constraints
		}
	case models.LegacyContent:
		full = nullIfEmpty(c.FullDescription)
	}
	return
}

// dateOnly truncates t to midnight UTC of its calendar date.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// FindByDate returns the challenge scheduled for the given calendar date.
// Returns nil if none exists.
func (s *ChallengeStore) FindByDate(ctx context.Context, date time.Time) (*models.Challenge, error) {
	c, err := scanChallenge(s.db.QueryRowContext(ctx,
		`SELECT `+challengeColumns+` FROM challenges WHERE challenge_date = $1`,
		dateOnly(date)))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find challenge by date: %w", err)
	}
	return c, nil
}

// FindByID returns a challenge by ID. Returns nil if not found.
func (s *ChallengeStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Challenge, error) {
	c, err := scanChallenge(s.db.QueryRowContext(ctx,
		`SELECT `+challengeColumns+` FROM challenges WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find challenge by id: %w", err)
	}
	return c, nil
}

// InsertForDate stores c for its challenge date unless one already
// exists. It returns the stored row, or nil when another writer got there
// first.
func (s *ChallengeStore) InsertForDate(ctx context.Context, c *models.Challenge) (*models.Challenge, error) {
	full, background, task, constraints, bonus := contentArgs(c.Content)
	outputs := c.ExampleOutputs
	if outputs == nil {
		outputs = []string{}
	}

	out, err := scanChallenge(s.db.QueryRowContext(ctx, `
		INSERT INTO challenges (title, description, category, difficulty, time_estimate, challenge_date,
			example_outputs, full_description, background_context, challenge_task, constraints, bonus_challenge)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (challenge_date) DO NOTHING
		RETURNING `+challengeColumns,
		c.Title, c.Description, c.Category, c.Difficulty, nullIfEmpty(c.TimeEstimate), dateOnly(c.ChallengeDate),
		outputs, full, background, task, constraints, bonus,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("insert challenge: %w", err)
	}
	return out, nil
}

// Create stores a challenge and fails with a unique violation when the
// date is taken. Used by the admin API.
func (s *ChallengeStore) Create(ctx context.Context, c *models.Challenge) (*models.Challenge, error) {
	full, background, task, constraints, bonus := contentArgs(c.Content)
	outputs := c.ExampleOutputs
	if outputs == nil {
		outputs = []string{}
	}

	out, err := scanChallenge(s.db.QueryRowContext(ctx, `
		INSERT INTO challenges (title, description, category, difficulty, time_estimate, challenge_date,
			example_outputs, full_description, background_context, challenge_task, constraints, bonus_challenge)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING `+challengeColumns,
		c.Title, c.Description, c.Category, c.Difficulty, nullIfEmpty(c.TimeEstimate), dateOnly(c.ChallengeDate),
		outputs, full, background, task, constraints, bonus,
	))
	if err != nil {
		return nil, fmt.Errorf("create challenge: %w", err)
	}
	return out, nil
}

// Delete removes a challenge by ID. Its submissions cascade.
func (s *ChallengeStore) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM challenges WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete challenge: %w", err)
	}
	return nil
}

// Count returns the number of stored challenges.
func (s *ChallengeStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM challenges`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count challenges: %w", err)
	}
	return n, nil
}

// Archive lists past and present challenges, newest first. The filter
// must already be normalized; empty fields match everything.
func (s *ChallengeStore) Archive(ctx context.Context, today time.Time, f models.ArchiveFilter) ([]models.Challenge, error) {
	var (
		where = []string{"challenge_date <= $1"}
		args  = []any{dateOnly(today)}
	)
	if f.Difficulty != "" {
		args = append(args, f.Difficulty)
		where = append(where, fmt.Sprintf("difficulty = $%d", len(args)))
	}
	if f.Category != "" {
		args = append(args, f.Category)
		where = append(where, fmt.Sprintf("category = $%d", len(args)))
	}

	query := `SELECT ` + challengeColumns + ` FROM challenges WHERE ` +
		strings.Join(where, " AND ") + ` ORDER BY challenge_date DESC`
	return s.list(ctx, "archive challenges", query, args...)
}

// List returns every challenge, scheduled ones included, newest date
// first. Used by the admin API.
func (s *ChallengeStore) List(ctx context.Context) ([]models.Challenge, error) {
	return s.list(ctx, "list challenges",
		`SELECT `+challengeColumns+` FROM challenges ORDER BY challenge_date DESC`)
}

// MatchByDifficulty returns up to limit challenges whose difficulty is
// exactly level, newest first.
func (s *ChallengeStore) MatchByDifficulty(ctx context.Context, level string, limit int) ([]models.Challenge, error) {
	return s.list(ctx, "match challenges",
		`SELECT `+challengeColumns+` FROM challenges
		 WHERE difficulty = $1
		 ORDER BY challenge_date DESC
		 LIMIT $2`, level, limit)
}

func (s *ChallengeStore) list(ctx context.Context, op, query string, args ...any) ([]models.Challenge, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var out []models.Challenge
	for rows.Next() {
		c, err := scanChallenge(rows)
		if err != nil {
			return nil, fmt.Errorf("%s scan: %w", op, err)
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

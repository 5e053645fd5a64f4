package camp

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"designcamp/internal/generator"
	"designcamp/internal/models"
)

// DefaultGenerateTimeout bounds one detached daily generation.
const DefaultGenerateTimeout = 90 * time.Second

// SubmissionChecker reports whether a camper has submitted to a challenge.
type SubmissionChecker interface {
	HasSubmitted(ctx context.Context, userID, challengeID uuid.UUID) (bool, error)
}

// ChallengeService serves the daily challenge and the archive. The daily
// challenge is generated lazily on the first request of a UTC day.
type ChallengeService struct {
	challenges  ChallengeRepo
	gen         ChallengeGenerator
	submissions SubmissionChecker

	group   singleflight.Group
	timeout time.Duration
	now     func() time.Time
}

// NewChallengeService creates the service.
func NewChallengeService(challenges ChallengeRepo, gen ChallengeGenerator, submissions SubmissionChecker) *ChallengeService {
	return &ChallengeService{
		challenges:  challenges,
		gen:         gen,
		submissions: submissions,
		timeout:     DefaultGenerateTimeout,
		now:         time.Now,
	}
}

// Today returns the challenge for the current UTC date, generating and
// storing it on a miss. Concurrent callers for the same date share one
// generation; a caller that gives up does not cancel it for the others.
func (s *ChallengeService) Today(ctx context.Context) (*models.Challenge, error) {
	today := utcDate(s.now())

	c, err := s.challenges.FindByDate(ctx, today)
	if err != nil {
		return nil, err
	}
	if c != nil {
		return c, nil
	}

	key := today.Format(models.DateLayout)
	ch := s.group.DoChan(key, func() (any, error) {
		gctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
		defer cancel()
		return s.generateFor(gctx, today)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*models.Challenge), nil
	}
}

// generateFor runs inside the singleflight group.
func (s *ChallengeService) generateFor(ctx context.Context, date time.Time) (*models.Challenge, error) {
	// Another process may have stored it since the first lookup.
	if c, err := s.challenges.FindByDate(ctx, date); err != nil || c != nil {
		return c, err
	}

	slog.Info("no challenge for today, generating", "date", date.Format(models.DateLayout))
	c, err := s.gen.Generate(ctx, generator.Hints{})
	if err != nil {
		slog.Error("daily challenge generation failed", "error", err)
		return nil, err
	}
	c.ChallengeDate = date

	stored, err := s.challenges.InsertForDate(ctx, c)
	if err != nil {
		return nil, err
	}
	if stored != nil {
		return stored, nil
	}

	// Lost the race to another writer; return the row that won.
	slog.Info("daily challenge already stored by another writer", "date", date.Format(models.DateLayout))
	winner, err := s.challenges.FindByDate(ctx, date)
	if err != nil {
		return nil, err
	}
	if winner == nil {
		return nil, fmt.Errorf("challenge for %s vanished after insert conflict", date.Format(models.DateLayout))
	}
	return winner, nil
}

// NextChallengeIn returns the time left until the next UTC midnight.
func (s *ChallengeService) NextChallengeIn(now time.Time) time.Duration {
	return utcDate(now).AddDate(0, 0, 1).Sub(now)
}

// ByID returns a challenge or ErrChallengeNotFound.
func (s *ChallengeService) ByID(ctx context.Context, id uuid.UUID) (*models.Challenge, error) {
	c, err := s.challenges.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrChallengeNotFound
	}
	return c, nil
}

// Archive lists past and current challenges, newest first. Unknown
// filter values return ErrInvalidFilter.
func (s *ChallengeService) Archive(ctx context.Context, f models.ArchiveFilter) ([]models.Challenge, error) {
	nf, err := f.Normalize()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFilter, err)
	}
	return s.challenges.Archive(ctx, utcDate(s.now()), nf)
}

// HasSubmitted reports whether the user has submitted to the challenge.
func (s *ChallengeService) HasSubmitted(ctx context.Context, challengeID, userID uuid.UUID) (bool, error) {
	if s.submissions == nil || userID == uuid.Nil {
		return false, nil
	}
	ok, err := s.submissions.HasSubmitted(ctx, userID, challengeID)
	if err != nil {
		return false, fmt.Errorf("has submitted: %w", err)
	}
	return ok, nil
}

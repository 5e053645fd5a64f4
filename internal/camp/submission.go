// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package camp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"

	"designcamp/internal/imaging"
	"designcamp/internal/models"
	"designcamp/internal/validate"
)

const (
	// MaxImageBytes caps the size of one uploaded image.
	MaxImageBytes = 10 << 20
	// GalleryLimit is how many submissions the gallery shows.
	GalleryLimit = 50
	// challengeSubmissionsLimit caps a challenge's submission list.
	challengeSubmissionsLimit = 100
	// keySuffixLen is the length of the random part of a storage key.
	keySuffixLen = 10
)

// Image is one uploaded file.
type Image struct {
	Filename string
	Data     []byte
}

// SubmissionInput is a camper's submission before storage.
type SubmissionInput struct {
	ChallengeID uuid.UUID `json:"challenge_id"`
	UserID      uuid.UUID `json:"user_id"`
	Images      []Image   `json:"-"`
	FigmaLink   string    `json:"figma_link" validate:"omitempty,http_url,max=2048"`
	ExternalURL string    `json:"external_url" validate:"omitempty,http_url,max=2048"`
	Notes       string    `json:"notes" validate:"max=5000"`
}

// hasContent reports whether the input carries something to look at.
// Notes alone do not count.
func (in SubmissionInput) hasContent() bool {
	return len(in.Images) > 0 || in.FigmaLink != "" || in.ExternalURL != ""
}

// SubmissionService validates, stores and lists challenge submissions.
type SubmissionService struct {
	submissions SubmissionRepo
	challenges  ChallengeRepo
	objects     ObjectStore
	leaderboard Invalidator
	now         func() time.Time
}

// NewSubmissionService creates the service. objects may be nil when
// storage is not configured; image uploads then fail with
// ErrStorageUnavailable while link-only submissions still work.
func NewSubmissionService(submissions SubmissionRepo, challenges ChallengeRepo, objects ObjectStore, leaderboard Invalidator) *SubmissionService {
	return &SubmissionService{
		submissions: submissions,
		challenges:  challenges,
		objects:     objects,
		leaderboard: leaderboard,
		now:         time.Now,
	}
}

// preparedImage is a validated upload with its storage keys.
type preparedImage struct {
	data     []byte
	format   imaging.Format
	key      string
	thumb    []byte
	thumbKey string
}

// Submit validates the input, uploads images and thumbnails, and stores
// the submission. Any failure abandons the whole submission; objects
// already uploaded are removed on a best-effort basis.
func (s *SubmissionService) Submit(ctx context.Context, in SubmissionInput) (*models.Submission, error) {
	in.FigmaLink = strings.TrimSpace(in.FigmaLink)
	in.ExternalURL = strings.TrimSpace(in.ExternalURL)
	in.Notes = strings.TrimSpace(in.Notes)

	if len(in.Images) > models.MaxSubmissionImages {
		return nil, ErrTooManyImages
	}
	if !in.hasContent() {
		return nil, ErrNoContent
	}
	if err := validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, validate.Message(err))
	}

	images, err := s.prepare(in)
	if err != nil {
		return nil, err
	}
	if len(images) > 0 && s.objects == nil {
		return nil, ErrStorageUnavailable
	}

	challenge, err := s.challenges.FindByID(ctx, in.ChallengeID)
	if err != nil {
		return nil, err
	}
	if challenge == nil {
		return nil, ErrChallengeNotFound
	}

	var uploaded []string
	cleanup := func() {
		// Detached so a cancelled request still removes its objects.
		cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
		defer cancel()
		for _, key := range uploaded {
			if err := s.objects.Delete(cctx, key); err != nil {
				slog.Warn("failed to remove orphaned upload", "key", key, "error", err)
			}
		}
	}

	sub := &models.Submission{
		ChallengeID:   in.ChallengeID,
		UserID:        in.UserID,
		ImageURLs:     make([]string, 0, len(images)),
		ThumbnailURLs: make([]string, 0, len(images)),
		FigmaLink:     optional(in.FigmaLink),
		ExternalURL:   optional(in.ExternalURL),
		Notes:         optional(in.Notes),
	}

	for _, img := range images {
		if err := s.objects.Upload(ctx, img.key, img.format.ContentType, bytes.NewReader(img.data), int64(len(img.data))); err != nil {
			cleanup()
			return nil, fmt.Errorf("upload image: %w", err)
		}
		uploaded = append(uploaded, img.key)
		url := s.objects.FileURL(img.key)
		sub.ImageURLs = append(sub.ImageURLs, url)

		thumbURL := url
		if img.thumb != nil {
			if err := s.objects.Upload(ctx, img.thumbKey, "image/jpeg", bytes.NewReader(img.thumb), int64(len(img.thumb))); err != nil {
				cleanup()
				return nil, fmt.Errorf("upload thumbnail: %w", err)
			}
			uploaded = append(uploaded, img.thumbKey)
			thumbURL = s.objects.FileURL(img.thumbKey)
		}
		sub.ThumbnailURLs = append(sub.ThumbnailURLs, thumbURL)
	}

	if err := s.submissions.Create(ctx, sub); err != nil {
		cleanup()
		return nil, err
	}

	if s.leaderboard != nil {
		s.leaderboard.Invalidate(ctx)
	}
	slog.Info("submission created", "submission_id", sub.ID, "challenge_id", sub.ChallengeID, "images", len(images))
	return sub, nil
}

// prepare sniffs, size-checks and thumbnails every image, and assigns
// storage keys. Nothing is uploaded yet.
func (s *SubmissionService) prepare(in SubmissionInput) ([]preparedImage, error) {
	out := make([]preparedImage, 0, len(in.Images))
	stamp := s.now().UnixMilli()
	for _, img := range in.Images {
		if len(img.Data) > MaxImageBytes {
			return nil, ErrImageTooLarge
		}
		format, ok := imaging.Sniff(img.Data)
		if !ok {
			return nil, ErrUnsupportedImage
		}
		suffix, err := gonanoid.New(keySuffixLen)
		if err != nil {
			return nil, fmt.Errorf("storage key: %w", err)
		}

		base := fmt.Sprintf("%s/%s/%d-%s", in.UserID, in.ChallengeID, stamp, suffix)
		p := preparedImage{
			data:     img.Data,
			format:   format,
			key:      base + "." + format.Ext,
			thumbKey: base + imaging.ThumbSuffix,
		}

		thumb, err := imaging.Thumbnail(img.Data, imaging.ThumbWidth)
		switch {
		case err == nil:
			p.thumb = thumb
		case errors.Is(err, imaging.ErrNoThumbnail):
		default:
			// Undecodable but correctly sniffed; keep the original only.
			slog.Warn("thumbnail generation failed", "filename", img.Filename, "error", err)
		}
		out = append(out, p)
	}
	return out, nil
}

// Gallery returns the most recent submissions across all challenges.
func (s *SubmissionService) Gallery(ctx context.Context) ([]models.Submission, error) {
	return s.submissions.ListRecent(ctx, GalleryLimit)
}

// ForChallenge returns a challenge's submissions, newest first.
func (s *SubmissionService) ForChallenge(ctx context.Context, challengeID uuid.UUID) ([]models.Submission, error) {
	return s.submissions.ListByChallenge(ctx, challengeID, challengeSubmissionsLimit)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

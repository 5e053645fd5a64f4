package handlers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/google/uuid"

	"designcamp/internal/ai"
	"designcamp/internal/camp"
	"designcamp/internal/generator"
	"designcamp/internal/markdown"
	"designcamp/internal/middleware"
	"designcamp/internal/models"
)

const (
	// maxUploadBody caps a whole multipart submission.
	maxUploadBody = models.MaxSubmissionImages*camp.MaxImageBytes + 1<<20
	// multipartMemory is how much of a form is buffered in memory before
	// spilling to temp files.
	multipartMemory = 32 << 20
)

// ChallengeService is the challenge lifecycle the handlers need.
// *camp.ChallengeService satisfies it.
type ChallengeService interface {
	Today(ctx context.Context) (*models.Challenge, error)
	NextChallengeIn(now time.Time) time.Duration
	ByID(ctx context.Context, id uuid.UUID) (*models.Challenge, error)
	Archive(ctx context.Context, f models.ArchiveFilter) ([]models.Challenge, error)
	HasSubmitted(ctx context.Context, challengeID, userID uuid.UUID) (bool, error)
}

// SubmissionService stores and lists submissions. *camp.SubmissionService
// satisfies it.
type SubmissionService interface {
	Submit(ctx context.Context, in camp.SubmissionInput) (*models.Submission, error)
	Gallery(ctx context.Context) ([]models.Submission, error)
	ForChallenge(ctx context.Context, challengeID uuid.UUID) ([]models.Submission, error)
}

// Challenges groups the daily challenge, archive and submission handlers.
type Challenges struct {
	challenges  ChallengeService
	submissions SubmissionService
	now         func() time.Time
}

// NewChallenges creates the handler group.
func NewChallenges(challenges ChallengeService, submissions SubmissionService) *Challenges {
	return &Challenges{challenges: challenges, submissions: submissions, now: time.Now}
}

type todayResponse struct {
	Challenge              *models.Challenge `json:"challenge"`
	HasSubmitted           *bool             `json:"has_submitted,omitempty"`
	NextChallengeInSeconds int64             `json:"next_challenge_in_seconds"`
}

// Today returns the challenge of the current UTC day, generating it on
// the first request of the day.
func (h *Challenges) Today(w http.ResponseWriter, r *http.Request) {
	c, err := h.challenges.Today(r.Context())
	if err != nil {
		writeGeneratorError(w, "today's challenge unavailable", err)
		return
	}

	resp := todayResponse{
		Challenge:              c,
		NextChallengeInSeconds: int64(h.challenges.NextChallengeIn(h.now()).Seconds()),
	}
	if sess := middleware.SessionFromCtx(r.Context()); sess != nil {
		done, err := h.challenges.HasSubmitted(r.Context(), c.ID, sess.UserID)
		if err != nil {
			slog.Warn("has submitted lookup failed", "error", err)
		}
		resp.HasSubmitted = &done
	}

	writeJSON(w, http.StatusOK, resp)
}

// Archive lists past challenges, optionally filtered by difficulty and
// category.
func (h *Challenges) Archive(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	list, err := h.challenges.Archive(r.Context(), models.ArchiveFilter{
		Difficulty: q.Get("difficulty"),
		Category:   q.Get("category"),
	})
	if errors.Is(err, camp.ErrInvalidFilter) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		serverError(w, "archive failed", err)
		return
	}
	if list == nil {
		list = []models.Challenge{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"challenges": list})
}

// Detail returns one challenge with its brief rendered to HTML.
func (h *Challenges) Detail(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	c, ok := h.lookup(w, r, id)
	if !ok {
		return
	}

	var contentHTML string
	if c.Content != nil {
		html, err := markdown.ToHTML(c.Content.Markdown())
		if err != nil {
			slog.Warn("render challenge brief failed", "challenge_id", c.ID, "error", err)
		}
		contentHTML = html
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"challenge":    c,
		"content_html": contentHTML,
	})
}

// ListSubmissions returns the submissions made to one challenge.
func (h *Challenges) ListSubmissions(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if _, ok := h.lookup(w, r, id); !ok {
		return
	}

	subs, err := h.submissions.ForChallenge(r.Context(), id)
	if err != nil {
		serverError(w, "list challenge submissions failed", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"submissions": orEmptySubs(subs)})
}

// Submit accepts a multipart submission: up to five "images" plus the
// optional "figma_link", "external_url" and "notes" fields.
func (h *Challenges) Submit(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBody)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "Upload too large")
			return
		}
		writeError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	files := r.MultipartForm.File["images"]
	if len(files) > models.MaxSubmissionImages {
		writeError(w, http.StatusBadRequest, camp.ErrTooManyImages.Error())
		return
	}
	images, err := readImages(files)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Could not read uploaded image")
		return
	}

	sub, err := h.submissions.Submit(r.Context(), camp.SubmissionInput{
		ChallengeID: id,
		UserID:      sess.UserID,
		Images:      images,
		FigmaLink:   r.FormValue("figma_link"),
		ExternalURL: r.FormValue("external_url"),
		Notes:       r.FormValue("notes"),
	})
	switch {
	case err == nil:
		writeJSON(w, http.StatusCreated, map[string]any{"submission": sub})
	case errors.Is(err, camp.ErrNoContent),
		errors.Is(err, camp.ErrTooManyImages),
		errors.Is(err, camp.ErrUnsupportedImage),
		errors.Is(err, camp.ErrImageTooLarge),
		errors.Is(err, camp.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, camp.ErrChallengeNotFound):
		writeError(w, http.StatusNotFound, "Challenge not found")
	case errors.Is(err, camp.ErrStorageUnavailable):
		writeError(w, http.StatusServiceUnavailable, "Image uploads are not available right now.")
	default:
		serverError(w, "submission failed", err)
	}
}

// lookup loads a challenge, answering 404 or 500 when it cannot.
func (h *Challenges) lookup(w http.ResponseWriter, r *http.Request, id uuid.UUID) (*models.Challenge, bool) {
	c, err := h.challenges.ByID(r.Context(), id)
	if errors.Is(err, camp.ErrChallengeNotFound) {
		writeError(w, http.StatusNotFound, "Challenge not found")
		return nil, false
	}
	if err != nil {
		serverError(w, "challenge lookup failed", err)
		return nil, false
	}
	return c, true
}

// readImages reads each uploaded file, keeping one byte past the size
// limit so the service can reject oversized images.
func readImages(files []*multipart.FileHeader) ([]camp.Image, error) {
	images := make([]camp.Image, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(io.LimitReader(f, camp.MaxImageBytes+1))
		f.Close()
		if err != nil {
			return nil, err
		}
		images = append(images, camp.Image{Filename: fh.Filename, Data: data})
	}
	return images, nil
}

// writeGeneratorError maps generator failures onto 429, 402 or 500. Only
// upstream provider failures are shown to the client; anything else is
// logged and answered with a generic message.
func writeGeneratorError(w http.ResponseWriter, msg string, err error) {
	var apiErr *ai.APIError
	switch {
	case errors.Is(err, generator.ErrRateLimited):
		writeError(w, http.StatusTooManyRequests, err.Error())
	case errors.Is(err, generator.ErrCreditsExhausted):
		writeError(w, http.StatusPaymentRequired, err.Error())
	case errors.Is(err, generator.ErrMalformedResponse),
		errors.Is(err, ai.ErrNoProvider),
		errors.As(err, &apiErr):
		slog.Error(msg, "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
	default:
		serverError(w, msg, err)
	}
}

func orEmptySubs(subs []models.Submission) []models.Submission {
	if subs == nil {
		return []models.Submission{}
	}
	return subs
}

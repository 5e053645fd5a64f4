package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"designcamp/internal/camp"
	"designcamp/internal/middleware"
	"designcamp/internal/models"
)

// TrackService saves Camp Track answers and recommends activities.
// *camp.TrackService satisfies it.
type TrackService interface {
	Save(ctx context.Context, userID uuid.UUID, a camp.Answers) (*models.UserPreferences, error)
	Load(ctx context.Context, userID uuid.UUID) (*models.UserPreferences, error)
	Recommend(ctx context.Context, p *models.UserPreferences) ([]camp.Recommendation, error)
}

// CampTrack serves the preference wizard.
type CampTrack struct {
	track TrackService
}

// NewCampTrack creates the handler group.
func NewCampTrack(track TrackService) *CampTrack {
	return &CampTrack{track: track}
}

type trackResponse struct {
	Preferences     *models.UserPreferences `json:"preferences"`
	Recommendations []camp.Recommendation   `json:"recommendations"`
}

// Get returns the saved answers and their recommendations. A camper who
// never finished the wizard gets null preferences.
func (h *CampTrack) Get(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	prefs, err := h.track.Load(r.Context(), sess.UserID)
	if err != nil {
		serverError(w, "load preferences failed", err)
		return
	}
	h.respond(w, r, http.StatusOK, prefs)
}

// Put saves the wizard answers. The latest save replaces earlier ones.
func (h *CampTrack) Put(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var answers camp.Answers
	if !decodeJSON(w, r, &answers) {
		return
	}

	prefs, err := h.track.Save(r.Context(), sess.UserID, answers)
	var incomplete *camp.IncompleteError
	if errors.As(err, &incomplete) {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error": fmt.Sprintf("Please complete step %d of %d.", incomplete.Step, camp.TotalSteps),
			"step":  int(incomplete.Step),
			"field": incomplete.Step.Field(),
		})
		return
	}
	if err != nil {
		serverError(w, "save preferences failed", err)
		return
	}
	h.respond(w, r, http.StatusOK, prefs)
}

func (h *CampTrack) respond(w http.ResponseWriter, r *http.Request, status int, prefs *models.UserPreferences) {
	recs, err := h.track.Recommend(r.Context(), prefs)
	if err != nil {
		serverError(w, "recommend failed", err)
		return
	}
	if recs == nil {
		recs = []camp.Recommendation{}
	}
	writeJSON(w, status, trackResponse{Preferences: prefs, Recommendations: recs})
}

// Options lists the choices the wizard offers on each step. Goals, tools
// and hours outside these lists are still accepted.
func (h *CampTrack) Options(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"skill_levels": models.SkillLevels,
		"goals":        models.Goals,
		"tools":        models.Tools,
		"weekly_hours": models.WeeklyHourOptions,
	})
}

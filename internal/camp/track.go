// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package camp

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"designcamp/internal/models"
)

const (
	// recommendLimit caps each recommendation source.
	recommendLimit = 3
	// defaultChallengeDuration is shown for challenges without an estimate.
	defaultChallengeDuration = "30-60 min"
)

// Recommendation kinds.
const (
	RecommendChallenge = "challenge"
	RecommendProject   = "project"
)

// Recommendation is one suggested activity on the Camp Track results page.
type Recommendation struct {
	ID          *uuid.UUID `json:"id,omitempty"`
	Type        string     `json:"type"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Duration    string     `json:"duration"`
	Difficulty  string     `json:"difficulty"`
	Category    string     `json:"category"`
}

// IncompleteError reports the first wizard step that blocks a save.
type IncompleteError struct {
	Step Step
}

func (e *IncompleteError) Error() string {
	return fmt.Sprintf("step %d (%s) is incomplete", e.Step, e.Step.Field())
}

// Unwrap lets errors.Is match ErrIncomplete.
func (e *IncompleteError) Unwrap() error { return ErrIncomplete }

// TrackService saves Camp Track answers and builds recommendations.
type TrackService struct {
	prefs      PreferencesRepo
	challenges ChallengeRepo
	templates  TemplateRepo
}

// NewTrackService creates the service.
func NewTrackService(prefs PreferencesRepo, challenges ChallengeRepo, templates TemplateRepo) *TrackService {
	return &TrackService{prefs: prefs, challenges: challenges, templates: templates}
}

// Save validates the answers through the wizard and upserts them. The
// last write wins.
func (t *TrackService) Save(ctx context.Context, userID uuid.UUID, a Answers) (*models.UserPreferences, error) {
	w := LoadWizard(a)
	if step, incomplete := w.FirstIncompleteStep(); incomplete {
		return nil, &IncompleteError{Step: step}
	}
	p, err := t.prefs.Upsert(ctx, w.Preferences(userID))
	if err != nil {
		return nil, err
	}
	slog.Info("camp track saved", "user_id", userID, "skill_level", p.SkillLevel)
	return p, nil
}

// Load returns the user's saved preferences, or nil.
func (t *TrackService) Load(ctx context.Context, userID uuid.UUID) (*models.UserPreferences, error) {
	return t.prefs.FindByUserID(ctx, userID)
}

// Recommend matches challenges and project templates against the skill
// level. With no matches it falls back to one practice suggestion per
// goal, for at most three goals.
func (t *TrackService) Recommend(ctx context.Context, p *models.UserPreferences) ([]Recommendation, error) {
	if p == nil {
		return []Recommendation{}, nil
	}
	level := string(p.SkillLevel)

	challenges, err := t.challenges.MatchByDifficulty(ctx, level, recommendLimit)
	if err != nil {
		return nil, err
	}
	templates, err := t.templates.MatchBySkillLevel(ctx, level, recommendLimit)
	if err != nil {
		return nil, err
	}

	recs := make([]Recommendation, 0, len(challenges)+len(templates))
	for _, c := range challenges {
		duration := c.TimeEstimate
		if duration == "" {
			duration = defaultChallengeDuration
		}
		recs = append(recs, Recommendation{
			ID:          &c.ID,
			Type:        RecommendChallenge,
			Title:       c.Title,
			Description: c.Description,
			Duration:    duration,
			Difficulty:  string(c.Difficulty),
			Category:    string(c.Category),
		})
	}
	for _, tpl := range templates {
		recs = append(recs, Recommendation{
			ID:          &tpl.ID,
			Type:        RecommendProject,
			Title:       tpl.Title,
			Description: tpl.Description,
			Duration:    tpl.TimeEstimate,
			Difficulty:  tpl.SkillLevel,
			Category:    tpl.ProjectType,
		})
	}
	if len(recs) > 0 {
		return recs, nil
	}

	duration := "3-5 hours"
	if p.WeeklyHours <= 2 {
		duration = "1-2 hours"
	}
	goals := p.Goals
	if len(goals) > recommendLimit {
		goals = goals[:recommendLimit]
	}
	for _, g := range goals {
		label := goalLabel(g)
		recs = append(recs, Recommendation{
			Type:        RecommendProject,
			Title:       label + " Practice",
			Description: "Build your " + label + " skills with focused exercises.",
			Duration:    duration,
			Difficulty:  level,
			Category:    g,
		})
	}
	return recs, nil
}

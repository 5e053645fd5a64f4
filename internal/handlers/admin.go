// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"designcamp/internal/models"
	"designcamp/internal/store"
	"designcamp/internal/validate"
)

// AdminChallengeRepo is the challenge CRUD used by admins.
// *store.ChallengeStore satisfies it.
type AdminChallengeRepo interface {
	List(ctx context.Context) ([]models.Challenge, error)
	Create(ctx context.Context, c *models.Challenge) (*models.Challenge, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// AdminTemplateRepo is the project template CRUD used by admins.
// *store.ProjectTemplateStore satisfies it.
type AdminTemplateRepo interface {
	List(ctx context.Context) ([]models.ProjectTemplate, error)
	Create(ctx context.Context, p *models.ProjectTemplate) (*models.ProjectTemplate, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// SubscriberLister lists newsletter signups. *store.NewsletterStore
// satisfies it.
type SubscriberLister interface {
	List(ctx context.Context) ([]models.NewsletterSignup, error)
}

// ProviderSwitcher selects the active LLM provider. *ai.Registry
// satisfies it.
type ProviderSwitcher interface {
	ActiveName() string
	Available() []string
	SetActive(name string) error
}

// CacheInvalidator drops cached responses. *cache.JSONCache satisfies it.
type CacheInvalidator interface {
	Invalidate(ctx context.Context)
}

// Admin groups the admin-only handlers. All routes sit behind
// authentication, 2FA, the admin role and CSRF checks.
type Admin struct {
	challenges  AdminChallengeRepo
	templates   AdminTemplateRepo
	subscribers SubscriberLister
	providers   ProviderSwitcher
	leaderboard CacheInvalidator
}

// AdminDeps bundles the Admin dependencies.
type AdminDeps struct {
	Challenges  AdminChallengeRepo
	Templates   AdminTemplateRepo
	Subscribers SubscriberLister
	Providers   ProviderSwitcher
	Leaderboard CacheInvalidator
}

// NewAdmin creates the admin handler group.
func NewAdmin(d AdminDeps) *Admin {
	return &Admin{
		challenges:  d.Challenges,
		templates:   d.Templates,
		subscribers: d.Subscribers,
		providers:   d.Providers,
		leaderboard: d.Leaderboard,
	}
}

// --- Challenges ---

// ChallengeList returns every challenge, scheduled ones included.
func (a *Admin) ChallengeList(w http.ResponseWriter, r *http.Request) {
	list, err := a.challenges.List(r.Context())
	if err != nil {
		serverError(w, "admin challenge list failed", err)
		return
	}
	if list == nil {
		list = []models.Challenge{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"challenges": list})
}

// ChallengeCreate schedules a hand-written challenge for a date.
func (a *Admin) ChallengeCreate(w http.ResponseWriter, r *http.Request) {
	var c models.Challenge
	if !decodeJSON(w, r, &c) {
		return
	}
	if msg := normalizeChallenge(&c); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	created, err := a.challenges.Create(r.Context(), &c)
	if store.IsUniqueViolation(err) {
		writeError(w, http.StatusConflict, "A challenge is already scheduled for that date.")
		return
	}
	if err != nil {
		serverError(w, "admin challenge create failed", err)
		return
	}

	slog.Info("challenge created", "challenge_id", created.ID, "date", created.DateString())
	writeJSON(w, http.StatusCreated, map[string]any{"challenge": created})
}

// normalizeChallenge trims and canonicalizes an admin challenge. It
// returns a user-facing message when the challenge is not acceptable.
func normalizeChallenge(c *models.Challenge) string {
	c.Title = strings.TrimSpace(c.Title)
	c.Description = strings.TrimSpace(c.Description)
	c.TimeEstimate = strings.TrimSpace(c.TimeEstimate)

	if c.Title == "" {
		return "Title is required."
	}
	if c.ChallengeDate.IsZero() {
		return "challenge_date is required (YYYY-MM-DD)."
	}
	d, ok := models.ParseDifficulty(string(c.Difficulty))
	if !ok {
		return fmt.Sprintf("Unknown difficulty %q.", c.Difficulty)
	}
	cat, ok := models.ParseCategory(string(c.Category))
	if !ok {
		return fmt.Sprintf("Unknown category %q.", c.Category)
	}
	c.Difficulty, c.Category = d, cat
	if c.Content == nil || strings.TrimSpace(c.Content.Markdown()) == "" {
		return "Add a full description or a background and task."
	}
	return ""
}

// ChallengeDelete removes a challenge and its submissions.
func (a *Admin) ChallengeDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := a.challenges.Delete(r.Context(), id); err != nil {
		serverError(w, "admin challenge delete failed", err)
		return
	}
	// Submissions cascade, so the rankings change.
	if a.leaderboard != nil {
		a.leaderboard.Invalidate(r.Context())
	}
	slog.Info("challenge deleted", "challenge_id", id)
	w.WriteHeader(http.StatusNoContent)
}

// --- Project templates ---

type templateRequest struct {
	Title             string   `json:"title" validate:"notblank,max=200"`
	Description       string   `json:"description" validate:"max=5000"`
	SkillLevel        string   `json:"skill_level" validate:"required,oneof=Beginner Intermediate Advanced"`
	ProjectType       string   `json:"project_type" validate:"max=100"`
	Platform          string   `json:"platform" validate:"max=100"`
	Duration          string   `json:"duration" validate:"max=100"`
	Deliverables      []string `json:"deliverables"`
	ToolsRecommended  []string `json:"tools_recommended"`
	ExampleChallenges []string `json:"example_challenges"`
	TimeEstimate      string   `json:"time_estimate" validate:"max=100"`
}

// TemplateList returns every curated project template.
func (a *Admin) TemplateList(w http.ResponseWriter, r *http.Request) {
	list, err := a.templates.List(r.Context())
	if err != nil {
		serverError(w, "admin template list failed", err)
		return
	}
	if list == nil {
		list = []models.ProjectTemplate{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"templates": list})
}

// TemplateCreate adds a curated project template.
func (a *Admin) TemplateCreate(w http.ResponseWriter, r *http.Request) {
	var req templateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	if d, ok := models.ParseDifficulty(req.SkillLevel); ok {
		req.SkillLevel = string(d)
	}
	if err := validate.Struct(req); err != nil {
		writeValidation(w, err)
		return
	}

	created, err := a.templates.Create(r.Context(), &models.ProjectTemplate{
		Title:             req.Title,
		Description:       strings.TrimSpace(req.Description),
		SkillLevel:        req.SkillLevel,
		ProjectType:       req.ProjectType,
		Platform:          req.Platform,
		Duration:          req.Duration,
		Deliverables:      req.Deliverables,
		ToolsRecommended:  req.ToolsRecommended,
		ExampleChallenges: req.ExampleChallenges,
		TimeEstimate:      req.TimeEstimate,
	})
	if err != nil {
		serverError(w, "admin template create failed", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"template": created})
}

// TemplateDelete removes a project template.
func (a *Admin) TemplateDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := a.templates.Delete(r.Context(), id); err != nil {
		serverError(w, "admin template delete failed", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Subscribers ---

// Subscribers lists newsletter signups.
func (a *Admin) Subscribers(w http.ResponseWriter, r *http.Request) {
	list, err := a.subscribers.List(r.Context())
	if err != nil {
		serverError(w, "admin subscriber list failed", err)
		return
	}
	if list == nil {
		list = []models.NewsletterSignup{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"subscribers": list})
}

// --- AI provider ---

type providerStatus struct {
	Active    string   `json:"active"`
	Available []string `json:"available"`
}

// AIProvider reports the active LLM provider and the configured ones.
func (a *Admin) AIProvider(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.providerStatus())
}

// AISetProvider switches the active LLM provider at runtime.
func (a *Admin) AISetProvider(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Provider string `json:"provider"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	name := strings.TrimSpace(req.Provider)
	if name == "" {
		writeError(w, http.StatusBadRequest, "No provider specified.")
		return
	}

	if err := a.providers.SetActive(name); err != nil {
		slog.Warn("failed to switch AI provider", "provider", name, "error", err)
		writeError(w, http.StatusBadRequest,
			fmt.Sprintf("Cannot switch to %q: provider not available (no API key configured).", name))
		return
	}

	slog.Info("ai provider switched", "provider", name)
	writeJSON(w, http.StatusOK, a.providerStatus())
}

func (a *Admin) providerStatus() providerStatus {
	available := a.providers.Available()
	if available == nil {
		available = []string{}
	}
	return providerStatus{Active: a.providers.ActiveName(), Available: available}
}

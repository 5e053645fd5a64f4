// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"designcamp/internal/models"
)

type memChallenges struct {
	byDate  map[string]*models.Challenge
	deleted []uuid.UUID
}

func (m *memChallenges) List(context.Context) ([]models.Challenge, error) {
	out := make([]models.Challenge, 0, len(m.byDate))
	for _, c := range m.byDate {
		out = append(out, *c)
	}
	return out, nil
}

func (m *memChallenges) Create(_ context.Context, c *models.Challenge) (*models.Challenge, error) {
	if _, ok := m.byDate[c.DateString()]; ok {
		return nil, fmt.Errorf("create challenge: %w", &pgconn.PgError{Code: "23505"})
	}
	out := *c
	out.ID = uuid.New()
	m.byDate[c.DateString()] = &out
	return &out, nil
}

func (m *memChallenges) Delete(_ context.Context, id uuid.UUID) error {
	m.deleted = append(m.deleted, id)
	return nil
}

type memTemplates struct {
	created []*models.ProjectTemplate
}

func (m *memTemplates) List(context.Context) ([]models.ProjectTemplate, error) { return nil, nil }

func (m *memTemplates) Create(_ context.Context, p *models.ProjectTemplate) (*models.ProjectTemplate, error) {
	p.ID = uuid.New()
	m.created = append(m.created, p)
	return p, nil
}

func (m *memTemplates) Delete(context.Context, uuid.UUID) error { return nil }

type memSubscribers []models.NewsletterSignup

func (m memSubscribers) List(context.Context) ([]models.NewsletterSignup, error) { return m, nil }

type fakeProviders struct {
	active    string
	available []string
}

func (f *fakeProviders) ActiveName() string  { return f.active }
func (f *fakeProviders) Available() []string { return f.available }
func (f *fakeProviders) SetActive(name string) error {
	for _, n := range f.available {
		if n == name {
			f.active = name
			return nil
		}
	}
	return errors.New("provider not registered")
}

type countingInvalidator struct{ n int }

func (c *countingInvalidator) Invalidate(context.Context) { c.n++ }

type adminFixture struct {
	admin       *Admin
	challenges  *memChallenges
	templates   *memTemplates
	providers   *fakeProviders
	leaderboard *countingInvalidator
}

func newAdminFixture() adminFixture {
	f := adminFixture{
		challenges:  &memChallenges{byDate: map[string]*models.Challenge{}},
		templates:   &memTemplates{},
		providers:   &fakeProviders{active: "gateway", available: []string{"gateway", "openai"}},
		leaderboard: &countingInvalidator{},
	}
	f.admin = NewAdmin(AdminDeps{
		Challenges:  f.challenges,
		Templates:   f.templates,
		Subscribers: memSubscribers{{Email: "a@example.com", RemindDaily: true}},
		Providers:   f.providers,
		Leaderboard: f.leaderboard,
	})
	return f
}

func TestAdminChallengeCreate(t *testing.T) {
	f := newAdminFixture()

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"structured", `{"title":" Checkout ","category":"ux design","difficulty":"advanced","challenge_date":"2026-11-01","background_context":"A bakery","challenge_task":"Checkout"}`, http.StatusCreated},
		{"legacy", `{"title":"Icons","category":"UI","difficulty":"Beginner","challenge_date":"2026-11-02","full_description":"Draw icons"}`, http.StatusCreated},
		{"date taken", `{"title":"Again","category":"UI","difficulty":"Beginner","challenge_date":"2026-11-02","full_description":"x"}`, http.StatusConflict},
		{"missing title", `{"title":" ","category":"UI","difficulty":"Beginner","challenge_date":"2026-11-03","full_description":"x"}`, http.StatusBadRequest},
		{"missing date", `{"title":"T","category":"UI","difficulty":"Beginner","full_description":"x"}`, http.StatusBadRequest},
		{"bad date", `{"title":"T","category":"UI","difficulty":"Beginner","challenge_date":"11/03/2026"}`, http.StatusBadRequest},
		{"bad difficulty", `{"title":"T","category":"UI","difficulty":"Expert","challenge_date":"2026-11-03","full_description":"x"}`, http.StatusBadRequest},
		{"bad category", `{"title":"T","category":"Sculpture","difficulty":"Beginner","challenge_date":"2026-11-03","full_description":"x"}`, http.StatusBadRequest},
		{"no brief", `{"title":"T","category":"UI","difficulty":"Beginner","challenge_date":"2026-11-03"}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			f.admin.ChallengeCreate(rr, jsonRequest(t, http.MethodPost, "/admin/challenges", tt.body))
			if rr.Code != tt.status {
				t.Errorf("status = %d, want %d (%s)", rr.Code, tt.status, rr.Body.String())
			}
		})
	}

	c := f.challenges.byDate["2026-11-01"]
	if c == nil {
		t.Fatal("structured challenge not stored")
	}
	if c.Title != "Checkout" || c.Difficulty != models.DifficultyAdvanced || c.Category != models.CategoryUXDesign {
		t.Errorf("not normalized: %+v", c)
	}
	if _, ok := c.Content.(models.StructuredContent); !ok {
		t.Errorf("content = %T, want StructuredContent", c.Content)
	}
}

func TestAdminChallengeListAndDelete(t *testing.T) {
	f := newAdminFixture()
	f.challenges.byDate["2026-11-01"] = sampleChallenge()

	rr := httptest.NewRecorder()
	f.admin.ChallengeList(rr, httptest.NewRequest(http.MethodGet, "/admin/challenges", nil))
	if list, _ := decode(t, rr)["challenges"].([]any); len(list) != 1 {
		t.Errorf("list = %s", rr.Body.String())
	}

	id := uuid.New()
	rr = httptest.NewRecorder()
	f.admin.ChallengeDelete(rr, withURLParam(httptest.NewRequest(http.MethodDelete, "/", nil), "id", id.String()))
	if rr.Code != http.StatusNoContent {
		t.Fatalf("status = %d", rr.Code)
	}
	if len(f.challenges.deleted) != 1 || f.challenges.deleted[0] != id {
		t.Errorf("deleted = %v", f.challenges.deleted)
	}
	if f.leaderboard.n != 1 {
		t.Error("deleting a challenge should invalidate the leaderboard")
	}
}

func TestAdminTemplateCreate(t *testing.T) {
	f := newAdminFixture()

	rr := httptest.NewRecorder()
	f.admin.TemplateCreate(rr, jsonRequest(t, http.MethodPost, "/admin/templates",
		`{"title":"Recipe App","skill_level":"beginner","deliverables":["Wireframes"]}`))
	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d (%s)", rr.Code, rr.Body.String())
	}
	if got := f.templates.created[0]; got.SkillLevel != "Beginner" || got.Title != "Recipe App" {
		t.Errorf("created = %+v", got)
	}

	rr = httptest.NewRecorder()
	f.admin.TemplateCreate(rr, jsonRequest(t, http.MethodPost, "/admin/templates",
		`{"title":"  ","skill_level":"Guru"}`))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
	fields, _ := decode(t, rr)["fields"].(map[string]any)
	if _, ok := fields["title"]; !ok {
		t.Errorf("fields = %v", fields)
	}
	if _, ok := fields["skill_level"]; !ok {
		t.Errorf("fields = %v", fields)
	}
}

func TestAdminSubscribers(t *testing.T) {
	f := newAdminFixture()
	rr := httptest.NewRecorder()
	f.admin.Subscribers(rr, httptest.NewRequest(http.MethodGet, "/admin/subscribers", nil))
	subs, _ := decode(t, rr)["subscribers"].([]any)
	if len(subs) != 1 {
		t.Errorf("subscribers = %s", rr.Body.String())
	}
}

func TestAdminAIProvider(t *testing.T) {
	f := newAdminFixture()

	rr := httptest.NewRecorder()
	f.admin.AIProvider(rr, httptest.NewRequest(http.MethodGet, "/admin/ai", nil))
	if decode(t, rr)["active"] != "gateway" {
		t.Errorf("body = %s", rr.Body.String())
	}

	tests := []struct {
		name     string
		provider string
		status   int
		active   string
	}{
		{"switch", "openai", http.StatusOK, "openai"},
		{"unconfigured", "claude", http.StatusBadRequest, "openai"},
		{"blank", " ", http.StatusBadRequest, "openai"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			f.admin.AISetProvider(rr, jsonRequest(t, http.MethodPut, "/admin/ai", map[string]string{"provider": tt.provider}))
			if rr.Code != tt.status {
				t.Errorf("status = %d, want %d", rr.Code, tt.status)
			}
			if f.providers.active != tt.active {
				t.Errorf("active = %q, want %q", f.providers.active, tt.active)
			}
		})
	}
}

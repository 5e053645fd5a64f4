// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router tests verify the HTTP routing configuration, middleware
// chains, and the health endpoint.
package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"designcamp/internal/generator"
	"designcamp/internal/handlers"
	"designcamp/internal/middleware"
	"designcamp/internal/models"
	"designcamp/internal/session"
)

// cookieSessions maps the session cookie value to a canned identity.
type cookieSessions map[string]*session.Data

func (c cookieSessions) Get(_ context.Context, r *http.Request) (*session.Data, error) {
	cookie, err := r.Cookie(session.CookieName)
	if err != nil {
		return nil, nil
	}
	return c[cookie.Value], nil
}

type stubProjects struct{}

func (stubProjects) Generate(context.Context, generator.ProjectHints) (*models.GeneratedProject, error) {
	return &models.GeneratedProject{ID: uuid.New(), Title: "Brief"}, nil
}

type stubChallenges struct{}

func (stubChallenges) List(context.Context) ([]models.Challenge, error) { return nil, nil }
func (stubChallenges) Create(_ context.Context, c *models.Challenge) (*models.Challenge, error) {
	return c, nil
}
func (stubChallenges) Delete(context.Context, uuid.UUID) error { return nil }

func testRouter(t *testing.T) http.Handler {
	t.Helper()

	sessions := cookieSessions{
		"camper":    {UserID: uuid.New(), Role: "camper", TwoFADone: true},
		"admin":     {UserID: uuid.New(), Role: "admin"},
		"admin-2fa": {UserID: uuid.New(), Role: "admin", TwoFADone: true},
	}

	generate := middleware.NewRateLimiter(2, time.Minute)
	t.Cleanup(generate.Stop)

	return New(Handlers{
		Auth:        handlers.NewAuth(nil, nil, nil),
		Challenges:  handlers.NewChallenges(nil, nil),
		Functions:   handlers.NewFunctions(nil, stubProjects{}),
		CampTrack:   handlers.NewCampTrack(nil),
		Chat:        handlers.NewChat(nil),
		Leaderboard: handlers.NewLeaderboard(nil, nil),
		Newsletter:  handlers.NewNewsletter(nil),
		Admin:       handlers.NewAdmin(handlers.AdminDeps{Challenges: stubChallenges{}}),
	}, Options{
		Sessions:        sessions,
		CORSOrigins:     []string{"http://localhost:5173"},
		GenerateLimiter: generate,
	})
}

func withSessionCookie(r *http.Request, value string) *http.Request {
	r.AddCookie(&http.Cookie{Name: session.CookieName, Value: value})
	return r
}

func TestHealthHandler(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/health", nil)

	healthHandler(w, r)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status: got %d, want 200", resp.StatusCode)
	}

	ct := resp.Header.Get("Content-Type")
	if ct != "application/json" {
		t.Errorf("content-type: got %q, want %q", ct, "application/json")
	}

	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field: got %q, want %q", body["status"], "ok")
	}
}

func TestHealthRoute(t *testing.T) {
	rr := httptest.NewRecorder()
	testRouter(t).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rr.Code != http.StatusOK {
		t.Errorf("GET /health: got %d, want 200", rr.Code)
	}
	if rr.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("security headers should be applied globally")
	}
}

func TestFunctionsPreflight(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/functions/generate-challenge", nil)
	req.Header.Set("Origin", "https://anywhere.example")
	req.Header.Set("Access-Control-Request-Method", "POST")
	req.Header.Set("Access-Control-Request-Headers", "apikey, x-client-info")

	rr := httptest.NewRecorder()
	testRouter(t).ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent && rr.Code != http.StatusOK {
		t.Errorf("status = %d, want 2xx", rr.Code)
	}
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want *", got)
	}
	if got := strings.ToLower(rr.Header().Get("Access-Control-Allow-Headers")); !strings.Contains(got, "apikey") {
		t.Errorf("Access-Control-Allow-Headers = %q", got)
	}
}

func TestFunctionsRateLimited(t *testing.T) {
	h := testRouter(t)
	var codes []int
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/functions/generate-project", strings.NewReader(`{}`))
		req.RemoteAddr = "203.0.113.7:1234"
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		codes = append(codes, rr.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Errorf("codes = %v, want [200 200 429]", codes)
	}
}

func TestAPICORS(t *testing.T) {
	tests := []struct {
		origin string
		want   string
	}{
		{"http://localhost:5173", "http://localhost:5173"},
		{"https://evil.example", ""},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodOptions, "/api/camp-track", nil)
		req.Header.Set("Origin", tt.origin)
		req.Header.Set("Access-Control-Request-Method", "PUT")
		rr := httptest.NewRecorder()
		testRouter(t).ServeHTTP(rr, req)

		if got := rr.Header().Get("Access-Control-Allow-Origin"); got != tt.want {
			t.Errorf("origin %s: Access-Control-Allow-Origin = %q, want %q", tt.origin, got, tt.want)
		}
	}
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	routes := []struct {
		method, path, from string
	}{
		{http.MethodGet, "/api/camp-track", "/camp-track"},
		{http.MethodPut, "/api/camp-track", "/camp-track"},
		{http.MethodPost, "/api/chat/messages", "/chat/messages"},
		{http.MethodGet, "/api/auth/me", "/auth/me"},
		{http.MethodPost, "/api/auth/2fa/setup", "/auth/2fa/setup"},
		{http.MethodPost, "/api/challenges/" + uuid.NewString() + "/submissions", ""},
	}
	h := testRouter(t)
	for _, rt := range routes {
		t.Run(rt.method+" "+rt.path, func(t *testing.T) {
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, httptest.NewRequest(rt.method, rt.path, nil))
			if rr.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d, want 401", rr.Code)
			}
			var body map[string]string
			json.NewDecoder(rr.Body).Decode(&body)
			if rt.from != "" && body["redirect"] != "/login?from="+rt.from {
				t.Errorf("redirect = %q", body["redirect"])
			}
		})
	}
}

func TestAdminGate(t *testing.T) {
	h := testRouter(t)
	tests := []struct {
		name   string
		cookie string
		status int
	}{
		{"anonymous", "", http.StatusUnauthorized},
		{"admin without 2fa", "admin", http.StatusForbidden},
		{"camper", "camper", http.StatusForbidden},
		{"verified admin", "admin-2fa", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin/challenges", nil)
			if tt.cookie != "" {
				withSessionCookie(req, tt.cookie)
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)
			if rr.Code != tt.status {
				t.Errorf("status = %d, want %d", rr.Code, tt.status)
			}
		})
	}
}

func TestAdminWritesNeedCSRF(t *testing.T) {
	h := testRouter(t)
	body := `{"title":"T","category":"UI","difficulty":"Beginner","challenge_date":"2026-12-01","full_description":"x"}`

	req := withSessionCookie(httptest.NewRequest(http.MethodPost, "/admin/challenges", strings.NewReader(body)), "admin-2fa")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("without token: status = %d, want 403", rr.Code)
	}

	req = withSessionCookie(httptest.NewRequest(http.MethodPost, "/admin/challenges", strings.NewReader(body)), "admin-2fa")
	req.AddCookie(&http.Cookie{Name: middleware.CSRFCookieName, Value: "tok"})
	req.Header.Set(middleware.CSRFHeaderName, "tok")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusCreated {
		t.Errorf("with token: status = %d, want 201 (%s)", rr.Code, rr.Body.String())
	}
}

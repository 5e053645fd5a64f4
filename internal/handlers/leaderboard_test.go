package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"designcamp/internal/models"
)

type fakeRanker struct {
	calls  int
	filter models.TimeFilter
}

func (f *fakeRanker) Rank(_ context.Context, filter models.TimeFilter) ([]models.LeaderboardEntry, error) {
	f.calls++
	f.filter = filter
	return []models.LeaderboardEntry{{UserID: uuid.New(), Name: "Ada", SubmissionCount: 3, StreakDays: 2, TotalPoints: 40, Rank: 1}}, nil
}

// mapCache is a ResponseCache that round-trips through JSON like Valkey.
type mapCache map[string][]byte

func (m mapCache) Get(_ context.Context, key string, dst any) bool {
	raw, ok := m[key]
	return ok && json.Unmarshal(raw, dst) == nil
}

func (m mapCache) Set(_ context.Context, key string, v any) {
	raw, _ := json.Marshal(v)
	m[key] = raw
}

func TestLeaderboard(t *testing.T) {
	ranker := &fakeRanker{}
	cache := mapCache{}
	h := NewLeaderboard(ranker, cache)

	get := func(target string) *httptest.ResponseRecorder {
		rr := httptest.NewRecorder()
		h.List(rr, httptest.NewRequest(http.MethodGet, target, nil))
		return rr
	}

	rr := get("/api/leaderboard")
	if rr.Code != http.StatusOK || ranker.filter != models.TimeFilterAll {
		t.Fatalf("default: status=%d filter=%q", rr.Code, ranker.filter)
	}
	body := decode(t, rr)
	entries, _ := body["entries"].([]any)
	if body["filter"] != "all" || len(entries) != 1 {
		t.Errorf("body = %v", body)
	}

	rr = get("/api/leaderboard?filter=all")
	if ranker.calls != 1 {
		t.Errorf("cached filter should not hit the ranker, calls = %d", ranker.calls)
	}
	if decode(t, rr)["filter"] != "all" {
		t.Errorf("cached body = %s", rr.Body.String())
	}

	get("/api/leaderboard?filter=week")
	if ranker.calls != 2 || ranker.filter != models.TimeFilterWeek {
		t.Errorf("week: calls=%d filter=%q", ranker.calls, ranker.filter)
	}

	if rr := get("/api/leaderboard?filter=year"); rr.Code != http.StatusBadRequest {
		t.Errorf("unknown filter: status = %d, want 400", rr.Code)
	}
}

func TestLeaderboardNoCache(t *testing.T) {
	ranker := &fakeRanker{}
	h := NewLeaderboard(ranker, nil)
	for i := 0; i < 2; i++ {
		rr := httptest.NewRecorder()
		h.List(rr, httptest.NewRequest(http.MethodGet, "/api/leaderboard?filter=month", nil))
		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d", rr.Code)
		}
	}
	if ranker.calls != 2 {
		t.Errorf("calls = %d, want 2", ranker.calls)
	}
}

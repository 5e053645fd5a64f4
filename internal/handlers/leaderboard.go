package handlers

import (
	"context"
	"net/http"

	"designcamp/internal/models"
)

// Ranker computes leaderboard rows. *store.LeaderboardStore satisfies it.
type Ranker interface {
	Rank(ctx context.Context, filter models.TimeFilter) ([]models.LeaderboardEntry, error)
}

// ResponseCache stores JSON-encodable values by key. *cache.JSONCache
// satisfies it.
type ResponseCache interface {
	Get(ctx context.Context, key string, dst any) bool
	Set(ctx context.Context, key string, v any)
}

// Leaderboard serves the ranked camper list.
type Leaderboard struct {
	ranker Ranker
	cache  ResponseCache
}

// NewLeaderboard creates the handler group. cache may be nil.
func NewLeaderboard(ranker Ranker, cache ResponseCache) *Leaderboard {
	return &Leaderboard{ranker: ranker, cache: cache}
}

type leaderboardResponse struct {
	Filter  models.TimeFilter         `json:"filter"`
	Entries []models.LeaderboardEntry `json:"entries"`
}

// List returns the leaderboard for ?filter=week|month|all.
func (h *Leaderboard) List(w http.ResponseWriter, r *http.Request) {
	filter, err := models.ParseTimeFilter(r.URL.Query().Get("filter"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "filter must be one of week, month, all")
		return
	}

	var resp leaderboardResponse
	if h.cache != nil && h.cache.Get(r.Context(), string(filter), &resp) {
		writeJSON(w, http.StatusOK, resp)
		return
	}

	entries, err := h.ranker.Rank(r.Context(), filter)
	if err != nil {
		serverError(w, "leaderboard failed", err)
		return
	}
	if entries == nil {
		entries = []models.LeaderboardEntry{}
	}

	resp = leaderboardResponse{Filter: filter, Entries: entries}
	if h.cache != nil {
		h.cache.Set(r.Context(), string(filter), resp)
	}
	writeJSON(w, http.StatusOK, resp)
}

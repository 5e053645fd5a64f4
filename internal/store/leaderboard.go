package store

import (
	"context"
	"database/sql"
	"fmt"

	"designcamp/internal/models"
)

// LeaderboardStore reads rankings from the get_leaderboard function.
type LeaderboardStore struct {
	db *sql.DB
}

// NewLeaderboardStore creates a new LeaderboardStore.
func NewLeaderboardStore(db *sql.DB) *LeaderboardStore {
	return &LeaderboardStore{db: db}
}

// Rank returns ranked campers for the window, best first.
func (s *LeaderboardStore) Rank(ctx context.Context, filter models.TimeFilter) ([]models.LeaderboardEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT user_id, name, profile_image, submission_count, streak_days, total_points, rank
		FROM get_leaderboard($1)`, string(filter))
	if err != nil {
		return nil, fmt.Errorf("leaderboard: %w", err)
	}
	defer rows.Close()

	out := []models.LeaderboardEntry{}
	for rows.Next() {
		var e models.LeaderboardEntry
		if err := rows.Scan(&e.UserID, &e.Name, &e.ProfileImage, &e.SubmissionCount,
			&e.StreakDays, &e.TotalPoints, &e.Rank); err != nil {
			return nil, fmt.Errorf("leaderboard scan: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

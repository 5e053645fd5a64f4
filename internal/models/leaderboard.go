// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// TimeFilter selects the submission window the leaderboard counts.
type TimeFilter string

const (
	TimeFilterWeek  TimeFilter = "week"
	TimeFilterMonth TimeFilter = "month"
	TimeFilterAll   TimeFilter = "all"
)

// ParseTimeFilter accepts week, month or all. Empty means all.
func ParseTimeFilter(s string) (TimeFilter, error) {
	switch TimeFilter(strings.ToLower(strings.TrimSpace(s))) {
	case "", TimeFilterAll:
		return TimeFilterAll, nil
	case TimeFilterWeek:
		return TimeFilterWeek, nil
	case TimeFilterMonth:
		return TimeFilterMonth, nil
	}
	return "", fmt.Errorf("unknown time filter %q", s)
}

// LeaderboardEntry is one ranked row returned by get_leaderboard.
type LeaderboardEntry struct {
	UserID          uuid.UUID `json:"user_id"`
	Name            string    `json:"name"`
	ProfileImage    *string   `json:"profile_image"`
	SubmissionCount int64     `json:"submission_count"`
	StreakDays      int       `json:"streak_days"`
	TotalPoints     int64     `json:"total_points"`
	Rank            int64     `json:"rank"`
}

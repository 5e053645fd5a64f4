package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"designcamp/internal/models"
)

// PreferencesStore persists Camp Track wizard answers, one row per user.
type PreferencesStore struct {
	db *sql.DB
}

// NewPreferencesStore creates a new PreferencesStore.
func NewPreferencesStore(db *sql.DB) *PreferencesStore {
	return &PreferencesStore{db: db}
}

const preferencesColumns = `id, user_id, skill_level, goals, tools, weekly_hours, created_at, updated_at`

func scanPreferences(row scanner) (*models.UserPreferences, error) {
	p := &models.UserPreferences{}
	err := row.Scan(&p.ID, &p.UserID, &p.SkillLevel, textArray(&p.Goals), textArray(&p.Tools),
		&p.WeeklyHours, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if p.Goals == nil {
		p.Goals = []string{}
	}
	if p.Tools == nil {
		p.Tools = []string{}
	}
	return p, nil
}

// Upsert saves the user's preferences, replacing any previous answers.
func (s *PreferencesStore) Upsert(ctx context.Context, p *models.UserPreferences) (*models.UserPreferences, error) {
	goals, tools := p.Goals, p.Tools
	if goals == nil {
		goals = []string{}
	}
	if tools == nil {
		tools = []string{}
	}

	out, err := scanPreferences(s.db.QueryRowContext(ctx, `
		INSERT INTO user_preferences (user_id, skill_level, goals, tools, weekly_hours)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE SET
			skill_level = EXCLUDED.skill_level,
			goals = EXCLUDED.goals,
			tools = EXCLUDED.tools,
			weekly_hours = EXCLUDED.weekly_hours,
			updated_at = NOW()
		RETURNING `+preferencesColumns,
		p.UserID, p.SkillLevel, goals, tools, p.WeeklyHours,
	))
	if err != nil {
		return nil, fmt.Errorf("upsert preferences: %w", err)
	}
	return out, nil
}

// FindByUserID returns the user's saved preferences. Returns nil if none.
func (s *PreferencesStore) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.UserPreferences, error) {
	p, err := scanPreferences(s.db.QueryRowContext(ctx,
		`SELECT `+preferencesColumns+` FROM user_preferences WHERE user_id = $1`, userID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find preferences: %w", err)
	}
	return p, nil
}

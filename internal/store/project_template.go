// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"designcamp/internal/models"
)

// ProjectTemplateStore handles curated project template operations.
type ProjectTemplateStore struct {
	db *sql.DB
}

// NewProjectTemplateStore creates a new ProjectTemplateStore.
func NewProjectTemplateStore(db *sql.DB) *ProjectTemplateStore {
	return &ProjectTemplateStore{db: db}
}

const projectTemplateColumns = `id, title, description, skill_level, project_type, platform, duration,
	deliverables, tools_recommended, example_challenges, time_estimate, created_at`

func scanProjectTemplate(row scanner) (*models.ProjectTemplate, error) {
	p := &models.ProjectTemplate{}
	var timeEstimate *string
	err := row.Scan(
		&p.ID, &p.Title, &p.Description, &p.SkillLevel, &p.ProjectType, &p.Platform, &p.Duration,
		textArray(&p.Deliverables), textArray(&p.ToolsRecommended), textArray(&p.ExampleChallenges),
		&timeEstimate, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.TimeEstimate = deref(timeEstimate)
	return p, nil
}

func orEmpty(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}

// Create inserts a project template.
func (s *ProjectTemplateStore) Create(ctx context.Context, p *models.ProjectTemplate) (*models.ProjectTemplate, error) {
	out, err := scanProjectTemplate(s.db.QueryRowContext(ctx, `
		INSERT INTO project_templates (title, description, skill_level, project_type, platform, duration,
			deliverables, tools_recommended, example_challenges, time_estimate)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING `+projectTemplateColumns,
		p.Title, p.Description, p.SkillLevel, p.ProjectType, p.Platform, p.Duration,
		orEmpty(p.Deliverables), orEmpty(p.ToolsRecommended), orEmpty(p.ExampleChallenges),
		nullIfEmpty(p.TimeEstimate),
	))
	if err != nil {
		return nil, fmt.Errorf("create project template: %w", err)
	}
	return out, nil
}

// FindByID returns one template. Returns nil if not found.
func (s *ProjectTemplateStore) FindByID(ctx context.Context, id uuid.UUID) (*models.ProjectTemplate, error) {
	p, err := scanProjectTemplate(s.db.QueryRowContext(ctx,
		`SELECT `+projectTemplateColumns+` FROM project_templates WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find project template: %w", err)
	}
	return p, nil
}

// List returns every template, newest first.
func (s *ProjectTemplateStore) List(ctx context.Context) ([]models.ProjectTemplate, error) {
	return s.list(ctx, "list project templates",
		`SELECT `+projectTemplateColumns+` FROM project_templates ORDER BY created_at DESC`)
}

// MatchBySkillLevel returns up to limit templates whose skill level is
// exactly level.
func (s *ProjectTemplateStore) MatchBySkillLevel(ctx context.Context, level string, limit int) ([]models.ProjectTemplate, error) {
	return s.list(ctx, "match project templates",
		`SELECT `+projectTemplateColumns+` FROM project_templates
		 WHERE skill_level = $1
		 ORDER BY created_at DESC
		 LIMIT $2`, level, limit)
}

// Delete removes a template by ID.
func (s *ProjectTemplateStore) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM project_templates WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete project template: %w", err)
	}
	return nil
}

// Count returns the number of stored templates.
func (s *ProjectTemplateStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM project_templates`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count project templates: %w", err)
	}
	return n, nil
}

func (s *ProjectTemplateStore) list(ctx context.Context, op, query string, args ...any) ([]models.ProjectTemplate, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var out []models.ProjectTemplate
	for rows.Next() {
		p, err := scanProjectTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("%s scan: %w", op, err)
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// ProjectTemplate is curated reference data matched against a camper's
// skill level.
type ProjectTemplate struct {
	ID                uuid.UUID `json:"id"`
	Title             string    `json:"title"`
	Description       string    `json:"description"`
	SkillLevel        string    `json:"skill_level"`
	ProjectType       string    `json:"project_type"`
	Platform          string    `json:"platform"`
	Duration          string    `json:"duration"`
	Deliverables      []string  `json:"deliverables"`
	ToolsRecommended  []string  `json:"tools_recommended"`
	ExampleChallenges []string  `json:"example_challenges"`
	TimeEstimate      string    `json:"time_estimate"`
	CreatedAt         time.Time `json:"created_at"`
}

// GeneratedProject is a portfolio project brief produced by the LLM.
// It is returned to the caller and not persisted.
type GeneratedProject struct {
	ID                uuid.UUID `json:"id"`
	Title             string    `json:"title"`
	Description       string    `json:"description,omitempty"`
	BackgroundContext string    `json:"background_context,omitempty"`
	SkillLevel        string    `json:"skill_level"`
	ProjectType       string    `json:"project_type"`
	Platform          string    `json:"platform"`
	Duration          string    `json:"duration"`
	TimeEstimate      string    `json:"time_estimate"`
	Deliverables      []string  `json:"deliverables"`
	Constraints       []string  `json:"constraints"`
	Challenges        []string  `json:"challenges"`
	ExampleChallenges []string  `json:"example_challenges,omitempty"`
	ToolsRecommended  []string  `json:"tools_recommended"`
	MarketRelevance   string    `json:"market_relevance"`
	CreatedAt         time.Time `json:"created_at"`
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// SkillLevel is a camper's self-assessed level in the Camp Track wizard.
type SkillLevel string

const (
	SkillBeginner     SkillLevel = "beginner"
	SkillIntermediate SkillLevel = "intermediate"
	SkillAdvanced     SkillLevel = "advanced"
)

// SkillLevels lists the selectable skill levels.
var SkillLevels = []SkillLevel{SkillBeginner, SkillIntermediate, SkillAdvanced}

// Goals lists the learning goals the wizard offers. Campers may add others.
var Goals = []string{
	"portfolio", "visual", "ux-research", "interaction",
	"prototyping", "design-systems", "mobile", "web",
}

// Tools lists the design tools the wizard offers.
var Tools = []string{
	"figma", "adobe-xd", "sketch", "protopie",
	"principle", "framer", "miro", "notion",
}

// WeeklyHourOptions lists the weekly time budgets the wizard offers. Any
// positive number of hours is accepted.
var WeeklyHourOptions = []int{2, 5, 10, 15}

// IsValid reports whether l is one of SkillLevels.
func (l SkillLevel) IsValid() bool {
	return slices.Contains(SkillLevels, l)
}

// UserPreferences is the saved result of the Camp Track wizard. There is
// at most one row per user.
type UserPreferences struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"user_id"`
	SkillLevel  SkillLevel `json:"skill_level"`
	Goals       []string   `json:"goals"`
	Tools       []string   `json:"tools"`
	WeeklyHours int        `json:"weekly_hours"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

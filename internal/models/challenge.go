// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DateLayout is the calendar-date format used for challenge_date.
const DateLayout = "2006-01-02"

// Difficulty is the closed set of challenge difficulty levels.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "Beginner"
	DifficultyIntermediate Difficulty = "Intermediate"
	DifficultyAdvanced     Difficulty = "Advanced"
)

// Difficulties lists every valid difficulty in ascending order.
var Difficulties = []Difficulty{DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced}

// ParseDifficulty matches s case-insensitively against the known levels.
func ParseDifficulty(s string) (Difficulty, bool) {
	s = strings.TrimSpace(s)
	for _, d := range Difficulties {
		if strings.EqualFold(s, string(d)) {
			return d, true
		}
	}
	return "", false
}

// Category is the closed set of challenge categories. The "Design"
// variants come from generated challenges; the short ones label the
// seeded archive.
type Category string

const (
	CategoryUIDesign         Category = "UI Design"
	CategoryUXDesign         Category = "UX Design"
	CategoryVisualDesign     Category = "Visual Design"
	CategoryMobileDesign     Category = "Mobile Design"
	CategoryWebDesign        Category = "Web Design"
	CategoryUX               Category = "UX"
	CategoryUI               Category = "UI"
	CategoryMicrointeraction Category = "Microinteraction"
	CategoryLandingPage      Category = "Landing Page"
	CategoryMobile           Category = "Mobile"
)

// Categories lists every valid category.
var Categories = []Category{
	CategoryUIDesign, CategoryUXDesign, CategoryVisualDesign, CategoryMobileDesign, CategoryWebDesign,
	CategoryUX, CategoryUI, CategoryMicrointeraction, CategoryLandingPage, CategoryMobile,
}

// ParseCategory matches s case-insensitively against the known categories.
func ParseCategory(s string) (Category, bool) {
	s = strings.TrimSpace(s)
	for _, c := range Categories {
		if strings.EqualFold(s, string(c)) {
			return c, true
		}
	}
	return "", false
}

// ContentKind discriminates the two shapes a challenge brief can take.
type ContentKind string

const (
	// ContentLegacy is a single free-form brief.
	ContentLegacy ContentKind = "legacy"
	// ContentStructured splits the brief into background, task,
	// constraints and an optional bonus.
	ContentStructured ContentKind = "structured"
)

// ChallengeContent is the long-form brief of a challenge. It is either
// LegacyContent or StructuredContent.
type ChallengeContent interface {
	Kind() ContentKind
	// Markdown renders the brief as a Markdown document.
	Markdown() string
}

// LegacyContent is a brief stored as one block of text.
type LegacyContent struct {
	FullDescription string
}

func (LegacyContent) Kind() ContentKind { return ContentLegacy }

func (c LegacyContent) Markdown() string { return c.FullDescription }

// StructuredContent is a brief split into named sections.
type StructuredContent struct {
	BackgroundContext string
	ChallengeTask     string
	Constraints       []string
	BonusChallenge    string
}

func (StructuredContent) Kind() ContentKind { return ContentStructured }

func (c StructuredContent) Markdown() string {
	var b strings.Builder
	if c.BackgroundContext != "" {
		b.WriteString("## Background\n\n")
		b.WriteString(c.BackgroundContext)
		b.WriteString("\n\n")
	}
	if c.ChallengeTask != "" {
		b.WriteString("## Your Challenge\n\n")
		b.WriteString(c.ChallengeTask)
		b.WriteString("\n\n")
	}
	if len(c.Constraints) > 0 {
		b.WriteString("## Constraints\n\n")
		for _, item := range c.Constraints {
			fmt.Fprintf(&b, "- %s\n", item)
		}
		b.WriteString("\n")
	}
	if c.BonusChallenge != "" {
		b.WriteString("## Bonus Challenge\n\n")
		b.WriteString(c.BonusChallenge)
		b.WriteString("\n")
	}
	return strings.TrimSpace(b.String())
}

// NewChallengeContent picks the content variant from the raw fields.
// A brief with any structured field set is structured; anything else is
// legacy, even when empty.
func NewChallengeContent(fullDescription, background, task string, constraints []string, bonus string) ChallengeContent {
	if strings.TrimSpace(background) != "" || strings.TrimSpace(task) != "" ||
		len(constraints) > 0 || strings.TrimSpace(bonus) != "" {
		return StructuredContent{
			BackgroundContext: background,
			ChallengeTask:     task,
			Constraints:       constraints,
			BonusChallenge:    bonus,
		}
	}
	return LegacyContent{FullDescription: fullDescription}
}

// Challenge is a dated design prompt. At most one exists per calendar date.
type Challenge struct {
	ID             uuid.UUID
	Title          string
	Description    string
	Category       Category
	Difficulty     Difficulty
	TimeEstimate   string
	ChallengeDate  time.Time
	ExampleOutputs []string
	Content        ChallengeContent
	CreatedAt      time.Time
}

// DateString returns the challenge date as YYYY-MM-DD.
func (c *Challenge) DateString() string {
	return c.ChallengeDate.Format(DateLayout)
}

// challengeWire is the flat JSON form of a Challenge. Only the fields of
// the active content variant are populated.
type challengeWire struct {
	ID                uuid.UUID   `json:"id"`
	Title             string      `json:"title"`
	Description       string      `json:"description"`
	ContentType       ContentKind `json:"content_type"`
	FullDescription   string      `json:"full_description,omitempty"`
	BackgroundContext string      `json:"background_context,omitempty"`
	ChallengeTask     string      `json:"challenge_task,omitempty"`
	Constraints       []string    `json:"constraints,omitempty"`
	BonusChallenge    string      `json:"bonus_challenge,omitempty"`
	Category          Category    `json:"category"`
	Difficulty        Difficulty  `json:"difficulty"`
	TimeEstimate      string      `json:"time_estimate"`
	ChallengeDate     string      `json:"challenge_date"`
	ExampleOutputs    []string    `json:"example_outputs"`
	CreatedAt         time.Time   `json:"created_at"`
}

// MarshalJSON flattens the content variant into the challenge object.
func (c Challenge) MarshalJSON() ([]byte, error) {
	w := challengeWire{
		ID:             c.ID,
		Title:          c.Title,
		Description:    c.Description,
		Category:       c.Category,
		Difficulty:     c.Difficulty,
		TimeEstimate:   c.TimeEstimate,
		ChallengeDate:  c.DateString(),
		ExampleOutputs: c.ExampleOutputs,
		CreatedAt:      c.CreatedAt,
	}
	if w.ExampleOutputs == nil {
		w.ExampleOutputs = []string{}
	}

	switch content := c.Content.(type) {
	case StructuredContent:
		w.ContentType = ContentStructured
		w.BackgroundContext = content.BackgroundContext
		w.ChallengeTask = content.ChallengeTask
		w.Constraints = content.Constraints
		w.BonusChallenge = content.BonusChallenge
	case LegacyContent:
		w.ContentType = ContentLegacy
		w.FullDescription = content.FullDescription
	default:
		w.ContentType = ContentLegacy
	}

	return json.Marshal(w)
}

// UnmarshalJSON reverses MarshalJSON. When content_type is absent the
// variant is inferred from which fields are present.
func (c *Challenge) UnmarshalJSON(data []byte) error {
	var w challengeWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	var date time.Time
	if w.ChallengeDate != "" {
		d, err := time.Parse(DateLayout, w.ChallengeDate)
		if err != nil {
			return fmt.Errorf("challenge_date: %w", err)
		}
		date = d
	}

	*c = Challenge{
		ID:             w.ID,
		Title:          w.Title,
		Description:    w.Description,
		Category:       w.Category,
		Difficulty:     w.Difficulty,
		TimeEstimate:   w.TimeEstimate,
		ChallengeDate:  date,
		ExampleOutputs: w.ExampleOutputs,
		CreatedAt:      w.CreatedAt,
	}

	switch w.ContentType {
	case ContentLegacy:
		c.Content = LegacyContent{FullDescription: w.FullDescription}
	case ContentStructured:
		c.Content = StructuredContent{
			BackgroundContext: w.BackgroundContext,
			ChallengeTask:     w.ChallengeTask,
			Constraints:       w.Constraints,
			BonusChallenge:    w.BonusChallenge,
		}
	default:
		c.Content = NewChallengeContent(w.FullDescription, w.BackgroundContext, w.ChallengeTask, w.Constraints, w.BonusChallenge)
	}
	return nil
}

// ArchiveFilter narrows the challenge archive. Empty or "All" fields
// match everything.
type ArchiveFilter struct {
	Difficulty string
	Category   string
}

// Normalize clears "All" values and validates the rest against the
// closed enumerations.
func (f ArchiveFilter) Normalize() (ArchiveFilter, error) {
	var out ArchiveFilter
	if v := strings.TrimSpace(f.Difficulty); v != "" && !strings.EqualFold(v, "All") {
		d, ok := ParseDifficulty(v)
		if !ok {
			return out, fmt.Errorf("unknown difficulty %q", v)
		}
		out.Difficulty = string(d)
	}
	if v := strings.TrimSpace(f.Category); v != "" && !strings.EqualFold(v, "All") {
		c, ok := ParseCategory(v)
		if !ok {
			return out, fmt.Errorf("unknown category %q", v)
		}
		out.Category = string(c)
	}
	return out, nil
}

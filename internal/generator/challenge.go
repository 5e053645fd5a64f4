package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"designcamp/internal/models"
)

const challengeSystemPrompt = `You are a creative UX/UI design challenge generator for "Design Camp" - a platform helping designers build portfolio-worthy projects. Generate engaging, practical design challenges that help designers improve their skills and stand out in the job market.

Your challenges should:
- Be completable in 1-4 hours
- Focus on real-world, portfolio-worthy outcomes
- Include specific constraints to spark creativity
- Be relevant to current design trends and job market needs
- Encourage both visual design and UX thinking`

const challengeSchema = `{
  "title": "A catchy, inspiring challenge title (max 60 chars)",
  "description": "A brief 1-2 sentence hook (max 150 chars)",
  "background_context": "The fictional business or user situation behind the challenge (1 paragraph)",
  "challenge_task": "What the designer must produce and the goals it must meet (1-2 paragraphs)",
  "constraints": ["3-5 specific creative or technical constraints"],
  "bonus_challenge": "An optional stretch goal for ambitious designers",
  "category": "UI Design | UX Design | Visual Design | Mobile Design | Web Design",
  "difficulty": "Beginner | Intermediate | Advanced",
  "time_estimate": "1-2 hours | 2-3 hours | 3-4 hours",
  "example_outputs": ["3-4 specific deliverable suggestions"]
}`

// Hints steer challenge generation. Empty fields let the model choose.
type Hints struct {
	Category   string `json:"category"`
	Difficulty string `json:"difficulty"`
}

// ChallengeGenerator produces daily challenges from the LLM.
type ChallengeGenerator struct {
	llm Completer
	now func() time.Time
}

// NewChallengeGenerator creates a generator backed by llm.
func NewChallengeGenerator(llm Completer) *ChallengeGenerator {
	return &ChallengeGenerator{llm: llm, now: time.Now}
}

// rawChallenge is the JSON object the model is asked to return. Both
// content variants are accepted.
type rawChallenge struct {
	Title             string   `json:"title"`
	Description       string   `json:"description"`
	FullDescription   string   `json:"full_description"`
	BackgroundContext string   `json:"background_context"`
	ChallengeTask     string   `json:"challenge_task"`
	Constraints       []string `json:"constraints"`
	BonusChallenge    string   `json:"bonus_challenge"`
	Category          string   `json:"category"`
	Difficulty        string   `json:"difficulty"`
	TimeEstimate      string   `json:"time_estimate"`
	ExampleOutputs    []string `json:"example_outputs"`
}

// challengePrompt builds the user prompt for the given date and hints.
func challengePrompt(date string, h Hints) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Generate a unique daily design challenge for %s.\n\n", date)
	if h.Category != "" {
		fmt.Fprintf(&b, "Category focus: %s\n", h.Category)
	} else {
		b.WriteString("Category: Mix of UI, UX, or Visual Design\n")
	}
	if h.Difficulty != "" {
		fmt.Fprintf(&b, "Difficulty level: %s\n", h.Difficulty)
	} else {
		b.WriteString("Difficulty: Intermediate\n")
	}
	b.WriteString("\nRespond with a JSON object containing:\n")
	b.WriteString(challengeSchema)
	b.WriteString("\n\nMake it creative, specific, and inspiring. Include real-world context like designing for a specific type of business or solving a particular user problem.")
	return b.String()
}

// Generate asks the model for one challenge dated today (UTC).
func (g *ChallengeGenerator) Generate(ctx context.Context, h Hints) (*models.Challenge, error) {
	now := g.now()
	today := utcToday(now)
	h.Category = strings.TrimSpace(h.Category)
	h.Difficulty = strings.TrimSpace(h.Difficulty)

	slog.Debug("generating challenge", "date", today.Format(models.DateLayout), "category", h.Category, "difficulty", h.Difficulty)

	reply, err := g.llm.Generate(ctx, challengeSystemPrompt, challengePrompt(today.Format(models.DateLayout), h))
	if err != nil {
		return nil, classify("generate challenge", err)
	}

	var raw rawChallenge
	if err := json.Unmarshal([]byte(ExtractJSON(reply)), &raw); err != nil {
		slog.Warn("challenge reply is not JSON", "error", err)
		return nil, ErrMalformedResponse
	}

	c := &models.Challenge{
		ID:             uuid.New(),
		Title:          strings.TrimSpace(raw.Title),
		Description:    strings.TrimSpace(raw.Description),
		Category:       pickCategory(raw.Category, h.Category),
		Difficulty:     pickDifficulty(raw.Difficulty, h.Difficulty),
		TimeEstimate:   strings.TrimSpace(raw.TimeEstimate),
		ChallengeDate:  today,
		ExampleOutputs: raw.ExampleOutputs,
		Content: models.NewChallengeContent(raw.FullDescription, raw.BackgroundContext,
			raw.ChallengeTask, raw.Constraints, raw.BonusChallenge),
		CreatedAt: now.UTC(),
	}
	if c.ExampleOutputs == nil {
		c.ExampleOutputs = []string{}
	}
	if c.Title == "" {
		return nil, ErrMalformedResponse
	}

	slog.Info("generated challenge", "title", c.Title, "date", c.DateString())
	return c, nil
}

// pickDifficulty prefers the model's value, then the hint, then Intermediate.
func pickDifficulty(got, hint string) models.Difficulty {
	if d, ok := models.ParseDifficulty(got); ok {
		return d
	}
	if d, ok := models.ParseDifficulty(hint); ok {
		return d
	}
	return models.DifficultyIntermediate
}

// pickCategory prefers the model's value, then the hint, then UI Design.
func pickCategory(got, hint string) models.Category {
	if c, ok := models.ParseCategory(got); ok {
		return c
	}
	if c, ok := models.ParseCategory(hint); ok {
		return c
	}
	return models.CategoryUIDesign
}

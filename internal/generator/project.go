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

const projectSystemPrompt = `You are an expert UX/UI career coach and project generator for "Design Camp". Your role is to create personalized portfolio project prompts that help designers stand out in the competitive job market.

Your projects should:
- Be realistic and portfolio-worthy
- Include specific business context and user personas
- Focus on skills employers are actively seeking
- Provide clear deliverables and success criteria
- Include creative constraints that encourage innovative solutions
- Reference current design trends and best practices`

const projectSchema = `{
  "title": "A compelling project title that would look great on a portfolio (max 60 chars)",
  "description": "A detailed project brief including business context, target users, and the problem to solve (2-3 paragraphs)",
  "background_context": "The fictional company or brand and its situation (1 paragraph)",
  "skill_level": "Beginner | Intermediate | Advanced",
  "project_type": "Landing Page | Mobile App | Dashboard | E-commerce | SaaS | Portfolio Piece",
  "platform": "Web | Mobile | Cross-platform",
  "duration": "Quick (2-3 days) | Medium (1-2 weeks) | Extended (3-4 weeks)",
  "time_estimate": "Specific hours estimate like '8-12 hours'",
  "deliverables": ["4-6 specific deliverables like 'User flow diagram', 'High-fidelity mockups for 5 key screens'"],
  "constraints": ["3-4 creative constraints"],
  "challenges": ["3-4 specific design problems to solve"],
  "example_challenges": ["3-4 specific design challenges within this project to consider"],
  "tools_recommended": ["3-4 recommended tools like 'Figma', 'FigJam', 'Maze'"],
  "market_relevance": "A sentence about why this project type is valuable for the current job market"
}`

// ProjectHints are the filters chosen in the project generator form.
type ProjectHints struct {
	SkillLevel  string `json:"skillLevel"`
	ProjectType string `json:"projectType"`
	Platform    string `json:"platform"`
	Duration    string `json:"duration"`
}

// withDefaults fills blank filters.
func (h ProjectHints) withDefaults() ProjectHints {
	return ProjectHints{
		SkillLevel:  orDefault(h.SkillLevel, "Intermediate"),
		ProjectType: orDefault(h.ProjectType, "Any"),
		Platform:    orDefault(h.Platform, "Any"),
		Duration:    orDefault(h.Duration, "Medium (1-2 weeks)"),
	}
}

// ProjectGenerator produces portfolio project briefs from the LLM.
type ProjectGenerator struct {
	llm Completer
	now func() time.Time
}

// NewProjectGenerator creates a generator backed by llm.
func NewProjectGenerator(llm Completer) *ProjectGenerator {
	return &ProjectGenerator{llm: llm, now: time.Now}
}

func projectPrompt(h ProjectHints) string {
	var b strings.Builder
	b.WriteString("Generate a unique, personalized portfolio project for a UX/UI designer.\n\nFilters:\n")
	fmt.Fprintf(&b, "- Skill Level: %s\n", h.SkillLevel)
	fmt.Fprintf(&b, "- Project Type: %s\n", h.ProjectType)
	fmt.Fprintf(&b, "- Platform: %s\n", h.Platform)
	fmt.Fprintf(&b, "- Duration: %s\n", h.Duration)
	b.WriteString("\nRespond with a JSON object containing:\n")
	b.WriteString(projectSchema)
	b.WriteString("\n\nMake it specific, creative, and immediately actionable. Include a fictional but realistic company/brand context.")
	return b.String()
}

// Generate asks the model for one project brief.
func (g *ProjectGenerator) Generate(ctx context.Context, h ProjectHints) (*models.GeneratedProject, error) {
	h = h.withDefaults()

	reply, err := g.llm.Generate(ctx, projectSystemPrompt, projectPrompt(h))
	if err != nil {
		return nil, classify("generate project", err)
	}

	var p models.GeneratedProject
	if err := json.Unmarshal([]byte(ExtractJSON(reply)), &p); err != nil {
		slog.Warn("project reply is not JSON", "error", err)
		return nil, ErrMalformedResponse
	}
	if strings.TrimSpace(p.Title) == "" {
		return nil, ErrMalformedResponse
	}

	p.ID = uuid.New()
	p.CreatedAt = g.now().UTC()
	p.SkillLevel = orDefault(p.SkillLevel, h.SkillLevel)
	p.ProjectType = orDefault(p.ProjectType, h.ProjectType)
	p.Platform = orDefault(p.Platform, h.Platform)
	p.Duration = orDefault(p.Duration, h.Duration)
	for _, list := range []*[]string{&p.Deliverables, &p.Constraints, &p.Challenges, &p.ToolsRecommended} {
		if *list == nil {
			*list = []string{}
		}
	}

	slog.Info("generated project", "title", p.Title)
	return &p, nil
}

package handlers

import (
	"context"
	"net/http"

	"designcamp/internal/generator"
	"designcamp/internal/models"
)

// ChallengeGenerator produces a challenge without storing it.
type ChallengeGenerator interface {
	Generate(ctx context.Context, h generator.Hints) (*models.Challenge, error)
}

// ProjectGenerator produces a portfolio project brief.
type ProjectGenerator interface {
	Generate(ctx context.Context, h generator.ProjectHints) (*models.GeneratedProject, error)
}

// Functions serves the public generator endpoints. They answer with the
// generated object itself, or {"error": ...}.
type Functions struct {
	challenges ChallengeGenerator
	projects   ProjectGenerator
}

// NewFunctions creates the handler group.
func NewFunctions(challenges ChallengeGenerator, projects ProjectGenerator) *Functions {
	return &Functions{challenges: challenges, projects: projects}
}

// GenerateChallenge returns a fresh challenge for the optional category
// and difficulty hints.
func (f *Functions) GenerateChallenge(w http.ResponseWriter, r *http.Request) {
	var hints generator.Hints
	if !decodeJSON(w, r, &hints) {
		return
	}

	c, err := f.challenges.Generate(r.Context(), hints)
	if err != nil {
		writeGeneratorError(w, "generate challenge failed", err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// GenerateProject returns a portfolio project brief for the filters.
func (f *Functions) GenerateProject(w http.ResponseWriter, r *http.Request) {
	var hints generator.ProjectHints
	if !decodeJSON(w, r, &hints) {
		return
	}

	p, err := f.projects.Generate(r.Context(), hints)
	if err != nil {
		writeGeneratorError(w, "generate project failed", err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

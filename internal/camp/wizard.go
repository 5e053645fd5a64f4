package camp

import (
	"slices"
	"strings"

	"github.com/google/uuid"

	"designcamp/internal/models"
	"designcamp/internal/slug"
)

// Step is a page of the Camp Track wizard.
type Step int

const (
	StepSkillLevel Step = iota + 1
	StepGoals
	StepTools
	StepWeeklyHours
)

// TotalSteps is the number of wizard pages.
const TotalSteps = 4

// Field names the answer collected on the step.
func (s Step) Field() string {
	switch s {
	case StepSkillLevel:
		return "skill_level"
	case StepGoals:
		return "goals"
	case StepTools:
		return "tools"
	case StepWeeklyHours:
		return "weekly_hours"
	}
	return ""
}

// Answers are the raw wizard inputs. PreferredTools is accepted as an
// alias for Tools.
type Answers struct {
	SkillLevel     string   `json:"skill_level"`
	Goals          []string `json:"goals"`
	Tools          []string `json:"tools"`
	PreferredTools []string `json:"preferred_tools,omitempty"`
	WeeklyHours    int      `json:"weekly_hours"`
}

// Normalize lower-cases and tags every label and drops duplicates.
func (a Answers) Normalize() Answers {
	tools := a.Tools
	if len(tools) == 0 {
		tools = a.PreferredTools
	}
	return Answers{
		SkillLevel:  slug.Generate(a.SkillLevel),
		Goals:       slug.Tags(a.Goals),
		Tools:       slug.Tags(tools),
		WeeklyHours: a.WeeklyHours,
	}
}

// AnswersFrom converts saved preferences back into wizard answers.
func AnswersFrom(p *models.UserPreferences) Answers {
	if p == nil {
		return Answers{}
	}
	return Answers{
		SkillLevel:  string(p.SkillLevel),
		Goals:       slices.Clone(p.Goals),
		Tools:       slices.Clone(p.Tools),
		WeeklyHours: p.WeeklyHours,
	}
}

// Wizard is the four-step Camp Track state machine. Each step gates the
// next on its answer being valid.
type Wizard struct {
	step    Step
	answers Answers
}

// NewWizard starts an empty wizard on the first step.
func NewWizard() *Wizard {
	return &Wizard{step: StepSkillLevel, answers: Answers{Goals: []string{}, Tools: []string{}}}
}

// LoadWizard builds a wizard from answers, positioned on the first
// incomplete step, or on the last step when everything is answered.
func LoadWizard(a Answers) *Wizard {
	w := &Wizard{answers: a.Normalize()}
	if step, ok := w.FirstIncompleteStep(); ok {
		w.step = step
	} else {
		w.step = StepWeeklyHours
	}
	return w
}

// Step returns the current step.
func (w *Wizard) Step() Step { return w.step }

// Answers returns a copy of the current answers.
func (w *Wizard) Answers() Answers {
	a := w.answers
	a.Goals = slices.Clone(a.Goals)
	a.Tools = slices.Clone(a.Tools)
	return a
}

// SetSkillLevel answers step 1.
func (w *Wizard) SetSkillLevel(level string) {
	w.answers.SkillLevel = slug.Generate(level)
}

// ToggleGoal adds the goal, or removes it when already selected.
func (w *Wizard) ToggleGoal(goal string) {
	w.answers.Goals = toggle(w.answers.Goals, slug.Generate(goal))
}

// ToggleTool adds the tool, or removes it when already selected.
func (w *Wizard) ToggleTool(tool string) {
	w.answers.Tools = toggle(w.answers.Tools, slug.Generate(tool))
}

// SetWeeklyHours answers step 4.
func (w *Wizard) SetWeeklyHours(h int) {
	w.answers.WeeklyHours = h
}

// CanProceed reports whether the current step is answered.
func (w *Wizard) CanProceed() bool {
	return stepComplete(w.step, w.answers)
}

// Next advances one step when the current one is answered. It reports
// whether the wizard moved.
func (w *Wizard) Next() bool {
	if w.step >= TotalSteps || !w.CanProceed() {
		return false
	}
	w.step++
	return true
}

// Back returns to the previous step, stopping at the first.
func (w *Wizard) Back() {
	if w.step > StepSkillLevel {
		w.step--
	}
}

// CanSubmit is true on the last step when every answer is valid.
func (w *Wizard) CanSubmit() bool {
	_, incomplete := w.FirstIncompleteStep()
	return w.step == StepWeeklyHours && !incomplete
}

// FirstIncompleteStep returns the earliest unanswered step, or false
// when all four are answered.
func (w *Wizard) FirstIncompleteStep() (Step, bool) {
	for s := StepSkillLevel; s <= StepWeeklyHours; s++ {
		if !stepComplete(s, w.answers) {
			return s, true
		}
	}
	return 0, false
}

// Preferences converts complete answers into a row for userID.
func (w *Wizard) Preferences(userID uuid.UUID) *models.UserPreferences {
	return &models.UserPreferences{
		UserID:      userID,
		SkillLevel:  models.SkillLevel(w.answers.SkillLevel),
		Goals:       slices.Clone(w.answers.Goals),
		Tools:       slices.Clone(w.answers.Tools),
		WeeklyHours: w.answers.WeeklyHours,
	}
}

// stepComplete gates each step on a non-empty answer. The goal and tool
// lists in models are what the client offers, not a closed set.
func stepComplete(s Step, a Answers) bool {
	switch s {
	case StepSkillLevel:
		return models.SkillLevel(a.SkillLevel).IsValid()
	case StepGoals:
		return len(a.Goals) > 0
	case StepTools:
		return len(a.Tools) > 0
	case StepWeeklyHours:
		return a.WeeklyHours > 0
	}
	return false
}

func toggle(list []string, item string) []string {
	if item == "" {
		return list
	}
	if i := slices.Index(list, item); i >= 0 {
		return slices.Delete(slices.Clone(list), i, i+1)
	}
	return append(slices.Clone(list), item)
}

// goalLabel turns a goal tag into words: the first hyphen becomes a space.
func goalLabel(goal string) string {
	return strings.Replace(goal, "-", " ", 1)
}

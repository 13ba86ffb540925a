// Package plan turns a flat AI-proposed step list into an editable,
// phase-grouped plan and flattens edits back for persistence. Loose source
// shapes are normalized in exactly one place (Ingest); everything downstream
// works with typed steps.
package plan

import (
	"fmt"

	"github.com/rmkarlsen/tempus/internal/domain"
)

// PointsPerHour converts plan hours into reward points.
const PointsPerHour = 10

// DefaultStepHours is the duration assigned to manually added steps when the
// caller gives none.
const DefaultStepHours = 2

// RawStep is the loosely-shaped step as proposed by the AI planner or an
// import. Every optional field gets its default in Ingest and nowhere else.
type RawStep struct {
	Phase    string  `json:"phase"`
	Title    string  `json:"title"`
	Duration float64 `json:"duration"`
	Risk     string  `json:"risk"`
	Note     string  `json:"note,omitempty"`
}

// StepEdit is a partial update for a single step. Nil fields are untouched.
type StepEdit struct {
	Title *string
	Hours *float64
	Risk  *domain.RiskLevel
	Note  *string
}

// Totals is a pure projection over the current plan.
type Totals struct {
	StepCount   int
	TotalHours  float64
	TotalPoints float64
}

// Composer holds one task draft's editable plan. Single-writer: distinct
// drafts get distinct Composers and no locking.
type Composer struct {
	steps map[domain.Phase][]domain.PlanStep
	order []domain.Phase // first-seen phase order, drives Flatten
}

// NewComposer returns an empty plan.
func NewComposer() *Composer {
	return &Composer{steps: make(map[domain.Phase][]domain.PlanStep)}
}

// Ingest replaces the plan with the grouped, normalized form of raw. Missing
// or unknown phases fall back to the build phase, durations snap to the
// allowed 2h/4h values, missing risk defaults to low. An empty input yields
// an empty plan, never an error.
func (c *Composer) Ingest(raw []RawStep) {
	c.steps = make(map[domain.Phase][]domain.PlanStep)
	c.order = nil

	for _, r := range raw {
		phase := domain.DefaultPhase
		if domain.ValidPhases[r.Phase] {
			phase = domain.Phase(r.Phase)
		}

		risk := domain.RiskLow
		if domain.ValidRiskLevels[r.Risk] {
			risk = domain.RiskLevel(r.Risk)
		}

		c.append(phase, domain.PlanStep{
			Title: r.Title,
			Hours: NormalizeDuration(r.Duration),
			Risk:  risk,
			Note:  r.Note,
		})
	}
}

// NormalizeDuration snaps a proposed duration onto the allowed discrete
// values: 2 and 4 pass through, anything else becomes 4.
func NormalizeDuration(hours float64) float64 {
	if hours == 2 || hours == 4 {
		return hours
	}
	return 4
}

// AddStep appends a manually authored step. Unlike Ingest, the given hours
// are preserved as-is; zero falls back to the 2h default.
func (c *Composer) AddStep(phase domain.Phase, title string, hours float64) {
	if title == "" {
		return
	}
	if hours <= 0 {
		hours = DefaultStepHours
	}
	c.append(phase, domain.PlanStep{Title: title, Hours: hours, Risk: domain.RiskLow})
}

// EditStep patches the given fields of one step in place. No resorting or
// regrouping happens.
func (c *Composer) EditStep(phase domain.Phase, index int, edit StepEdit) error {
	steps, ok := c.steps[phase]
	if !ok || index < 0 || index >= len(steps) {
		return fmt.Errorf("no step %d in phase %q", index, phase)
	}

	step := &steps[index]
	step.Title = domain.CoalesceStr(ptrVal(edit.Title), step.Title)
	step.Hours = domain.Float64FromPtrWithDefault(step.Hours, edit.Hours)
	if edit.Risk != nil {
		step.Risk = *edit.Risk
	}
	if edit.Note != nil {
		step.Note = *edit.Note
	}
	return nil
}

// RemoveStep deletes one step. A phase whose last step is removed disappears
// entirely; empty phase lists are never retained.
func (c *Composer) RemoveStep(phase domain.Phase, index int) error {
	steps, ok := c.steps[phase]
	if !ok || index < 0 || index >= len(steps) {
		return fmt.Errorf("no step %d in phase %q", index, phase)
	}

	steps = append(steps[:index], steps[index+1:]...)
	if len(steps) == 0 {
		delete(c.steps, phase)
		c.dropFromOrder(phase)
		return nil
	}
	c.steps[phase] = steps
	return nil
}

// Totals recomputes the plan projection on every read.
func (c *Composer) Totals() Totals {
	var t Totals
	for _, steps := range c.steps {
		for _, s := range steps {
			t.StepCount++
			t.TotalHours += s.Hours
		}
	}
	t.TotalPoints = t.TotalHours * PointsPerHour
	return t
}

// Flatten is the inverse of the grouping: phases in first-seen order, steps
// in per-phase insertion order.
func (c *Composer) Flatten() []domain.FlatStep {
	var flat []domain.FlatStep
	for _, phase := range c.order {
		for _, s := range c.steps[phase] {
			flat = append(flat, domain.FlatStep{Phase: phase, Title: s.Title, Hours: s.Hours})
		}
	}
	return flat
}

// Phases returns the phase keys in first-seen order.
func (c *Composer) Phases() []domain.Phase {
	out := make([]domain.Phase, len(c.order))
	copy(out, c.order)
	return out
}

// Steps returns the steps of one phase.
func (c *Composer) Steps(phase domain.Phase) []domain.PlanStep {
	steps := c.steps[phase]
	out := make([]domain.PlanStep, len(steps))
	copy(out, steps)
	return out
}

// Clear resets the plan, e.g. after an apply.
func (c *Composer) Clear() {
	c.steps = make(map[domain.Phase][]domain.PlanStep)
	c.order = nil
}

func (c *Composer) append(phase domain.Phase, step domain.PlanStep) {
	if _, seen := c.steps[phase]; !seen {
		c.order = append(c.order, phase)
	}
	c.steps[phase] = append(c.steps[phase], step)
}

func (c *Composer) dropFromOrder(phase domain.Phase) {
	for i, p := range c.order {
		if p == phase {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}

func ptrVal(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// Package intelligence hosts the AI collaborators: the task planner that
// proposes a phase-tagged step list, and the risk narrator that turns
// deterministic metrics into human-readable reasons and actions. Both speak
// through the llm client and parse defensively; what happens on failure
// differs per service and is documented there.
package intelligence

import (
	"fmt"

	"github.com/rmkarlsen/tempus/internal/domain"
	"github.com/rmkarlsen/tempus/internal/plan"
)

// PlanRequest describes the task the planner should break down.
type PlanRequest struct {
	Title       string
	Description string
	Skills      []string
	TaskType    string
}

// PlanMetadata carries the planner's self-reported caveats alongside the
// suggested steps.
type PlanMetadata struct {
	OverallRisks []string `json:"overall_risks"`
	Assumptions  []string `json:"assumptions"`
	Model        string   `json:"model,omitempty"`
}

// ProposedPlan is the planner's wire response: a flat step list plus
// metadata. Steps stay in their loose RawStep shape here; normalization is
// the composer's job.
type ProposedPlan struct {
	SuggestedPlan []plan.RawStep `json:"suggested_plan"`
	Metadata      PlanMetadata   `json:"ai_metadata"`
}

// EmployeeContext is presentation context for the narrator. MicroTask biases
// phrasing toward urgency; it never changes the scored level.
type EmployeeContext struct {
	Name      string
	Role      string
	MicroTask bool
}

// Narrative is the parsed risk narration.
type Narrative struct {
	RiskLevel  domain.RiskLevel
	Confidence int // 0..100
	Reasons    []string
	Actions    []string
}

// narrativeResponse is the JSON shape the narrator model must emit.
type narrativeResponse struct {
	RiskLevel  string   `json:"risk_level"`
	Confidence int      `json:"confidence"`
	Reasons    []string `json:"reasons"`
	Actions    []string `json:"recommended_actions"`
}

func validateNarrativeResponse(r narrativeResponse) error {
	if !domain.ValidRiskLevels[r.RiskLevel] {
		return fmt.Errorf("unknown risk level %q", r.RiskLevel)
	}
	return nil
}

func validateProposedPlan(p ProposedPlan) error {
	if len(p.SuggestedPlan) == 0 {
		return fmt.Errorf("suggested_plan is empty")
	}
	for i, s := range p.SuggestedPlan {
		if s.Title == "" {
			return fmt.Errorf("step %d has no title", i)
		}
	}
	return nil
}

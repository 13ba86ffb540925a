package intelligence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rmkarlsen/tempus/internal/llm"
)

// ErrEmptyPlan indicates the model produced no usable steps. There is no
// safe default plan, so this surfaces to the user as a retryable failure.
var ErrEmptyPlan = errors.New("ai returned an empty plan")

// PlannerService proposes an execution plan for a task draft. Unlike the
// narrator there is no fallback: planning failures propagate so the caller
// can offer a retry.
type PlannerService interface {
	GeneratePlan(ctx context.Context, req PlanRequest) (*ProposedPlan, error)
}

type plannerService struct {
	client   llm.Client
	observer llm.Observer
}

// NewPlannerService creates a PlannerService backed by an LLM client.
func NewPlannerService(client llm.Client, observer llm.Observer) PlannerService {
	return &plannerService{client: client, observer: observer}
}

func (s *plannerService) GeneratePlan(ctx context.Context, req PlanRequest) (*ProposedPlan, error) {
	if req.Title == "" || req.Description == "" {
		return nil, fmt.Errorf("task title and description are required")
	}

	resp, err := s.client.Generate(ctx, llm.GenerateRequest{
		Task:         llm.TaskPlan,
		SystemPrompt: plannerSystemPrompt,
		UserPrompt:   buildPlannerPrompt(req),
	})
	if err != nil {
		return nil, fmt.Errorf("llm plan generation failed: %w", err)
	}

	proposed, err := llm.ExtractJSON[ProposedPlan](resp.Text, validateProposedPlan)
	if err != nil {
		if strings.Contains(err.Error(), "suggested_plan is empty") {
			return nil, ErrEmptyPlan
		}
		return nil, fmt.Errorf("failed to extract plan: %w", err)
	}

	if proposed.Metadata.Model == "" {
		proposed.Metadata.Model = resp.Model
	}
	return &proposed, nil
}

func buildPlannerPrompt(req PlanRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "TASK: %s\n", req.Title)
	fmt.Fprintf(&b, "DESCRIPTION: %s\n", req.Description)
	if len(req.Skills) > 0 {
		fmt.Fprintf(&b, "SKILLS: %s\n", strings.Join(req.Skills, ", "))
	}
	taskType := req.TaskType
	if taskType == "" {
		taskType = "General"
	}
	fmt.Fprintf(&b, "TYPE: %s\n\n", taskType)
	b.WriteString("Generate a detailed execution plan.")
	return b.String()
}

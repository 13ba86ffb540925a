package intelligence

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/rmkarlsen/tempus/internal/domain"
	"github.com/rmkarlsen/tempus/internal/llm"
)

// NarrativeService asks the model to narrate a risk assessment. Transport
// and parse errors propagate unwrapped sentinel errors; the assessor decides
// how to degrade.
type NarrativeService interface {
	Narrate(ctx context.Context, metrics domain.RiskMetrics, taskTitle string, emp EmployeeContext) (*Narrative, error)
}

type narrativeService struct {
	client   llm.Client
	observer llm.Observer
}

// NewNarrativeService creates a NarrativeService backed by an LLM client.
func NewNarrativeService(client llm.Client, observer llm.Observer) NarrativeService {
	return &narrativeService{client: client, observer: observer}
}

func (s *narrativeService) Narrate(ctx context.Context, metrics domain.RiskMetrics, taskTitle string, emp EmployeeContext) (*Narrative, error) {
	resp, err := s.client.Generate(ctx, llm.GenerateRequest{
		Task:         llm.TaskRiskNarrative,
		SystemPrompt: narrativeSystemPrompt,
		UserPrompt:   buildNarrativePrompt(metrics, taskTitle, emp),
	})
	if err != nil {
		return nil, err
	}

	parsed, err := llm.ExtractJSON[narrativeResponse](resp.Text, validateNarrativeResponse)
	if err != nil {
		return nil, err
	}

	return &Narrative{
		RiskLevel:  domain.RiskLevel(parsed.RiskLevel),
		Confidence: clampConfidence(parsed.Confidence),
		Reasons:    parsed.Reasons,
		Actions:    parsed.Actions,
	}, nil
}

// buildNarrativePrompt speaks in minutes and percentages: the coach persona
// should never see raw fractional hours.
func buildNarrativePrompt(metrics domain.RiskMetrics, taskTitle string, emp EmployeeContext) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Task: %q\n", taskTitle)
	fmt.Fprintf(&b, "Allocated time: %.0f minutes\n", metrics.AllocatedHours*60)
	fmt.Fprintf(&b, "Time already spent: %.0f minutes\n", math.Round(metrics.ElapsedHours*60))
	fmt.Fprintf(&b, "Completion: %.0f%%\n", metrics.ProgressRatio*100)
	fmt.Fprintf(&b, "Threat level: %s\n", metrics.BaseRiskLevel)
	fmt.Fprintf(&b, "Is micro-task: %v\n", emp.MicroTask || metrics.MicroTask())
	if emp.Name != "" {
		fmt.Fprintf(&b, "Employee: %s", emp.Name)
		if emp.Role != "" {
			fmt.Fprintf(&b, " (%s)", emp.Role)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func clampConfidence(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

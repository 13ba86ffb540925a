package risk

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rmkarlsen/tempus/internal/calendar"
	"github.com/rmkarlsen/tempus/internal/domain"
	"github.com/rmkarlsen/tempus/internal/intelligence"
	"github.com/rmkarlsen/tempus/internal/llm"
	"github.com/rmkarlsen/tempus/internal/repository"
)

// CallState tracks a single assessment through its lifecycle. Every call
// that reaches Requesting ends in Persisted: narration failures degrade to
// the fallback narrative instead of losing the snapshot.
type CallState string

const (
	StateIdle            CallState = "idle"
	StateRequesting      CallState = "requesting"
	StateSucceeded       CallState = "succeeded"
	StateFailedParse     CallState = "failed_parse"
	StateFailedTransport CallState = "failed_transport"
	StatePersisted       CallState = "persisted"
)

// Fallback narrative used when the model's answer is unusable. The risk
// level itself comes from the deterministic classifier, so a degraded
// snapshot is still honest about the level and only vague about why.
const (
	fallbackConfidence = 50
	fallbackReason     = "AI response could not be parsed."
	fallbackAction     = "Review progress manually."
)

// AssessRequest carries everything needed to assess one task.
type AssessRequest struct {
	TaskID         string
	Title          string
	WindowStart    time.Time
	AllocatedHours float64
	ProgressRatio  float64
	Employee       intelligence.EmployeeContext
}

// Assessment is the outcome of one call. Degraded reports that the
// narrative came from the fallback rather than the model; State records
// how narration ended before the snapshot was persisted.
type Assessment struct {
	Snapshot domain.RiskSnapshot
	Degraded bool
	State    CallState
}

// Assessor computes metrics, narrates them through the LLM, and appends an
// immutable snapshot per call. Snapshots are never updated in place.
type Assessor struct {
	narrator  intelligence.NarrativeService
	snapshots repository.SnapshotRepo
	policy    calendar.Policy
	model     string
	now       func() time.Time
}

// NewAssessor wires an assessor. now is injectable for tests; nil means
// wall-clock UTC.
func NewAssessor(narrator intelligence.NarrativeService, snapshots repository.SnapshotRepo, policy calendar.Policy, model string, now func() time.Time) *Assessor {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &Assessor{
		narrator:  narrator,
		snapshots: snapshots,
		policy:    policy,
		model:     model,
		now:       now,
	}
}

// Assess runs one assessment end to end. Configuration problems (missing
// API key, invalid policy) abort before any snapshot is written; transport
// and parse failures degrade to the fallback narrative and still persist.
func (a *Assessor) Assess(ctx context.Context, req AssessRequest) (*Assessment, error) {
	state := StateIdle

	if req.TaskID == "" {
		return nil, fmt.Errorf("task id is required")
	}
	if err := a.policy.Validate(); err != nil {
		return nil, err
	}

	computedAt := a.now()
	metrics, err := MetricsAt(a.policy, req.WindowStart, req.AllocatedHours, req.ProgressRatio, computedAt)
	if err != nil {
		return nil, err
	}

	state = StateRequesting
	narrative, err := a.narrator.Narrate(ctx, metrics, req.Title, req.Employee)
	degraded := false
	switch {
	case err == nil:
		state = StateSucceeded
	case errors.Is(err, llm.ErrMissingAPIKey):
		return nil, err
	case errors.Is(err, llm.ErrInvalidOutput):
		state = StateFailedParse
		degraded = true
	default:
		state = StateFailedTransport
		degraded = true
	}

	snap := domain.RiskSnapshot{
		ID:         uuid.NewString(),
		TaskID:     req.TaskID,
		Metrics:    metrics,
		ComputedAt: computedAt,
	}
	if degraded {
		snap.RiskLevel = metrics.BaseRiskLevel
		snap.Confidence = fallbackConfidence
		snap.Reasons = []string{fallbackReason}
		snap.Actions = []string{fallbackAction}
	} else {
		snap.RiskLevel = narrative.RiskLevel
		snap.Confidence = narrative.Confidence
		snap.Reasons = narrative.Reasons
		snap.Actions = narrative.Actions
		snap.Model = a.model
	}

	if err := a.snapshots.Create(ctx, &snap); err != nil {
		return nil, fmt.Errorf("persist risk snapshot (state %s): %w", state, err)
	}

	return &Assessment{Snapshot: snap, Degraded: degraded, State: StatePersisted}, nil
}

// History returns the snapshot trail for a task, newest first.
func (a *Assessor) History(ctx context.Context, taskID string) ([]domain.RiskSnapshot, error) {
	return a.snapshots.ListByTask(ctx, taskID)
}

// Latest returns the most recent snapshot for a task.
func (a *Assessor) Latest(ctx context.Context, taskID string) (*domain.RiskSnapshot, error) {
	return a.snapshots.LatestByTask(ctx, taskID)
}

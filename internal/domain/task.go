package domain

import "time"

// WorkWindow holds the four form fields describing a task's absolute time
// range. Dates use layout 2006-01-02, times 15:04. Fields may be empty while
// the user is still filling the form; Resolve only succeeds once both
// endpoints are complete.
type WorkWindow struct {
	StartDate string
	StartTime string
	EndDate   string
	EndTime   string
}

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Complete reports whether all four window fields are present.
func (w WorkWindow) Complete() bool {
	return w.StartDate != "" && w.StartTime != "" && w.EndDate != "" && w.EndTime != ""
}

// Start resolves the start endpoint. Fails if fields are missing or malformed.
func (w WorkWindow) Start() (time.Time, error) {
	return time.Parse(DateLayout+"T"+TimeLayout, w.StartDate+"T"+w.StartTime)
}

// End resolves the end endpoint.
func (w WorkWindow) End() (time.Time, error) {
	return time.Parse(DateLayout+"T"+TimeLayout, w.EndDate+"T"+w.EndTime)
}

// PlanStep is one editable step of a task plan, grouped under a phase.
type PlanStep struct {
	Title string
	Hours float64
	Risk  RiskLevel
	Note  string
}

// FlatStep is the persistence shape of a plan step: the grouping inverse
// carries the phase tag on each row.
type FlatStep struct {
	Phase Phase
	Title string
	Hours float64
}

// RiskMetrics are the deterministic inputs to a risk assessment.
type RiskMetrics struct {
	AllocatedHours      float64
	ElapsedHours        float64
	ProgressRatio       float64 // 0..1
	PredictedTotalHours float64
	PredictedDelayHours float64
	BaseRiskLevel       RiskLevel
}

// MicroTask reports whether the allocation is short enough to warrant
// urgency-biased narrative framing.
func (m RiskMetrics) MicroTask() bool {
	return m.AllocatedHours < 1
}

// RiskSnapshot is an immutable, timestamped assessment record. Written once,
// never updated.
type RiskSnapshot struct {
	ID         string
	TaskID     string
	Metrics    RiskMetrics
	RiskLevel  RiskLevel
	Confidence int // 0..100
	Reasons    []string
	Actions    []string
	Model      string
	ComputedAt time.Time
}

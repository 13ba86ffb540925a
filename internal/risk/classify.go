package risk

import (
	"fmt"
	"time"

	"github.com/rmkarlsen/tempus/internal/calendar"
	"github.com/rmkarlsen/tempus/internal/domain"
)

// Classification thresholds. Pressure measures how far time consumption has
// outrun progress: a task at 60% of its budget with 60% done has zero
// pressure, while the same burn with nothing done has 0.6.
const (
	highElapsedRatio   = 1.0
	highPressure       = 0.6
	mediumElapsedRatio = 0.9
	mediumPressure     = 0.3
)

// ClassifyBase derives the deterministic risk level from metrics alone.
// It is monotonic: holding progress fixed, more elapsed time never lowers
// the level, and holding elapsed fixed, more progress never raises it.
func ClassifyBase(m domain.RiskMetrics) domain.RiskLevel {
	if m.AllocatedHours <= 0 {
		return domain.RiskLow
	}
	ratio := m.ElapsedHours / m.AllocatedHours
	pressure := ratio - m.ProgressRatio

	switch {
	case ratio >= highElapsedRatio || pressure >= highPressure:
		return domain.RiskHigh
	case ratio >= mediumElapsedRatio || pressure >= mediumPressure:
		return domain.RiskMedium
	default:
		return domain.RiskLow
	}
}

// ComputeMetrics fills the derived fields from the three raw inputs.
// Predicted total extrapolates linearly from the burn rate; with no
// progress at all there is nothing to extrapolate from, so prediction
// degrades to "at least what has already been spent".
func ComputeMetrics(allocated, elapsed, progress float64) domain.RiskMetrics {
	m := domain.RiskMetrics{
		AllocatedHours: allocated,
		ElapsedHours:   elapsed,
		ProgressRatio:  progress,
	}

	if progress > 0 {
		m.PredictedTotalHours = elapsed / progress
	} else if elapsed > allocated {
		m.PredictedTotalHours = elapsed
	} else {
		m.PredictedTotalHours = allocated
	}

	if delay := m.PredictedTotalHours - allocated; delay > 0 {
		m.PredictedDelayHours = delay
	}

	m.BaseRiskLevel = ClassifyBase(m)
	return m
}

// MetricsAt computes metrics for a task window as of a given instant,
// counting only business hours between the window start and now.
func MetricsAt(policy calendar.Policy, windowStart time.Time, allocated, progress float64, now time.Time) (domain.RiskMetrics, error) {
	elapsed := 0.0
	if now.After(windowStart) {
		var err error
		elapsed, err = calendar.ElapsedBusinessHours(windowStart, now, policy)
		if err != nil {
			return domain.RiskMetrics{}, fmt.Errorf("elapsed hours for task window: %w", err)
		}
	}
	return ComputeMetrics(allocated, elapsed, progress), nil
}

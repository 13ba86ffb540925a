package testutil

import (
	"time"

	"github.com/google/uuid"
	"github.com/rmkarlsen/tempus/internal/domain"
)

// Snapshot options
type SnapshotOption func(*domain.RiskSnapshot)

func WithRiskLevel(l domain.RiskLevel) SnapshotOption {
	return func(s *domain.RiskSnapshot) {
		s.RiskLevel = l
		s.Metrics.BaseRiskLevel = l
	}
}

func WithConfidence(c int) SnapshotOption {
	return func(s *domain.RiskSnapshot) {
		s.Confidence = c
	}
}

func WithComputedAt(t time.Time) SnapshotOption {
	return func(s *domain.RiskSnapshot) {
		s.ComputedAt = t
	}
}

func WithMetrics(m domain.RiskMetrics) SnapshotOption {
	return func(s *domain.RiskSnapshot) {
		s.Metrics = m
	}
}

func NewTestSnapshot(taskID string, opts ...SnapshotOption) *domain.RiskSnapshot {
	s := &domain.RiskSnapshot{
		ID:     uuid.New().String(),
		TaskID: taskID,
		Metrics: domain.RiskMetrics{
			AllocatedHours:      4,
			ElapsedHours:        2,
			ProgressRatio:       0.5,
			PredictedTotalHours: 4,
			BaseRiskLevel:       domain.RiskLow,
		},
		RiskLevel:  domain.RiskLow,
		Confidence: 80,
		Reasons:    []string{"On pace at the halfway mark"},
		Actions:    []string{"Keep the current cadence"},
		Model:      "test-model",
		ComputedAt: time.Now().UTC().Truncate(time.Second),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

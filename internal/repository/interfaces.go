package repository

import (
	"context"

	"github.com/rmkarlsen/tempus/internal/domain"
)

// StepRow is the persisted form of one plan step. Position preserves the
// flattened order so a reload reproduces the plan exactly.
type StepRow struct {
	TaskID   string
	Position int
	Phase    domain.Phase
	Title    string
	Hours    float64
	Risk     domain.RiskLevel
	Note     string
}

// SnapshotRepo stores risk snapshots. Snapshots are append-only: there is
// no update or delete, history is the point.
type SnapshotRepo interface {
	Create(ctx context.Context, s *domain.RiskSnapshot) error
	LatestByTask(ctx context.Context, taskID string) (*domain.RiskSnapshot, error)
	ListByTask(ctx context.Context, taskID string) ([]domain.RiskSnapshot, error)
}

// StepRepo stores the flattened plan for a task. Saving a plan replaces the
// previous rows wholesale, mirroring how plan ingestion works in memory.
type StepRepo interface {
	ReplaceForTask(ctx context.Context, taskID string, rows []StepRow) error
	ListByTask(ctx context.Context, taskID string) ([]StepRow, error)
}

package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rmkarlsen/tempus/internal/domain"
)

// snapshotColumns is the canonical SELECT column list for task_risk_snapshots.
const snapshotColumns = `id, task_id, allocated_hours, elapsed_hours, progress_ratio,
		predicted_total_hours, predicted_delay_hours, base_risk_level,
		risk_level, confidence, reasons, recommended_actions, model, computed_at`

// SQLiteSnapshotRepo implements SnapshotRepo using a SQLite database.
type SQLiteSnapshotRepo struct {
	db *sql.DB
}

// NewSQLiteSnapshotRepo creates a new SQLiteSnapshotRepo.
func NewSQLiteSnapshotRepo(db *sql.DB) *SQLiteSnapshotRepo {
	return &SQLiteSnapshotRepo{db: db}
}

func (r *SQLiteSnapshotRepo) Create(ctx context.Context, s *domain.RiskSnapshot) error {
	reasons, err := marshalStrings(s.Reasons)
	if err != nil {
		return err
	}
	actions, err := marshalStrings(s.Actions)
	if err != nil {
		return err
	}

	query := `INSERT INTO task_risk_snapshots (` + snapshotColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		s.ID,
		s.TaskID,
		s.Metrics.AllocatedHours,
		s.Metrics.ElapsedHours,
		s.Metrics.ProgressRatio,
		s.Metrics.PredictedTotalHours,
		s.Metrics.PredictedDelayHours,
		string(s.Metrics.BaseRiskLevel),
		string(s.RiskLevel),
		s.Confidence,
		reasons,
		actions,
		s.Model,
		s.ComputedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting risk snapshot: %w", err)
	}
	return nil
}

func (r *SQLiteSnapshotRepo) LatestByTask(ctx context.Context, taskID string) (*domain.RiskSnapshot, error) {
	query := `SELECT ` + snapshotColumns + ` FROM task_risk_snapshots
		WHERE task_id = ? ORDER BY computed_at DESC, rowid DESC LIMIT 1`
	row := r.db.QueryRowContext(ctx, query, taskID)
	return r.scanSnapshot(row)
}

func (r *SQLiteSnapshotRepo) ListByTask(ctx context.Context, taskID string) ([]domain.RiskSnapshot, error) {
	query := `SELECT ` + snapshotColumns + ` FROM task_risk_snapshots
		WHERE task_id = ? ORDER BY computed_at DESC, rowid DESC`
	rows, err := r.db.QueryContext(ctx, query, taskID)
	if err != nil {
		return nil, fmt.Errorf("listing risk snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []domain.RiskSnapshot
	for rows.Next() {
		s, err := r.scanSnapshotRow(rows)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating risk snapshots: %w", err)
	}
	return snapshots, nil
}

func (r *SQLiteSnapshotRepo) scanSnapshot(row *sql.Row) (*domain.RiskSnapshot, error) {
	var s domain.RiskSnapshot
	var baseLevel, level, reasonsStr, actionsStr, computedAtStr string

	err := row.Scan(
		&s.ID, &s.TaskID,
		&s.Metrics.AllocatedHours, &s.Metrics.ElapsedHours, &s.Metrics.ProgressRatio,
		&s.Metrics.PredictedTotalHours, &s.Metrics.PredictedDelayHours, &baseLevel,
		&level, &s.Confidence, &reasonsStr, &actionsStr, &s.Model, &computedAtStr,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("risk snapshot: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning risk snapshot: %w", err)
	}
	return r.populateSnapshot(&s, baseLevel, level, reasonsStr, actionsStr, computedAtStr)
}

func (r *SQLiteSnapshotRepo) scanSnapshotRow(rows *sql.Rows) (*domain.RiskSnapshot, error) {
	var s domain.RiskSnapshot
	var baseLevel, level, reasonsStr, actionsStr, computedAtStr string

	err := rows.Scan(
		&s.ID, &s.TaskID,
		&s.Metrics.AllocatedHours, &s.Metrics.ElapsedHours, &s.Metrics.ProgressRatio,
		&s.Metrics.PredictedTotalHours, &s.Metrics.PredictedDelayHours, &baseLevel,
		&level, &s.Confidence, &reasonsStr, &actionsStr, &s.Model, &computedAtStr,
	)
	if err != nil {
		return nil, fmt.Errorf("scanning risk snapshot row: %w", err)
	}
	return r.populateSnapshot(&s, baseLevel, level, reasonsStr, actionsStr, computedAtStr)
}

func (r *SQLiteSnapshotRepo) populateSnapshot(s *domain.RiskSnapshot, baseLevel, level, reasonsStr, actionsStr, computedAtStr string) (*domain.RiskSnapshot, error) {
	s.Metrics.BaseRiskLevel = domain.RiskLevel(baseLevel)
	s.RiskLevel = domain.RiskLevel(level)

	var err error
	if s.Reasons, err = unmarshalStrings(reasonsStr); err != nil {
		return nil, fmt.Errorf("parsing reasons: %w", err)
	}
	if s.Actions, err = unmarshalStrings(actionsStr); err != nil {
		return nil, fmt.Errorf("parsing recommended_actions: %w", err)
	}
	if s.ComputedAt, err = time.Parse(time.RFC3339, computedAtStr); err != nil {
		return nil, fmt.Errorf("parsing computed_at: %w", err)
	}
	return s, nil
}

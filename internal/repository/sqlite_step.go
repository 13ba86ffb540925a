package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rmkarlsen/tempus/internal/domain"
)

// SQLiteStepRepo implements StepRepo using a SQLite database.
type SQLiteStepRepo struct {
	db *sql.DB
}

// NewSQLiteStepRepo creates a new SQLiteStepRepo.
func NewSQLiteStepRepo(db *sql.DB) *SQLiteStepRepo {
	return &SQLiteStepRepo{db: db}
}

// ReplaceForTask swaps the stored plan atomically. An empty rows slice
// clears the plan.
func (r *SQLiteStepRepo) ReplaceForTask(ctx context.Context, taskID string, rows []StepRow) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting step replace transaction: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM task_steps WHERE task_id = ?`, taskID); err != nil {
		return fmt.Errorf("clearing task steps: %w", err)
	}

	query := `INSERT INTO task_steps (task_id, position, phase, title, hours, risk, note)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	for i, row := range rows {
		if _, err := tx.ExecContext(ctx, query,
			taskID, i, string(row.Phase), row.Title, row.Hours, string(row.Risk), row.Note,
		); err != nil {
			return fmt.Errorf("inserting task step %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing step replace: %w", err)
	}
	committed = true
	return nil
}

func (r *SQLiteStepRepo) ListByTask(ctx context.Context, taskID string) ([]StepRow, error) {
	query := `SELECT task_id, position, phase, title, hours, risk, note
		FROM task_steps WHERE task_id = ? ORDER BY position`
	rows, err := r.db.QueryContext(ctx, query, taskID)
	if err != nil {
		return nil, fmt.Errorf("listing task steps: %w", err)
	}
	defer rows.Close()

	var out []StepRow
	for rows.Next() {
		var row StepRow
		var phase, risk string
		if err := rows.Scan(&row.TaskID, &row.Position, &phase, &row.Title, &row.Hours, &risk, &row.Note); err != nil {
			return nil, fmt.Errorf("scanning task step: %w", err)
		}
		row.Phase = domain.Phase(phase)
		row.Risk = domain.RiskLevel(risk)
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating task steps: %w", err)
	}
	return out, nil
}

package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Statements are idempotent and safe to
// re-run on every startup.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS task_risk_snapshots (
		id                    TEXT PRIMARY KEY,
		task_id               TEXT NOT NULL,
		allocated_hours       REAL NOT NULL CHECK(allocated_hours >= 0),
		elapsed_hours         REAL NOT NULL CHECK(elapsed_hours >= 0),
		progress_ratio        REAL NOT NULL CHECK(progress_ratio >= 0),
		predicted_total_hours REAL NOT NULL DEFAULT 0,
		predicted_delay_hours REAL NOT NULL DEFAULT 0,
		base_risk_level       TEXT NOT NULL
		                      CHECK(base_risk_level IN ('low','medium','high')),
		risk_level            TEXT NOT NULL
		                      CHECK(risk_level IN ('low','medium','high')),
		confidence            INTEGER NOT NULL DEFAULT 0
		                      CHECK(confidence BETWEEN 0 AND 100),
		reasons               TEXT NOT NULL DEFAULT '[]',
		recommended_actions   TEXT NOT NULL DEFAULT '[]',
		model                 TEXT NOT NULL DEFAULT '',
		computed_at           TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_risk_snapshots_task ON task_risk_snapshots(task_id, computed_at)`,

	`CREATE TABLE IF NOT EXISTS task_steps (
		task_id  TEXT NOT NULL,
		position INTEGER NOT NULL CHECK(position >= 0),
		phase    TEXT NOT NULL
		         CHECK(phase IN ('requirement_refiner','design_guidance','build_guidance','acceptance_criteria','deployment')),
		title    TEXT NOT NULL,
		hours    REAL NOT NULL CHECK(hours >= 0),
		risk     TEXT NOT NULL DEFAULT 'low'
		         CHECK(risk IN ('low','medium','high')),
		note     TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (task_id, position)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_task_steps_task ON task_steps(task_id)`,
}

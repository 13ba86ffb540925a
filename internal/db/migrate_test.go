package db

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)

	// Run migrations a second time — should succeed without error.
	err := Migrate(db)
	require.NoError(t, err)

	err = Migrate(db)
	require.NoError(t, err)
}

func TestMigrate_CreatesAllTables(t *testing.T) {
	db := openTestDB(t)

	expected := []string{"task_risk_snapshots", "task_steps"}
	for _, table := range expected {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

func TestMigrate_CreatesIndexes(t *testing.T) {
	db := openTestDB(t)

	expected := []string{
		"idx_risk_snapshots_task",
		"idx_task_steps_task",
	}
	for _, idx := range expected {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='index' AND name=?`, idx).Scan(&name)
		require.NoError(t, err, "index %s should exist", idx)
	}
}

func TestSchema_RejectsInvalidRiskLevel(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO task_risk_snapshots (
		id, task_id, allocated_hours, elapsed_hours, progress_ratio,
		base_risk_level, risk_level, computed_at
	) VALUES ('s1', 't1', 4, 2, 0.5, 'low', 'apocalyptic', '2025-03-10T09:00:00Z')`)
	assert.Error(t, err)
}

func TestSchema_RejectsUnknownPhase(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO task_steps (task_id, position, phase, title, hours)
		VALUES ('t1', 0, 'mystery_phase', 'Step', 2)`)
	assert.Error(t, err)
}

package repository

import (
	"context"
	"testing"

	"github.com/rmkarlsen/tempus/internal/domain"
	"github.com/rmkarlsen/tempus/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePlanRows() []StepRow {
	return []StepRow{
		{Phase: domain.PhaseDesign, Title: "Create DB schema", Hours: 4, Risk: domain.RiskMedium},
		{Phase: domain.PhaseBuild, Title: "Implement endpoints", Hours: 4, Risk: domain.RiskHigh, Note: "auth first"},
		{Phase: domain.PhaseBuild, Title: "Wire background jobs", Hours: 2, Risk: domain.RiskLow},
	}
}

func TestStepRepo_ReplaceAndList(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteStepRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.ReplaceForTask(ctx, "task-1", samplePlanRows()))

	got, err := repo.ListByTask(ctx, "task-1")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "Create DB schema", got[0].Title)
	assert.Equal(t, domain.PhaseBuild, got[1].Phase)
	assert.Equal(t, "auth first", got[1].Note)
	assert.Equal(t, []int{0, 1, 2}, []int{got[0].Position, got[1].Position, got[2].Position})
}

func TestStepRepo_ReplaceDiscardsOldRows(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteStepRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.ReplaceForTask(ctx, "task-1", samplePlanRows()))
	require.NoError(t, repo.ReplaceForTask(ctx, "task-1", []StepRow{
		{Phase: domain.PhaseDeployment, Title: "Ship it", Hours: 2, Risk: domain.RiskLow},
	}))

	got, err := repo.ListByTask(ctx, "task-1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Ship it", got[0].Title)
}

func TestStepRepo_ReplaceWithEmptyClearsPlan(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteStepRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.ReplaceForTask(ctx, "task-1", samplePlanRows()))
	require.NoError(t, repo.ReplaceForTask(ctx, "task-1", nil))

	got, err := repo.ListByTask(ctx, "task-1")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestStepRepo_TasksAreIsolated(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteStepRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.ReplaceForTask(ctx, "task-1", samplePlanRows()))
	require.NoError(t, repo.ReplaceForTask(ctx, "task-2", samplePlanRows()[:1]))
	require.NoError(t, repo.ReplaceForTask(ctx, "task-1", nil))

	got, err := repo.ListByTask(ctx, "task-2")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestStepRepo_InvalidPhaseRolledBack(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteStepRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.ReplaceForTask(ctx, "task-1", samplePlanRows()))

	err := repo.ReplaceForTask(ctx, "task-1", []StepRow{
		{Phase: domain.Phase("mystery_phase"), Title: "Bad", Hours: 2, Risk: domain.RiskLow},
	})
	require.Error(t, err)

	// The failed replace must not have destroyed the previous plan.
	got, err := repo.ListByTask(ctx, "task-1")
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

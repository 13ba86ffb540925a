package plan

import (
	"testing"

	"github.com/rmkarlsen/tempus/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIngest_GroupsByPhase(t *testing.T) {
	c := NewComposer()
	c.Ingest([]RawStep{
		{Phase: "design_guidance", Title: "Wireframes", Duration: 4, Risk: "medium"},
		{Phase: "build_guidance", Title: "API endpoints", Duration: 4, Risk: "high"},
		{Phase: "design_guidance", Title: "Review mockups", Duration: 2, Risk: "low"},
	})

	assert.Equal(t, []domain.Phase{domain.PhaseDesign, domain.PhaseBuild}, c.Phases())
	design := c.Steps(domain.PhaseDesign)
	require.Len(t, design, 2)
	assert.Equal(t, "Wireframes", design[0].Title)
	assert.Equal(t, "Review mockups", design[1].Title)
}

func TestIngest_NormalizesDuration(t *testing.T) {
	c := NewComposer()
	c.Ingest([]RawStep{
		{Phase: "design_guidance", Title: "Wireframes", Duration: 3, Risk: "medium"},
	})

	steps := c.Steps(domain.PhaseDesign)
	require.Len(t, steps, 1)
	assert.Equal(t, 4.0, steps[0].Hours)
	assert.Equal(t, 4.0, c.Totals().TotalHours)
}

func TestIngest_KeepsAllowedDurations(t *testing.T) {
	c := NewComposer()
	c.Ingest([]RawStep{
		{Phase: "build_guidance", Title: "A", Duration: 2},
		{Phase: "build_guidance", Title: "B", Duration: 4},
		{Phase: "build_guidance", Title: "C", Duration: 0},
	})

	steps := c.Steps(domain.PhaseBuild)
	assert.Equal(t, 2.0, steps[0].Hours)
	assert.Equal(t, 4.0, steps[1].Hours)
	assert.Equal(t, 4.0, steps[2].Hours)
}

func TestIngest_DefaultsPhaseAndRisk(t *testing.T) {
	c := NewComposer()
	c.Ingest([]RawStep{
		{Title: "Untagged", Duration: 2},
		{Phase: "not_a_phase", Title: "Mistagged", Duration: 2, Risk: "severe"},
	})

	steps := c.Steps(domain.DefaultPhase)
	require.Len(t, steps, 2)
	for _, s := range steps {
		assert.Equal(t, domain.RiskLow, s.Risk)
	}
}

func TestIngest_EmptyInput(t *testing.T) {
	c := NewComposer()
	c.Ingest(nil)

	assert.Empty(t, c.Phases())
	assert.Equal(t, Totals{}, c.Totals())
	assert.Empty(t, c.Flatten())
}

func TestAddStep_PreservesHours(t *testing.T) {
	c := NewComposer()
	c.AddStep(domain.PhaseRequirements, "Clarify scope", 3)
	c.AddStep(domain.PhaseRequirements, "Kickoff notes", 0)
	c.AddStep(domain.PhaseRequirements, "", 2) // ignored

	steps := c.Steps(domain.PhaseRequirements)
	require.Len(t, steps, 2)
	assert.Equal(t, 3.0, steps[0].Hours)
	assert.Equal(t, 2.0, steps[1].Hours) // default
}

func TestEditStep_PatchesFieldsInPlace(t *testing.T) {
	c := NewComposer()
	c.Ingest([]RawStep{
		{Phase: "design_guidance", Title: "Wireframes", Duration: 4, Risk: "medium", Note: "rough"},
	})

	title := "High-fidelity wireframes"
	risk := domain.RiskHigh
	require.NoError(t, c.EditStep(domain.PhaseDesign, 0, StepEdit{Title: &title, Risk: &risk}))

	steps := c.Steps(domain.PhaseDesign)
	assert.Equal(t, title, steps[0].Title)
	assert.Equal(t, domain.RiskHigh, steps[0].Risk)
	assert.Equal(t, 4.0, steps[0].Hours)   // untouched
	assert.Equal(t, "rough", steps[0].Note) // untouched
}

func TestEditStep_OutOfRange(t *testing.T) {
	c := NewComposer()
	assert.Error(t, c.EditStep(domain.PhaseDesign, 0, StepEdit{}))
}

func TestRemoveStep_PrunesEmptyPhase(t *testing.T) {
	c := NewComposer()
	c.Ingest([]RawStep{
		{Phase: "design_guidance", Title: "Wireframes", Duration: 4},
		{Phase: "build_guidance", Title: "API endpoints", Duration: 4},
	})

	require.NoError(t, c.RemoveStep(domain.PhaseDesign, 0))

	assert.Equal(t, []domain.Phase{domain.PhaseBuild}, c.Phases())
	assert.Empty(t, c.Steps(domain.PhaseDesign))
}

func TestRemoveStep_KeepsNonEmptyPhase(t *testing.T) {
	c := NewComposer()
	c.Ingest([]RawStep{
		{Phase: "build_guidance", Title: "A", Duration: 2},
		{Phase: "build_guidance", Title: "B", Duration: 4},
	})

	require.NoError(t, c.RemoveStep(domain.PhaseBuild, 0))
	steps := c.Steps(domain.PhaseBuild)
	require.Len(t, steps, 1)
	assert.Equal(t, "B", steps[0].Title)
}

func TestTotals_RecomputedPerRead(t *testing.T) {
	c := NewComposer()
	c.Ingest([]RawStep{
		{Phase: "build_guidance", Title: "A", Duration: 2},
		{Phase: "deployment", Title: "B", Duration: 4},
	})
	assert.Equal(t, Totals{StepCount: 2, TotalHours: 6, TotalPoints: 60}, c.Totals())

	require.NoError(t, c.RemoveStep(domain.PhaseDeployment, 0))
	assert.Equal(t, Totals{StepCount: 1, TotalHours: 2, TotalPoints: 20}, c.Totals())
}

func TestFlatten_PreservesInsertionOrder(t *testing.T) {
	c := NewComposer()
	c.Ingest([]RawStep{
		{Phase: "design_guidance", Title: "D1", Duration: 2},
		{Phase: "build_guidance", Title: "B1", Duration: 2},
		{Phase: "design_guidance", Title: "D2", Duration: 4},
	})

	flat := c.Flatten()
	require.Len(t, flat, 3)
	assert.Equal(t, "D1", flat[0].Title)
	assert.Equal(t, "D2", flat[1].Title)
	assert.Equal(t, "B1", flat[2].Title)
	assert.Equal(t, domain.PhaseBuild, flat[2].Phase)
}

func TestIngestFlattenIngest_Idempotent(t *testing.T) {
	c := NewComposer()
	c.Ingest([]RawStep{
		{Phase: "requirement_refiner", Title: "Scope", Duration: 2, Risk: "low"},
		{Phase: "design_guidance", Title: "Wireframes", Duration: 3, Risk: "medium"},
		{Phase: "design_guidance", Title: "Schema", Duration: 4, Risk: "high"},
	})
	first := c.Flatten()

	again := NewComposer()
	raw := make([]RawStep, len(first))
	for i, s := range first {
		raw[i] = RawStep{Phase: string(s.Phase), Title: s.Title, Duration: s.Hours}
	}
	again.Ingest(raw)

	assert.Equal(t, first, again.Flatten())
	assert.Equal(t, c.Phases(), again.Phases())
}

func TestClear(t *testing.T) {
	c := NewComposer()
	c.AddStep(domain.PhaseBuild, "A", 2)
	c.Clear()
	assert.Empty(t, c.Phases())
	assert.Empty(t, c.Flatten())
}

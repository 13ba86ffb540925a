package plan

import "github.com/rmkarlsen/tempus/internal/domain"

// MergeReplacePhase folds freshly applied steps into an existing per-phase
// step map using phase-level replacement: every phase present in incoming
// fully replaces the existing steps for that phase, phases absent from
// incoming are left untouched. This is a deliberate strategy, not a per-step
// diff; do not "improve" it into a deep merge. Neither input is mutated.
func MergeReplacePhase(existing map[domain.Phase][]domain.PlanStep, incoming []domain.FlatStep) map[domain.Phase][]domain.PlanStep {
	merged := make(map[domain.Phase][]domain.PlanStep, len(existing))
	for phase, steps := range existing {
		copied := make([]domain.PlanStep, len(steps))
		copy(copied, steps)
		merged[phase] = copied
	}

	replaced := make(map[domain.Phase]bool)
	for _, step := range incoming {
		if !replaced[step.Phase] {
			merged[step.Phase] = nil
			replaced[step.Phase] = true
		}
		merged[step.Phase] = append(merged[step.Phase], domain.PlanStep{
			Title: step.Title,
			Hours: step.Hours,
			Risk:  domain.RiskLow,
		})
	}

	return merged
}

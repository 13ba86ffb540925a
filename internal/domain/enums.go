package domain

type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// ValidRiskLevels is the canonical set of accepted risk level strings.
var ValidRiskLevels = map[string]bool{
	"low": true, "medium": true, "high": true,
}

// rank orders risk levels for monotonicity comparisons.
var riskRank = map[RiskLevel]int{
	RiskLow:    0,
	RiskMedium: 1,
	RiskHigh:   2,
}

// AtLeast reports whether r is the same level or higher than other.
func (r RiskLevel) AtLeast(other RiskLevel) bool {
	return riskRank[r] >= riskRank[other]
}

// Phase is a fixed named stage of task execution grouping plan steps.
type Phase string

const (
	PhaseRequirements Phase = "requirement_refiner"
	PhaseDesign       Phase = "design_guidance"
	PhaseBuild        Phase = "build_guidance"
	PhaseAcceptance   Phase = "acceptance_criteria"
	PhaseDeployment   Phase = "deployment"
)

// DefaultPhase is where steps without a phase tag land.
const DefaultPhase = PhaseBuild

// ValidPhases is the canonical set of accepted phase strings.
var ValidPhases = map[string]bool{
	"requirement_refiner": true, "design_guidance": true, "build_guidance": true,
	"acceptance_criteria": true, "deployment": true,
}

// PhaseLabels maps phase tags to display names.
var PhaseLabels = map[Phase]string{
	PhaseRequirements: "Requirements",
	PhaseDesign:       "Design",
	PhaseBuild:        "Build",
	PhaseAcceptance:   "Acceptance",
	PhaseDeployment:   "Deployment",
}

// AnchorMode governs which time representation is authoritative during an edit:
// the explicit date range or the allocated duration. The other side is derived.
type AnchorMode string

const (
	DateAnchored     AnchorMode = "date_anchored"
	DurationAnchored AnchorMode = "duration_anchored"
)

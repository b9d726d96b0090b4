package core

// Phase represents a stage in the orchestration lifecycle a verified task
// belongs to. The set and order are fixed: the evidence store one-hot encodes
// the phase index into stored feature vectors, so changing this list would
// break compatibility with existing stored data.
type Phase string

const (
	PhaseRefine    Phase = "refine"
	PhaseAnalyze   Phase = "analyze"
	PhasePlan      Phase = "plan"
	PhaseExecute   Phase = "execute"
	PhaseReview    Phase = "review"
	PhaseIntegrate Phase = "integrate"
)

// AllPhases returns all phases in lifecycle order.
func AllPhases() []Phase {
	return []Phase{PhaseRefine, PhaseAnalyze, PhasePlan, PhaseExecute, PhaseReview, PhaseIntegrate}
}

// PhaseOrder returns the numeric order of a phase (0-indexed), or -1 for an
// unknown phase.
func PhaseOrder(p Phase) int {
	switch p {
	case PhaseRefine:
		return 0
	case PhaseAnalyze:
		return 1
	case PhasePlan:
		return 2
	case PhaseExecute:
		return 3
	case PhaseReview:
		return 4
	case PhaseIntegrate:
		return 5
	default:
		return -1
	}
}

// IsValidPhase checks if the given phase is known.
func IsValidPhase(p Phase) bool {
	return PhaseOrder(p) >= 0
}

package sim

import "fmt"

// Phase is one stage of a simulation tick. Phases run in declaration order
// and wrap back to PhaseBuildIndex after PhaseIntegratePositions.
type Phase int

const (
	PhaseBuildIndex Phase = iota
	PhaseSortEntries
	PhaseComputeOffsets
	PhaseComputeForces
	PhaseIntegratePositions

	phaseCount
)

var phaseNames = [phaseCount]string{
	"build_index",
	"sort_entries",
	"compute_offsets",
	"compute_forces",
	"integrate_positions",
}

func (p Phase) String() string {
	if p < 0 || p >= phaseCount {
		return fmt.Sprintf("Phase(%d)", int(p))
	}
	return phaseNames[p]
}

// Next returns the phase that follows p.
func (p Phase) Next() Phase {
	return (p + 1) % phaseCount
}

// PhaseNames lists every phase name in execution order.
func PhaseNames() []string {
	return append([]string(nil), phaseNames[:]...)
}

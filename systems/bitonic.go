package systems

import "log/slog"

// BitonicStage holds the parameters of one launch of the sorting network.
// A lane reads only these values to find its pair of slots, so the same
// kernel serves every stage and step of any power-of-two size.
type BitonicStage struct {
	StageIndex  uint32
	StepIndex   uint32
	GroupWidth  uint32 // 2^(stage-step): distance of the half-cleaner pairs
	GroupHeight uint32 // 2*GroupWidth - 1: span of the mirrored compare on step 0
}

// DispatchSize returns the lane count of every launch for n entries: one
// lane per compared pair of the padded sequence. It is recomputed from the
// entry count on each build rather than fixed up front.
func DispatchSize(n int) int {
	return NextPowerOfTwo(n) / 2
}

// BitonicSchedule returns the launches that sort n entries once padded to a
// power of two: log2(padded) stages, stage s running steps 0..s.
func BitonicSchedule(n int) []BitonicStage {
	stages := log2(NextPowerOfTwo(n))
	schedule := make([]BitonicStage, 0, stages*(stages+1)/2)
	for stage := 0; stage < stages; stage++ {
		for step := 0; step <= stage; step++ {
			width := uint32(1) << (stage - step)
			schedule = append(schedule, BitonicStage{
				StageIndex:  uint32(stage),
				StepIndex:   uint32(step),
				GroupWidth:  width,
				GroupHeight: 2*width - 1,
			})
		}
	}
	return schedule
}

// BitonicLane is the compare-and-swap performed by lane i for one stage.
// Step 0 compares mirrored positions inside each block of 2*GroupWidth
// slots; later steps compare slots GroupWidth apart. Within a launch the
// lanes touch disjoint pairs.
func BitonicLane(entries []IndexEntry, st BitonicStage, i uint32) {
	h := i & (st.GroupWidth - 1)
	left := h + (st.GroupHeight+1)*(i/st.GroupWidth)
	var step uint32
	if st.StepIndex == 0 {
		step = st.GroupHeight - 2*h
	} else {
		step = (st.GroupHeight + 1) / 2
	}
	right := left + step
	if right >= uint32(len(entries)) {
		return
	}
	if entries[left].Key > entries[right].Key {
		entries[left], entries[right] = entries[right], entries[left]
	}
}

// SortBitonic sorts entries by key. len(entries) must be a power of two
// (pad with sentinel keys). Each stage/step is its own launch, so every
// lane finishes step t before any lane starts t+1. Ties are not stable.
func SortBitonic(entries []IndexEntry, l Launcher, logger *slog.Logger) {
	n := len(entries)
	if n < 2 {
		return
	}
	schedule := BitonicSchedule(n)
	lanes := DispatchSize(n)
	if logger != nil {
		logger.Debug("bitonic sort",
			"entries", n,
			"stages", schedule[len(schedule)-1].StageIndex+1,
			"launches", len(schedule),
			"lanes", lanes,
		)
	}

	for _, st := range schedule {
		l.Launch(lanes, func(_, lo, hi int) {
			for i := lo; i < hi; i++ {
				BitonicLane(entries, st, uint32(i))
			}
		})
	}
}

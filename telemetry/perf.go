package telemetry

import (
	"log/slog"
	"time"

	"github.com/pthm-cable/plife/sim"
)

// PhaseTelemetry times stats collection, which runs outside the simulation
// phases.
const PhaseTelemetry = "telemetry"

// tickSample is the timing of one tick, split by phase.
type tickSample struct {
	total  time.Duration
	phases map[string]time.Duration
}

// PerfCollector times ticks and their phases over a rolling window of the
// most recent ticks. It satisfies sim.PhaseTimer.
type PerfCollector struct {
	now    func() time.Time
	window []tickSample
	next   int
	filled int

	current    map[string]time.Duration
	tickStart  time.Time
	phaseStart time.Time
	phase      string
}

// NewPerfCollector creates a collector averaging over windowSize ticks.
// windowSize < 1 means 60.
func NewPerfCollector(windowSize int) *PerfCollector {
	return newPerfCollector(windowSize, time.Now)
}

func newPerfCollector(windowSize int, now func() time.Time) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{
		now:     now,
		window:  make([]tickSample, windowSize),
		current: make(map[string]time.Duration),
	}
}

// StartTick begins timing a tick.
func (p *PerfCollector) StartTick() {
	p.tickStart = p.now()
	p.current = make(map[string]time.Duration)
	p.phase = ""
}

// StartPhase closes the running phase, if any, and opens phase.
func (p *PerfCollector) StartPhase(phase string) {
	now := p.now()
	p.closePhase(now)
	p.phaseStart = now
	p.phase = phase
}

// EndTick closes the running phase and records the tick in the window.
func (p *PerfCollector) EndTick() {
	now := p.now()
	p.closePhase(now)
	p.window[p.next] = tickSample{total: now.Sub(p.tickStart), phases: p.current}
	p.next = (p.next + 1) % len(p.window)
	p.filled = min(p.filled+1, len(p.window))
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.phase != "" {
		p.current[p.phase] += now.Sub(p.phaseStart)
	}
}

// PerfStats aggregates the window.
type PerfStats struct {
	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration

	PhaseAvg map[string]time.Duration
	PhasePct map[string]float64 // share of the average tick, in percent

	TicksPerSecond float64
}

// Stats aggregates the recorded ticks. Maps are never nil.
func (p *PerfCollector) Stats() PerfStats {
	out := PerfStats{
		PhaseAvg: make(map[string]time.Duration),
		PhasePct: make(map[string]float64),
	}
	if p.filled == 0 {
		return out
	}

	var sum time.Duration
	phaseSum := make(map[string]time.Duration)
	for i, s := range p.window[:p.filled] {
		sum += s.total
		if i == 0 || s.total < out.MinTickDuration {
			out.MinTickDuration = s.total
		}
		out.MaxTickDuration = max(out.MaxTickDuration, s.total)
		for phase, d := range s.phases {
			phaseSum[phase] += d
		}
	}

	n := time.Duration(p.filled)
	out.AvgTickDuration = sum / n
	for phase, d := range phaseSum {
		out.PhaseAvg[phase] = d / n
		if out.AvgTickDuration > 0 {
			out.PhasePct[phase] = float64(d/n) / float64(out.AvgTickDuration) * 100
		}
	}
	if out.AvgTickDuration > 0 {
		out.TicksPerSecond = float64(time.Second) / float64(out.AvgTickDuration)
	}
	return out
}

// perfPhases lists phases in tick order for logs and CSV.
var perfPhases = append(sim.PhaseNames(), PhaseTelemetry)

// LogStats logs the window at info level.
func (s PerfStats) LogStats() {
	slog.Info("perf", "stats", s)
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_tick_us", s.AvgTickDuration.Microseconds()),
		slog.Int64("min_tick_us", s.MinTickDuration.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTickDuration.Microseconds()),
		slog.Float64("ticks_per_sec", s.TicksPerSecond),
	}
	for _, phase := range perfPhases {
		if pct, ok := s.PhasePct[phase]; ok {
			attrs = append(attrs, slog.Float64(phase+"_pct", pct))
		}
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is one perf.csv row.
type PerfStatsCSV struct {
	WindowEnd             uint64  `csv:"window_end"`
	AvgTickUS             int64   `csv:"avg_tick_us"`
	MinTickUS             int64   `csv:"min_tick_us"`
	MaxTickUS             int64   `csv:"max_tick_us"`
	TicksPerSec           float64 `csv:"ticks_per_sec"`
	BuildIndexPct         float64 `csv:"build_index_pct"`
	SortEntriesPct        float64 `csv:"sort_entries_pct"`
	ComputeOffsetsPct     float64 `csv:"compute_offsets_pct"`
	ComputeForcesPct      float64 `csv:"compute_forces_pct"`
	IntegratePositionsPct float64 `csv:"integrate_positions_pct"`
	TelemetryPct          float64 `csv:"telemetry_pct"`
}

// ToCSV flattens s into a row for the window ending at tick windowEnd.
func (s PerfStats) ToCSV(windowEnd uint64) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:             windowEnd,
		AvgTickUS:             s.AvgTickDuration.Microseconds(),
		MinTickUS:             s.MinTickDuration.Microseconds(),
		MaxTickUS:             s.MaxTickDuration.Microseconds(),
		TicksPerSec:           s.TicksPerSecond,
		BuildIndexPct:         s.PhasePct[sim.PhaseBuildIndex.String()],
		SortEntriesPct:        s.PhasePct[sim.PhaseSortEntries.String()],
		ComputeOffsetsPct:     s.PhasePct[sim.PhaseComputeOffsets.String()],
		ComputeForcesPct:      s.PhasePct[sim.PhaseComputeForces.String()],
		IntegratePositionsPct: s.PhasePct[sim.PhaseIntegratePositions.String()],
		TelemetryPct:          s.PhasePct[PhaseTelemetry],
	}
}

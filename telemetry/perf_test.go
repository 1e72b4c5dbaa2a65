package telemetry

import (
	"testing"
	"time"

	"github.com/pthm-cable/plife/config"
	"github.com/pthm-cable/plife/sim"
)

var (
	phaseBuild  = sim.PhaseBuildIndex.String()
	phaseForces = sim.PhaseComputeForces.String()
)

// fakeClock advances only when told to.
type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestPerfCollector_PhaseTiming(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	pc := newPerfCollector(10, clock.now)

	for range 5 {
		pc.StartTick()
		clock.advance(50 * time.Microsecond) // before the first phase
		pc.StartPhase(phaseBuild)
		clock.advance(100 * time.Microsecond)
		pc.StartPhase(phaseForces)
		clock.advance(300 * time.Microsecond)
		pc.EndTick()
	}

	stats := pc.Stats()
	tests := []struct {
		name string
		got  time.Duration
		want time.Duration
	}{
		{"avg tick", stats.AvgTickDuration, 450 * time.Microsecond},
		{"min tick", stats.MinTickDuration, 450 * time.Microsecond},
		{"max tick", stats.MaxTickDuration, 450 * time.Microsecond},
		{"build avg", stats.PhaseAvg[phaseBuild], 100 * time.Microsecond},
		{"forces avg", stats.PhaseAvg[phaseForces], 300 * time.Microsecond},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}

	if pct := stats.PhasePct[phaseForces]; pct < 66.6 || pct > 66.7 {
		t.Errorf("forces pct = %v, want 66.67", pct)
	}
	if stats.PhasePct[phaseForces] <= stats.PhasePct[phaseBuild] {
		t.Errorf("slower phase has the smaller share: %v", stats.PhasePct)
	}
}

func TestPerfCollector_RollingWindow(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	pc := newPerfCollector(3, clock.now)

	// Ticks of 1..6 ms; only the last three stay in the window.
	for i := 1; i <= 6; i++ {
		pc.StartTick()
		pc.StartPhase(phaseBuild)
		clock.advance(time.Duration(i) * time.Millisecond)
		pc.EndTick()
	}

	stats := pc.Stats()
	if stats.MinTickDuration != 4*time.Millisecond || stats.MaxTickDuration != 6*time.Millisecond {
		t.Errorf("min/max = %v/%v, want 4ms/6ms", stats.MinTickDuration, stats.MaxTickDuration)
	}
	if stats.AvgTickDuration != 5*time.Millisecond {
		t.Errorf("avg = %v, want 5ms", stats.AvgTickDuration)
	}
	if stats.TicksPerSecond != 200 {
		t.Errorf("ticks/s = %v, want 200", stats.TicksPerSecond)
	}
}

func TestPerfCollector_EmptyStats(t *testing.T) {
	stats := NewPerfCollector(0).Stats()
	if stats.AvgTickDuration != 0 || stats.TicksPerSecond != 0 {
		t.Errorf("empty collector stats = %+v", stats)
	}
	if stats.PhaseAvg == nil || stats.PhasePct == nil {
		t.Error("expected non-nil phase maps")
	}
}

func TestPerfCollector_TimesSimulationPhases(t *testing.T) {
	cfg, err := config.Defaults()
	if err != nil {
		t.Fatal(err)
	}
	cfg.Simulation.ParticleCount = 200

	pc := NewPerfCollector(4)
	opts := sim.OptionsFrom(cfg)
	opts.Timer = pc
	s, err := sim.New(cfg.Simulation, opts)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	for range 3 {
		pc.StartTick()
		if err := s.Step(0); err != nil {
			t.Fatal(err)
		}
		pc.StartPhase(PhaseTelemetry)
		Collect(s)
		pc.EndTick()
	}

	stats := pc.Stats()
	for _, name := range append(sim.PhaseNames(), PhaseTelemetry) {
		if _, ok := stats.PhaseAvg[name]; !ok {
			t.Errorf("phase %q not tracked", name)
		}
	}

	row := stats.ToCSV(3)
	if row.WindowEnd != 3 {
		t.Errorf("WindowEnd = %d, want 3", row.WindowEnd)
	}
	total := row.BuildIndexPct + row.SortEntriesPct + row.ComputeOffsetsPct +
		row.ComputeForcesPct + row.IntegratePositionsPct + row.TelemetryPct
	if total <= 0 || total > 100.5 {
		t.Errorf("phase percentages sum to %v, want (0, 100]", total)
	}
}

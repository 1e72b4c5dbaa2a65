package main

import (
	"math"
	"testing"

	"github.com/pthm-cable/plife/config"
	"github.com/pthm-cable/plife/telemetry"
)

// newRun builds a run with n identical stats windows.
func newRun(cfg config.SimulationConfig, n int, neighbors, speed, energy float64) *runResult {
	r := &runResult{cfg: cfg}
	for i := 0; i < n; i++ {
		r.windows = append(r.windows, telemetry.TickStats{
			MeanNeighbors: neighbors,
			SpeedP50:      speed,
			KineticEnergy: energy,
		})
	}
	return r
}

func TestComputeQuality(t *testing.T) {
	cfg := baseSim(t)
	fe := &FitnessEvaluator{}
	uniform := uniformNeighbors(cfg)

	tests := []struct {
		name string
		r    *runResult
		want func(q float64) bool
	}{
		{"failed run", &runResult{cfg: cfg, failed: true}, func(q float64) bool { return q == 0 }},
		{"only warmup", newRun(cfg, 2, uniform, 0, 1), func(q float64) bool { return q == 0 }},
		{"uniform and still", newRun(cfg, 6, uniform, 0, 1), func(q float64) bool {
			// only the stability term contributes
			return math.Abs(q-qualityWeightStability) < 1e-9
		}},
		{"clustered and moving", newRun(cfg, 6, 10*uniform, 0.25*float64(cfg.RMax), 1), func(q float64) bool {
			return q > 0.8 && q <= 1
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if q := fe.computeQuality(tt.r); !tt.want(q) {
				t.Errorf("quality = %v", q)
			}
		})
	}
}

func TestUniformNeighbors(t *testing.T) {
	cfg := config.SimulationConfig{ParticleCount: 1, RMax: 50, WorldWidth: 800, WorldHeight: 800}
	if got := uniformNeighbors(cfg); got != 1 {
		t.Errorf("single particle: got %v, want 1", got)
	}
	cfg.ParticleCount = 257
	want := 1 + 256*math.Pi*2500/640000
	if got := uniformNeighbors(cfg); math.Abs(got-want) > 1e-9 {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestEvaluateRunsEverySeed(t *testing.T) {
	cfg, err := config.Defaults()
	if err != nil {
		t.Fatalf("Defaults: %v", err)
	}
	cfg.Simulation.ParticleCount = 200
	cfg.Telemetry.StatsWindow = 5

	pv := NewParamVector(cfg.Simulation, false)
	fe := NewFitnessEvaluator(pv, 20, []uint64{1, 2}, cfg)
	fitness := fe.Evaluate(pv.DefaultVector())

	if fitness > 0 || fitness < -1 {
		t.Errorf("fitness = %v, want in [-1, 0]", fitness)
	}
	if q := fe.LastQuality(); math.Abs(q+fitness) > 1e-12 {
		t.Errorf("LastQuality = %v, want %v", q, -fitness)
	}
}

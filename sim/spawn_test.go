package sim

import (
	"slices"
	"testing"

	"github.com/pthm-cable/plife/config"
)

func TestSpawnLayouts(t *testing.T) {
	cfg := testConfig(500)
	cfg.TypeCount = 4
	cfg.AttractionMatrix = make([]float32, 16)
	cfg.Derive()
	w, h := float32(cfg.WorldWidth), float32(cfg.WorldHeight)

	for _, layout := range []string{config.LayoutUniform, config.LayoutSimplex, config.LayoutPerlin} {
		t.Run(layout, func(t *testing.T) {
			spawn := config.SpawnConfig{Layout: layout, NoiseScale: 4, NoiseThreshold: 0.1}
			ps := Spawn(cfg, spawn)
			if len(ps) != cfg.ParticleCount {
				t.Fatalf("len = %d, want %d", len(ps), cfg.ParticleCount)
			}

			seen := make(map[uint32]bool)
			for i, p := range ps {
				if p.Position.X < 0 || p.Position.X >= w || p.Position.Y < 0 || p.Position.Y >= h {
					t.Fatalf("particle %d at %v outside %vx%v world", i, p.Position, w, h)
				}
				if int(p.Type) >= cfg.TypeCount {
					t.Fatalf("particle %d has type %d", i, p.Type)
				}
				if p.Velocity.X != 0 || p.Velocity.Y != 0 {
					t.Fatalf("particle %d spawned moving: %v", i, p.Velocity)
				}
				seen[p.Type] = true
			}
			if len(seen) != cfg.TypeCount {
				t.Errorf("spawned %d distinct types, want %d", len(seen), cfg.TypeCount)
			}

			if again := Spawn(cfg, spawn); !slices.Equal(ps, again) {
				t.Error("same seed produced different particles")
			}
			other := cfg
			other.Seed++
			if slices.Equal(ps, Spawn(other, spawn)) {
				t.Error("different seeds produced identical particles")
			}
		})
	}
}

func TestSpawnZeroParticles(t *testing.T) {
	if ps := Spawn(testConfig(0), config.SpawnConfig{}); len(ps) != 0 {
		t.Errorf("len = %d, want 0", len(ps))
	}
}

func TestPhaseString(t *testing.T) {
	tests := []struct {
		phase Phase
		want  string
	}{
		{PhaseBuildIndex, "build_index"},
		{PhaseComputeForces, "compute_forces"},
		{PhaseIntegratePositions, "integrate_positions"},
		{Phase(42), "Phase(42)"},
	}
	for _, tt := range tests {
		if got := tt.phase.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", int(tt.phase), got, tt.want)
		}
	}
	if PhaseIntegratePositions.Next() != PhaseBuildIndex {
		t.Error("phases do not wrap")
	}
}

func TestNewDensityField(t *testing.T) {
	if f := NewDensityField(config.SpawnConfig{Layout: config.LayoutUniform}, 1); f != nil {
		t.Error("uniform layout should have no density field")
	}
	for _, layout := range []string{config.LayoutSimplex, config.LayoutPerlin} {
		f := NewDensityField(config.SpawnConfig{Layout: layout}, 3)
		if f == nil {
			t.Fatalf("%s: nil density field", layout)
		}
		for i := 0; i < 100; i++ {
			u, v := float64(i)*0.37, float64(i)*0.11
			if d := f(u, v); d < 0 || d > 1 {
				t.Errorf("%s: density %v at (%v, %v) outside [0, 1]", layout, d, u, v)
			}
		}
	}
}

package config

import (
	"slices"
	"testing"
)

func TestEditsApply(t *testing.T) {
	base, err := Defaults()
	if err != nil {
		t.Fatal(err)
	}
	sim := base.Simulation

	tests := []struct {
		name       string
		edit       func(*Edits)
		sameMatrix bool
	}{
		{"keep matrix", func(e *Edits) { e.RecreateMatrix = false; e.ForceFactor = 20 }, true},
		{"recreate matrix", func(e *Edits) { e.RecreateMatrix = true }, false},
		{"type count change forces new matrix", func(e *Edits) {
			e.RecreateMatrix = false
			e.TypeCount = 3
		}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := EditsFrom(sim)
			tt.edit(&e)
			out := e.Apply(sim, NewRand(99))

			if same := slices.Equal(out.AttractionMatrix, sim.AttractionMatrix); same != tt.sameMatrix {
				t.Errorf("matrix unchanged = %v, want %v", same, tt.sameMatrix)
			}
			if len(out.AttractionMatrix) != out.TypeCount*out.TypeCount {
				t.Errorf("matrix has %d entries for %d types", len(out.AttractionMatrix), out.TypeCount)
			}
			if err := out.Validate(); err != nil {
				t.Errorf("applied edits invalid: %v", err)
			}
		})
	}
}

func TestEditsApplyDerives(t *testing.T) {
	base, err := Defaults()
	if err != nil {
		t.Fatal(err)
	}
	e := EditsFrom(base.Simulation)
	e.RMax = 30
	e.DT = 0.01
	e.FrictionHalfLife = 0.01
	out := e.Apply(base.Simulation, NewRand(1))

	if out.WorldWidth != 810 {
		t.Errorf("world width = %d, want 810", out.WorldWidth)
	}
	if out.FrictionFactor != 0.5 || e.FrictionFactor() != 0.5 {
		t.Errorf("friction factor = %v (preview %v), want 0.5", out.FrictionFactor, e.FrictionFactor())
	}
	// Applying never mutates the source.
	if base.Simulation.RMax == 30 {
		t.Error("source config modified")
	}
}

func TestEditsClamp(t *testing.T) {
	e := Edits{ParticleCount: 1 << 20, TypeCount: 0, DT: -1, RMax: 1000, ForceFactor: -5, FrictionHalfLife: 3}.Clamp()
	want := Edits{ParticleCount: MaxParticleCount, TypeCount: 1, DT: 0, RMax: MaxRMax, ForceFactor: 0, FrictionHalfLife: MaxHalfLife}
	if e != want {
		t.Errorf("Clamp = %+v, want %+v", e, want)
	}
}

package config

import "math/rand/v2"

// Ranges offered by the interactive controls.
const (
	MaxParticleCount = 65536
	MaxTypeCount     = 32
	MaxRMax          = 500
	MaxForceFactor   = 500
	MaxDT            = 1
	MaxHalfLife      = 1
)

// Edits holds the user-editable simulation fields as staged in the controls
// panel. Nothing is applied until Apply is called.
type Edits struct {
	ParticleCount    int
	DT               float32
	FrictionHalfLife float32
	RMax             float32
	TypeCount        int
	ForceFactor      float32
	RecreateMatrix   bool
	Grayscale        bool
}

// EditsFrom stages the current values of c.
func EditsFrom(c SimulationConfig) Edits {
	return Edits{
		ParticleCount:    c.ParticleCount,
		DT:               c.DT,
		FrictionHalfLife: c.FrictionHalfLife,
		RMax:             c.RMax,
		TypeCount:        c.TypeCount,
		ForceFactor:      c.ForceFactor,
		RecreateMatrix:   true,
		Grayscale:        c.Grayscale,
	}
}

// Clamp limits every field to the range the controls offer.
func (e Edits) Clamp() Edits {
	e.ParticleCount = min(max(e.ParticleCount, 0), MaxParticleCount)
	e.TypeCount = min(max(e.TypeCount, 1), MaxTypeCount)
	e.DT = min(max(e.DT, 0), MaxDT)
	e.FrictionHalfLife = min(max(e.FrictionHalfLife, 0), MaxHalfLife)
	e.RMax = min(max(e.RMax, 0), MaxRMax)
	e.ForceFactor = min(max(e.ForceFactor, 0), MaxForceFactor)
	return e
}

// FrictionFactor previews the friction factor the edits would produce.
func (e Edits) FrictionFactor() float32 {
	return FrictionFactor(e.DT, e.FrictionHalfLife)
}

// Apply returns a copy of c with the edits applied and derived values
// recomputed. The attraction matrix is redrawn from rng when the type count
// changes or RecreateMatrix is set. The result is not validated.
func (e Edits) Apply(c SimulationConfig, rng *rand.Rand) SimulationConfig {
	out := c.Clone()
	out.ParticleCount = e.ParticleCount
	out.DT = e.DT
	out.FrictionHalfLife = e.FrictionHalfLife
	out.RMax = e.RMax
	out.ForceFactor = e.ForceFactor
	out.Grayscale = e.Grayscale
	if e.RecreateMatrix || e.TypeCount != c.TypeCount {
		out.AttractionMatrix = RandomMatrix(e.TypeCount, rng)
	}
	out.TypeCount = e.TypeCount
	out.Derive()
	return out
}

package config

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
)

// ErrConfigInvalid is returned when a configuration is rejected.
// A rejected configuration is never applied; callers keep the previous one.
var ErrConfigInvalid = errors.New("invalid configuration")

// desiredWorldSize is the target world edge length before snapping to whole cells.
const desiredWorldSize = 800.0

// MinWrapCells is the smallest grid width that keeps the 3x3 neighborhood
// free of duplicate cells in a toroidal world.
const MinWrapCells = 3

// SelfInteraction decides whether a particle is its own neighbor.
type SelfInteraction string

// Self-interaction policies.
const (
	SelfInclude SelfInteraction = "include"
	SelfExclude SelfInteraction = "exclude"
)

// SimulationConfig holds the parameters of one simulation instance.
// It is replaced wholesale on reconfiguration.
type SimulationConfig struct {
	ParticleCount    int             `yaml:"particle_count"`
	DT               float32         `yaml:"dt"`
	FrictionHalfLife float32         `yaml:"friction_half_life"`
	RMax             float32         `yaml:"r_max"` // interaction radius and grid cell size
	TypeCount        int             `yaml:"type_count"`
	ForceFactor      float32         `yaml:"force_factor"`
	AttractionMatrix []float32       `yaml:"attraction_matrix,flow"` // row-major, TypeCount x TypeCount
	Grayscale        bool            `yaml:"grayscale"`
	Seed             uint64          `yaml:"seed"`
	SelfInteraction  SelfInteraction `yaml:"self_interaction"`
	Wrap             bool            `yaml:"wrap"` // toroidal world

	// Derived values, recomputed by Derive
	FrictionFactor float32 `yaml:"friction_factor"`
	WorldWidth     uint32  `yaml:"world_width"`
	WorldHeight    uint32  `yaml:"world_height"`
}

// Derive recomputes the friction factor and world size.
// Call after editing any user-facing field.
func (c *SimulationConfig) Derive() {
	c.FrictionFactor = FrictionFactor(c.DT, c.FrictionHalfLife)
	c.WorldWidth, c.WorldHeight = WorldSize(c.RMax)
	if c.SelfInteraction == "" {
		c.SelfInteraction = SelfExclude
	}
}

// Validate reports whether the configuration can drive a simulation.
// All failures wrap ErrConfigInvalid.
func (c *SimulationConfig) Validate() error {
	if c.TypeCount <= 0 {
		return fmt.Errorf("%w: type_count must be > 0, got %d", ErrConfigInvalid, c.TypeCount)
	}
	if want := c.TypeCount * c.TypeCount; len(c.AttractionMatrix) != want {
		return fmt.Errorf("%w: attraction_matrix has %d entries, want %d", ErrConfigInvalid, len(c.AttractionMatrix), want)
	}
	if c.ParticleCount < 0 || uint64(c.ParticleCount) >= math.MaxUint32 {
		return fmt.Errorf("%w: particle_count %d out of range", ErrConfigInvalid, c.ParticleCount)
	}
	if !positive(c.RMax) {
		return fmt.Errorf("%w: r_max must be > 0", ErrConfigInvalid)
	}
	if !positive(c.DT) {
		return fmt.Errorf("%w: dt must be > 0", ErrConfigInvalid)
	}
	if !positive(c.FrictionHalfLife) {
		return fmt.Errorf("%w: friction_half_life must be > 0", ErrConfigInvalid)
	}
	if c.ForceFactor < 0 || isBad(c.ForceFactor) {
		return fmt.Errorf("%w: force_factor must be >= 0", ErrConfigInvalid)
	}
	for i, a := range c.AttractionMatrix {
		if isBad(a) {
			return fmt.Errorf("%w: attraction_matrix[%d] is not finite", ErrConfigInvalid, i)
		}
	}
	switch c.SelfInteraction {
	case SelfInclude, SelfExclude:
	default:
		return fmt.Errorf("%w: unknown self_interaction %q", ErrConfigInvalid, c.SelfInteraction)
	}
	if c.WorldWidth == 0 || c.WorldHeight == 0 {
		return fmt.Errorf("%w: r_max %.1f leaves no whole cell in the world", ErrConfigInvalid, c.RMax)
	}
	if c.Wrap && c.GridCells() < MinWrapCells {
		return fmt.Errorf("%w: wrapped world needs at least %d cells per side, r_max %.1f gives %d",
			ErrConfigInvalid, MinWrapCells, c.RMax, c.GridCells())
	}
	return nil
}

// Attraction returns the coefficient applied by a particle of type self to
// a neighbor of type other.
func (c *SimulationConfig) Attraction(self, other uint32) float32 {
	return c.AttractionMatrix[int(self)*c.TypeCount+int(other)]
}

// GridCells returns the number of cells along each world edge.
func (c *SimulationConfig) GridCells() int {
	if c.RMax <= 0 {
		return 0
	}
	return int(math.Round(float64(c.WorldWidth) / float64(c.RMax)))
}

// Clone returns a deep copy.
func (c SimulationConfig) Clone() SimulationConfig {
	c.AttractionMatrix = append([]float32(nil), c.AttractionMatrix...)
	return c
}

// FrictionFactor returns the per-tick velocity decay 0.5^(dt/halfLife).
func FrictionFactor(dt, halfLife float32) float32 {
	if halfLife <= 0 {
		return 0
	}
	return float32(math.Pow(0.5, float64(dt)/float64(halfLife)))
}

// WorldSize returns a square world snapped to a whole number of r_max cells,
// so the grid cell size always equals the interaction radius.
func WorldSize(rMax float32) (width, height uint32) {
	if rMax <= 0 {
		return 0, 0
	}
	cellSize := float64(rMax)
	cells := math.Round(desiredWorldSize / cellSize)
	size := uint32(math.Round(cells * cellSize))
	return size, size
}

// NewRand returns a deterministic generator for the given seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// RandomMatrix returns a types x types matrix with coefficients in [-1, 1).
func RandomMatrix(types int, rng *rand.Rand) []float32 {
	m := make([]float32, types*types)
	for i := range m {
		m[i] = rng.Float32()*2 - 1
	}
	return m
}

func positive(v float32) bool {
	return v > 0 && !isBad(v)
}

func isBad(v float32) bool {
	f := float64(v)
	return math.IsNaN(f) || math.IsInf(f, 0)
}

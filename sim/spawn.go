package sim

import (
	"math/rand/v2"

	"github.com/aquilax/go-perlin"
	"github.com/ojrac/opensimplex-go"

	"github.com/pthm-cable/plife/components"
	"github.com/pthm-cable/plife/config"
)

// spawnStream separates the spawn generator from the matrix generator that
// shares the same seed.
const spawnStream = 0x5eed

// maxRejections bounds the noise-weighted sampling per particle before
// falling back to a uniform position.
const maxRejections = 64

// Perlin parameters: persistence, lacunarity and octaves.
const (
	perlinAlpha   = 2.0
	perlinBeta    = 2.0
	perlinOctaves = 3
)

// DensityField returns a spawn density in [0, 1] at noise coordinates.
type DensityField func(u, v float64) float64

// Spawn places cfg.ParticleCount particles in the world with uniformly
// random types and zero velocity. The same seed and layout always produce
// the same particles.
func Spawn(cfg config.SimulationConfig, layout config.SpawnConfig) []components.Particle {
	rng := config.NewRand(cfg.Seed ^ spawnStream)
	w, h := float32(cfg.WorldWidth), float32(cfg.WorldHeight)
	field := NewDensityField(layout, int64(cfg.Seed))

	particles := make([]components.Particle, cfg.ParticleCount)
	for i := range particles {
		particles[i] = components.Particle{
			Position: samplePosition(rng, field, layout, w, h),
			Type:     uint32(rng.IntN(max(cfg.TypeCount, 1))),
		}
	}
	return particles
}

// NewDensityField returns the density of a noise layout, or nil for the
// uniform layout.
func NewDensityField(layout config.SpawnConfig, seed int64) DensityField {
	switch layout.Layout {
	case config.LayoutSimplex:
		noise := opensimplex.NewNormalized(seed)
		return func(u, v float64) float64 {
			return clamp01(noise.Eval2(u, v))
		}
	case config.LayoutPerlin:
		noise := perlin.NewPerlin(perlinAlpha, perlinBeta, perlinOctaves, seed)
		return func(u, v float64) float64 {
			return clamp01((noise.Noise2D(u, v) + 1) / 2)
		}
	}
	return nil
}

// samplePosition draws a position, accepting it with probability given by the
// density above the threshold.
func samplePosition(rng *rand.Rand, field DensityField, layout config.SpawnConfig, w, h float32) components.Vec2 {
	uniform := func() components.Vec2 {
		return components.Vec2{X: rng.Float32() * w, Y: rng.Float32() * h}
	}
	if field == nil {
		return uniform()
	}

	threshold := clamp01(layout.NoiseThreshold)
	for range maxRejections {
		p := uniform()
		u := float64(p.X/w) * layout.NoiseScale
		v := float64(p.Y/h) * layout.NoiseScale
		d := field(u, v)
		if d <= threshold {
			continue
		}
		if threshold >= 1 || rng.Float64() < (d-threshold)/(1-threshold) {
			return p
		}
	}
	return uniform()
}

func clamp01(x float64) float64 {
	return min(max(x, 0), 1)
}

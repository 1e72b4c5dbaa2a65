package systems

import (
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/blas/blas32"

	"github.com/pthm-cable/plife/components"
)

const benchParticles = 8192

func benchWorld() ([]components.Particle, Grid) {
	rng := rand.New(rand.NewSource(1))
	ps := randomParticles(rng, benchParticles, 800)
	for i := range ps {
		ps[i].Type = uint32(i % 6)
	}
	return ps, NewGrid(40, true, 800, 800)
}

// Benchmark a full index build for each strategy and launcher
func BenchmarkBuild(b *testing.B) {
	ps, grid := benchWorld()
	for _, bc := range builderCases {
		b.Run(bc.name, func(b *testing.B) {
			pool := NewPool(bc.workers)
			defer pool.Close()
			builder := NewBuilder(bc.strategy, pool)

			b.ResetTimer()
			for n := 0; n < b.N; n++ {
				if _, err := builder.Build(ps, grid); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// Benchmark the 3x3 neighborhood query for every particle
func BenchmarkQueryInto(b *testing.B) {
	ps, grid := benchWorld()
	idx, err := NewBuilder(StrategyComparison, Serial{}).Build(ps, grid)
	if err != nil {
		b.Fatal(err)
	}
	var scratch []Neighbor

	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		for i := range ps {
			scratch = idx.QueryInto(scratch[:0], ps, ps[i].Position, nil)
		}
	}
}

// Benchmark force accumulation over precomputed neighborhoods
func BenchmarkAccumulateForce(b *testing.B) {
	ps, grid := benchWorld()
	idx, err := NewBuilder(StrategyComparison, Serial{}).Build(ps, grid)
	if err != nil {
		b.Fatal(err)
	}
	matrix := make([]float32, 36)
	for i := range matrix {
		matrix[i] = float32(i%7)/3 - 1
	}
	fp := ForceParams{RMax: 40, ForceFactor: 10, TypeCount: 6, Matrix: matrix, ExcludeSelf: true}
	neighbors := make([][]Neighbor, len(ps))
	for i := range ps {
		neighbors[i] = idx.QueryInto(nil, ps, ps[i].Position, nil)
	}

	b.ResetTimer()
	var total components.Vec2
	for n := 0; n < b.N; n++ {
		for i := range ps {
			total = total.Add(AccumulateForce(uint32(i), ps, neighbors[i], fp))
		}
	}
	_ = total
}

// Benchmark velocity integration with the scalar kernel
func BenchmarkIntegrateScalar(b *testing.B) {
	vel := make([]components.Vec2, benchParticles)
	force := make([]components.Vec2, benchParticles)
	for i := range force {
		force[i] = components.Vec2{X: float32(i) * 0.001, Y: -float32(i) * 0.002}
	}

	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		for i := range vel {
			vel[i] = IntegrateVelocity(vel[i], force[i], 0.02, 0.9)
		}
	}
}

// Benchmark velocity integration with blas32 over flattened components
func BenchmarkIntegrateBLAS(b *testing.B) {
	size := 2 * benchParticles
	vel := make([]float32, size)
	force := make([]float32, size)
	for i := range force {
		force[i] = float32(i) * 0.001
	}

	vv := blas32.Vector{N: size, Inc: 1, Data: vel}
	vf := blas32.Vector{N: size, Inc: 1, Data: force}

	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		blas32.Axpy(0.02, vf, vv) // v += F*dt
		blas32.Scal(0.9, vv)      // v *= friction
	}
}

// The BLAS form must match the scalar kernel it is benchmarked against.
func TestIntegrateBLASMatchesScalar(t *testing.T) {
	force := []components.Vec2{{X: 1, Y: -2}, {X: 0.5, Y: 3}}
	vel := []components.Vec2{{X: 0.1, Y: 0.2}, {X: -1, Y: 0}}

	flatV := []float32{vel[0].X, vel[0].Y, vel[1].X, vel[1].Y}
	flatF := []float32{force[0].X, force[0].Y, force[1].X, force[1].Y}
	vv := blas32.Vector{N: 4, Inc: 1, Data: flatV}
	blas32.Axpy(0.02, blas32.Vector{N: 4, Inc: 1, Data: flatF}, vv)
	blas32.Scal(0.9, vv)

	for i := range vel {
		want := IntegrateVelocity(vel[i], force[i], 0.02, 0.9)
		if d := want.Sub(components.Vec2{X: flatV[2*i], Y: flatV[2*i+1]}); d.LengthSq() > 1e-10 {
			t.Errorf("particle %d: blas %v, scalar %v", i, flatV[2*i:2*i+2], want)
		}
	}
}

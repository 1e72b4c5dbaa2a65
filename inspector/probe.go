// Package inspector looks up single particles in a running simulation and
// describes them as labelled fields for display.
package inspector

import (
	"math"

	"github.com/pthm-cable/plife/components"
	"github.com/pthm-cable/plife/sim"
	"github.com/pthm-cable/plife/systems"
)

// ParticleView is the inspectable state of one particle.
type ParticleView struct {
	Index     uint32  `inspect:"label,label:Index"`
	Type      uint32  `inspect:"label,label:Type"`
	PosX      float32 `inspect:"label,label:X,fmt:%.1f"`
	PosY      float32 `inspect:"label,label:Y,fmt:%.1f"`
	VelX      float32 `inspect:"label,label:Vx,fmt:%.2f"`
	VelY      float32 `inspect:"label,label:Vy,fmt:%.2f"`
	Speed     float32 `inspect:"bar,label:Speed,max:100"`
	Neighbors int     `inspect:"bar,label:Neighbors,max:64"`
	CellX     int32   `inspect:"label,label:Cell X"`
	CellY     int32   `inspect:"label,label:Cell Y"`
	Key       uint32  `inspect:"label,label:Key"`
	ForceX    float32 `inspect:"label,label:Fx,fmt:%.2f"`
	ForceY    float32 `inspect:"label,label:Fy,fmt:%.2f"`
	Force     float32 `inspect:"bar,label:|F|,max:200"`
	Wrapped   bool    `inspect:"bool,label:Wrapping"`
}

// Probe answers point queries against the published particles of a
// simulation. It keeps its own index so that it never disturbs a tick in
// progress.
type Probe struct {
	builder *systems.Builder
	index   *systems.NeighborIndex
	scratch []systems.Neighbor

	particles []components.Particle
	grid      systems.Grid
	force     systems.ForceParams
	tick      uint64
	built     bool
}

// NewProbe creates an empty probe.
func NewProbe() *Probe {
	return &Probe{
		builder: systems.NewBuilder(systems.StrategyComparison, systems.Serial{}),
	}
}

// Refresh rebuilds the probe's index when the simulation has advanced.
func (p *Probe) Refresh(s *sim.Simulation) error {
	if p.built && s.Tick() == p.tick && len(s.Particles()) == len(p.particles) && s.Grid() == p.grid {
		return nil
	}
	p.particles = s.Snapshot(p.particles)
	p.grid = s.Grid()
	p.force = s.ForceParams()
	p.tick = s.Tick()

	idx, err := p.builder.Build(p.particles, p.grid)
	if err != nil {
		p.built = false
		return err
	}
	p.index = idx
	p.built = true
	return nil
}

// Invalidate forces the next Refresh to rebuild, for when particles were
// replaced without a tick completing.
func (p *Probe) Invalidate() {
	p.built = false
}

// Pick returns the index of the particle nearest to pos within radius.
// The radius is capped at the grid cell size.
func (p *Probe) Pick(pos components.Vec2, radius float32) (uint32, bool) {
	if !p.built {
		return 0, false
	}
	if p.grid.Wraps() {
		pos = p.grid.WrapPosition(pos)
	}
	p.scratch = p.index.QueryInto(p.scratch[:0], p.particles, pos, nil)

	best := uint32(0)
	bestDist := float32(math.MaxFloat32)
	limit := radius * radius
	for _, n := range p.scratch {
		if n.DistSq <= limit && n.DistSq < bestDist {
			best, bestDist = n.Index, n.DistSq
		}
	}
	return best, bestDist <= limit
}

// Describe returns the view of particle i, or false if i is out of range.
func (p *Probe) Describe(i uint32) (ParticleView, bool) {
	if !p.built || int(i) >= len(p.particles) {
		return ParticleView{}, false
	}
	pt := p.particles[i]
	p.scratch = p.index.QueryInto(p.scratch[:0], p.particles, pt.Position, nil)
	f := systems.AccumulateForce(i, p.particles, p.scratch, p.force)

	cell := p.grid.CellOf(pt.Position)
	neighbors := max(len(p.scratch)-1, 0) // self is always indexed
	return ParticleView{
		Index:     i,
		Type:      pt.Type,
		PosX:      pt.Position.X,
		PosY:      pt.Position.Y,
		VelX:      pt.Velocity.X,
		VelY:      pt.Velocity.Y,
		Speed:     pt.Velocity.Length(),
		Neighbors: neighbors,
		CellX:     cell.X,
		CellY:     cell.Y,
		Key:       systems.KeyOf(systems.HashCell(cell), p.index.TableSize),
		ForceX:    f.X,
		ForceY:    f.Y,
		Force:     f.Length(),
		Wrapped:   p.grid.Wraps(),
	}, true
}

// Position returns the position of particle i in the probe's copy.
func (p *Probe) Position(i uint32) (components.Vec2, bool) {
	if int(i) >= len(p.particles) {
		return components.Vec2{}, false
	}
	return p.particles[i].Position, true
}

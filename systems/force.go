package systems

import "github.com/pthm-cable/plife/components"

// Beta is the fraction of the interaction radius occupied by the
// universal repulsive core.
const Beta float32 = 0.3

// Force returns the signed force at normalized distance r (distance / r_max)
// for attraction coefficient a.
//
//	r < Beta:       r/Beta - 1            (repulsion, -1..0)
//	Beta <= r < 1:  a * triangle bump     (peaks at a halfway through the band)
//	r >= 1:         0
func Force(r, a float32) float32 {
	switch {
	case r < Beta:
		return r/Beta - 1
	case r < 1:
		return a * (1 - absf(2*r-1-Beta)/(1-Beta))
	default:
		return 0
	}
}

// ForceParams carries the per-tick constants of the force kernel.
type ForceParams struct {
	RMax        float32
	ForceFactor float32
	TypeCount   int
	Matrix      []float32 // row-major TypeCount x TypeCount
	ExcludeSelf bool
}

// AccumulateForce sums the force on particle self from its accepted neighbors:
// the radial term for 0 < r < RMax plus a velocity-alignment term
// (neighbor.velocity - self.velocity) for every neighbor.
// At r == 0 only the alignment term applies.
func AccumulateForce(self uint32, particles []components.Particle, neighbors []Neighbor, fp ForceParams) components.Vec2 {
	p := particles[self]
	row := int(p.Type) * fp.TypeCount
	var total components.Vec2

	for _, n := range neighbors {
		if fp.ExcludeSelf && n.Index == self {
			continue
		}
		other := particles[n.Index]

		r := sqrtf(n.DistSq)
		if r > 0 && r < fp.RMax {
			a := fp.Matrix[row+int(other.Type)]
			f := Force(r/fp.RMax, a)
			total = total.Add(n.Delta.Scale(f / r * fp.RMax * fp.ForceFactor))
		}

		total = total.Add(other.Velocity.Sub(p.Velocity))
	}
	return total
}

// IntegrateVelocity applies force over dt and the per-tick friction decay.
func IntegrateVelocity(velocity, force components.Vec2, dt, friction float32) components.Vec2 {
	return velocity.Add(force.Scale(dt)).Scale(friction)
}

// IntegratePosition advances position by velocity over dt.
func IntegratePosition(position, velocity components.Vec2, dt float32) components.Vec2 {
	return position.Add(velocity.Scale(dt))
}

func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

// Package components holds the plain value types shared by the simulation.
package components

// Particle is a single point mass in the simulation.
// Particles are stored densely and addressed by their original index,
// which stays stable across ticks.
type Particle struct {
	Position Vec2
	Velocity Vec2
	Type     uint32 // row/column into the attraction matrix
}

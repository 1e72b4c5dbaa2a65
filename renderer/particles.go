// Package renderer draws the particle world with raylib.
package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/plife/camera"
	"github.com/pthm-cable/plife/components"
)

// ParticleRenderer renders simulation particles as small discs colored by type.
type ParticleRenderer struct {
	Radius float32 // world units

	palette []rl.Color
	gray    []rl.Color
}

// NewParticleRenderer creates a new particle renderer.
func NewParticleRenderer(radius float32) *ParticleRenderer {
	return &ParticleRenderer{Radius: radius}
}

// SetTypeCount rebuilds the palette: types are spread evenly around the hue wheel.
func (r *ParticleRenderer) SetTypeCount(types int) {
	if len(r.palette) == types {
		return
	}
	r.palette = make([]rl.Color, types)
	r.gray = make([]rl.Color, types)
	for i := range r.palette {
		hue := 360 * float32(i) / float32(max(types, 1))
		r.palette[i] = rl.ColorFromHSV(hue, 0.75, 1)
		r.gray[i] = grayscale(r.palette[i])
	}
}

// Draw renders all particles visible through cam. In a wrapped world the
// copies drawn across the seam use the grayscale mask when grayscale is set.
func (r *ParticleRenderer) Draw(particles []components.Particle, cam *camera.Camera, grayscale bool) {
	size := max(r.Radius*cam.Zoom, 1)

	for i := range particles {
		p := &particles[i]
		if int(p.Type) >= len(r.palette) {
			continue
		}
		if !cam.IsVisible(p.Position.X, p.Position.Y, r.Radius) {
			continue
		}

		color := r.palette[p.Type]
		sx, sy := cam.WorldToScreen(p.Position.X, p.Position.Y)
		rl.DrawCircleV(rl.Vector2{X: sx, Y: sy}, size, color)

		ghost := color
		if grayscale {
			ghost = r.gray[p.Type]
		}
		for _, g := range cam.GhostPositions(p.Position.X, p.Position.Y, r.Radius) {
			rl.DrawCircleV(rl.Vector2{X: g.X, Y: g.Y}, size, ghost)
		}
	}
}

// grayscale returns the luma of c as a gray color with the same alpha.
func grayscale(c rl.Color) rl.Color {
	y := uint8((299*uint32(c.R) + 587*uint32(c.G) + 114*uint32(c.B)) / 1000)
	return rl.Color{R: y, G: y, B: y, A: c.A}
}

// Palette returns the per-type colors.
func (r *ParticleRenderer) Palette() []rl.Color {
	return r.palette
}

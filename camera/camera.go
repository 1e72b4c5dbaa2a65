// Package camera provides a 2D camera system for viewport control.
package camera

import (
	"math"

	"github.com/pthm-cable/plife/components"
)

// unboundedZoomOut lets an unbounded plane be viewed beyond the spawn area,
// where particles drift.
const unboundedZoomOut = 4

// Camera controls the viewport into the simulation world.
// Supports pan and zoom, with toroidal wrapping when the world wraps.
type Camera struct {
	// Position is the camera center in world coordinates
	X, Y float32

	// Zoom level (1.0 = 1:1, 2.0 = 2x magnification)
	Zoom float32

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float32

	// World dimensions and topology
	WorldW, WorldH float32
	Wrap           bool

	// Zoom constraints
	MinZoom, MaxZoom float32
}

// New creates a camera centered on the world, zoomed so the world fits the
// viewport.
func New(viewportW, viewportH, worldW, worldH float32, wrap bool) *Camera {
	c := &Camera{
		ViewportW: viewportW,
		ViewportH: viewportH,
		MaxZoom:   8.0,
	}
	c.SetWorld(worldW, worldH, wrap)
	return c
}

// SetWorld replaces the world the camera looks at and recenters on it.
func (c *Camera) SetWorld(worldW, worldH float32, wrap bool) {
	c.WorldW, c.WorldH, c.Wrap = worldW, worldH, wrap
	c.updateMinZoom()
	c.Reset()
}

// fitZoom is the zoom at which the whole world just fits the viewport.
func (c *Camera) fitZoom() float32 {
	if c.WorldW <= 0 || c.WorldH <= 0 {
		return 1
	}
	return min(c.ViewportW/c.WorldW, c.ViewportH/c.WorldH)
}

// updateMinZoom keeps a wrapped view from showing more than one world copy.
func (c *Camera) updateMinZoom() {
	if c.WorldW <= 0 || c.WorldH <= 0 {
		c.MinZoom = 0.1
		return
	}
	if c.Wrap {
		c.MinZoom = max(c.ViewportW/c.WorldW, c.ViewportH/c.WorldH)
	} else {
		c.MinZoom = c.fitZoom() / unboundedZoomOut
	}
}

// delta is the signed distance from the camera center, shortest path when wrapping.
func (c *Camera) delta(wx, wy float32) (dx, dy float32) {
	if !c.Wrap {
		return wx - c.X, wy - c.Y
	}
	return toroidalDelta(wx, c.X, c.WorldW), toroidalDelta(wy, c.Y, c.WorldH)
}

// WorldToScreen converts world coordinates to screen coordinates.
// For toroidal worlds, this finds the shortest path to the viewport.
func (c *Camera) WorldToScreen(wx, wy float32) (sx, sy float32) {
	dx, dy := c.delta(wx, wy)
	sx = c.ViewportW/2 + dx*c.Zoom
	sy = c.ViewportH/2 + dy*c.Zoom
	return sx, sy
}

// ScreenToWorld converts screen coordinates to world coordinates.
func (c *Camera) ScreenToWorld(sx, sy float32) (wx, wy float32) {
	dx := (sx - c.ViewportW/2) / c.Zoom
	dy := (sy - c.ViewportH/2) / c.Zoom
	return c.wrap(c.X+dx, c.Y+dy)
}

func (c *Camera) wrap(x, y float32) (float32, float32) {
	if !c.Wrap {
		return x, y
	}
	return mod(x, c.WorldW), mod(y, c.WorldH)
}

// IsVisible returns true if a circle at (wx, wy) with given radius
// could be visible on screen (conservative check for culling).
func (c *Camera) IsVisible(wx, wy, radius float32) bool {
	dx, dy := c.delta(wx, wy)

	// Half-extents of the visible area in world coords, plus margin for radius
	halfW := c.ViewportW/(2*c.Zoom) + radius
	halfH := c.ViewportH/(2*c.Zoom) + radius

	return absf(dx) <= halfW && absf(dy) <= halfH
}

// GhostPositions returns additional screen positions for particles near
// world edges, so they appear on both sides while wrapping. Returns up to 3
// positions (4 with the primary one at corners); none for unbounded worlds.
func (c *Camera) GhostPositions(wx, wy, radius float32) []components.Vec2 {
	if !c.Wrap {
		return nil
	}
	var ghosts []components.Vec2

	halfW := c.ViewportW / (2 * c.Zoom)
	halfH := c.ViewportH / (2 * c.Zoom)
	dx, dy := c.delta(wx, wy)

	needsHorizontalGhost := false
	var hGhostX float32
	if dx > halfW-radius && dx < halfW+radius {
		needsHorizontalGhost = true
		hGhostX = c.ViewportW/2 + (dx-c.WorldW)*c.Zoom
	} else if dx < -halfW+radius && dx > -halfW-radius {
		needsHorizontalGhost = true
		hGhostX = c.ViewportW/2 + (dx+c.WorldW)*c.Zoom
	}

	needsVerticalGhost := false
	var vGhostY float32
	if dy > halfH-radius && dy < halfH+radius {
		needsVerticalGhost = true
		vGhostY = c.ViewportH/2 + (dy-c.WorldH)*c.Zoom
	} else if dy < -halfH+radius && dy > -halfH-radius {
		needsVerticalGhost = true
		vGhostY = c.ViewportH/2 + (dy+c.WorldH)*c.Zoom
	}

	sx := c.ViewportW/2 + dx*c.Zoom
	sy := c.ViewportH/2 + dy*c.Zoom

	if needsHorizontalGhost {
		ghosts = append(ghosts, components.Vec2{X: hGhostX, Y: sy})
	}
	if needsVerticalGhost {
		ghosts = append(ghosts, components.Vec2{X: sx, Y: vGhostY})
	}
	if needsHorizontalGhost && needsVerticalGhost {
		ghosts = append(ghosts, components.Vec2{X: hGhostX, Y: vGhostY})
	}

	return ghosts
}

// Resize updates viewport dimensions and recalculates zoom constraints.
func (c *Camera) Resize(viewportW, viewportH float32) {
	if viewportW == c.ViewportW && viewportH == c.ViewportH {
		return
	}
	c.ViewportW = viewportW
	c.ViewportH = viewportH
	c.updateMinZoom()
	if c.Zoom < c.MinZoom {
		c.Zoom = c.MinZoom
	}
}

// Pan moves the camera by the given delta in screen pixels.
// Wraps around world boundaries when the world wraps.
func (c *Camera) Pan(dx, dy float32) {
	c.X, c.Y = c.wrap(c.X+dx/c.Zoom, c.Y+dy/c.Zoom)
}

// SetZoom sets the zoom level, clamped to min/max.
func (c *Camera) SetZoom(zoom float32) {
	c.Zoom = clamp(zoom, c.MinZoom, c.MaxZoom)
}

// ZoomBy multiplies the current zoom by the given factor.
func (c *Camera) ZoomBy(factor float32) {
	c.SetZoom(c.Zoom * factor)
}

// Reset centers the camera on the world with the whole world in view.
func (c *Camera) Reset() {
	c.X = c.WorldW / 2
	c.Y = c.WorldH / 2
	c.SetZoom(c.fitZoom())
}

// VisibleWorldBounds returns the world-coordinate bounds of the visible area.
// Returns (minX, minY, maxX, maxY) in world coordinates.
// Note: For toroidal worlds, min may be > max if the view wraps.
func (c *Camera) VisibleWorldBounds() (minX, minY, maxX, maxY float32) {
	halfW := c.ViewportW / (2 * c.Zoom)
	halfH := c.ViewportH / (2 * c.Zoom)

	minX = c.X - halfW
	maxX = c.X + halfW
	minY = c.Y - halfH
	maxY = c.Y + halfH
	return
}

// toroidalDelta computes the shortest signed distance from 'from' to 'to'
// in a toroidal space of the given size.
func toroidalDelta(to, from, size float32) float32 {
	d := to - from
	if d > size/2 {
		d -= size
	} else if d < -size/2 {
		d += size
	}
	return d
}

// mod computes the positive modulo (Go's % can return negative).
func mod(x, m float32) float32 {
	r := float32(math.Mod(float64(x), float64(m)))
	if r < 0 {
		r += m
	}
	return r
}

func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

func clamp(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

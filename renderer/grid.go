package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/plife/camera"
	"github.com/pthm-cable/plife/components"
	"github.com/pthm-cable/plife/systems"
)

// GridRenderer draws the neighbor-index cells and the world border.
type GridRenderer struct {
	LineColor   rl.Color
	BorderColor rl.Color
}

// NewGridRenderer creates a grid renderer with faint default colors.
func NewGridRenderer() *GridRenderer {
	return &GridRenderer{
		LineColor:   rl.Color{R: 60, G: 60, B: 70, A: 120},
		BorderColor: rl.Color{R: 120, G: 120, B: 140, A: 200},
	}
}

// Draw renders cell lines across the visible area. Lines are skipped when
// cells would be closer than a few pixels apart.
func (g *GridRenderer) Draw(grid systems.Grid, cam *camera.Camera) {
	if grid.CellSize <= 0 {
		return
	}
	if grid.CellSize*cam.Zoom >= 4 {
		minX, minY, maxX, maxY := cam.VisibleWorldBounds()
		first := systems.CellOf(components.Vec2{X: minX, Y: minY}, grid.CellSize)
		last := systems.CellOf(components.Vec2{X: maxX, Y: maxY}, grid.CellSize)

		for cx := first.X; cx <= last.X+1; cx++ {
			x := float32(cx) * grid.CellSize
			sx, _ := cam.WorldToScreen(x, cam.Y)
			rl.DrawLineV(rl.Vector2{X: sx, Y: 0}, rl.Vector2{X: sx, Y: cam.ViewportH}, g.LineColor)
		}
		for cy := first.Y; cy <= last.Y+1; cy++ {
			y := float32(cy) * grid.CellSize
			_, sy := cam.WorldToScreen(cam.X, y)
			rl.DrawLineV(rl.Vector2{X: 0, Y: sy}, rl.Vector2{X: cam.ViewportW, Y: sy}, g.LineColor)
		}
	}

	if !grid.Wraps() {
		x0, y0 := cam.WorldToScreen(0, 0)
		w := grid.Width * cam.Zoom
		h := grid.Height * cam.Zoom
		rl.DrawRectangleLinesEx(rl.Rectangle{X: x0, Y: y0, Width: w, Height: h}, 1, g.BorderColor)
	}
}

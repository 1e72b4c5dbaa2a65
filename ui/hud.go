package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title         string
	Particles     int
	Types         int
	Tick          uint64
	SimTime       float64
	FPS           int32
	Paused        bool
	Strategy      string
	MeanNeighbors float64
	MeanSpeed     float64
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{
		renderer: NewRenderer(),
	}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	rl.DrawText(data.Title, 10, 10, 20, rl.White)

	rl.DrawText(
		fmt.Sprintf("Particles: %d | Types: %d | Index: %s", data.Particles, data.Types, data.Strategy),
		10, 35, 16, rl.LightGray,
	)
	rl.DrawText(
		fmt.Sprintf("Tick: %d | Time: %.2fs | FPS: %d", data.Tick, data.SimTime, data.FPS),
		10, 55, 16, rl.LightGray,
	)
	rl.DrawText(
		fmt.Sprintf("Neighbors: %.1f | Speed: %.2f", data.MeanNeighbors, data.MeanSpeed),
		10, 75, 16, rl.LightGray,
	)

	if data.Paused {
		rl.DrawText("PAUSED", 10, 95, 16, rl.Yellow)
	}
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenWidth, screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// PerfPanelData holds performance metrics for display.
type PerfPanelData struct {
	PhaseTimes map[string]time.Duration
	Total      time.Duration
	TicksPerS  float64
}

// PerfPanel renders the per-phase timing panel.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
	}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel, listing phases in the given order.
func (p *PerfPanel) Draw(data PerfPanelData, phases []string) {
	x := p.x
	y := p.y

	rl.DrawText("Phase Timing", x, y, 16, rl.White)
	y += 20

	rl.DrawText(fmt.Sprintf("Tick: %s (%.0f/s)", data.Total.Round(time.Microsecond), data.TicksPerS), x, y, 14, rl.Yellow)
	y += 16

	for _, name := range phases {
		avg := data.PhaseTimes[name]
		pct := float64(0)
		if data.Total > 0 {
			pct = float64(avg) / float64(data.Total) * 100
		}

		color := rl.LightGray
		if pct > 50 {
			color = rl.Red
		} else if pct > 25 {
			color = rl.Orange
		}

		rl.DrawText(
			fmt.Sprintf("%-20s %8s %5.1f%%", name, avg.Round(time.Microsecond), pct),
			x, y, 12, color,
		)
		y += 14
	}
}

// MatrixView draws the attraction matrix as a grid of colored cells, with
// each row and column headed by the type's particle color.
type MatrixView struct {
	renderer *Renderer
	x, y     int32
	cell     int32
}

// NewMatrixView creates a matrix view anchored at (x, y).
func NewMatrixView(x, y, cell int32) *MatrixView {
	return &MatrixView{renderer: NewRenderer(), x: x, y: y, cell: cell}
}

// SetPosition updates the view position.
func (m *MatrixView) SetPosition(x, y int32) {
	m.x = x
	m.y = y
}

// Draw renders a types x types matrix. palette supplies the type colors.
func (m *MatrixView) Draw(types int, matrix []float32, palette []rl.Color) {
	if types <= 0 || len(matrix) != types*types || len(palette) < types {
		return
	}
	c := m.cell
	size := int32(types+1) * c
	m.renderer.DrawPanel(m.x-2, m.y-2, size+4, size+4)

	for i := 0; i < types; i++ {
		off := int32(i+1) * c
		rl.DrawRectangle(m.x+off, m.y, c-1, c-1, palette[i])
		rl.DrawRectangle(m.x, m.y+off, c-1, c-1, palette[i])
	}
	for i := 0; i < types; i++ {
		for j := 0; j < types; j++ {
			col := m.renderer.AttractionColor(matrix[i*types+j])
			rl.DrawRectangle(m.x+int32(j+1)*c, m.y+int32(i+1)*c, c-1, c-1, col)
		}
	}
}

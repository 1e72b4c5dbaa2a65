package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/plife/inspector"
)

// Inspector widget colors.
var (
	colorBarFill = rl.Color{R: 100, G: 180, B: 100, A: 255}
	colorBarLow  = rl.Color{R: 180, G: 80, B: 80, A: 255}
	colorBoolOn  = rl.Color{R: 100, G: 200, B: 100, A: 255}
	colorBoolOff = rl.Color{R: 80, G: 80, B: 80, A: 255}
)

const inspectorWidth = 250

// InspectorPanel shows the fields of the selected particle.
type InspectorPanel struct {
	renderer *Renderer
	x, y     int32
}

// NewInspectorPanel creates an inspector panel at the given position.
func NewInspectorPanel(x, y int32) *InspectorPanel {
	return &InspectorPanel{renderer: NewRenderer(), x: x, y: y}
}

// SetPosition updates the panel position.
func (p *InspectorPanel) SetPosition(x, y int32) {
	p.x, p.y = x, y
}

// Draw renders the view with one row per inspectable field.
func (p *InspectorPanel) Draw(view inspector.ParticleView, swatch rl.Color) {
	fields := inspector.ExtractFields(view)
	th := p.renderer.Theme
	height := th.Padding*2 + th.LineHeight + 4 + int32(len(fields))*(th.LineHeight+2)
	p.renderer.DrawPanel(p.x, p.y, inspectorWidth, height)

	x := p.x + th.Padding
	y := p.y + th.Padding
	rl.DrawRectangle(x, y+2, 10, 10, swatch)
	y = p.renderer.DrawSectionHeader(x+16, y, fmt.Sprintf("Particle %d", view.Index))
	y += 4

	for _, f := range fields {
		y += p.drawField(x, y, f)
	}
}

// drawField renders a field using its widget type and returns the row height.
func (p *InspectorPanel) drawField(x, y int32, f inspector.Field) int32 {
	th := p.renderer.Theme
	switch f.Widget {
	case inspector.WidgetBar:
		if v, ok := inspector.GetFloatValue(f.Value); ok {
			p.drawBar(x, y, f.Name, v, inspector.GetMax(f.Options))
			return th.LineHeight + 2
		}
	case inspector.WidgetBool:
		if v, ok := f.Value.(bool); ok {
			color, text := colorBoolOff, "OFF"
			if v {
				color, text = colorBoolOn, "ON"
			}
			rl.DrawText(f.Name, x, y, th.FontSize, th.LabelColor)
			rl.DrawRectangle(x+th.LabelWidth, y, th.BarHeight, th.BarHeight, color)
			rl.DrawText(text, x+th.LabelWidth+th.BarHeight+5, y, th.FontSize, color)
			return th.LineHeight + 2
		}
	}
	p.renderer.DrawLabelValue(x, y, f.Name, inspector.FormatValue(f.Value, f.Options["fmt"]))
	return th.LineHeight + 2
}

func (p *InspectorPanel) drawBar(x, y int32, name string, value, maxVal float32) {
	th := p.renderer.Theme
	ratio := min(max(value/maxVal, 0), 1)
	barWidth := int32(80)

	rl.DrawText(name, x, y, th.FontSize, th.LabelColor)
	barX := x + th.LabelWidth
	rl.DrawRectangle(barX, y, barWidth, th.BarHeight, th.BarBg)
	fill := colorBarFill
	if ratio < 0.3 {
		fill = colorBarLow
	}
	rl.DrawRectangle(barX, y, int32(float32(barWidth)*ratio), th.BarHeight, fill)
	rl.DrawText(fmt.Sprintf("%.1f", value), barX+barWidth+5, y, th.FontSize, th.ValueColor)
}

// DrawSelectionHighlight circles the selected particle at screen position
// (sx, sy) and outlines its interaction radius.
func DrawSelectionHighlight(sx, sy, radius, interaction float32) {
	rl.DrawCircleLines(int32(sx), int32(sy), radius*1.8+2, rl.Yellow)
	rl.DrawCircleLines(int32(sx), int32(sy), interaction, rl.Color{R: 255, G: 255, B: 0, A: 70})
}

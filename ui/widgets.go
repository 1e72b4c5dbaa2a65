package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Renderer handles all UI drawing with consistent styling.
type Renderer struct {
	Theme Theme
}

// NewRenderer creates a renderer with the default theme.
func NewRenderer() *Renderer {
	return &Renderer{Theme: DefaultTheme()}
}

// DrawPanel draws a panel background with border.
func (r *Renderer) DrawPanel(x, y, width, height int32) {
	rl.DrawRectangle(x, y, width, height, r.Theme.PanelBg)
	rl.DrawRectangleLines(x, y, width, height, r.Theme.PanelBorder)
}

// DrawSectionHeader draws a section header and returns the new Y position.
func (r *Renderer) DrawSectionHeader(x, y int32, title string) int32 {
	rl.DrawText(title, x, y, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
	return y + r.Theme.LineHeight + 2
}

// DrawLabelValue draws a label and value on the same line.
func (r *Renderer) DrawLabelValue(x, y int32, label, value string) int32 {
	rl.DrawText(label+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)
	rl.DrawText(value, x+r.Theme.LabelWidth, y, r.Theme.FontSize, r.Theme.ValueColor)
	return y + r.Theme.LineHeight
}

// AttractionColor maps an attraction value in [-1, 1] to a red (repel) to
// green (attract) shade.
func (r *Renderer) AttractionColor(a float32) rl.Color {
	a = min(max(a, -1), 1)
	base := r.Theme.BarFillPositive
	if a < 0 {
		base = r.Theme.BarFillNegative
		a = -a
	}
	bg := r.Theme.BarBg
	lerp := func(from, to uint8) uint8 {
		return uint8(float32(from) + (float32(to)-float32(from))*a)
	}
	return rl.Color{R: lerp(bg.R, base.R), G: lerp(bg.G, base.G), B: lerp(bg.B, base.B), A: 255}
}

package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/plife/config"
)

// Action is what the user asked for on the controls panel this frame.
type Action int

const (
	ActionNone Action = iota
	ActionRun         // apply the staged edits
	ActionReset       // revert the staged edits to the running config
	ActionSavePreset
	ActionLoadPreset
)

// ControlsPanel stages edits to the simulation parameters. Slider changes
// only touch Edits; the caller applies them when Draw returns ActionRun.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32

	Visible bool
	Edits   config.Edits
	Status  string

	presets   []string
	presetIdx int
}

// NewControlsPanel creates a controls panel anchored at (x, y).
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
		Visible:  true,
	}
}

// SetPosition updates the panel position.
func (p *ControlsPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Load stages the values of the running configuration.
func (p *ControlsPanel) Load(c config.SimulationConfig) {
	p.Edits = config.EditsFrom(c)
}

// SetPresets replaces the list of selectable presets, keeping the current
// selection when it is still present.
func (p *ControlsPanel) SetPresets(names []string) {
	selected := p.SelectedPreset()
	p.presets = names
	p.presetIdx = 0
	for i, n := range names {
		if n == selected {
			p.presetIdx = i
		}
	}
}

// SelectedPreset returns the preset the load button would load, or "".
func (p *ControlsPanel) SelectedPreset() string {
	if p.presetIdx < 0 || p.presetIdx >= len(p.presets) {
		return ""
	}
	return p.presets[p.presetIdx]
}

const controlsHeight = 490

// Contains reports whether a screen point lies on the visible panel.
func (p *ControlsPanel) Contains(pt rl.Vector2) bool {
	return p.Visible && rl.CheckCollisionPointRec(pt, rl.Rectangle{
		X: float32(p.x), Y: float32(p.y), Width: float32(p.width), Height: controlsHeight,
	})
}

// Draw renders the panel and returns the action requested this frame.
func (p *ControlsPanel) Draw() Action {
	if !p.Visible {
		return ActionNone
	}
	th := p.renderer.Theme
	p.renderer.DrawPanel(p.x, p.y, p.width, controlsHeight)

	x := float32(p.x + th.Padding)
	y := float32(p.y + th.Padding)
	y = float32(p.renderer.DrawSectionHeader(int32(x), int32(y), "Simulation"))

	e := &p.Edits
	e.ParticleCount = int(p.slider(x, &y, "Particles", fmt.Sprintf("%d", e.ParticleCount),
		float32(e.ParticleCount), 0, config.MaxParticleCount))
	e.TypeCount = int(p.slider(x, &y, "Types", fmt.Sprintf("%d", e.TypeCount),
		float32(e.TypeCount), 1, config.MaxTypeCount))
	e.DT = p.slider(x, &y, "dt", fmt.Sprintf("%.4f", e.DT), e.DT, 0, config.MaxDT)
	e.FrictionHalfLife = p.slider(x, &y, "Friction half-life", fmt.Sprintf("%.3f", e.FrictionHalfLife),
		e.FrictionHalfLife, 0, config.MaxHalfLife)
	e.RMax = p.slider(x, &y, "r_max", fmt.Sprintf("%.1f", e.RMax), e.RMax, 0, config.MaxRMax)
	e.ForceFactor = p.slider(x, &y, "Force factor", fmt.Sprintf("%.1f", e.ForceFactor),
		e.ForceFactor, 0, config.MaxForceFactor)
	*e = e.Clamp()

	p.renderer.DrawLabelValue(int32(x), int32(y), "Friction factor", fmt.Sprintf("%.4f", e.FrictionFactor()))
	y += float32(th.LineHeight) + 6

	half := float32(p.width-3*th.Padding) / 2
	if gui.Button(rl.Rectangle{X: x, Y: y, Width: half, Height: 24},
		toggleText(e.RecreateMatrix, "[x] New matrix", "[ ] New matrix")) {
		e.RecreateMatrix = !e.RecreateMatrix
	}
	if gui.Button(rl.Rectangle{X: x + half + float32(th.Padding), Y: y, Width: half, Height: 24},
		toggleText(e.Grayscale, "[x] Grayscale", "[ ] Grayscale")) {
		e.Grayscale = !e.Grayscale
	}
	y += 34

	action := ActionNone
	if gui.Button(rl.Rectangle{X: x, Y: y, Width: half, Height: 30}, "Run") {
		action = ActionRun
	}
	if gui.Button(rl.Rectangle{X: x + half + float32(th.Padding), Y: y, Width: half, Height: 30}, "Revert") {
		action = ActionReset
	}
	y += 44

	y = float32(p.renderer.DrawSectionHeader(int32(x), int32(y), "Presets"))
	name := p.SelectedPreset()
	if name == "" {
		name = "(none)"
	}
	if gui.Button(rl.Rectangle{X: x, Y: y, Width: 24, Height: 24}, "<") && len(p.presets) > 0 {
		p.presetIdx = (p.presetIdx + len(p.presets) - 1) % len(p.presets)
	}
	rl.DrawText(name, int32(x)+32, int32(y)+6, th.FontSize, th.ValueColor)
	if gui.Button(rl.Rectangle{X: x + float32(p.width-2*th.Padding) - 24, Y: y, Width: 24, Height: 24}, ">") && len(p.presets) > 0 {
		p.presetIdx = (p.presetIdx + 1) % len(p.presets)
	}
	y += 32

	if gui.Button(rl.Rectangle{X: x, Y: y, Width: half, Height: 30}, "Save") {
		action = ActionSavePreset
	}
	if gui.Button(rl.Rectangle{X: x + half + float32(th.Padding), Y: y, Width: half, Height: 30}, "Load") && p.SelectedPreset() != "" {
		action = ActionLoadPreset
	}
	y += 40

	if p.Status != "" {
		rl.DrawText(p.Status, int32(x), int32(y), th.FontSize, th.SectionHeader)
	}
	return action
}

// slider draws a labelled slider bar and advances y past it.
func (p *ControlsPanel) slider(x float32, y *float32, label, value string, v, lo, hi float32) float32 {
	th := p.renderer.Theme
	rl.DrawText(label, int32(x), int32(*y), th.FontSize, th.LabelColor)
	*y += float32(th.LineHeight)

	w := float32(p.width - 2*th.Padding)
	v = gui.SliderBar(rl.Rectangle{X: x, Y: *y, Width: w - 80, Height: 16}, "", "", v, lo, hi)
	rl.DrawText(value, int32(x+w-72), int32(*y)+2, th.FontSize, th.ValueColor)
	*y += 26
	return v
}

func toggleText(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}

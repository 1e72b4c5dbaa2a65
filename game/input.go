package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/plife/components"
)

// handleInput processes keyboard and mouse input.
func (g *Game) handleInput() {
	// Window resize propagation
	g.handleResize()

	// Fullscreen toggle
	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeyP) {
		g.paused = !g.paused
	}

	// Space restores the startup parameters and respawns every particle
	if rl.IsKeyPressed(rl.KeySpace) {
		if err := g.resetToDefaults(); err != nil {
			g.logger.Error("reset failed", "error", err)
		}
	}

	// Steps-per-update control with < > keys (comma and period)
	if rl.IsKeyPressed(rl.KeyComma) && g.stepsPerUpdate > 1 {
		g.stepsPerUpdate--
	}
	if rl.IsKeyPressed(rl.KeyPeriod) && g.stepsPerUpdate < 10 {
		g.stepsPerUpdate++
	}

	// Single step while paused
	if g.paused && rl.IsKeyPressed(rl.KeyN) {
		g.advance(1)
	}

	if rl.IsKeyPressed(rl.KeyG) {
		g.showGrid = !g.showGrid
	}
	if rl.IsKeyPressed(rl.KeyT) {
		g.showPerf = !g.showPerf
	}
	if rl.IsKeyPressed(rl.KeyM) {
		g.showMatrix = !g.showMatrix
	}
	if rl.IsKeyPressed(rl.KeyTab) {
		g.controls.Visible = !g.controls.Visible
	}
	if rl.IsKeyPressed(rl.KeyF5) {
		if path, err := g.saveSnapshot(); err != nil {
			g.controls.Status = "snapshot failed: " + err.Error()
		} else {
			g.controls.Status = "saved " + path
		}
	}

	g.handleSelection()

	// Camera controls
	g.handleCameraInput()
}

// pickRadius is the screen distance in pixels within which a click selects.
const pickRadius = 8

// handleSelection selects the particle under a left click; Esc deselects.
func (g *Game) handleSelection() {
	if rl.IsKeyPressed(rl.KeyEscape) {
		g.hasSelected = false
	}
	if !rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		return
	}
	mouse := rl.GetMousePosition()
	if g.controls.Contains(mouse) {
		return
	}
	if err := g.probe.Refresh(g.sim); err != nil {
		g.logger.Warn("inspector refresh failed", "error", err)
		return
	}
	wx, wy := g.camera.ScreenToWorld(mouse.X, mouse.Y)
	idx, ok := g.probe.Pick(components.Vec2{X: wx, Y: wy}, pickRadius/g.camera.Zoom)
	g.selected, g.hasSelected = idx, ok
}

// handleResize checks for window resize and propagates new dimensions.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == g.screenWidth && h == g.screenHeight {
		return
	}
	g.screenWidth = w
	g.screenHeight = h

	g.camera.Resize(w, h)
	g.perfPanel.SetPosition(int32(w)-300, 10)
	g.controls.SetPosition(int32(w)-290, 150)
	g.inspectorPanel.SetPosition(10, int32(h)-330)
}

// handleCameraInput processes camera pan/zoom controls.
func (g *Game) handleCameraInput() {
	if g.camera == nil {
		return
	}

	// Screen-space pan speed; Pan divides by zoom
	const panSpeed = float32(8.0)

	// Arrow key panning
	if rl.IsKeyDown(rl.KeyRight) {
		g.camera.Pan(panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		g.camera.Pan(-panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		g.camera.Pan(0, panSpeed)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		g.camera.Pan(0, -panSpeed)
	}

	// Right-drag panning
	if rl.IsMouseButtonDown(rl.MouseButtonRight) {
		d := rl.GetMouseDelta()
		g.camera.Pan(-d.X, -d.Y)
	}

	// Zoom controls: mouse wheel or +/- keys
	wheelMove := rl.GetMouseWheelMove()
	if wheelMove != 0 {
		g.camera.ZoomBy(1 + wheelMove*0.1)
	}

	// Keyboard zoom with +/- (= and - keys)
	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		g.camera.ZoomBy(1.25)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		g.camera.ZoomBy(0.8)
	}

	// Home key to reset camera
	if rl.IsKeyPressed(rl.KeyHome) {
		g.camera.Reset()
	}
}

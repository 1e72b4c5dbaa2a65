package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/plife/config"
	"github.com/pthm-cable/plife/sim"
	"github.com/pthm-cable/plife/telemetry"
	"github.com/pthm-cable/plife/ui"
)

var background = rl.Color{R: 10, G: 10, B: 14, A: 255}

// Draw renders the game state.
func (g *Game) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(background)

	cfg := g.sim.Config()
	if g.showGrid {
		g.gridRenderer.Draw(g.sim.Grid(), g.camera)
	}
	g.particleRenderer.Draw(g.sim.Particles(), g.camera, cfg.Grayscale)
	g.drawSelection(cfg)

	g.drawUI(cfg)

	rl.EndDrawing()
}

// drawUI draws the HUD and panels, then acts on the controls panel.
func (g *Game) drawUI(cfg config.SimulationConfig) {
	g.hud.Draw(ui.HUDData{
		Title:         "Particle Life",
		Particles:     cfg.ParticleCount,
		Types:         cfg.TypeCount,
		Tick:          g.sim.Tick(),
		SimTime:       g.sim.SimTime(),
		FPS:           rl.GetFPS(),
		Paused:        g.paused,
		Strategy:      g.cfg.Index.Strategy,
		MeanNeighbors: g.lastStats.MeanNeighbors,
		MeanSpeed:     g.lastStats.SpeedMean,
	})

	if g.showPerf {
		perf := g.perf.Stats()
		g.perfPanel.Draw(ui.PerfPanelData{
			PhaseTimes: perf.PhaseAvg,
			Total:      perf.AvgTickDuration,
			TicksPerS:  perf.TicksPerSecond,
		}, phaseOrder)
	}

	if g.showMatrix {
		g.matrixView.Draw(cfg.TypeCount, cfg.AttractionMatrix, g.particleRenderer.Palette())
	}

	if g.hasSelected {
		if view, ok := g.probe.Describe(g.selected); ok {
			g.inspectorPanel.Draw(view, g.typeColor(view.Type))
		}
	}

	g.handleControls(g.controls.Draw())

	g.hud.DrawControls(int32(g.screenWidth), int32(g.screenHeight),
		"Click: Inspect | ESC: Deselect | P: Pause | N: Step | SPACE: Reset | < >: Speed | G: Grid | M: Matrix | T: Timing | TAB: Controls | F5: Snapshot")
}

// drawSelection refreshes the probe and highlights the selected particle.
func (g *Game) drawSelection(cfg config.SimulationConfig) {
	if !g.hasSelected {
		return
	}
	if err := g.probe.Refresh(g.sim); err != nil {
		g.hasSelected = false
		return
	}
	pos, ok := g.probe.Position(g.selected)
	if !ok {
		g.hasSelected = false
		return
	}
	sx, sy := g.camera.WorldToScreen(pos.X, pos.Y)
	ui.DrawSelectionHighlight(sx, sy, g.particleRenderer.Radius*g.camera.Zoom, cfg.RMax*g.camera.Zoom)
}

// typeColor returns the palette color of type t.
func (g *Game) typeColor(t uint32) rl.Color {
	palette := g.particleRenderer.Palette()
	if int(t) >= len(palette) {
		return rl.White
	}
	return palette[t]
}

var phaseOrder = append(sim.PhaseNames(), telemetry.PhaseTelemetry)

// handleControls applies the action chosen on the controls panel.
func (g *Game) handleControls(action ui.Action) {
	var err error
	switch action {
	case ui.ActionNone:
		return
	case ui.ActionRun:
		err = g.applyEdits(g.controls.Edits)
		if err == nil {
			g.controls.Status = "applied"
		}
	case ui.ActionReset:
		g.controls.Load(g.sim.Config())
		g.controls.Status = ""
	case ui.ActionSavePreset:
		var name string
		if name, err = g.savePreset(); err == nil {
			g.controls.Status = "saved " + name
		}
	case ui.ActionLoadPreset:
		name := g.controls.SelectedPreset()
		if err = g.loadPreset(name); err == nil {
			g.controls.Status = "loaded " + name
		}
	}
	if err != nil {
		g.logger.Warn("controls action failed", "action", action, "error", err)
		g.controls.Status = "error: " + err.Error()
	}
}

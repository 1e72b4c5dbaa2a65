package game

import (
	"fmt"
	"time"

	"github.com/pthm-cable/plife/config"
	"github.com/pthm-cable/plife/sim"
	"github.com/pthm-cable/plife/telemetry"
)

// Update runs one graphical frame: input, simulation ticks and telemetry.
func (g *Game) Update() {
	g.handleInput()

	if g.paused {
		return
	}
	g.advance(g.stepsPerUpdate)
}

// advance runs n ticks and pauses on a failed tick so the window stays up
// with the last good state.
func (g *Game) advance(n int) {
	if err := g.runTicks(n); err != nil {
		g.paused = true
	}
}

// UpdateHeadless runs stepsPerUpdate ticks without touching raylib.
func (g *Game) UpdateHeadless() error {
	return g.runTicks(g.stepsPerUpdate)
}

// runTicks advances the simulation n whole ticks, timing each one.
func (g *Game) runTicks(n int) error {
	for range n {
		g.perf.StartTick()
		err := g.step(0)
		if err == nil {
			g.perf.StartPhase(telemetry.PhaseTelemetry)
			g.flushTelemetry()
		}
		g.perf.EndTick()

		if err != nil {
			g.logger.Error("tick failed", "tick", g.sim.Tick(), "error", err)
			return err
		}
	}
	return nil
}

// applyConfig reconfigures the running simulation. On rejection the old
// configuration stays live and the error is returned.
func (g *Game) applyConfig(next config.SimulationConfig) error {
	prev := g.sim.Config()
	if err := g.sim.Reconfigure(next); err != nil {
		return err
	}
	g.cfg.Simulation = g.sim.Config()
	g.logMatrix()
	g.onConfigChanged(prev)
	return nil
}

// applyEdits applies the controls panel's staged edits.
func (g *Game) applyEdits(e config.Edits) error {
	next := e.Clamp().Apply(g.sim.Config(), g.rng)
	return g.applyConfig(next)
}

// resetToDefaults restores the startup configuration and respawns every
// particle.
func (g *Game) resetToDefaults() error {
	if err := g.applyConfig(g.defaults); err != nil {
		return err
	}
	cfg := g.sim.Config()
	if err := g.sim.SetParticles(sim.Spawn(cfg, g.cfg.Spawn)); err != nil {
		return err
	}
	if g.probe != nil {
		g.probe.Invalidate()
	}
	g.logger.Info("reset to defaults", "particles", cfg.ParticleCount, "types", cfg.TypeCount)
	return nil
}

// savePreset stores the running configuration under a fresh name.
func (g *Game) savePreset() (string, error) {
	name := "preset_" + time.Now().Format("20060102_150405")
	if err := config.SavePreset(g.cfg.Presets.Dir, name, g.sim.Config()); err != nil {
		return "", err
	}
	g.refreshPresets()
	g.logger.Info("preset saved", "name", name, "dir", g.cfg.Presets.Dir)
	return name, nil
}

// loadPreset replaces the running configuration with a saved one.
func (g *Game) loadPreset(name string) error {
	preset, err := config.LoadPreset(g.cfg.Presets.Dir, name)
	if err != nil {
		return err
	}
	if err := g.applyConfig(preset); err != nil {
		return err
	}
	g.logger.Info("preset loaded", "name", name)
	return nil
}

// saveSnapshot writes the current state to the snapshot directory.
func (g *Game) saveSnapshot() (string, error) {
	if g.snapshotDir == "" {
		return "", fmt.Errorf("no snapshot directory configured")
	}
	path, err := telemetry.SaveSnapshot(telemetry.TakeSnapshot(g.sim), g.snapshotDir)
	if err != nil {
		return "", err
	}
	g.logger.Info("snapshot saved", "path", path, "tick", g.sim.Tick())
	return path, nil
}

// refreshPresets reloads the preset list shown on the controls panel.
func (g *Game) refreshPresets() {
	if g.controls == nil {
		return
	}
	names, err := config.ListPresets(g.cfg.Presets.Dir)
	if err != nil {
		g.logger.Warn("failed to list presets", "error", err)
		return
	}
	g.controls.SetPresets(names)
}

// onConfigChanged resyncs the graphics with a new configuration.
func (g *Game) onConfigChanged(prev config.SimulationConfig) {
	if g.headless {
		return
	}
	cfg := g.sim.Config()
	if cfg.WorldWidth != prev.WorldWidth || cfg.WorldHeight != prev.WorldHeight || cfg.Wrap != prev.Wrap {
		g.camera.SetWorld(float32(cfg.WorldWidth), float32(cfg.WorldHeight), cfg.Wrap)
	}
	g.particleRenderer.SetTypeCount(cfg.TypeCount)
	g.controls.Load(cfg)
	g.probe.Invalidate()
	if int(g.selected) >= cfg.ParticleCount {
		g.hasSelected = false
	}
}

// Package game hosts a simulation: it owns the window, input, rendering and
// the telemetry cadence, and drives the simulation one tick at a time.
package game

import (
	"fmt"
	"log/slog"
	"math/rand/v2"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/plife/camera"
	"github.com/pthm-cable/plife/config"
	"github.com/pthm-cable/plife/inspector"
	"github.com/pthm-cable/plife/renderer"
	"github.com/pthm-cable/plife/sim"
	"github.com/pthm-cable/plife/telemetry"
	"github.com/pthm-cable/plife/ui"
)

// Options configure a Game.
type Options struct {
	Config         *config.Config
	Seed           uint64 // 0 keeps the configured seed
	Headless       bool
	LogStats       bool
	OutputDir      string // CSV and config output; empty disables
	SnapshotDir    string // where the snapshot key writes; empty uses OutputDir
	Preset         string // preset name to load at start
	Snapshot       string // snapshot file to restore at start
	StepsPerUpdate int
	Logger         *slog.Logger
}

// Game holds the complete host state around one simulation.
type Game struct {
	cfg      *config.Config
	defaults config.SimulationConfig // restored by the reset key
	sim      *sim.Simulation
	step     func(dt float32) error // sim.Step
	logger   *slog.Logger
	rng      *rand.Rand // draws new attraction matrices for edits

	perf        *telemetry.PerfCollector
	output      *telemetry.OutputManager
	snapshotDir string
	logStats    bool
	lastStats   telemetry.TickStats

	headless       bool
	paused         bool
	stepsPerUpdate int

	// Graphics, nil in headless mode
	camera           *camera.Camera
	particleRenderer *renderer.ParticleRenderer
	gridRenderer     *renderer.GridRenderer
	hud              *ui.HUD
	perfPanel        *ui.PerfPanel
	controls         *ui.ControlsPanel
	matrixView       *ui.MatrixView
	inspectorPanel   *ui.InspectorPanel
	probe            *inspector.Probe

	selected    uint32
	hasSelected bool

	showGrid   bool
	showPerf   bool
	showMatrix bool

	screenWidth, screenHeight float32
}

// NewGameWithOptions creates a game. In graphical mode the raylib window
// must already be open.
func NewGameWithOptions(opts Options) (*Game, error) {
	cfg := opts.Config
	if cfg == nil {
		var err error
		if cfg, err = config.Defaults(); err != nil {
			return nil, err
		}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Seed != 0 {
		cfg.Simulation.Seed = opts.Seed
		// A matrix generated from the old seed would survive otherwise.
		cfg.Simulation.AttractionMatrix = config.RandomMatrix(cfg.Simulation.TypeCount, config.NewRand(opts.Seed))
	}

	g := &Game{
		cfg:            cfg,
		defaults:       cfg.Simulation.Clone(),
		logger:         logger,
		rng:            config.NewRand(cfg.Simulation.Seed + 1),
		perf:           telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
		snapshotDir:    opts.SnapshotDir,
		logStats:       opts.LogStats,
		headless:       opts.Headless,
		stepsPerUpdate: max(opts.StepsPerUpdate, 1),
	}

	if opts.Preset != "" {
		preset, err := config.LoadPreset(cfg.Presets.Dir, opts.Preset)
		if err != nil {
			return nil, err
		}
		cfg.Simulation = preset
	}

	simOpts := sim.OptionsFrom(cfg)
	simOpts.Logger = logger
	simOpts.Timer = g.perf
	s, err := sim.New(cfg.Simulation, simOpts)
	if err != nil {
		return nil, fmt.Errorf("creating simulation: %w", err)
	}
	g.sim = s
	g.step = s.Step

	if opts.Snapshot != "" {
		snap, err := telemetry.LoadSnapshot(opts.Snapshot)
		if err != nil {
			s.Close()
			return nil, err
		}
		if err := snap.Restore(s); err != nil {
			s.Close()
			return nil, err
		}
		cfg.Simulation = s.Config()
		logger.Info("snapshot restored", "path", opts.Snapshot, "tick", snap.Tick)
	}

	output, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		s.Close()
		return nil, err
	}
	g.output = output
	if err := output.WriteConfig(cfg); err != nil {
		logger.Error("failed to write config", "error", err)
	}
	if g.snapshotDir == "" {
		g.snapshotDir = output.Dir()
	}

	g.logMatrix()

	if !g.headless {
		g.initGraphics()
	}
	return g, nil
}

// initGraphics creates the camera, renderers and panels.
func (g *Game) initGraphics() {
	g.screenWidth = float32(rl.GetScreenWidth())
	g.screenHeight = float32(rl.GetScreenHeight())

	simCfg := g.sim.Config()
	g.camera = camera.New(g.screenWidth, g.screenHeight,
		float32(simCfg.WorldWidth), float32(simCfg.WorldHeight), simCfg.Wrap)
	g.particleRenderer = renderer.NewParticleRenderer(1.5)
	g.particleRenderer.SetTypeCount(simCfg.TypeCount)
	g.gridRenderer = renderer.NewGridRenderer()

	g.hud = ui.NewHUD()
	g.perfPanel = ui.NewPerfPanel(int32(g.screenWidth)-300, 10)
	g.controls = ui.NewControlsPanel(int32(g.screenWidth)-290, 150, 280)
	g.controls.Load(simCfg)
	g.refreshPresets()
	g.matrixView = ui.NewMatrixView(10, 120, 12)
	g.inspectorPanel = ui.NewInspectorPanel(10, int32(g.screenHeight)-330)
	g.probe = inspector.NewProbe()
	g.showPerf = true
}

// Tick returns the number of completed ticks.
func (g *Game) Tick() uint64 {
	return g.sim.Tick()
}

// Simulation returns the hosted simulation.
func (g *Game) Simulation() *sim.Simulation {
	return g.sim
}

// Unload releases resources and flushes output files.
func (g *Game) Unload() {
	g.sim.Close()
	if err := g.output.Close(); err != nil {
		g.logger.Error("failed to close output", "error", err)
	}
}

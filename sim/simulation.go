// Package sim drives the particle-life simulation: it owns the particle
// buffers and configuration and sequences the index, force and integration
// phases of every tick.
package sim

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/pthm-cable/plife/components"
	"github.com/pthm-cable/plife/config"
	"github.com/pthm-cable/plife/systems"
)

// PhaseTimer receives the name of each phase as it starts.
// telemetry.PerfCollector satisfies it.
type PhaseTimer interface {
	StartPhase(name string)
}

// Options configure the collaborators around a Simulation.
type Options struct {
	Index  config.IndexConfig
	Spawn  config.SpawnConfig
	Logger *slog.Logger
	Timer  PhaseTimer
}

// OptionsFrom extracts simulation options from a full configuration.
func OptionsFrom(cfg *config.Config) Options {
	return Options{Index: cfg.Index, Spawn: cfg.Spawn}
}

// Simulation is one live particle-life world.
//
// Particles() always returns the front buffer, which only changes when a
// tick completes. Every phase works on the back buffer, so a partially
// advanced tick is never observable. A Simulation is not safe for
// concurrent use.
type Simulation struct {
	cfg    config.SimulationConfig
	opts   Options
	logger *slog.Logger

	pool     *systems.Pool
	launcher systems.Launcher
	builder  *systems.Builder
	grid     systems.Grid
	force    systems.ForceParams

	front []components.Particle
	back  []components.Particle

	// Per-worker neighbor scratch and counters for the force phase.
	scratch [][]systems.Neighbor
	stats   []systems.QueryStats

	phase    Phase
	frameDT  float32 // dt requested for the next tick; 0 means config dt
	tickDT   float32
	friction float32

	tick      uint64
	simTime   float64
	lastQuery systems.QueryStats
}

// New creates a simulation and spawns its particles from cfg.
func New(cfg config.SimulationConfig, opts Options) (*Simulation, error) {
	cfg = cfg.Clone()
	cfg.Derive()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	strategy, err := systems.ParseStrategy(opts.Index.Strategy)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", config.ErrConfigInvalid, err)
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	s := &Simulation{
		opts:   opts,
		logger: opts.Logger,
	}
	if opts.Index.Workers == 1 {
		s.launcher = systems.Serial{}
	} else {
		s.pool = systems.NewPool(opts.Index.Workers)
		s.launcher = s.pool
	}
	s.builder = systems.NewBuilder(strategy, s.launcher,
		systems.WithParallelThreshold(opts.Index.ParallelThreshold),
		systems.WithLogger(s.logger),
	)
	workers := s.launcher.Workers()
	s.scratch = make([][]systems.Neighbor, workers)
	s.stats = make([]systems.QueryStats, workers)

	s.apply(cfg)
	s.front = Spawn(cfg, opts.Spawn)
	s.back = make([]components.Particle, len(s.front))

	s.logger.Info("simulation created",
		"particles", cfg.ParticleCount,
		"types", cfg.TypeCount,
		"r_max", cfg.RMax,
		"world", cfg.WorldWidth,
		"strategy", strategy.String(),
		"workers", workers,
	)
	return s, nil
}

// apply installs cfg and the values derived from it.
func (s *Simulation) apply(cfg config.SimulationConfig) {
	s.cfg = cfg
	s.grid = systems.NewGrid(cfg.RMax, cfg.Wrap, float32(cfg.WorldWidth), float32(cfg.WorldHeight))
	s.force = systems.ForceParams{
		RMax:        cfg.RMax,
		ForceFactor: cfg.ForceFactor,
		TypeCount:   cfg.TypeCount,
		Matrix:      cfg.AttractionMatrix,
		ExcludeSelf: cfg.SelfInteraction == config.SelfExclude,
	}
	s.phase = PhaseBuildIndex
}

// Config returns a copy of the live configuration.
func (s *Simulation) Config() config.SimulationConfig {
	return s.cfg.Clone()
}

// Particles returns the published particle buffer. Callers must not modify it
// and must not hold it across a call that completes a tick.
func (s *Simulation) Particles() []components.Particle {
	return s.front
}

// Snapshot copies the published particles into dst.
func (s *Simulation) Snapshot(dst []components.Particle) []components.Particle {
	return append(dst[:0], s.front...)
}

// Phase returns the phase that the next Advance will run.
func (s *Simulation) Phase() Phase {
	return s.phase
}

// Tick returns the number of completed ticks.
func (s *Simulation) Tick() uint64 {
	return s.tick
}

// SimTime returns the simulated time of all completed ticks.
func (s *Simulation) SimTime() float64 {
	return s.simTime
}

// LastStats returns the neighbor query counters of the last completed tick.
func (s *Simulation) LastStats() systems.QueryStats {
	return s.lastQuery
}

// Index returns the neighbor index of the current or last tick. A tick builds
// its index from the particles as they were before it moved them, so after a
// completed tick the index lags the published particles by one tick.
func (s *Simulation) Index() *systems.NeighborIndex {
	return s.builder.Index()
}

// Grid returns the grid of the live configuration.
func (s *Simulation) Grid() systems.Grid {
	return s.grid
}

// SetClock sets the completed tick count and simulated time, for resuming a
// saved run.
func (s *Simulation) SetClock(tick uint64, simTime float64) {
	s.tick = tick
	s.simTime = simTime
}

// ForceParams returns the force kernel constants of the live configuration.
func (s *Simulation) ForceParams() systems.ForceParams {
	return s.force
}

// Step runs phases until the current tick completes. dt <= 0 uses the
// configured dt. If a tick is already in progress, it finishes with the dt
// it started with.
func (s *Simulation) Step(dt float32) error {
	if s.phase == PhaseBuildIndex {
		s.frameDT = dt
	}
	for {
		if err := s.Advance(); err != nil {
			return err
		}
		if s.phase == PhaseBuildIndex {
			return nil
		}
	}
}

// Advance runs exactly one phase. An index failure aborts the tick: the
// published particles are untouched and the next Advance starts over.
func (s *Simulation) Advance() error {
	phase := s.phase
	if s.opts.Timer != nil {
		s.opts.Timer.StartPhase(phase.String())
	}

	switch phase {
	case PhaseBuildIndex:
		s.beginTick()
		if err := s.builder.ComputeEntries(s.front, s.grid); err != nil {
			s.phase = PhaseBuildIndex
			return fmt.Errorf("tick %d: %w", s.tick, err)
		}
	case PhaseSortEntries:
		s.builder.SortEntries()
	case PhaseComputeOffsets:
		s.builder.ComputeOffsets()
	case PhaseComputeForces:
		s.computeForces()
	case PhaseIntegratePositions:
		s.integrate()
	}

	s.phase = phase.Next()
	return nil
}

func (s *Simulation) beginTick() {
	s.tickDT = s.cfg.DT
	s.friction = s.cfg.FrictionFactor
	if s.frameDT > 0 && s.frameDT != s.cfg.DT {
		s.tickDT = s.frameDT
		s.friction = config.FrictionFactor(s.frameDT, s.cfg.FrictionHalfLife)
	}
	s.frameDT = 0
	clear(s.stats)
}

// computeForces writes the new velocity of every particle into the back
// buffer. Each particle is owned by exactly one worker.
func (s *Simulation) computeForces() {
	front, back := s.front, s.back
	idx := s.builder.Index()
	dt, friction, fp := s.tickDT, s.friction, s.force

	l := systems.LauncherFor(s.launcher, len(front), s.opts.Index.ParallelThreshold)
	l.Launch(len(front), func(w, lo, hi int) {
		buf := s.scratch[w]
		stats := &s.stats[w]
		for i := lo; i < hi; i++ {
			p := front[i]
			buf = idx.QueryInto(buf[:0], front, p.Position, stats)
			f := systems.AccumulateForce(uint32(i), front, buf, fp)
			back[i] = components.Particle{
				Position: p.Position,
				Velocity: systems.IntegrateVelocity(p.Velocity, f, dt, friction),
				Type:     p.Type,
			}
		}
		s.scratch[w] = buf
	})
}

// integrate moves every particle by its new velocity and publishes the tick.
func (s *Simulation) integrate() {
	back := s.back
	grid, dt := s.grid, s.tickDT

	l := systems.LauncherFor(s.launcher, len(back), s.opts.Index.ParallelThreshold)
	l.Launch(len(back), func(_, lo, hi int) {
		for i := lo; i < hi; i++ {
			pos := systems.IntegratePosition(back[i].Position, back[i].Velocity, dt)
			back[i].Position = grid.WrapPosition(pos)
		}
	})

	s.front, s.back = s.back, s.front
	s.tick++
	s.simTime += float64(dt)

	var total systems.QueryStats
	for _, st := range s.stats {
		total.Add(st)
	}
	s.lastQuery = total
}

// Reconfigure replaces the configuration. An invalid cfg is rejected and the
// previous configuration stays live. Any in-progress tick is discarded.
// Particles are respawned when the particle count, type count or seed
// change; otherwise they are kept and folded into the new world.
func (s *Simulation) Reconfigure(cfg config.SimulationConfig) error {
	cfg = cfg.Clone()
	cfg.Derive()
	if err := cfg.Validate(); err != nil {
		s.logger.Warn("reconfigure rejected", "error", err)
		return err
	}

	old := s.cfg
	respawn := cfg.ParticleCount != old.ParticleCount ||
		cfg.TypeCount != old.TypeCount ||
		cfg.Seed != old.Seed
	s.apply(cfg)

	if respawn {
		s.front = Spawn(cfg, s.opts.Spawn)
		s.back = make([]components.Particle, len(s.front))
	} else {
		for i := range s.front {
			s.front[i].Position = s.grid.WrapPosition(s.front[i].Position)
		}
	}

	s.logger.Debug("reconfigured",
		"respawn", respawn,
		"particles", cfg.ParticleCount,
		"types", cfg.TypeCount,
		"r_max", cfg.RMax,
		"world", cfg.WorldWidth,
	)
	return nil
}

// SetParticles replaces the particle buffer. The count must match the
// configured particle count and every type must be below the type count.
// Any in-progress tick is discarded.
func (s *Simulation) SetParticles(particles []components.Particle) error {
	if len(particles) != s.cfg.ParticleCount {
		return fmt.Errorf("%w: got %d particles, configured for %d",
			config.ErrConfigInvalid, len(particles), s.cfg.ParticleCount)
	}
	for i, p := range particles {
		if int(p.Type) >= s.cfg.TypeCount {
			return fmt.Errorf("%w: particle %d has type %d, type_count is %d",
				config.ErrConfigInvalid, i, p.Type, s.cfg.TypeCount)
		}
	}
	s.front = append(s.front[:0], particles...)
	s.back = make([]components.Particle, len(particles))
	s.phase = PhaseBuildIndex
	return nil
}

// Close stops the worker pool.
func (s *Simulation) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// IsConfigError reports whether err is a rejected configuration.
func IsConfigError(err error) bool {
	return errors.Is(err, config.ErrConfigInvalid)
}

package main

import (
	"log/slog"
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/plife/config"
	"github.com/pthm-cable/plife/sim"
	"github.com/pthm-cable/plife/telemetry"
)

// FitnessEvaluator runs headless simulations and scores how much structure
// they form.
type FitnessEvaluator struct {
	params      *ParamVector
	maxTicks    int
	seeds       []uint64
	baseConfig  *config.Config
	statsWindow int

	// Best run tracking
	mu          sync.Mutex
	bestFitness float64
	lastQuality float64 // quality from most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int, seeds []uint64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		maxTicks:    maxTicks,
		seeds:       seeds,
		baseConfig:  baseCfg,
		statsWindow: max(baseCfg.Telemetry.StatsWindow, 1),
		bestFitness: math.Inf(1),
	}
}

// LastQuality returns the quality score from the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality
}

// Evaluate computes fitness for a parameter vector (lower = better).
// Fitness is the negated mean quality across seeds.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	simCfg := fe.params.ApplyToConfig(fe.baseConfig.Simulation, x)

	// Each seed runs serially on its own goroutine
	qualities := make([]float64, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s uint64) {
			defer wg.Done()
			qualities[idx] = fe.computeQuality(fe.runSimulation(simCfg, s))
		}(i, seed)
	}
	wg.Wait()

	quality := stat.Mean(qualities, nil)
	fitness := -quality

	fe.mu.Lock()
	fe.bestFitness = min(fe.bestFitness, fitness)
	fe.lastQuality = quality
	fe.mu.Unlock()

	return fitness
}

// runResult holds the stats windows of one run and the world it ran in.
type runResult struct {
	cfg     config.SimulationConfig
	windows []telemetry.TickStats
	failed  bool
}

// runSimulation executes a single headless run for maxTicks ticks.
func (fe *FitnessEvaluator) runSimulation(simCfg config.SimulationConfig, seed uint64) *runResult {
	cfg := simCfg.Clone()
	cfg.Seed = seed

	opts := sim.OptionsFrom(fe.baseConfig)
	opts.Index.Workers = 1
	opts.Logger = slog.New(slog.DiscardHandler)

	result := &runResult{cfg: cfg}
	s, err := sim.New(cfg, opts)
	if err != nil {
		result.failed = true
		return result
	}
	defer s.Close()

	for s.Tick() < uint64(fe.maxTicks) {
		if err := s.Step(0); err != nil {
			result.failed = true
			return result
		}
		if s.Tick()%uint64(fe.statsWindow) == 0 {
			result.windows = append(result.windows, telemetry.Collect(s))
		}
	}
	return result
}

// Quality component weights.
const (
	qualityWeightClustering = 0.5
	qualityWeightMotion     = 0.3
	qualityWeightStability  = 0.2

	qualityWarmupWindows = 2 // skip first N windows (warmup)
)

// computeQuality scores a run in [0, 1]. Good runs clump well above the
// uniform neighbor density, keep moving, and settle into steady energy.
func (fe *FitnessEvaluator) computeQuality(r *runResult) float64 {
	if r.failed || len(r.windows) <= qualityWarmupWindows {
		return 0
	}
	valid := r.windows[qualityWarmupWindows:]
	uniform := uniformNeighbors(r.cfg)

	var clusterSum, motionSum float64
	energies := make([]float64, len(valid))
	for i, w := range valid {
		// 1. Clustering: neighbors relative to a uniform scatter
		excess := w.MeanNeighbors/uniform - 1
		clusterSum += 1 - math.Exp(-max(excess, 0)/3)

		// 2. Motion: median speed near a quarter radius per second
		target := 0.25 * float64(r.cfg.RMax)
		if w.SpeedP50 > 0 {
			logErr := math.Log(w.SpeedP50 / target)
			motionSum += math.Exp(-logErr * logErr)
		}

		energies[i] = w.KineticEnergy
	}
	n := float64(len(valid))

	// 3. Stability: coefficient of variation of kinetic energy
	stabilityScore := 0.0
	if len(energies) >= 2 {
		mean, std := stat.MeanStdDev(energies, nil)
		if mean > 0 {
			cv := std / mean
			stabilityScore = math.Exp(-cv * cv)
		}
	}

	quality := qualityWeightClustering*clusterSum/n +
		qualityWeightMotion*motionSum/n +
		qualityWeightStability*stabilityScore
	return clamp01(quality)
}

// uniformNeighbors is the expected neighbor count, self included, when
// particles are scattered uniformly over the world.
func uniformNeighbors(cfg config.SimulationConfig) float64 {
	area := float64(cfg.WorldWidth) * float64(cfg.WorldHeight)
	if area == 0 {
		return 1
	}
	r := float64(cfg.RMax)
	return 1 + float64(cfg.ParticleCount-1)*math.Pi*r*r/area
}

// clamp01 clamps x to [0, 1].
func clamp01(x float64) float64 {
	return min(max(x, 0), 1)
}

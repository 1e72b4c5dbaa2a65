// Package telemetry collects per-tick statistics and timings from a running
// simulation and writes them out as CSV.
package telemetry

import (
	"log/slog"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/plife/components"
	"github.com/pthm-cable/plife/sim"
	"github.com/pthm-cable/plife/systems"
)

// TickStats summarizes the world after one tick.
type TickStats struct {
	Tick      uint64  `csv:"tick"`
	SimTime   float64 `csv:"sim_time"`
	Particles int     `csv:"particles"`

	// Speed distribution
	SpeedMean float64 `csv:"speed_mean"`
	SpeedStd  float64 `csv:"speed_std"`
	SpeedP10  float64 `csv:"speed_p10"`
	SpeedP50  float64 `csv:"speed_p50"`
	SpeedP90  float64 `csv:"speed_p90"`

	KineticEnergy float64 `csv:"kinetic_energy"` // sum of v²/2, unit mass

	// Index occupancy, from the index the tick was built on: the layout
	// before the tick moved the particles.
	OccupiedBuckets int `csv:"occupied_buckets"`
	MaxBucketRun    int `csv:"max_bucket_run"`

	// Neighbor queries
	Scanned       int     `csv:"scanned"`
	HashRejected  int     `csv:"hash_rejected"`
	Accepted      int     `csv:"accepted"`
	MeanNeighbors float64 `csv:"mean_neighbors"` // accepted per particle, self included
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// Speeds returns the speed of every particle.
func Speeds(particles []components.Particle) []float64 {
	out := make([]float64, len(particles))
	for i, p := range particles {
		out[i] = float64(p.Velocity.Length())
	}
	return out
}

// ComputeSpeedStats returns the mean, sample standard deviation and
// percentiles of the given speeds.
func ComputeSpeedStats(speeds []float64) (mean, std, p10, p50, p90 float64) {
	n := len(speeds)
	if n == 0 {
		return 0, 0, 0, 0, 0
	}
	if n == 1 {
		mean = speeds[0]
	} else {
		mean, std = stat.MeanStdDev(speeds, nil)
	}

	sorted := slices.Clone(speeds)
	slices.Sort(sorted)
	return mean, std, Percentile(sorted, 0.10), Percentile(sorted, 0.50), Percentile(sorted, 0.90)
}

// ComputeTickStats builds the stats for the given particles, index and
// query counters.
func ComputeTickStats(tick uint64, simTime float64, particles []components.Particle, idx *systems.NeighborIndex, q systems.QueryStats) TickStats {
	s := TickStats{
		Tick:         tick,
		SimTime:      simTime,
		Particles:    len(particles),
		Scanned:      q.Scanned,
		HashRejected: q.HashRejected,
		Accepted:     q.Accepted,
	}

	speeds := Speeds(particles)
	s.SpeedMean, s.SpeedStd, s.SpeedP10, s.SpeedP50, s.SpeedP90 = ComputeSpeedStats(speeds)
	s.KineticEnergy = 0.5 * floats.Dot(speeds, speeds)

	if idx != nil {
		s.OccupiedBuckets, s.MaxBucketRun = idx.OccupiedKeys()
	}
	if len(particles) > 0 {
		s.MeanNeighbors = float64(q.Accepted) / float64(len(particles))
	}
	return s
}

// Collect builds the stats of the last completed tick of s.
func Collect(s *sim.Simulation) TickStats {
	return ComputeTickStats(s.Tick(), s.SimTime(), s.Particles(), s.Index(), s.LastStats())
}

// LogValue implements slog.LogValuer for structured logging.
func (s TickStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Uint64("tick", s.Tick),
		slog.Float64("sim_time", s.SimTime),
		slog.Int("particles", s.Particles),
		slog.Float64("speed_mean", s.SpeedMean),
		slog.Float64("speed_std", s.SpeedStd),
		slog.Float64("speed_p10", s.SpeedP10),
		slog.Float64("speed_p50", s.SpeedP50),
		slog.Float64("speed_p90", s.SpeedP90),
		slog.Float64("kinetic_energy", s.KineticEnergy),
		slog.Int("occupied_buckets", s.OccupiedBuckets),
		slog.Int("max_bucket_run", s.MaxBucketRun),
		slog.Int("scanned", s.Scanned),
		slog.Int("hash_rejected", s.HashRejected),
		slog.Int("accepted", s.Accepted),
		slog.Float64("mean_neighbors", s.MeanNeighbors),
	)
}

// LogStats logs the tick stats using slog.
func (s TickStats) LogStats() {
	slog.Info("stats",
		"tick", s.Tick,
		"sim_time", s.SimTime,
		"particles", s.Particles,
		"speed_mean", s.SpeedMean,
		"speed_p90", s.SpeedP90,
		"kinetic_energy", s.KineticEnergy,
		"occupied_buckets", s.OccupiedBuckets,
		"max_bucket_run", s.MaxBucketRun,
		"mean_neighbors", s.MeanNeighbors,
	)
}

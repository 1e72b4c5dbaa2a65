package systems

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/pthm-cable/plife/components"
)

// ErrIndexBuild marks a broken index invariant. It is fatal for the tick:
// continuing would silently corrupt neighbor queries.
var ErrIndexBuild = errors.New("neighbor index build failed")

// EmptyOffset marks a key with no entries in StartOffsets.
const EmptyOffset = math.MaxUint32

// sentinelKey pads the bitonic network; it sorts after every real key.
const sentinelKey = math.MaxUint32

// IndexEntry ties a particle to its cell hash and bucket key.
type IndexEntry struct {
	OriginalIndex uint32
	Hash          uint32
	Key           uint32
}

// Strategy selects the sort used to bucket entries.
type Strategy int

const (
	// StrategyComparison sorts per-worker runs and merges them (stable).
	StrategyComparison Strategy = iota
	// StrategyBitonic runs a fixed-topology bitonic network, one launch per step.
	StrategyBitonic
)

// ParseStrategy maps a config name to a Strategy.
func ParseStrategy(name string) (Strategy, error) {
	switch name {
	case "comparison", "":
		return StrategyComparison, nil
	case "bitonic":
		return StrategyBitonic, nil
	}
	return 0, fmt.Errorf("unknown index strategy %q", name)
}

func (s Strategy) String() string {
	switch s {
	case StrategyComparison:
		return "comparison"
	case StrategyBitonic:
		return "bitonic"
	}
	return fmt.Sprintf("Strategy(%d)", int(s))
}

// TableSize returns the key space for n particles: n for the comparison
// sort, the next power of two for the bitonic network.
func (s Strategy) TableSize(n int) uint32 {
	if n <= 0 {
		return 0
	}
	if s == StrategyBitonic {
		return uint32(NextPowerOfTwo(n))
	}
	return uint32(n)
}

// NeighborIndex is the cell-sorted view of the particle buffer.
//
// For every key present in Entries the entries with that key form one
// contiguous run, and StartOffsets[key] is the position of its first element.
// Keys with no entries hold EmptyOffset.
type NeighborIndex struct {
	Entries      []IndexEntry
	StartOffsets []uint32
	TableSize    uint32
	Grid         Grid
}

// Len returns the number of indexed particles.
func (idx *NeighborIndex) Len() int {
	return len(idx.Entries)
}

// Run returns the entries stored under key (empty if none).
func (idx *NeighborIndex) Run(key uint32) []IndexEntry {
	if idx.TableSize == 0 || key >= idx.TableSize {
		return nil
	}
	start := idx.StartOffsets[key]
	if start == EmptyOffset {
		return nil
	}
	end := int(start)
	for end < len(idx.Entries) && idx.Entries[end].Key == key {
		end++
	}
	return idx.Entries[start:end]
}

// OccupiedKeys counts keys with at least one entry and reports the longest run.
func (idx *NeighborIndex) OccupiedKeys() (occupied, longestRun int) {
	run := 0
	for p := range idx.Entries {
		if p == 0 || idx.Entries[p].Key != idx.Entries[p-1].Key {
			occupied++
			run = 0
		}
		run++
		longestRun = max(longestRun, run)
	}
	return occupied, longestRun
}

// Builder rebuilds a NeighborIndex each tick, reusing its buffers.
// The three stages (entries, sort, offsets) can be driven one at a time.
type Builder struct {
	strategy  Strategy
	launcher  Launcher
	threshold int
	logger    *slog.Logger

	entries []IndexEntry // padded to a power of two for the bitonic network
	scratch []IndexEntry // merge buffer for the comparison sort
	offsets []uint32
	n       int

	index NeighborIndex
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithParallelThreshold runs stages inline when fewer than n particles are indexed.
func WithParallelThreshold(n int) BuilderOption {
	return func(b *Builder) { b.threshold = n }
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *slog.Logger) BuilderOption {
	return func(b *Builder) { b.logger = l }
}

// NewBuilder creates a builder. A nil launcher runs every stage serially.
func NewBuilder(strategy Strategy, launcher Launcher, opts ...BuilderOption) *Builder {
	b := &Builder{
		strategy: strategy,
		launcher: launcher,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Strategy returns the sort strategy.
func (b *Builder) Strategy() Strategy {
	return b.strategy
}

// Index returns the most recently built index. It is only consistent after
// ComputeOffsets (or Build) has run.
func (b *Builder) Index() *NeighborIndex {
	return &b.index
}

// Build runs all three stages.
func (b *Builder) Build(particles []components.Particle, grid Grid) (*NeighborIndex, error) {
	if err := b.ComputeEntries(particles, grid); err != nil {
		return nil, err
	}
	b.SortEntries()
	return b.ComputeOffsets(), nil
}

// ComputeEntries writes one entry per particle: its index, cell hash and key.
func (b *Builder) ComputeEntries(particles []components.Particle, grid Grid) error {
	n := len(particles)
	tableSize := b.strategy.TableSize(n)
	if n > 0 && tableSize == 0 {
		return fmt.Errorf("%w: zero table size for %d particles", ErrIndexBuild, n)
	}
	if n > 0 && !(grid.CellSize > 0) {
		return fmt.Errorf("%w: cell size %v", ErrIndexBuild, grid.CellSize)
	}
	if uint64(n) >= math.MaxUint32 {
		return fmt.Errorf("%w: %d particles exceed the index range", ErrIndexBuild, n)
	}

	b.n = n
	b.index = NeighborIndex{TableSize: tableSize, Grid: grid}

	size := n
	if b.strategy == StrategyBitonic {
		size = NextPowerOfTwo(n)
		if n == 0 {
			size = 0
		}
	}
	b.entries = grow(b.entries, size)

	entries := b.entries
	LauncherFor(b.launcher, n, b.threshold).Launch(n, func(_, lo, hi int) {
		for i := lo; i < hi; i++ {
			hash := HashCell(grid.CellOf(particles[i].Position))
			entries[i] = IndexEntry{
				OriginalIndex: uint32(i),
				Hash:          hash,
				Key:           KeyOf(hash, tableSize),
			}
		}
	})
	for i := n; i < size; i++ {
		entries[i] = IndexEntry{OriginalIndex: math.MaxUint32, Key: sentinelKey}
	}
	return nil
}

// SortEntries orders the entries by key using the builder's strategy.
func (b *Builder) SortEntries() {
	l := LauncherFor(b.launcher, b.n, b.threshold)
	switch b.strategy {
	case StrategyBitonic:
		SortBitonic(b.entries, l, b.logger)
	default:
		b.scratch = grow(b.scratch, b.n)
		SortComparison(b.entries[:b.n], b.scratch, l)
	}
	b.index.Entries = b.entries[:b.n]
}

// ComputeOffsets derives the start-offset table from the sorted entries.
func (b *Builder) ComputeOffsets() *NeighborIndex {
	tableSize := int(b.index.TableSize)
	b.offsets = grow(b.offsets, tableSize)
	offsets := b.offsets
	entries := b.index.Entries
	l := LauncherFor(b.launcher, b.n, b.threshold)

	l.Launch(tableSize, func(_, lo, hi int) {
		for k := lo; k < hi; k++ {
			offsets[k] = EmptyOffset
		}
	})
	// Only the first position of a run writes its key, and a sorted
	// sequence has exactly one such position per key, so no slot is
	// written twice and no lock is needed.
	l.Launch(len(entries), func(_, lo, hi int) {
		for p := lo; p < hi; p++ {
			key := entries[p].Key
			if p == 0 || key != entries[p-1].Key {
				offsets[key] = uint32(p)
			}
		}
	})

	b.index.StartOffsets = offsets
	return &b.index
}

// grow returns s resized to n, reallocating only when capacity is short.
func grow[T any](s []T, n int) []T {
	if cap(s) < n {
		return make([]T, n)
	}
	return s[:n]
}

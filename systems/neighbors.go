package systems

import "github.com/pthm-cable/plife/components"

// CellOffsets is the 3x3 block searched around a particle's cell.
var CellOffsets = [9]Cell{
	{-1, 1}, {0, 1}, {1, 1},
	{-1, 0}, {0, 0}, {1, 0},
	{-1, -1}, {0, -1}, {1, -1},
}

// Neighbor is an accepted candidate with precomputed spatial data.
type Neighbor struct {
	Index  uint32          // original particle index
	Delta  components.Vec2 // offset from the query position (toroidal when wrapping)
	DistSq float32
}

// QueryStats counts work done by neighbor queries.
type QueryStats struct {
	Scanned      int // entries visited in matching key runs
	HashRejected int // entries skipped because another cell shares the key
	Accepted     int // entries within the radius
}

// Add accumulates o into s.
func (s *QueryStats) Add(o QueryStats) {
	s.Scanned += o.Scanned
	s.HashRejected += o.HashRejected
	s.Accepted += o.Accepted
}

// QueryInto appends every particle within one cell size of pos to dst and
// returns the updated slice. Only the 3x3 cells around pos are searched.
// The querying particle itself is included when it is indexed. Reuse dst
// across calls to avoid allocations; stats may be nil.
func (idx *NeighborIndex) QueryInto(dst []Neighbor, particles []components.Particle, pos components.Vec2, stats *QueryStats) []Neighbor {
	if idx.TableSize == 0 || len(idx.Entries) == 0 {
		return dst
	}

	grid := idx.Grid
	radiusSq := grid.CellSize * grid.CellSize
	centre := CellOf(pos, grid.CellSize)
	var local QueryStats

	for _, off := range CellOffsets {
		cell := grid.Wrap(Cell{X: centre.X + off.X, Y: centre.Y + off.Y})
		hash := HashCell(cell)
		key := KeyOf(hash, idx.TableSize)

		start := idx.StartOffsets[key]
		if start == EmptyOffset {
			continue
		}
		for p := int(start); p < len(idx.Entries); p++ {
			entry := idx.Entries[p]
			if entry.Key != key {
				break
			}
			local.Scanned++
			// Same key, different cell: reject without touching particle data.
			if entry.Hash != hash {
				local.HashRejected++
				continue
			}

			delta := grid.Delta(pos, particles[entry.OriginalIndex].Position)
			distSq := delta.LengthSq()
			if distSq > radiusSq {
				continue
			}
			local.Accepted++
			dst = append(dst, Neighbor{Index: entry.OriginalIndex, Delta: delta, DistSq: distSq})
		}
	}

	if stats != nil {
		stats.Add(local)
	}
	return dst
}

// Package systems implements the spatial-hash neighbor index and the
// particle force kernel.
package systems

import (
	"math"

	"github.com/pthm-cable/plife/components"
)

// Hash multipliers. Large odd constants so that neighboring cells rarely
// land on the same key after the modulo.
const (
	HashK1 uint32 = 15823
	HashK2 uint32 = 9737333
)

// Cell is an integer grid coordinate.
type Cell struct {
	X, Y int32
}

// CellOf returns the cell containing position for the given cell size.
func CellOf(position components.Vec2, cellSize float32) Cell {
	return Cell{
		X: int32(math.Floor(float64(position.X / cellSize))),
		Y: int32(math.Floor(float64(position.Y / cellSize))),
	}
}

// HashCell maps a cell to an unsigned hash. Overflow wraps.
func HashCell(c Cell) uint32 {
	return uint32(c.X)*HashK1 + uint32(c.Y)*HashK2
}

// KeyOf folds a hash into [0, tableSize). tableSize must be > 0.
func KeyOf(hash, tableSize uint32) uint32 {
	return hash % tableSize
}

// Grid describes the uniform grid the index is built over.
type Grid struct {
	CellSize float32 // equals the interaction radius
	Cols     int32   // cells per side when wrapping, 0 for an unbounded plane
	Width    float32 // world extent, used for toroidal deltas when Cols > 0
	Height   float32
}

// NewGrid returns a grid with the given cell size. When wrap is set the
// world is toroidal and must hold a whole number of cells per side.
func NewGrid(cellSize float32, wrap bool, width, height float32) Grid {
	g := Grid{CellSize: cellSize, Width: width, Height: height}
	if wrap && cellSize > 0 {
		g.Cols = int32(math.Round(float64(width / cellSize)))
	}
	return g
}

// Wraps reports whether the grid is toroidal.
func (g Grid) Wraps() bool {
	return g.Cols > 0
}

// CellOf returns the (wrapped) cell containing position.
func (g Grid) CellOf(position components.Vec2) Cell {
	return g.Wrap(CellOf(position, g.CellSize))
}

// Wrap folds c into [0, Cols) on both axes for toroidal grids.
func (g Grid) Wrap(c Cell) Cell {
	if g.Cols <= 0 {
		return c
	}
	return Cell{X: modInt(c.X, g.Cols), Y: modInt(c.Y, g.Cols)}
}

// Delta returns the offset from a to b, taking the shortest path on a torus.
func (g Grid) Delta(a, b components.Vec2) components.Vec2 {
	if g.Cols <= 0 {
		return b.Sub(a)
	}
	dx, dy := ToroidalDelta(a.X, a.Y, b.X, b.Y, g.Width, g.Height)
	return components.Vec2{X: dx, Y: dy}
}

// WrapPosition folds p into [0, Width) x [0, Height) for toroidal grids.
func (g Grid) WrapPosition(p components.Vec2) components.Vec2 {
	if g.Cols <= 0 {
		return p
	}
	return components.Vec2{X: mod(p.X, g.Width), Y: mod(p.Y, g.Height)}
}

// ToroidalDelta returns the shortest path delta from (x1,y1) to (x2,y2).
func ToroidalDelta(x1, y1, x2, y2, w, h float32) (dx, dy float32) {
	dx = x2 - x1
	dy = y2 - y1

	if dx > w/2 {
		dx -= w
	} else if dx < -w/2 {
		dx += w
	}
	if dy > h/2 {
		dy -= h
	} else if dy < -h/2 {
		dy += h
	}

	return dx, dy
}

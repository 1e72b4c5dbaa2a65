package systems

import (
	"testing"

	"github.com/pthm-cable/plife/components"
)

func TestCellOf(t *testing.T) {
	tests := []struct {
		name string
		pos  components.Vec2
		want Cell
	}{
		{"origin", components.Vec2{X: 0, Y: 0}, Cell{0, 0}},
		{"inside first cell", components.Vec2{X: 9.99, Y: 0.5}, Cell{0, 0}},
		{"cell boundary", components.Vec2{X: 10, Y: 20}, Cell{1, 2}},
		{"negative floors down", components.Vec2{X: -0.1, Y: -10}, Cell{-1, -1}},
		{"negative boundary", components.Vec2{X: -10.5, Y: 35}, Cell{-2, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CellOf(tt.pos, 10); got != tt.want {
				t.Errorf("CellOf(%v) = %v, want %v", tt.pos, got, tt.want)
			}
		})
	}
}

func TestHashCell(t *testing.T) {
	if got := HashCell(Cell{0, 0}); got != 0 {
		t.Errorf("HashCell(0,0) = %d, want 0", got)
	}
	if got := HashCell(Cell{1, 1}); got != HashK1+HashK2 {
		t.Errorf("HashCell(1,1) = %d, want %d", got, HashK1+HashK2)
	}
	// Negative coordinates wrap through uint32.
	k1 := HashK1
	want := -k1
	if want != 4294951473 {
		t.Fatalf("wrapped -HashK1 = %d", want)
	}
	if got := HashCell(Cell{-1, 0}); got != want {
		t.Errorf("HashCell(-1,0) = %d, want %d", got, want)
	}
}

func TestSameCellSameHash(t *testing.T) {
	const cellSize = 7.5
	positions := []components.Vec2{{X: 15.1, Y: 30.2}, {X: 22.4, Y: 37.4}, {X: 15, Y: 30}}
	first := HashCell(CellOf(positions[0], cellSize))
	for _, p := range positions[1:] {
		if got := HashCell(CellOf(p, cellSize)); got != first {
			t.Errorf("hash of %v = %d, want %d", p, got, first)
		}
	}
}

func TestKeyOf(t *testing.T) {
	if got := KeyOf(17, 5); got != 2 {
		t.Errorf("KeyOf(17, 5) = %d, want 2", got)
	}
	if got := KeyOf(HashCell(Cell{-3, 4}), 1); got != 0 {
		t.Errorf("KeyOf(_, 1) = %d, want 0", got)
	}
}

func TestGridWrap(t *testing.T) {
	g := NewGrid(10, true, 100, 100)
	if g.Cols != 10 {
		t.Fatalf("Cols = %d, want 10", g.Cols)
	}
	tests := []struct{ in, want Cell }{
		{Cell{-1, 0}, Cell{9, 0}},
		{Cell{10, 11}, Cell{0, 1}},
		{Cell{3, -12}, Cell{3, 8}},
	}
	for _, tt := range tests {
		if got := g.Wrap(tt.in); got != tt.want {
			t.Errorf("Wrap(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}

	plane := NewGrid(10, false, 100, 100)
	if got := plane.Wrap(Cell{-1, 12}); got != (Cell{-1, 12}) {
		t.Errorf("unbounded Wrap changed cell: %v", got)
	}
}

func TestGridDeltaToroidal(t *testing.T) {
	g := NewGrid(10, true, 100, 100)
	d := g.Delta(components.Vec2{X: 98, Y: 1}, components.Vec2{X: 2, Y: 99})
	if d.X != 4 || d.Y != -2 {
		t.Errorf("Delta across edge = %v, want (4, -2)", d)
	}
}

func TestWrapPosition(t *testing.T) {
	g := NewGrid(10, true, 100, 100)
	p := g.WrapPosition(components.Vec2{X: -5, Y: 205})
	if p.X != 95 || p.Y != 5 {
		t.Errorf("WrapPosition = %v, want (95, 5)", p)
	}
}

func TestNextPowerOfTwo(t *testing.T) {
	tests := []struct{ n, want int }{{0, 1}, {1, 1}, {2, 2}, {3, 4}, {4, 4}, {5, 8}, {1000, 1024}, {1024, 1024}}
	for _, tt := range tests {
		if got := NextPowerOfTwo(tt.n); got != tt.want {
			t.Errorf("NextPowerOfTwo(%d) = %d, want %d", tt.n, got, tt.want)
		}
	}
}

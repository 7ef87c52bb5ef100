package core

import "testing"

func TestGridInBounds(t *testing.T) {
	g := NewGrid(20)

	tests := []struct {
		name     string
		cell     Cell
		expected bool
	}{
		{name: "origin", cell: Cell{0, 0}, expected: true},
		{name: "far corner", cell: Cell{19, 19}, expected: true},
		{name: "center", cell: Cell{10, 10}, expected: true},
		{name: "negative x", cell: Cell{-1, 5}, expected: false},
		{name: "negative y", cell: Cell{5, -1}, expected: false},
		{name: "x at size", cell: Cell{20, 5}, expected: false},
		{name: "y at size", cell: Cell{5, 20}, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := g.InBounds(tt.cell); got != tt.expected {
				t.Errorf("InBounds(%v) = %v, expected %v", tt.cell, got, tt.expected)
			}
		})
	}
}

func TestNewGridDefault(t *testing.T) {
	if g := NewGrid(0); g.Size != DefaultGridSize {
		t.Errorf("NewGrid(0).Size = %d, expected %d", g.Size, DefaultGridSize)
	}
	if g := NewGrid(20); g.Area() != 400 {
		t.Errorf("Area() = %d, expected 400", g.Area())
	}
}

func TestOccupiedBy(t *testing.T) {
	snake := []Cell{{10, 10}, {9, 10}, {8, 10}}

	if !OccupiedBy(snake, Cell{10, 10}) {
		t.Error("head should be occupied")
	}
	if !OccupiedBy(snake, Cell{8, 10}) {
		t.Error("tail should be occupied")
	}
	if OccupiedBy(snake, Cell{11, 10}) {
		t.Error("cell ahead of the head should be free")
	}
	if OccupiedBy(nil, Cell{0, 0}) {
		t.Error("empty body occupies nothing")
	}
}

func TestDirectionReverse(t *testing.T) {
	tests := []struct {
		a, b     Direction
		expected bool
	}{
		{Up, Down, true},
		{Down, Up, true},
		{Left, Right, true},
		{Right, Left, true},
		{Up, Left, false},
		{Right, Right, false},
		{Down, Right, false},
	}

	for _, tt := range tests {
		if got := tt.a.IsReverseOf(tt.b); got != tt.expected {
			t.Errorf("%v.IsReverseOf(%v) = %v, expected %v", tt.a, tt.b, got, tt.expected)
		}
	}
}

func TestCellAdd(t *testing.T) {
	c := Cell{10, 10}
	if got := c.Add(Right); got != (Cell{11, 10}) {
		t.Errorf("Add(Right) = %v", got)
	}
	if got := c.Add(Up); got != (Cell{10, 9}) {
		t.Errorf("Add(Up) = %v", got)
	}
}

func TestClamp(t *testing.T) {
	if Clamp(5, 0, 10) != 5 || Clamp(-1, 0, 10) != 0 || Clamp(11, 0, 10) != 10 {
		t.Error("Clamp returned unexpected values")
	}
}

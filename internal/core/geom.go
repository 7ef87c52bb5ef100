// Package core provides the grid primitives shared by the snake engine and
// the terminal platform. It has no external dependencies so game logic stays
// pure and testable.
package core

import "fmt"

// DefaultGridSize is the side length of the square play field.
const DefaultGridSize = 20

// Cell is a discrete grid coordinate. Cells compare by value.
type Cell struct {
	X, Y int
}

// Add returns the cell one step away in direction d.
func (c Cell) Add(d Direction) Cell {
	return Cell{X: c.X + d.DX, Y: c.Y + d.DY}
}

// String returns the cell as "(x,y)".
func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Direction is a unit movement vector.
type Direction struct {
	DX, DY int
}

// The four cardinal directions. Y grows downwards.
var (
	Up    = Direction{DX: 0, DY: -1}
	Down  = Direction{DX: 0, DY: 1}
	Left  = Direction{DX: -1, DY: 0}
	Right = Direction{DX: 1, DY: 0}
)

// IsReverseOf reports whether d points exactly opposite to other.
func (d Direction) IsReverseOf(other Direction) bool {
	return d.DX == -other.DX && d.DY == -other.DY
}

// IsZero reports whether d is the zero vector.
func (d Direction) IsZero() bool {
	return d.DX == 0 && d.DY == 0
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return fmt.Sprintf("(%d,%d)", d.DX, d.DY)
	}
}

// Grid is a fixed-size square coordinate space.
type Grid struct {
	Size int
}

// NewGrid creates a grid with the given side length.
// Non-positive sizes fall back to DefaultGridSize.
func NewGrid(size int) Grid {
	if size <= 0 {
		size = DefaultGridSize
	}
	return Grid{Size: size}
}

// InBounds reports whether 0 <= x,y < Size.
func (g Grid) InBounds(c Cell) bool {
	return c.X >= 0 && c.X < g.Size && c.Y >= 0 && c.Y < g.Size
}

// Area returns the number of cells in the grid.
func (g Grid) Area() int {
	return g.Size * g.Size
}

// OccupiedBy reports whether c appears in cells using a linear scan.
func OccupiedBy(cells []Cell, c Cell) bool {
	for _, seg := range cells {
		if seg == c {
			return true
		}
	}
	return false
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

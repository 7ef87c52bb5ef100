package snake

import (
	"math/rand"

	"github.com/vovakirdan/neon-snake/internal/core"
)

// NoFood marks the absence of food when the board has no free cell.
var NoFood = core.Cell{X: -1, Y: -1}

// DefaultFoodAttempts returns the rejection-sampling budget for a grid.
func DefaultFoodAttempts(g core.Grid) int {
	return 8 * g.Area()
}

// PlaceFood picks a uniformly random cell of g that the body does not occupy.
//
// Candidates are drawn at random and rejected while they hit the body, up to
// attempts draws. After that the free cells are enumerated and one is chosen
// directly, so the result is only false when the board is completely full.
func PlaceFood(g core.Grid, body []core.Cell, rng *rand.Rand, attempts int) (core.Cell, bool) {
	if attempts <= 0 {
		attempts = DefaultFoodAttempts(g)
	}

	for range attempts {
		c := core.Cell{X: rng.Intn(g.Size), Y: rng.Intn(g.Size)}
		if !core.OccupiedBy(body, c) {
			return c, true
		}
	}

	// Board is crowded: collect all empty cells
	var free []core.Cell
	for y := 0; y < g.Size; y++ {
		for x := 0; x < g.Size; x++ {
			c := core.Cell{X: x, Y: y}
			if !core.OccupiedBy(body, c) {
				free = append(free, c)
			}
		}
	}
	if len(free) == 0 {
		return NoFood, false
	}
	return free[rng.Intn(len(free))], true
}

package snake

// Snapshot captures the observable game state for determinism testing and replay.
type Snapshot struct {
	Tick       uint64
	Score      int
	SnakeLen   int
	HeadX      int
	HeadY      int
	Dir        string
	FoodX      int
	FoodY      int
	IntervalMs int64
	State      string
}

// Snapshot returns the current game snapshot.
func (e *Engine) Snapshot() Snapshot {
	head := NoFood
	if len(e.snake) > 0 {
		head = e.snake[0]
	}

	return Snapshot{
		Tick:       e.ticks,
		Score:      e.score,
		SnakeLen:   len(e.snake),
		HeadX:      head.X,
		HeadY:      head.Y,
		Dir:        e.direction.String(),
		FoodX:      e.food.X,
		FoodY:      e.food.Y,
		IntervalMs: e.interval().Milliseconds(),
		State:      e.status.String(),
	}
}

// Package snake implements the snake simulation: the direction queue, the
// per-tick movement and collision rules, and food placement. It knows nothing
// about terminals or timers; a driver calls Tick at the pace set by a Pacer.
package snake

import (
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/neon-snake/internal/core"
)

// Settings controls the shape of a run.
type Settings struct {
	GridSize     int // Side length of the square board
	StartLength  int // Initial body length
	FoodReward   int // Points per food
	FoodAttempts int // Random draws before food placement falls back to a scan, 0 = default
}

// DefaultSettings returns the classic 20x20 board with a 3-cell snake.
func DefaultSettings() Settings {
	return Settings{
		GridSize:    core.DefaultGridSize,
		StartLength: 3,
		FoodReward:  10,
	}
}

// Pacer is the part of the speed scheduler the engine talks to.
type Pacer interface {
	// OnScoreIncrease speeds the game up one step and reports whether the
	// interval actually changed.
	OnScoreIncrease() bool
	// Reset restores the initial interval.
	Reset()
	// Interval returns the current tick interval.
	Interval() time.Duration
}

// Status is the lifecycle state of the engine.
type Status int

const (
	StatusIdle Status = iota
	StatusRunning
	StatusPaused
	StatusEnded
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusRunning:
		return "running"
	case StatusPaused:
		return "paused"
	case StatusEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// Outcome describes what a single tick did.
type Outcome int

const (
	OutcomeSkipped  Outcome = iota // Not running; nothing changed
	OutcomeMoved                   // Snake moved, length unchanged
	OutcomeAte                     // Snake ate food and grew
	OutcomeGameOver                // Collision; the run just ended
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSkipped:
		return "skipped"
	case OutcomeMoved:
		return "moved"
	case OutcomeAte:
		return "ate"
	case OutcomeGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// Result is returned by Tick.
type Result struct {
	Outcome  Outcome
	Score    int
	Interval time.Duration // Tick interval after this tick
	SpedUp   bool          // Whether the pacer shortened the interval
}

// State is a copy of the engine's game state.
type State struct {
	RunID     string
	Snake     []core.Cell // Head first
	Food      core.Cell   // NoFood when the board is full
	Direction core.Direction
	Score     int
	Interval  time.Duration
	Status    Status
	Ticks     uint64
	Pending   int // Queued direction requests
}

// Option configures an Engine.
type Option func(*Engine)

// WithRand sets the random source used for food placement.
func WithRand(rng *rand.Rand) Option {
	return func(e *Engine) {
		if rng != nil {
			e.rng = rng
		}
	}
}

// WithSeed seeds food placement for reproducible runs. A zero seed uses the clock.
func WithSeed(seed int64) Option {
	return func(e *Engine) {
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		e.rng = rand.New(rand.NewSource(seed))
	}
}

// WithLogger sets the engine logger.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// Engine owns the game state of one player. It is not safe for concurrent
// use; the driver serializes Tick with input calls.
type Engine struct {
	settings Settings
	grid     core.Grid
	rng      *rand.Rand
	pacer    Pacer
	queue    *DirectionQueue
	logger   *log.Logger

	runID     string
	snake     []core.Cell
	food      core.Cell
	direction core.Direction
	score     int
	status    Status
	ticks     uint64
}

// New creates an engine in the Idle state. The pacer may be nil for a
// fixed-speed game.
func New(settings Settings, pacer Pacer, opts ...Option) *Engine {
	def := DefaultSettings()
	if settings.GridSize <= 0 {
		settings.GridSize = def.GridSize
	}
	if settings.StartLength <= 0 {
		settings.StartLength = def.StartLength
	}
	if settings.FoodReward <= 0 {
		settings.FoodReward = def.FoodReward
	}
	grid := core.NewGrid(settings.GridSize)
	// The body extends left from the centre, so it must fit in that half
	settings.StartLength = core.Clamp(settings.StartLength, 1, grid.Size/2+1)

	e := &Engine{
		settings: settings,
		grid:     grid,
		pacer:    pacer,
		queue:    NewDirectionQueue(),
		logger:   log.New(io.Discard),
	}
	WithSeed(0)(e)
	for _, opt := range opts {
		opt(e)
	}
	e.Reset()
	return e
}

// Grid returns the board geometry.
func (e *Engine) Grid() core.Grid {
	return e.grid
}

// Settings returns the settings the engine was built with.
func (e *Engine) Settings() Settings {
	return e.settings
}

// Reset restores the initial snake, food and pace and returns to Idle.
func (e *Engine) Reset() {
	e.newRun()
	e.status = StatusIdle
}

func (e *Engine) newRun() {
	mid := e.grid.Size / 2
	e.snake = make([]core.Cell, 0, e.settings.StartLength+16)
	for i := range e.settings.StartLength {
		e.snake = append(e.snake, core.Cell{X: mid - i, Y: mid})
	}
	e.direction = core.Right
	e.score = 0
	e.ticks = 0
	e.queue.Clear()
	e.runID = uuid.NewString()
	e.spawnFood()
	if e.pacer != nil {
		e.pacer.Reset()
	}
}

// Start begins a fresh run from Idle or Ended. It is a no-op while a run is
// in progress (running or paused) and returns false in that case.
func (e *Engine) Start() bool {
	switch e.status {
	case StatusIdle, StatusEnded:
	default:
		return false
	}
	e.newRun()
	e.status = StatusRunning
	e.logger.Debug("run started", "run", e.runID, "interval", e.interval())
	return true
}

// TogglePause switches between Running and Paused.
// Returns false when there is no run to pause.
func (e *Engine) TogglePause() bool {
	switch e.status {
	case StatusRunning:
		e.status = StatusPaused
	case StatusPaused:
		e.status = StatusRunning
	default:
		return false
	}
	return true
}

// Turn queues a direction change. Reversals of the committed direction are
// dropped and reported as false.
func (e *Engine) Turn(d core.Direction) bool {
	return e.queue.Enqueue(d, e.direction)
}

// Tick advances the simulation by one step when running.
func (e *Engine) Tick() (res Result) {
	if e.status != StatusRunning {
		return Result{Outcome: OutcomeSkipped, Score: e.score, Interval: e.interval()}
	}

	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("tick failed, ending run", "run", e.runID, "panic", r)
			e.status = StatusEnded
			res = Result{Outcome: OutcomeGameOver, Score: e.score, Interval: e.interval()}
		}
	}()

	e.ticks++
	e.direction = e.queue.DrainOne(e.direction)
	head := e.snake[0].Add(e.direction)

	// The whole pre-move body counts, including the tail about to move away
	if !e.grid.InBounds(head) || core.OccupiedBy(e.snake, head) {
		e.status = StatusEnded
		e.logger.Debug("run ended", "run", e.runID, "score", e.score, "head", head, "ticks", e.ticks)
		return Result{Outcome: OutcomeGameOver, Score: e.score, Interval: e.interval()}
	}

	e.snake = append(e.snake, core.Cell{})
	copy(e.snake[1:], e.snake)
	e.snake[0] = head

	if head == e.food {
		e.score += e.settings.FoodReward
		e.spawnFood()
		spedUp := false
		if e.pacer != nil {
			spedUp = e.pacer.OnScoreIncrease()
		}
		return Result{Outcome: OutcomeAte, Score: e.score, Interval: e.interval(), SpedUp: spedUp}
	}

	e.snake = e.snake[:len(e.snake)-1]
	return Result{Outcome: OutcomeMoved, Score: e.score, Interval: e.interval()}
}

// spawnFood places food on a free cell, or NoFood when the board is full.
func (e *Engine) spawnFood() {
	food, ok := PlaceFood(e.grid, e.snake, e.rng, e.settings.FoodAttempts)
	if !ok {
		e.logger.Warn("no free cell for food", "run", e.runID, "length", len(e.snake))
	}
	e.food = food
}

func (e *Engine) interval() time.Duration {
	if e.pacer == nil {
		return 0
	}
	return e.pacer.Interval()
}

// Status returns the lifecycle state.
func (e *Engine) Status() Status {
	return e.status
}

// Score returns the current score.
func (e *Engine) Score() int {
	return e.score
}

// RunID identifies the current run. A new ID is drawn on every start.
func (e *Engine) RunID() string {
	return e.runID
}

// State returns a copy of the game state.
func (e *Engine) State() State {
	body := make([]core.Cell, len(e.snake))
	copy(body, e.snake)
	return State{
		RunID:     e.runID,
		Snake:     body,
		Food:      e.food,
		Direction: e.direction,
		Score:     e.score,
		Interval:  e.interval(),
		Status:    e.status,
		Ticks:     e.ticks,
		Pending:   e.queue.Len(),
	}
}

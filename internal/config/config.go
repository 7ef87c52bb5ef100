// Package config provides YAML-based configuration loading and difficulty
// presets for the snake game.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/vovakirdan/neon-snake/internal/scheduler"
	"github.com/vovakirdan/neon-snake/internal/snake"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("config: invalid")

// SnakeConfig contains all configuration for the game.
type SnakeConfig struct {
	Board       BoardConfig       `yaml:"board"`
	Snake       SnakeBody         `yaml:"snake"`
	Scoring     ScoringConfig     `yaml:"scoring"`
	Speed       SpeedConfig       `yaml:"speed"`
	Leaderboard LeaderboardConfig `yaml:"leaderboard"`
	Storage     StorageConfig     `yaml:"storage"`
}

// BoardConfig defines the playfield.
type BoardConfig struct {
	Size int `yaml:"size"`
}

// SnakeBody defines the initial snake.
type SnakeBody struct {
	StartLength int `yaml:"start_length"`
}

// ScoringConfig defines food reward and placement.
type ScoringConfig struct {
	FoodReward   int `yaml:"food_reward"`
	FoodAttempts int `yaml:"food_attempts"` // 0 = 8 * size^2
}

// SpeedConfig defines the tick interval ramp, in milliseconds.
type SpeedConfig struct {
	BaseMs int `yaml:"base_ms"`
	StepMs int `yaml:"step_ms"`
	MinMs  int `yaml:"min_ms"`
}

// LeaderboardConfig defines the score list and the optional scoring service.
type LeaderboardConfig struct {
	Capacity        int    `yaml:"capacity"`
	DisplayLimit    int    `yaml:"display_limit"`
	RemoteURL       string `yaml:"remote_url"`
	SubmitTimeoutMs int    `yaml:"submit_timeout_ms"`
}

// StorageConfig defines where scores are persisted.
type StorageConfig struct {
	DBPath string `yaml:"db_path"`
}

// Settings converts the config into engine settings.
func (c SnakeConfig) Settings() snake.Settings {
	return snake.Settings{
		GridSize:     c.Board.Size,
		StartLength:  c.Snake.StartLength,
		FoodReward:   c.Scoring.FoodReward,
		FoodAttempts: c.Scoring.FoodAttempts,
	}
}

// Pace converts the speed section into a scheduler pace.
func (c SnakeConfig) Pace() scheduler.Pace {
	return scheduler.Pace{
		Base: time.Duration(c.Speed.BaseMs) * time.Millisecond,
		Step: time.Duration(c.Speed.StepMs) * time.Millisecond,
		Min:  time.Duration(c.Speed.MinMs) * time.Millisecond,
	}
}

// SubmitTimeout returns the remote submission timeout.
func (c SnakeConfig) SubmitTimeout() time.Duration {
	return time.Duration(c.Leaderboard.SubmitTimeoutMs) * time.Millisecond
}

// Validate rejects settings the game cannot run with.
func (c SnakeConfig) Validate() error {
	switch {
	case c.Board.Size < 4:
		return fmt.Errorf("%w: board.size %d is below 4", ErrInvalid, c.Board.Size)
	case c.Snake.StartLength < 1:
		return fmt.Errorf("%w: snake.start_length must be at least 1", ErrInvalid)
	case c.Snake.StartLength > c.Board.Size/2:
		return fmt.Errorf("%w: snake.start_length %d exceeds half the board (%d)",
			ErrInvalid, c.Snake.StartLength, c.Board.Size/2)
	case c.Scoring.FoodReward <= 0:
		return fmt.Errorf("%w: scoring.food_reward must be positive", ErrInvalid)
	case c.Scoring.FoodAttempts < 0:
		return fmt.Errorf("%w: scoring.food_attempts must not be negative", ErrInvalid)
	case c.Speed.BaseMs <= 0 || c.Speed.MinMs <= 0:
		return fmt.Errorf("%w: speed intervals must be positive", ErrInvalid)
	case c.Speed.StepMs < 0:
		return fmt.Errorf("%w: speed.step_ms must not be negative", ErrInvalid)
	case c.Speed.MinMs > c.Speed.BaseMs:
		return fmt.Errorf("%w: speed.min_ms %d exceeds speed.base_ms %d",
			ErrInvalid, c.Speed.MinMs, c.Speed.BaseMs)
	case c.Leaderboard.Capacity <= 0 || c.Leaderboard.DisplayLimit <= 0:
		return fmt.Errorf("%w: leaderboard sizes must be positive", ErrInvalid)
	case c.Leaderboard.SubmitTimeoutMs <= 0:
		return fmt.Errorf("%w: leaderboard.submit_timeout_ms must be positive", ErrInvalid)
	}
	return nil
}

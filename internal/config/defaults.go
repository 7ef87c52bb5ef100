package config

import (
	_ "embed"
)

//go:embed defaults/snake.yaml
var defaultSnakeYAML []byte

// DefaultSnakeConfig returns the built-in configuration.
func DefaultSnakeConfig() SnakeConfig {
	return SnakeConfig{
		Board: BoardConfig{
			Size: 20,
		},
		Snake: SnakeBody{
			StartLength: 3,
		},
		Scoring: ScoringConfig{
			FoodReward:   10,
			FoodAttempts: 0,
		},
		Speed: SpeedConfig{
			BaseMs: 120,
			StepMs: 2,
			MinMs:  70,
		},
		Leaderboard: LeaderboardConfig{
			Capacity:        100,
			DisplayLimit:    10,
			SubmitTimeoutMs: 5000,
		},
		Storage: StorageConfig{
			DBPath: "~/.neon-snake/scores.db",
		},
	}
}

// DefaultYAML returns the embedded default YAML.
func DefaultYAML() []byte {
	return defaultSnakeYAML
}

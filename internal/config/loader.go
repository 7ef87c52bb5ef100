package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables that override the file configuration.
const (
	EnvAPIURL = "SNAKE_API_URL"
	EnvDBPath = "SNAKE_DB"
)

// LoadSnake loads the game configuration.
// Search order: customPath -> ~/.neon-snake/configs/snake.yaml -> ./configs/snake.yaml -> embedded default
// Files are decoded over the built-in defaults, so a partial file only
// overrides the keys it sets.
func LoadSnake(customPath string) (SnakeConfig, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return DefaultSnakeConfig(), fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		cfg := DefaultSnakeConfig()
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return DefaultSnakeConfig(), fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath("snake.yaml"); userCfgPath != "" {
		if cfg, ok := readConfig(userCfgPath); ok {
			return cfg, nil
		}
	}

	// Try local configs directory
	if cfg, ok := readConfig(filepath.Join("configs", "snake.yaml")); ok {
		return cfg, nil
	}

	// Use embedded default YAML
	cfg := DefaultSnakeConfig()
	if err := yaml.Unmarshal(defaultSnakeYAML, &cfg); err != nil {
		return DefaultSnakeConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

func readConfig(path string) (SnakeConfig, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return SnakeConfig{}, false
	}
	cfg := DefaultSnakeConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return SnakeConfig{}, false
	}
	return cfg, true
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".neon-snake", "configs", filename)
}

// LoadEnvFiles loads KEY=value pairs from the given .env files into the
// process environment without overriding variables that are already set.
// Missing files are skipped.
func LoadEnvFiles(paths ...string) error {
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load env file %s: %w", p, err)
		}
	}
	return nil
}

// ApplyEnv overrides config values from environment variables.
// getenv is usually os.Getenv.
func ApplyEnv(cfg *SnakeConfig, getenv func(string) string) {
	if v := getenv(EnvAPIURL); v != "" {
		cfg.Leaderboard.RemoteURL = v
	}
	if v := getenv(EnvDBPath); v != "" {
		cfg.Storage.DBPath = v
	}
}

// Marshal renders the config as YAML.
func Marshal(cfg SnakeConfig) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return data, nil
}

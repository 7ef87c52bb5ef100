package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/neon-snake/internal/config"
	"github.com/vovakirdan/neon-snake/internal/leaderboard"
	"github.com/vovakirdan/neon-snake/internal/storage"
)

// loadConfig resolves the effective configuration: file, .env and
// environment, difficulty preset, then command-line flags.
func loadConfig() (config.SnakeConfig, error) {
	if err := config.LoadEnvFiles(".env"); err != nil {
		return config.SnakeConfig{}, fmt.Errorf("loading .env: %w", err)
	}

	cfg, err := config.LoadSnake(flagConfig)
	if err != nil {
		return cfg, fmt.Errorf("loading config: %w", err)
	}
	config.ApplyEnv(&cfg, os.Getenv)

	preset, err := config.ParsePreset(flagDifficulty)
	if err != nil {
		return cfg, err
	}
	config.ApplyPreset(&cfg, preset)

	if flagDBPath != "" {
		cfg.Storage.DBPath = flagDBPath
	}
	if flagAPIURL != "" {
		cfg.Leaderboard.RemoteURL = flagAPIURL
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// newLogger writes to the --log-file when set, otherwise to fallback.
// The returned closer must be called on exit.
func newLogger(fallback io.Writer, prefix string) (*log.Logger, func()) {
	w := fallback
	closer := func() {}
	if flagLogFile != "" {
		f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not open log file: %v\n", err)
		} else {
			w = f
			closer = func() { f.Close() }
		}
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	return logger, closer
}

// openBoard opens the scores database and builds the leaderboard on it.
// Without a database the board keeps scores in memory only. The store may
// be nil and must be closed by the caller otherwise.
func openBoard(cfg config.SnakeConfig, logger *log.Logger) (*leaderboard.Board, *storage.Store) {
	store, err := storage.Open(cfg.Storage.DBPath)
	if err != nil {
		logger.Warn("could not open scores database, scores will not persist", "error", err)
		return newBoard(nil, cfg, logger), nil
	}
	return newBoard(store, cfg, logger), store
}

// newBoard builds a leaderboard on p, submitting to the scoring service
// when one is configured.
func newBoard(p leaderboard.Persistence, cfg config.SnakeConfig, logger *log.Logger) *leaderboard.Board {
	opts := []leaderboard.BoardOption{
		leaderboard.WithLogger(logger),
		leaderboard.WithCapacity(cfg.Leaderboard.Capacity),
	}
	if cfg.Leaderboard.RemoteURL != "" {
		client := leaderboard.NewClient(cfg.Leaderboard.RemoteURL,
			leaderboard.WithTimeout(cfg.SubmitTimeout()),
		)
		opts = append(opts, leaderboard.WithSubmitter(client))
		logger.Info("remote scoring enabled", "endpoint", client.Endpoint())
	}
	return leaderboard.NewBoard(p, opts...)
}

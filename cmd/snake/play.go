package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/neon-snake/internal/core"
	"github.com/vovakirdan/neon-snake/internal/platform/tui"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play in this terminal",
	Long: `Start a game in the current terminal.

Controls:
  Arrows/WASD/HJKL - Steer
  Space/P          - Pause
  Enter/R          - Start, or restart after game over
  Tab              - Leaderboard
  Q/Ctrl+C         - Quit

After a game over, type a name and press Enter to save the score,
or Esc to skip.

Difficulty options:
  easy   - Start slow (150ms per step), speeds up with each food
  normal - Start at 120ms per step, speeds up with each food
  hard   - Start fast (90ms per step), speeds up with each food
  fixed  - Never speed up

Examples:
  snake play
  snake play --difficulty easy
  snake play --seed 42
  snake play --api https://scores.example.com`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func runPlay(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// The game owns the terminal, so logs only go to --log-file
	logger, closeLog := newLogger(io.Discard, "snake")
	defer closeLog()

	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	board, store := openBoard(cfg, logger)
	if store != nil {
		defer store.Close()
	}

	opts := tui.Options{
		Runtime: core.RuntimeConfig{
			ScreenW: width,
			ScreenH: height,
			Seed:    flagSeed,
		},
		Settings:     cfg.Settings(),
		Pace:         cfg.Pace(),
		DisplayLimit: cfg.Leaderboard.DisplayLimit,
		PlayerName:   os.Getenv("USER"),
		Logger:       logger,
	}

	if err := tui.Run(board, opts); err != nil {
		return fmt.Errorf("running game: %w", err)
	}
	return nil
}

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/neon-snake/internal/platform/tui"
	"github.com/vovakirdan/neon-snake/internal/storage"
)

var (
	flagScoresLimit int
	flagInteractive bool
	flagClear       bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show the leaderboard",
	Long: `Display the top scores with a short summary.

Examples:
  snake scores
  snake scores --limit 25
  snake scores --interactive
  snake scores --clear`,
	Args: cobra.NoArgs,
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 0, "Number of entries to show (default from config)")
	scoresCmd.Flags().BoolVarP(&flagInteractive, "interactive", "i", false, "Browse the leaderboard in a full-screen table")
	scoresCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete all stored scores and the high score")
}

func runScores(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, closeLog := newLogger(os.Stderr, "snake")
	defer closeLog()

	limit := flagScoresLimit
	if limit <= 0 {
		limit = cfg.Leaderboard.DisplayLimit
	}

	store, err := storage.Open(cfg.Storage.DBPath)
	if err != nil {
		return fmt.Errorf("opening scores database: %w", err)
	}
	defer store.Close()

	if flagClear {
		if err := store.ClearScores(); err != nil {
			return fmt.Errorf("clearing scores: %w", err)
		}
		logger.Info("scores cleared", "db", cfg.Storage.DBPath)
		fmt.Println("All scores cleared.")
		return nil
	}

	if flagInteractive {
		board := newBoard(store, cfg, logger)
		width, height := 80, 24
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width, height = w, h
		}
		return tui.RunScoreboard(board, limit, width, height)
	}

	scores, err := store.TopScores(limit)
	if err != nil {
		return fmt.Errorf("retrieving scores: %w", err)
	}

	fmt.Println("High Scores - Neon Snake")
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores yet")
		fmt.Println()
		fmt.Println("Play 'snake play' to set the first high score!")
		return nil
	}

	fmt.Printf("  %-4s  %-32s  %-8s  %s\n", "Rank", "Name", "Score", "Date")
	fmt.Printf("  %-4s  %-32s  %-8s  %s\n", "----", "----", "-----", "----")

	for i, entry := range scores {
		fmt.Printf("  %-4d  %-32s  %-8d  %s\n", i+1, entry.DisplayName(), entry.Score, entry.Timestamp)
	}

	fmt.Println()
	if stats, err := store.Stats(); err == nil {
		fmt.Printf("Games: %d   Best: %d   Average: %.1f   Last played: %s\n",
			stats.Games, stats.Best, stats.Average, formatPlayed(stats.LastPlayed))
	} else {
		logger.Warn("could not load stats", "error", err)
	}
	return nil
}

// formatPlayed shortens an entry timestamp to its date.
func formatPlayed(ts string) string {
	if t, err := time.Parse(time.RFC3339, ts); err == nil {
		return t.Local().Format("2006-01-02 15:04")
	}
	return ts
}

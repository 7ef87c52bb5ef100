// snake is a neon-styled Snake game for the terminal with a persistent
// leaderboard and optional remote score submission.
//
// Usage:
//
//	snake play               - Play in this terminal
//	snake scores             - Show the leaderboard
//	snake serve              - Start SSH server for remote play
//	snake config             - Print the effective configuration
//
// Global flags:
//
//	--config <path>      - Config YAML (default search: ~/.neon-snake/configs, ./configs)
//	--difficulty <name>  - easy, normal, hard or fixed
//	--seed <value>       - RNG seed for reproducible runs
//	--db <path>          - Scores database (default: ~/.neon-snake/scores.db)
//	--api <url>          - Scoring service base URL
//	--log-file <path>    - Write logs to a file
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	flagConfig     string
	flagDifficulty string
	flagSeed       int64
	flagDBPath     string
	flagAPIURL     string
	flagLogFile    string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "snake",
	Short: "Neon Snake - the classic snake game in your terminal",
	Long: `Neon Snake is a terminal Snake game. Eat food to grow and score;
the game speeds up with every bite. Runs end on walls and on your own tail.

Available commands:
  play     - Play in this terminal
  scores   - View the leaderboard
  serve    - Start SSH server for remote play
  config   - Print the effective configuration

Environment:
  SNAKE_API_URL  - Scoring service base URL
  SNAKE_DB       - Scores database path
  Both may be set in a .env file in the working directory.

Examples:
  snake play
  snake play --difficulty hard
  snake scores --limit 20
  snake serve --ssh :2222`,
	RunE: runPlay,
	// Errors are printed once by main; usage only on flag errors
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to scores database (overrides config and SNAKE_DB)")
	rootCmd.PersistentFlags().StringVar(&flagAPIURL, "api", "", "Scoring service base URL (overrides config and SNAKE_API_URL)")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configCmd)
}

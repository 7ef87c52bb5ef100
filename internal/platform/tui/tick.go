// Package tui provides the Bubble Tea integration for the snake game.
// It drives the engine from the speed scheduler, maps keys to actions, and
// renders the board, the name prompt and the leaderboard.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg is sent to trigger a game simulation tick.
type TickMsg time.Time

// waitForTick returns a command that blocks until the scheduler signals the
// next tick, or returns nil once done is closed.
func waitForTick(ticks <-chan time.Time, done <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		select {
		case t := <-ticks:
			return TickMsg(t)
		case <-done:
			return nil
		}
	}
}

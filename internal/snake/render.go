package snake

import (
	"fmt"

	"github.com/vovakirdan/neon-snake/internal/core"
)

// hudHeight is the number of status lines above the board.
const hudHeight = 2

// BoardSize returns the screen area needed to draw a board of the given
// grid size: each cell is two characters wide, plus the frame and the HUD.
func BoardSize(gridSize int) (w, h int) {
	return gridSize*2 + 2, gridSize + 2 + hudHeight
}

// Render draws the board, the snake, the food and any overlay onto dst.
func (e *Engine) Render(dst *core.Screen) {
	dst.Clear()

	needW, needH := BoardSize(e.grid.Size)
	if dst.Width() < needW || dst.Height() < needH {
		dst.DrawTextCentered(dst.Height()/2, "Window too small", core.ColorAlert)
		dst.DrawTextCentered(dst.Height()/2+1, fmt.Sprintf("need %dx%d", needW, needH), core.ColorDim)
		return
	}

	offX := (dst.Width() - needW) / 2
	offY := hudHeight

	hud := fmt.Sprintf("Score %d   Speed %dms   Length %d", e.score, e.interval().Milliseconds(), len(e.snake))
	dst.DrawText(offX, 0, hud, core.ColorText)

	dst.DrawBox(offX, offY, needW, e.grid.Size+2, core.ColorBorder)

	cellAt := func(c core.Cell) (int, int) {
		return offX + 1 + c.X*2, offY + 1 + c.Y
	}

	if e.food != NoFood {
		x, y := cellAt(e.food)
		dst.SetColor(x, y, '●', core.ColorFood)
	}

	last := len(e.snake) - 1
	for i := last; i >= 0; i-- {
		color := core.ColorBody
		switch i {
		case 0:
			color = core.ColorHead
		case last:
			color = core.ColorTail
		}
		x, y := cellAt(e.snake[i])
		dst.SetColor(x, y, '█', color)
		dst.SetColor(x+1, y, '█', color)
	}

	switch e.status {
	case StatusIdle:
		e.renderOverlay(dst, "NEON SNAKE", "Press Enter to start")
	case StatusPaused:
		e.renderOverlay(dst, "Paused", "Press Space to resume")
	case StatusEnded:
		e.renderOverlay(dst, "Game Over", fmt.Sprintf("Final score: %d", e.score))
	}
}

// renderOverlay draws a centered two-line message box.
func (e *Engine) renderOverlay(dst *core.Screen, line1, line2 string) {
	width := max(len([]rune(line1)), len([]rune(line2))) + 4
	height := 5
	x := (dst.Width() - width) / 2
	y := (dst.Height() - height) / 2

	for j := y; j < y+height; j++ {
		for i := x; i < x+width; i++ {
			dst.Set(i, j, ' ')
		}
	}
	dst.DrawBox(x, y, width, height, core.ColorAlert)
	dst.DrawTextCentered(y+1, line1, core.ColorAlert)
	dst.DrawTextCentered(y+3, line2, core.ColorText)
}

package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/neon-snake/internal/core"
)

// colorStyles maps core.Color to lipgloss styles in the neon palette.
var colorStyles = map[core.Color]lipgloss.Style{
	core.ColorDefault: lipgloss.NewStyle(),
	core.ColorHead:    lipgloss.NewStyle().Foreground(lipgloss.Color("#39FF14")).Bold(true),
	core.ColorBody:    lipgloss.NewStyle().Foreground(lipgloss.Color("#00E5FF")),
	core.ColorTail:    lipgloss.NewStyle().Foreground(lipgloss.Color("#0091A8")),
	core.ColorFood:    lipgloss.NewStyle().Foreground(lipgloss.Color("#FF2079")),
	core.ColorBorder:  lipgloss.NewStyle().Foreground(lipgloss.Color("#BC13FE")),
	core.ColorText:    lipgloss.NewStyle().Foreground(lipgloss.Color("229")),
	core.ColorDim:     lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	core.ColorAlert:   lipgloss.NewStyle().Foreground(lipgloss.Color("#FFE700")).Bold(true),
}

// styleFor returns the style for c, falling back to the default style.
func styleFor(c core.Color) lipgloss.Style {
	if style, ok := colorStyles[c]; ok {
		return style
	}
	return colorStyles[core.ColorDefault]
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	// Pre-allocate with extra space for ANSI codes
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			startColor := s.GetCell(x, y).Color

			var run strings.Builder
			for x < s.Width() {
				cell := s.GetCell(x, y)
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			sb.WriteString(styleFor(startColor).Render(run.String()))
		}
	}
	return sb.String()
}

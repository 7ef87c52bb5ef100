package core

// Color represents a foreground color for a screen cell.
// The platform layer maps colors to terminal styles.
type Color uint8

// Colors used by the snake renderer.
const (
	ColorDefault Color = iota
	ColorHead
	ColorBody
	ColorTail
	ColorFood
	ColorBorder
	ColorText
	ColorDim
	ColorAlert
)

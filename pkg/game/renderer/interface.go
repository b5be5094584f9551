package renderer

import (
	"darkterminal/pkg/game/computer"
)

// TextStyle represents different text styling options
type TextStyle int

const (
	StyleNormal TextStyle = iota
	StyleHeader
	StyleOption
	StyleOptionKey
	StyleDenied
	StyleSubtle
	StyleGibberish
	StylePrompt
)

// Renderer defines the interface for terminal rendering backends.
// Every renderer is a session console.
type Renderer interface {
	computer.Console

	// StyleText applies a style to text and returns the styled string
	StyleText(text string, style TextStyle) string

	// FormatText formats a message with the renderer's markup system
	FormatText(msg string, args ...any) string
}

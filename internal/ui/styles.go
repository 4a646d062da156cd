// Package ui renders CLI output, with ANSI colors when the terminal allows.
package ui

import "fmt"

// ANSI256 color codes matching the Ayu palette.
const (
	colorAccent = 74  // blue
	colorMuted  = 245 // medium gray
	colorOK     = 114 // green
	colorWarn   = 179 // amber
	colorFail   = 203 // red
)

var noColor = !ShouldUseColor()

func paint(color int, s string) string {
	if noColor {
		return s
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", color, s)
}

// RenderAccent returns s in the accent (blue) color.
func RenderAccent(s string) string { return paint(colorAccent, s) }

// RenderMuted returns s in the muted (gray) color.
func RenderMuted(s string) string { return paint(colorMuted, s) }

// RenderStatus returns s colored by the class of the HTTP status code:
// green for 2xx, amber for 4xx and red otherwise.
func RenderStatus(code int, s string) string {
	switch {
	case code >= 200 && code <= 299:
		return paint(colorOK, s)
	case code >= 400 && code <= 499:
		return paint(colorWarn, s)
	default:
		return paint(colorFail, s)
	}
}

// ForceNoColor disables color output globally.
func ForceNoColor() {
	noColor = true
}

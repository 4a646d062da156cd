package ui

import (
	"os"
	"strings"

	"golang.org/x/term"
)

// isTerminal reports whether fd is a terminal. Replaced in tests.
var isTerminal = term.IsTerminal

// ShouldUseColor reports whether ANSI colors should be used on stdout.
// NO_COLOR wins, then CLICOLOR_FORCE=1, then CLICOLOR=0, then TTY detection.
func ShouldUseColor() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if strings.TrimSpace(os.Getenv("CLICOLOR_FORCE")) == "1" {
		return true
	}
	if strings.TrimSpace(os.Getenv("CLICOLOR")) == "0" {
		return false
	}
	return isTerminal(int(os.Stdout.Fd()))
}

// Package ui provides terminal styling and output helpers for the redsheet CLI.
package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// DefaultWidth is used when stdout is not a terminal.
const DefaultWidth = 80

// The sheet colors are fixed hex values, so a color terminal gets true color
// and anything else gets plain ASCII with no escapes in piped output.
func init() {
	lipgloss.SetColorProfile(ColorProfile())
}

// ColorProfile returns the lipgloss profile matching ShouldUseColor.
func ColorProfile() termenv.Profile {
	if ShouldUseColor() {
		return termenv.TrueColor
	}
	return termenv.Ascii
}

// IsTerminal reports whether stdout is a TTY.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// Width returns the terminal width of stdout, or DefaultWidth.
func Width() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return DefaultWidth
}

// ShouldUseColor follows NO_COLOR (https://no-color.org/), then CLICOLOR=0,
// then CLICOLOR_FORCE, and otherwise colors only a TTY.
func ShouldUseColor() bool {
	switch {
	case os.Getenv("NO_COLOR") != "", os.Getenv("CLICOLOR") == "0":
		return false
	case os.Getenv("CLICOLOR_FORCE") != "":
		return true
	}
	return IsTerminal()
}

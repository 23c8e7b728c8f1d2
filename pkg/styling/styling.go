// Package styling provides the terminal styles shared by the drk host and
// its plugins, so output stays visually consistent across modules. All
// styling goes through here.
package styling

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

var (
	primary = lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true)
	success = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warning = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	failure = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	dim     = lipgloss.NewStyle().Faint(true)
)

// Primary renders primary/important text (cyan, bold).
func Primary(s string) string { return primary.Render(s) }

// Success renders success messages (green).
func Success(s string) string { return success.Render(s) }

// Warning renders warnings (yellow).
func Warning(s string) string { return warning.Render(s) }

// Error renders errors (red, bold).
func Error(s string) string { return failure.Render(s) }

// Dim renders dimmed/secondary text.
func Dim(s string) string { return dim.Render(s) }

// unicodeOK reports whether stdout is a terminal that can be expected to
// render the unicode icons. Piped output gets the ASCII fallbacks.
func unicodeOK() bool {
	return termenv.NewOutput(os.Stdout).Profile != termenv.Ascii
}

// IconSuccess returns a checkmark icon with a non-terminal fallback.
func IconSuccess() string {
	if unicodeOK() {
		return "✓"
	}
	return "[OK]"
}

// IconError returns an error icon with a non-terminal fallback.
func IconError() string {
	if unicodeOK() {
		return "✗"
	}
	return "[ERROR]"
}

// IconWarning returns a warning icon with a non-terminal fallback.
func IconWarning() string {
	if unicodeOK() {
		return "⚠"
	}
	return "[WARN]"
}

// IconInfo returns an info icon with a non-terminal fallback.
func IconInfo() string {
	if unicodeOK() {
		return "ℹ"
	}
	return "[INFO]"
}

// Package tui holds the terminal presentation helpers of the CLI: the
// highlighter used for status lines and the interactive component picker.
package tui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Palette.
const (
	ColorError   = lipgloss.Color("196")
	ColorWarning = lipgloss.Color("214")
	ColorInfo    = lipgloss.Color("39")
	ColorBright  = lipgloss.Color("51")
	ColorSuccess = lipgloss.Color("42")
	ColorTitle   = lipgloss.Color("255")
	ColorLabel   = lipgloss.Color("245")
	ColorCursor  = lipgloss.Color("212")
)

//nolint:gochecknoglobals // Shared read-only styles.
var (
	errorStyle      = lipgloss.NewStyle().Foreground(ColorError)
	warnStyle       = lipgloss.NewStyle().Foreground(ColorWarning)
	infoStyle       = lipgloss.NewStyle().Foreground(ColorInfo)
	infoBrightStyle = lipgloss.NewStyle().Foreground(ColorBright).Bold(true)
	successStyle    = lipgloss.NewStyle().Foreground(ColorSuccess)
	titleStyle      = lipgloss.NewStyle().Foreground(ColorTitle).Bold(true)
	underlineStyle  = lipgloss.NewStyle().Underline(true)
	labelStyle      = lipgloss.NewStyle().Foreground(ColorLabel)
	cursorStyle     = lipgloss.NewStyle().Foreground(ColorCursor).Bold(true)
)

// Error renders s as an error.
func Error(s string) string { return errorStyle.Render(s) }

// Warn renders s as a warning.
func Warn(s string) string { return warnStyle.Render(s) }

// Info renders s as informational text.
func Info(s string) string { return infoStyle.Render(s) }

// InfoBright renders s as emphasised informational text.
func InfoBright(s string) string { return infoBrightStyle.Render(s) }

// Success renders s as a success message.
func Success(s string) string { return successStyle.Render(s) }

// Title renders s as a heading.
func Title(s string) string { return titleStyle.Render(s) }

// Underline underlines s.
func Underline(s string) string { return underlineStyle.Render(s) }

// Label renders s in the muted label color.
func Label(s string) string { return labelStyle.Render(s) }

// IsTTY reports whether stdout is an interactive terminal.
func IsTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// IsInputTTY reports whether stdin is an interactive terminal.
func IsInputTTY() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

package output

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

var (
	// Recommendation status colors
	UpToDate = color.New(color.FgGreen)
	Outdated = color.New(color.FgYellow)
	Newer    = color.New(color.FgCyan)
	NotFound = color.New(color.Faint)
	Unknown  = color.New(color.FgMagenta)
	Skipped  = color.New(color.Faint)

	// Message colors
	Success = color.New(color.FgGreen)
	Warning = color.New(color.FgYellow)
	Error   = color.New(color.FgRed)
	Info    = color.New(color.FgCyan)
	Dim     = color.New(color.Faint)

	// Structural colors
	Header = color.New(color.FgWhite, color.Bold)
	App    = color.New(color.FgBlue, color.Bold)
)

// NoColor disables color output
func NoColor() {
	color.NoColor = true
}

// ForceColor enables color output even when not a TTY
func ForceColor() {
	color.NoColor = false
}

// IsTerminal returns true if stdout is a terminal
func IsTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}

// StatusColor returns the appropriate color for a recommendation status
func StatusColor(status string) *color.Color {
	switch status {
	case "up_to_date":
		return UpToDate
	case "outdated":
		return Outdated
	case "newer_than_catalog":
		return Newer
	case "not_found":
		return NotFound
	case "unknown":
		return Unknown
	case "skipped":
		return Skipped
	default:
		return color.New(color.Reset)
	}
}

// FormatStatus formats a status string with appropriate color
func FormatStatus(status string) string {
	return StatusColor(status).Sprint(status)
}

// FormatApp formats an application name with color
func FormatApp(name string) string {
	return App.Sprint(name)
}

// PrintSuccess prints a success message
func PrintSuccess(format string, args ...interface{}) {
	Success.Printf("✓ "+format+"\n", args...)
}

// PrintError prints an error message
func PrintError(format string, args ...interface{}) {
	Error.Fprintf(os.Stderr, "✗ "+format+"\n", args...)
}

// PrintWarning prints a warning message
func PrintWarning(format string, args ...interface{}) {
	Warning.Printf("⚠ "+format+"\n", args...)
}

// PrintInfo prints an info message
func PrintInfo(format string, args ...interface{}) {
	Info.Printf("→ "+format+"\n", args...)
}

// Sprintf returns a colored string without printing
func Sprintf(c *color.Color, format string, args ...interface{}) string {
	return c.Sprintf(format, args...)
}

// Sprint returns a colored string without printing
func Sprint(c *color.Color, a ...interface{}) string {
	return c.Sprint(a...)
}

// Printf prints with color
func Printf(c *color.Color, format string, args ...interface{}) {
	c.Printf(format, args...)
}

// Println prints with color and newline
func Println(c *color.Color, a ...interface{}) {
	c.Println(a...)
}

// Summary prints a one-line count summary after a table
func Summary(total, outdated, unknown int) {
	fmt.Printf("%d applications", total)
	if outdated > 0 {
		fmt.Print(", ")
		Outdated.Printf("%d outdated", outdated)
	}
	if unknown > 0 {
		fmt.Print(", ")
		Unknown.Printf("%d unknown", unknown)
	}
	fmt.Println()
}

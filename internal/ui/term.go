package ui

import (
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/javiermolinar/blockweek/internal/task"
)

// Color definitions for consistent styling across the UI.
var (
	// Process colors follow the board themes: one hue per process.
	processColors = map[task.Process]*color.Color{
		task.ProcessMarketing:   color.New(color.FgMagenta),
		task.ProcessDevelopment: color.New(color.FgCyan),
		task.ProcessClientWork:  color.New(color.FgGreen),
		task.ProcessOperations:  color.New(color.FgYellow),
		task.ProcessAdmin:       color.New(color.FgBlue),
	}

	// Warnings: yellow to make them pop
	colorWarning = color.New(color.FgYellow, color.Bold)

	// Headers: bold
	colorHeader = color.New(color.Bold)

	// Stats: green for totals
	colorStats = color.New(color.FgGreen)

	// Muted: for secondary information
	colorMuted = color.New(color.FgWhite, color.Faint)
)

// termWidth returns the terminal width, or a default if detection fails.
func termWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80 // sensible default
	}
	return width
}

// DisableColor disables all color output.
func DisableColor() {
	color.NoColor = true
}

// EnableColor enables color output (if terminal supports it).
func EnableColor() {
	color.NoColor = false
}

// formatProcess colors s with the hue of process p.
func formatProcess(p task.Process, s string) string {
	if c, ok := processColors[p]; ok {
		return c.Sprint(s)
	}
	return s
}

// formatWarning formats text for soft violations.
func formatWarning(s string) string {
	return colorWarning.Sprint(s)
}

// formatHeader formats text as a header.
func formatHeader(s string) string {
	return colorHeader.Sprint(s)
}

// formatStats formats text for statistics.
func formatStats(s string) string {
	return colorStats.Sprint(s)
}

// formatMuted formats text as secondary/muted.
func formatMuted(s string) string {
	return colorMuted.Sprint(s)
}

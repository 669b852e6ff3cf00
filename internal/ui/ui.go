// Package ui holds the console styles shared by skillkit commands.
package ui

import "github.com/charmbracelet/lipgloss"

var (
	colorGreen  = lipgloss.Color("#22C55E")
	colorRed    = lipgloss.Color("#EF4444")
	colorYellow = lipgloss.Color("#EAB308")
	colorCyan   = lipgloss.Color("#06B6D4")
	colorDim    = lipgloss.Color("#6B7280")

	successStyle = lipgloss.NewStyle().Foreground(colorGreen)
	errorStyle   = lipgloss.NewStyle().Foreground(colorRed).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(colorYellow)
	headerStyle  = lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(colorDim)
)

// Check is the mark printed before a completed item.
func Check() string { return successStyle.Render("✓") }

// Cross is the mark printed before a failed item.
func Cross() string { return errorStyle.Render("✗") }

// Warn is the mark printed before a warning.
func Warn() string { return warnStyle.Render("⚠") }

// Success renders s in the success color.
func Success(s string) string { return successStyle.Render(s) }

// Error renders s in the error color.
func Error(s string) string { return errorStyle.Render(s) }

// Warning renders s in the warning color.
func Warning(s string) string { return warnStyle.Render(s) }

// Header renders a section heading.
func Header(s string) string { return headerStyle.Render(s) }

// Dim renders secondary text such as commands and paths.
func Dim(s string) string { return dimStyle.Render(s) }

// Package ui provides consistent styling for the wlseat CLI
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette - consistent across the application
var (
	ColorPrimary   = lipgloss.Color("39")  // Bright blue
	ColorSecondary = lipgloss.Color("205") // Pink/magenta
	ColorSuccess   = lipgloss.Color("82")  // Green
	ColorWarning   = lipgloss.Color("214") // Orange
	ColorError     = lipgloss.Color("196") // Red
	ColorInfo      = lipgloss.Color("86")  // Cyan

	ColorText   = lipgloss.Color("252") // Light gray
	ColorSubtle = lipgloss.Color("241") // Medium gray
)

// Base styles
var (
	TextStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	SubtleStyle = lipgloss.NewStyle().
			Foreground(ColorSubtle)

	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorError)
)

// Transcript styles, one per device column
var (
	StepStyle = lipgloss.NewStyle().
			Foreground(ColorSubtle).
			Width(5).
			Align(lipgloss.Right)

	ClientStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorText).
			Width(8)

	deviceStyles = map[string]lipgloss.Style{
		"pointer":     lipgloss.NewStyle().Foreground(ColorPrimary),
		"keyboard":    lipgloss.NewStyle().Foreground(ColorInfo),
		"touch":       lipgloss.NewStyle().Foreground(ColorSecondary),
		"data_device": lipgloss.NewStyle().Foreground(ColorSuccess),
		"seat":        lipgloss.NewStyle().Foreground(ColorWarning).Bold(true),
	}
)

// Icons
var (
	IconSuccess = "✓"
	IconError   = "✗"
	IconSummary = "="
)

// DeviceStyle returns the style used for a device column.
func DeviceStyle(device string) lipgloss.Style {
	if s, ok := deviceStyles[device]; ok {
		return s
	}
	return TextStyle
}

// FormatHeader renders a title line followed by a separator.
func FormatHeader(title string) string {
	return HeaderStyle.Render(title) + "\n" + CreateSeparator(50, "─")
}

// FormatEvent renders one delivered event as a transcript line.
func FormatEvent(step int, time uint32, client, device, event string) string {
	if client == "" {
		client = "-"
	}
	return fmt.Sprintf("%s %s %s %s %s",
		StepStyle.Render(fmt.Sprintf("#%d", step)),
		SubtleStyle.Render(fmt.Sprintf("t=%d", time)),
		ClientStyle.Render(client),
		DeviceStyle(device).Render(fmt.Sprintf("%-11s", device)),
		TextStyle.Render(event))
}

// FormatSummary renders the closing line of a replay.
func FormatSummary(steps, events int, err error) string {
	icon := SuccessStyle.Render(IconSuccess)
	status := SuccessStyle.Render("replay completed")
	if err != nil {
		icon = ErrorStyle.Render(IconError)
		status = ErrorStyle.Render("replay failed: " + err.Error())
	}
	counts := SubtleStyle.Render(fmt.Sprintf("(%d steps, %d events)", steps, events))
	return fmt.Sprintf("%s %s %s %s", SubtleStyle.Render(IconSummary), icon, status, counts)
}

// CreateSeparator creates a horizontal line separator
func CreateSeparator(width int, char string) string {
	if width <= 0 {
		width = 50
	}
	if char == "" {
		char = "─"
	}
	return lipgloss.NewStyle().
		Foreground(ColorSubtle).
		Render(strings.Repeat(char, width))
}

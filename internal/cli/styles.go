// Package cli renders the dashboard in the terminal using lipgloss.
package cli

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	// PrimaryColor is the main theme color.
	PrimaryColor = lipgloss.Color("#4E79A7")
	// SuccessColor marks projects within budget.
	SuccessColor = lipgloss.Color("#87A96B")
	// WarningColor marks projects close to their budget.
	WarningColor = lipgloss.Color("#FFDA61")
	// ErrorColor marks projects over budget and negative amounts.
	ErrorColor = lipgloss.Color("#FF4B4B")
	// InfoColor indicates informational messages.
	InfoColor = lipgloss.Color("#95E1D3")
	// SubtleColor indicates less prominent UI elements.
	SubtleColor = lipgloss.Color("#666666")
	// HighlightColor marks the largest received amount.
	HighlightColor = lipgloss.Color("#FFFF00")

	// TitleStyle is used for section titles.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor).
			MarginTop(1)

	// SubtitleStyle is used for secondary headings.
	SubtitleStyle = lipgloss.NewStyle().
			Foreground(SubtleColor)

	// SuccessStyle formats success messages.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(SuccessColor)

	// WarningStyle formats warning messages.
	WarningStyle = lipgloss.NewStyle().
			Foreground(WarningColor)

	// ErrorStyle formats error messages.
	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor)

	// InfoStyle formats informational messages.
	InfoStyle = lipgloss.NewStyle().
			Foreground(InfoColor)

	// HighlightStyle marks a cell the reader should notice.
	HighlightStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#000000")).
			Background(HighlightColor)

	// MetricStyle is used for the headline metric boxes.
	MetricStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#333")).
			Padding(0, 1).
			Width(22)

	// AlertStyle is the base of the per-project budget boxes.
	AlertStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#000000")).
			Padding(0, 1).
			MarginRight(1).
			Align(lipgloss.Center)

	// TableCellStyle formats table cells with appropriate padding.
	TableCellStyle = lipgloss.NewStyle().
			PaddingRight(2)
)

// Icons.
const (
	SuccessIcon = "✓"
	ErrorIcon   = "✗"
	WarningIcon = "⚠️"
	InfoIcon    = "ℹ️"
	ChartIcon   = "📈"
	TableIcon   = "📊"
	AlertIcon   = "🚨"
	CostIcon    = "💡"
)

// FormatSuccess formats a success message with icon.
func FormatSuccess(message string) string {
	return SuccessStyle.Render(SuccessIcon + " " + message)
}

// FormatError formats an error message with icon.
func FormatError(message string) string {
	return ErrorStyle.Render(ErrorIcon + " " + message)
}

// FormatWarning formats a warning message with icon.
func FormatWarning(message string) string {
	return WarningStyle.Render(WarningIcon + " " + message)
}

// FormatInfo formats an info message with icon.
func FormatInfo(message string) string {
	return InfoStyle.Render(InfoIcon + " " + message)
}

// FormatTitle formats a section title with its icon.
func FormatTitle(icon, title string) string {
	if icon == "" {
		return TitleStyle.Render(title)
	}
	return TitleStyle.Render(icon + " " + title)
}

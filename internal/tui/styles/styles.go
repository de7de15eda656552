package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Colors adapt to the terminal background unless a theme is forced.
var (
	Primary   = lipgloss.AdaptiveColor{Light: "#6D28D9", Dark: "#7C3AED"} // Purple
	Secondary = lipgloss.AdaptiveColor{Light: "#047857", Dark: "#10B981"} // Green
	Warning   = lipgloss.AdaptiveColor{Light: "#B45309", Dark: "#F59E0B"} // Amber
	Error     = lipgloss.AdaptiveColor{Light: "#B91C1C", Dark: "#EF4444"} // Red

	Border    = lipgloss.AdaptiveColor{Light: "#D1D5DB", Dark: "#4B5563"}
	Surface   = lipgloss.AdaptiveColor{Light: "#E5E7EB", Dark: "#374151"}
	Text      = lipgloss.AdaptiveColor{Light: "#111827", Dark: "#F9FAFB"}
	TextMuted = lipgloss.AdaptiveColor{Light: "#4B5563", Dark: "#9CA3AF"}
	TextDim   = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#6B7280"}
)

// Text styles
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Text)

	Subtitle = lipgloss.NewStyle().
		Foreground(TextMuted)

	Label = lipgloss.NewStyle().
		Foreground(TextDim)

	Highlight = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	Muted = lipgloss.NewStyle().
		Foreground(TextMuted)

	Dim = lipgloss.NewStyle().
		Foreground(TextDim)

	Playing = lipgloss.NewStyle().
		Foreground(Secondary)

	Paused = lipgloss.NewStyle().
		Foreground(Warning)

	ErrorText = lipgloss.NewStyle().
		Foreground(Error)

	Cursor = lipgloss.NewStyle().
		Background(Surface)
)

// Border styles
var (
	BorderStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border)

	FocusedBorder = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Primary)
)

// SetTheme forces a light or dark palette. "auto" leaves detection to
// lipgloss.
func SetTheme(theme string) {
	switch theme {
	case "dark":
		lipgloss.SetHasDarkBackground(true)
	case "light":
		lipgloss.SetHasDarkBackground(false)
	}
}

// Panel creates a styled panel with optional focus
func Panel(focused bool) lipgloss.Style {
	if focused {
		return FocusedBorder.Padding(0, 1)
	}
	return BorderStyle.Padding(0, 1)
}

// PanelTitle creates a styled panel title
func PanelTitle(title string, focused bool) string {
	style := Label
	if focused {
		style = Highlight
	}
	return style.Render(" " + title + " ")
}

// ProgressBar creates a progress bar string
func ProgressBar(percent float64, width int) string {
	if width < 0 {
		width = 0
	}
	filled := int(percent / 100 * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	filledStyle := lipgloss.NewStyle().Foreground(Primary)
	emptyStyle := lipgloss.NewStyle().Foreground(Border)

	return filledStyle.Render(strings.Repeat("━", filled)) +
		emptyStyle.Render(strings.Repeat("─", width-filled))
}

// PlayIcon returns the icon of the action the play button performs.
func PlayIcon(playing bool) string {
	if playing {
		return "⏸"
	}
	return "▶"
}

// StatusIcon returns an icon for playback status
func StatusIcon(playing bool) string {
	if playing {
		return Playing.Render("▶")
	}
	return Paused.Render("⏸")
}

// CoverArt renders a static placeholder cover of the given size.
func CoverArt(width, height int) string {
	if width < 3 || height < 3 {
		return ""
	}
	inner := lipgloss.NewStyle().
		Width(width-2).
		Height(height-2).
		Align(lipgloss.Center, lipgloss.Center).
		Background(Surface).
		Foreground(Primary).
		Render("♪")
	return BorderStyle.Render(inner)
}

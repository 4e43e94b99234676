package tui

import "github.com/charmbracelet/lipgloss"

// Catppuccin Mocha subset.
const (
	colorRed      lipgloss.Color = "#f38ba8"
	colorPeach    lipgloss.Color = "#fab387"
	colorYellow   lipgloss.Color = "#f9e2af"
	colorGreen    lipgloss.Color = "#a6e3a1"
	colorBlue     lipgloss.Color = "#89b4fa"
	colorLavender lipgloss.Color = "#b4befe"
	colorText     lipgloss.Color = "#cdd6f4"
	colorOverlay0 lipgloss.Color = "#6c7086"
	colorSurface1 lipgloss.Color = "#45475a"
)

var (
	titleStyle    = lipgloss.NewStyle().Foreground(colorLavender).Bold(true)
	pathStyle     = lipgloss.NewStyle().Foreground(colorOverlay0)
	timerStyle    = lipgloss.NewStyle().Foreground(colorText).Bold(true)
	waveStyle     = lipgloss.NewStyle().Foreground(colorBlue)
	enabledStyle  = lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
	disabledStyle = lipgloss.NewStyle().Foreground(colorSurface1)
	errorStyle    = lipgloss.NewStyle().Foreground(colorRed)
	infoStyle     = lipgloss.NewStyle().Foreground(colorYellow)
	helpStyle     = lipgloss.NewStyle().Foreground(colorOverlay0)
	modalStyle    = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorPeach).
			Padding(0, 1)
)

func stateStyle(label string) lipgloss.Style {
	switch label {
	case "recording":
		return lipgloss.NewStyle().Foreground(colorRed).Bold(true)
	case "playing":
		return lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
	default:
		return lipgloss.NewStyle().Foreground(colorOverlay0)
	}
}

package ui

import (
	"github.com/charmbracelet/lipgloss"

	domain "github.com/oshokin/morse-beacon/internal/domain/device"
)

// Panel palette
var (
	ColorAmber    = lipgloss.Color("#FFB000")
	ColorAmberDim = lipgloss.Color("#5C3F00")
	ColorCyan     = lipgloss.Color("#00D7FF")
	ColorCyanDim  = lipgloss.Color("#004F5E")
	ColorText     = lipgloss.Color("#D0D0D0")
	ColorMuted    = lipgloss.Color("#6C6C6C")
	ColorError    = lipgloss.Color("#FF3300")
	ColorOK       = lipgloss.Color("#5FD75F")
	ColorBar      = lipgloss.Color("#1C1C1C")
)

// Pre-built styles
var (
	StyleTitle = lipgloss.NewStyle().
			Foreground(ColorAmber).
			Bold(true).
			Padding(0, 1)

	StylePanel = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorMuted).
			Padding(0, 1)

	StyleLabel = lipgloss.NewStyle().
			Foreground(ColorMuted)

	StyleValue = lipgloss.NewStyle().
			Foreground(ColorText).
			Bold(true)

	StyleMorse = lipgloss.NewStyle().
			Foreground(ColorAmber)

	StyleInput = lipgloss.NewStyle().
			Foreground(ColorText)

	StyleErr = lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true)

	StyleStatusBar = lipgloss.NewStyle().
			Background(ColorBar).
			Foreground(ColorText).
			Padding(0, 1)

	StyleHelp = lipgloss.NewStyle().
			Foreground(ColorMuted)
)

// statusStyles colour each device status by code.
var statusStyles = map[domain.Status]lipgloss.Style{
	domain.StatusIdle: lipgloss.NewStyle().Foreground(ColorOK).Bold(true),
	domain.StatusProcessing: lipgloss.NewStyle().Foreground(ColorCyan).Bold(true),
	domain.StatusPlaying: lipgloss.NewStyle().Foreground(ColorAmber).Bold(true),
	domain.StatusError: lipgloss.NewStyle().Foreground(ColorError).Bold(true),
}

package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	domain "github.com/oshokin/morse-beacon/internal/domain/device"
)

const (
	lampOn   = "●"
	lampOff  = "○"
	traceOn  = "█"
	traceOff = "▁"
	meterOn  = "■"
	meterOff = "·"

	meterCells = 8
)

// RenderLamp renders one output channel: a lamp, its name, a level meter
// and the raw level.
func RenderLamp(name string, level uint8, color, dim lipgloss.Color) string {
	lamp := lipgloss.NewStyle().Foreground(dim).Render(lampOff)
	if level > 0 {
		lamp = lipgloss.NewStyle().Foreground(color).Bold(true).Render(lampOn)
	}

	filled := (int(level)*meterCells + 254) / 255
	meter := lipgloss.NewStyle().Foreground(color).Render(strings.Repeat(meterOn, filled)) +
		lipgloss.NewStyle().Foreground(dim).Render(strings.Repeat(meterOff, meterCells-filled))

	return fmt.Sprintf("%s %s %s %s",
		lamp,
		StyleLabel.Render(fmt.Sprintf("%-9s", name)),
		meter,
		StyleValue.Render(fmt.Sprintf("%3d", level)),
	)
}

// RenderTrace renders the newest width samples as a scrolling on/off strip.
func RenderTrace(samples []uint8, width int, color lipgloss.Color) string {
	if width <= 0 {
		return ""
	}

	if len(samples) > width {
		samples = samples[len(samples)-width:]
	}

	var b strings.Builder

	b.Grow(width * len(traceOn))
	b.WriteString(strings.Repeat(traceOff, width-len(samples)))

	for _, s := range samples {
		if s > 0 {
			b.WriteString(traceOn)
		} else {
			b.WriteString(traceOff)
		}
	}

	return lipgloss.NewStyle().Foreground(color).Render(b.String())
}

// RenderStatus renders a status word in its colour.
func RenderStatus(status domain.Status) string {
	style, ok := statusStyles[status]
	if !ok {
		style = StyleErr
	}

	return style.Render(strings.ToUpper(status.String()))
}

// RenderDevice renders the snapshot fields panel.
func RenderDevice(snapshot *domain.Snapshot, width int) string {
	if snapshot == nil {
		snapshot = new(domain.Snapshot)
	}

	link := "advertising"
	if snapshot.Connected {
		link = "connected"
	}

	since := "-"
	if !snapshot.Timestamp.IsZero() {
		since = snapshot.Timestamp.Format(time.TimeOnly)
	}

	fields := []struct{ label, value string }{
		{"Status", RenderStatus(snapshot.Status)},
		{"Since", StyleValue.Render(since)},
		{"Link", StyleValue.Render(link)},
		{"Intensity", StyleValue.Render(fmt.Sprintf("%d", snapshot.Intensity))},
		{"Sender", StyleValue.Render(snapshot.LastActor.String())},
		{"Morse", StyleMorse.Render(snapshot.Morse)},
	}

	lines := make([]string, 0, len(fields))
	for _, f := range fields {
		lines = append(lines, StyleLabel.Render(fmt.Sprintf("%-10s", f.label))+f.value)
	}

	return StylePanel.Width(max(width-2, 0)).Render(strings.Join(lines, "\n"))
}

// RenderInput renders the prompt line with the pending text and the last
// command result underneath.
func RenderInput(input, result string, failed bool, width int) string {
	prompt := StyleTitle.Render(">") + StyleInput.Render(input) + StyleHelp.Render("_")

	resultStyle := StyleMorse
	if failed {
		resultStyle = StyleErr
	}

	return StylePanel.Width(max(width-2, 0)).Render(prompt + "\n" + resultStyle.Render(result))
}

// RenderHelp renders the key bindings line.
func RenderHelp(width int) string {
	help := "enter send · ctrl+x stop · pgup/pgdn intensity · ctrl+b link · esc quit"

	return StyleHelp.Width(width).Render(help)
}

// ComposeLayout stacks the panel sections under a title bar.
func ComposeLayout(title string, width int, sections ...string) string {
	bar := StyleStatusBar.Width(width).Render(StyleTitle.UnsetPadding().Render(title))

	return lipgloss.JoinVertical(lipgloss.Left, append([]string{bar}, sections...)...)
}

// Package ui renders the morse-sim front panel with lipgloss.
package ui

// Package ui holds the shared lipgloss palette and text styles.
package ui

import "github.com/charmbracelet/lipgloss"

var (
	ColorPrimary = lipgloss.AdaptiveColor{Light: "#7c3aed", Dark: "#a78bfa"}
	ColorMuted   = lipgloss.AdaptiveColor{Light: "#6b7280", Dark: "#9ca3af"}
	ColorGreen   = lipgloss.AdaptiveColor{Light: "#16a34a", Dark: "#4ade80"}
	ColorYellow  = lipgloss.AdaptiveColor{Light: "#ca8a04", Dark: "#facc15"}
	ColorRed     = lipgloss.AdaptiveColor{Light: "#dc2626", Dark: "#f87171"}
	ColorCyan    = lipgloss.AdaptiveColor{Light: "#0891b2", Dark: "#22d3ee"}
)

var (
	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)
	MutedStyle = lipgloss.NewStyle().Foreground(ColorMuted)
	OKStyle    = lipgloss.NewStyle().Foreground(ColorGreen)
	WarnStyle  = lipgloss.NewStyle().Foreground(ColorYellow)
	ErrStyle   = lipgloss.NewStyle().Foreground(ColorRed)
)

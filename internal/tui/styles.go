package tui

import "github.com/charmbracelet/lipgloss"

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF6B6B"))
	userStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#5B8DEF"))
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F7B801")).MarginBottom(1)
	textStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#CCCCCC"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true)
	staleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F7B801"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50")).Bold(true)
	boxStyle    = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1)
)

package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/lox/lastcard/internal/deck"
)

// Static styles for content elements
var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Bold(true)

	HandInfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#96CEB4")).
			Bold(true)

	PlayerInfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA"))

	CurrentPlayerStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FFD700")).
				Bold(true)

	SelectedCardStyle = lipgloss.NewStyle().
				Underline(true).
				Reverse(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#96CEB4")).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFEAA7")).
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))
)

var colorStyles = map[deck.Color]lipgloss.Style{
	deck.Red:    lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true),
	deck.Blue:   lipgloss.NewStyle().Foreground(lipgloss.Color("#4D96FF")).Bold(true),
	deck.Green:  lipgloss.NewStyle().Foreground(lipgloss.Color("#6BCB77")).Bold(true),
	deck.Yellow: lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD93D")).Bold(true),
}

// wildStyle is used for cards without a color
var wildStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C77DFF")).Bold(true)

// ColorStyle returns the style for cards of color c
func ColorStyle(c deck.Color) lipgloss.Style {
	if style, ok := colorStyles[c]; ok {
		return style
	}
	return wildStyle
}

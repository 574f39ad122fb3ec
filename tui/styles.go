package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorPrimary   = lipgloss.Color("62")  // Purple
	colorSecondary = lipgloss.Color("241") // Gray
	colorHighlight = lipgloss.Color("212") // Pink
	colorSuccess   = lipgloss.Color("78")  // Green
	colorGold      = lipgloss.Color("220")
)

var titleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorHighlight).
	Padding(0, 1)

var subtitleStyle = lipgloss.NewStyle().
	Foreground(colorSecondary).
	Padding(0, 1)

var cardStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorSecondary).
	Padding(1, 2).
	Width(40)

var selectedCardStyle = cardStyle.
	BorderForeground(colorPrimary).
	Bold(true)

var versusStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorHighlight).
	Padding(2, 2)

var badgeStyle = lipgloss.NewStyle().
	Foreground(colorPrimary).
	Background(lipgloss.Color("236")).
	Padding(0, 1)

var championStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorGold).
	Padding(0, 1)

var rankStyle = lipgloss.NewStyle().
	Foreground(colorSuccess).
	Width(5).
	Align(lipgloss.Right)

var helpStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("240")).
	Padding(1, 1)

var errorStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("196")).
	Bold(true).
	Padding(0, 1)

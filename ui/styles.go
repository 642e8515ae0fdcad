package ui

import "github.com/charmbracelet/lipgloss"

// Palette and shared styles for the blame view.
var (
	ColorYellow   = lipgloss.Color("220")
	ColorOrange   = lipgloss.Color("214")
	ColorRed      = lipgloss.Color("196")
	ColorMagenta  = lipgloss.Color("170")
	ColorBlue     = lipgloss.Color("39")
	ColorGreen    = lipgloss.Color("42")
	ColorWhite    = lipgloss.Color("252")
	ColorDimWhite = lipgloss.Color("243")
	ColorSurface  = lipgloss.Color("236")

	HashStyle    = lipgloss.NewStyle().Foreground(ColorMagenta)
	DateStyle    = lipgloss.NewStyle().Foreground(ColorBlue)
	AuthorStyle  = lipgloss.NewStyle().Foreground(ColorGreen)
	SummaryStyle = lipgloss.NewStyle().Foreground(ColorDimWhite)
	PendingStyle = lipgloss.NewStyle().Foreground(ColorDimWhite)

	LineNumberStyle = lipgloss.NewStyle().Foreground(ColorDimWhite)
	ContentStyle    = lipgloss.NewStyle().Foreground(ColorWhite)
	CursorLineStyle = lipgloss.NewStyle().Background(ColorSurface).Bold(true)

	StatusStyle  = lipgloss.NewStyle().Foreground(ColorOrange)
	ErrorStyle   = lipgloss.NewStyle().Foreground(ColorRed)
	TitleStyle   = lipgloss.NewStyle().Foreground(ColorYellow).Bold(true)
	PromptStyle  = lipgloss.NewStyle().Foreground(ColorYellow)

	FloatingBorderColor = ColorYellow
	FloatingTitleStyle  = lipgloss.NewStyle().Foreground(ColorYellow).Bold(true)

	HelpBarStyle  = lipgloss.NewStyle().Foreground(ColorDimWhite)
	HelpKeyStyle  = lipgloss.NewStyle().Foreground(ColorWhite)
	HelpDescStyle = lipgloss.NewStyle().Foreground(ColorDimWhite)
)

// GutterWidth is the fixed width of the commit gutter to the left of
// the file content.
const GutterWidth = 24

package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Box drawing pieces for the floating window top border, which carries
// the title inline.
const (
	borderTopLeft    = "╭"
	borderTopRight   = "╮"
	borderHorizontal = "─"
)

// renderFloating draws content inside a centered bordered window over a
// blank field of the given screen size. The title is embedded in the
// top border.
func renderFloating(title, content string, screenWidth, screenHeight, windowWidth, windowHeight int) string {
	if windowWidth > screenWidth-2 {
		windowWidth = screenWidth - 2
	}
	if windowHeight > screenHeight-2 {
		windowHeight = screenHeight - 2
	}
	x := (screenWidth - windowWidth) / 2
	y := (screenHeight - windowHeight) / 2
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}

	borderStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(FloatingBorderColor).
		Width(windowWidth - 2).
		Height(windowHeight - 2)
	bordered := borderStyle.Render(content)

	// Swap the plain top border for one carrying the title.
	lines := strings.Split(bordered, "\n")
	if len(lines) > 0 && title != "" {
		borderColor := lipgloss.NewStyle().Foreground(FloatingBorderColor)
		styledTitle := FloatingTitleStyle.Render(" " + title + " ")

		remaining := windowWidth - 3 - lipgloss.Width(styledTitle)
		if remaining < 0 {
			remaining = 0
		}
		lines[0] = borderColor.Render(borderTopLeft+borderHorizontal) +
			styledTitle +
			borderColor.Render(strings.Repeat(borderHorizontal, remaining)+borderTopRight)
	}

	padLeft := strings.Repeat(" ", x)
	for i := range lines {
		lines[i] = padLeft + lines[i]
	}
	return strings.Repeat("\n", y) + strings.Join(lines, "\n")
}

// overlayOnto replaces the top lines of background with the overlay's
// lines, keeping the background visible below it.
func overlayOnto(background, overlay string) string {
	bgLines := strings.Split(background, "\n")
	ovLines := strings.Split(overlay, "\n")
	for i, line := range ovLines {
		if i < len(bgLines) && strings.TrimSpace(line) != "" {
			bgLines[i] = line
		}
	}
	return strings.Join(bgLines, "\n")
}

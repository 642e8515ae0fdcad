package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// HelpBarContext captures the UI state the help bar adapts to.
type HelpBarContext struct {
	Mode      viewMode
	HasSearch bool // a search pattern is active, n/N repeat it
}

// HelpHint is a single key + description pair.
type HelpHint struct {
	Key  string
	Desc string
}

// Format renders a hint as "key desc".
func (h HelpHint) Format() string {
	return HelpKeyStyle.Render(h.Key) + " " + HelpDescStyle.Render(h.Desc)
}

// actionHints are the mode-specific actions (left section).
func actionHints(ctx HelpBarContext) []HelpHint {
	switch ctx.Mode {
	case modeBlame:
		hints := []HelpHint{
			{Key: "←", Desc: "older"},
			{Key: "→", Desc: "newer"},
			{Key: "↵", Desc: "commit"},
			{Key: "d", Desc: "diff"},
			{Key: "L", Desc: "history"},
			{Key: "c", Desc: "copy"},
		}
		if ctx.HasSearch {
			hints = append(hints, HelpHint{Key: "n/N", Desc: "match"})
		}
		return hints
	case modePager, modeHistory:
		return []HelpHint{
			{Key: "↑↓", Desc: "scroll"},
			{Key: "esc", Desc: "close"},
		}
	case modePrompt:
		return []HelpHint{
			{Key: "↵", Desc: "accept"},
			{Key: "esc", Desc: "cancel"},
		}
	}
	return nil
}

// navigationHints are the cursor hints (center section).
func navigationHints(ctx HelpBarContext) []HelpHint {
	if ctx.Mode != modeBlame {
		return nil
	}
	return []HelpHint{
		{Key: "↑↓", Desc: "move"},
		{Key: ":", Desc: "goto"},
		{Key: "/", Desc: "search"},
	}
}

// alwaysHints appear in every mode (right section).
func alwaysHints() []HelpHint {
	return []HelpHint{
		{Key: "?", Desc: "help"},
		{Key: "q", Desc: "quit"},
	}
}

func formatHints(hints []HelpHint) string {
	if len(hints) == 0 {
		return ""
	}
	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = h.Format()
	}
	return strings.Join(parts, "  ")
}

// RenderHelpBar renders the three-section help bar: mode actions on
// the left, cursor hints centered, global hints on the right.
func RenderHelpBar(ctx HelpBarContext, width int) string {
	left := formatHints(actionHints(ctx))
	center := formatHints(navigationHints(ctx))
	right := formatHints(alwaysHints())

	leftWidth := lipgloss.Width(left)
	centerWidth := lipgloss.Width(center)
	rightWidth := lipgloss.Width(right)

	available := width - leftWidth - centerWidth - rightWidth
	if available < 6 {
		return HelpBarStyle.Width(width).Render(left + "  " + center + "  " + right)
	}

	centerStart := width/2 - centerWidth/2
	leftToCenter := centerStart - leftWidth
	if leftToCenter < 2 {
		leftToCenter = 2
	}
	centerToRight := width - rightWidth - centerStart - centerWidth
	if centerToRight < 2 {
		centerToRight = 2
	}

	bar := left +
		strings.Repeat(" ", leftToCenter) + center +
		strings.Repeat(" ", centerToRight) + right
	return HelpBarStyle.Width(width).Render(bar)
}

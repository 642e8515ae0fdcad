package ui

import (
	"strings"

	"github.com/blametrail/blametrail/gitx"
)

// cellKind tells the renderer which style a gutter cell takes.
type cellKind int

const (
	cellBlank cellKind = iota
	cellHashDate
	cellSummary
	cellAuthor
	cellPending
)

// gutterCell is one row of the commit gutter, pre-styling.
type gutterCell struct {
	text string
	kind cellKind
}

// buildGutter lays out the commit gutter for a file of lineCount lines.
// Consecutive lines blamed to the same commit form a run; the run's
// first rows carry hash+date, summary and author, later rows are
// blank. Unresolved lines show a pending marker.
//
// commitAt reports the blamed commit of a 1-based line, meta resolves
// cached commit metadata; both may report absence.
func buildGutter(lineCount int, commitAt func(int) (gitx.Hash, bool), meta func(gitx.Hash) (gitx.CommitMeta, bool), width int) []gutterCell {
	cells := make([]gutterCell, lineCount)
	var runCommit gitx.Hash
	runRow := 0

	for i := 1; i <= lineCount; i++ {
		commit, ok := commitAt(i)
		if !ok {
			cells[i-1] = gutterCell{text: "...", kind: cellPending}
			runCommit, runRow = "", 0
			continue
		}
		if commit != runCommit {
			runCommit, runRow = commit, 0
		}

		m, haveMeta := meta(commit)
		switch runRow {
		case 0:
			text := commit.Short()
			if haveMeta && !m.When.IsZero() {
				text += " " + m.When.Format("2006-01-02")
			}
			cells[i-1] = gutterCell{text: truncate(text, width), kind: cellHashDate}
		case 1:
			if haveMeta {
				cells[i-1] = gutterCell{text: truncate(m.Summary, width), kind: cellSummary}
			}
		case 2:
			if haveMeta {
				cells[i-1] = gutterCell{text: truncate(m.Author, width), kind: cellAuthor}
			}
		}
		runRow++
	}
	return cells
}

// truncate cuts s to at most width cells, marking the cut with "…".
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return string(r[:width-1]) + "…"
}

// renderCell pads a cell to the gutter width and applies its style.
func renderCell(c gutterCell, width int) string {
	text := c.text
	if pad := width - len([]rune(text)); pad > 0 {
		text += strings.Repeat(" ", pad)
	}
	switch c.kind {
	case cellHashDate:
		return HashStyle.Render(text)
	case cellSummary:
		return SummaryStyle.Render(text)
	case cellAuthor:
		return AuthorStyle.Render(text)
	case cellPending:
		return PendingStyle.Render(text)
	default:
		return text
	}
}

package engine

import "github.com/blametrail/blametrail/gitx"

// LineMap maps line numbers from the new side of a path diff to the
// old side. It answers, for a given new-side line, whether the diff
// changed that line and where the corresponding old-side line sits.
type LineMap struct {
	hunks []gitx.Hunk
}

// NewLineMap builds a map from ascending, non-overlapping hunks.
func NewLineMap(hunks []gitx.Hunk) LineMap {
	return LineMap{hunks: hunks}
}

// OldLine is the result of mapping one new-side line number.
type OldLine struct {
	// Number is the corresponding old-side line number. For a line
	// inside a replace hunk it is the nearest old line of that hunk,
	// which is where history tracking continues. Zero when Exists is
	// false.
	Number int
	// Changed reports that the line sits inside a hunk, i.e. the diff
	// added or modified it.
	Changed bool
	// Exists reports that the old side has a corresponding line at
	// all. False for lines inside a pure-insertion hunk: the line did
	// not exist before this diff.
	Exists bool
}

// Map maps a 1-based new-side line number to the old side.
func (m LineMap) Map(line int) OldLine {
	delta := 0 // old minus new, accumulated over hunks fully above line
	for _, h := range m.hunks {
		if line < h.NewStart {
			break
		}
		if h.NewLines > 0 && line < h.NewStart+h.NewLines {
			// Inside the hunk: the line was added or modified here.
			if h.OldLines == 0 {
				return OldLine{Changed: true}
			}
			off := line - h.NewStart
			if off >= h.OldLines {
				off = h.OldLines - 1
			}
			return OldLine{Number: h.OldStart + off, Changed: true, Exists: true}
		}
		delta += h.OldLines - h.NewLines
	}
	return OldLine{Number: line + delta, Exists: true}
}

package session

import (
	"github.com/blametrail/blametrail/engine"
	"github.com/blametrail/blametrail/gitx"
)

// Boundary is the reported outcome of a navigation action that leaves
// the state unchanged. Boundaries are normal results, not errors; the
// front-end shows them as messages.
type Boundary int

const (
	BoundaryNone Boundary = iota
	// AtOrigin: the current line was introduced by its blamed commit;
	// there is nothing older to show for it.
	AtOrigin
	// AtRoot: the blamed commit is the repository root.
	AtRoot
	// NothingToUndo: the undo stack is empty.
	NothingToUndo
	// OutOfRange: a requested line fell outside the file and was
	// clamped.
	OutOfRange
	// Pending: the annotation for the current line has not been
	// resolved yet; retry once the background walk catches up.
	Pending
)

func (b Boundary) String() string {
	switch b {
	case BoundaryNone:
		return ""
	case AtOrigin:
		return "at origin of line"
	case AtRoot:
		return "at root commit"
	case NothingToUndo:
		return "nothing to undo"
	case OutOfRange:
		return "line out of range"
	case Pending:
		return "still computing..."
	default:
		return "unknown boundary"
	}
}

// Position is one navigation state, the unit pushed onto the undo
// stack. Path travels with it because a backward move can cross a
// rename boundary.
type Position struct {
	Tree gitx.Hash
	Line int
	Path string
}

// Navigator is the navigation state machine: the current tree and
// line, plus the undo stack of positions left behind by forward
// moves. It holds identifiers only and borrows annotation data from
// the cache; it owns no file content.
type Navigator struct {
	src   engine.Source
	cache *Cache
	path  string

	tree      gitx.Hash
	line      int
	lineCount int
	undo      []Position
}

// NewNavigator starts at the given tree and line. The line is clamped
// once the line count is known.
func NewNavigator(src engine.Source, cache *Cache, path string, tree gitx.Hash, line int) *Navigator {
	if line < 1 {
		line = 1
	}
	return &Navigator{src: src, cache: cache, path: path, tree: tree, line: line}
}

// Tree returns the current tree's commit.
func (n *Navigator) Tree() gitx.Hash { return n.tree }

// Line returns the current 1-based line number.
func (n *Navigator) Line() int { return n.line }

// Path returns the repo-relative path being blamed.
func (n *Navigator) Path() string { return n.path }

// UndoDepth returns how many positions the undo stack holds.
func (n *Navigator) UndoDepth() int { return len(n.undo) }

// SetLineCount records the file length at the current tree, used for
// clamping cursor movement. The front-end calls it when the tree's
// content loads.
func (n *Navigator) SetLineCount(count int) {
	n.lineCount = count
	if n.lineCount > 0 && n.line > n.lineCount {
		n.line = n.lineCount
	}
}

func (n *Navigator) clamp(line int) (int, bool) {
	clamped := false
	if line < 1 {
		line, clamped = 1, true
	}
	if n.lineCount > 0 && line > n.lineCount {
		line, clamped = n.lineCount, true
	}
	return line, clamped
}

// MoveCursor moves the current line by delta, clamped to the file.
// Cursor moves never touch the undo stack.
func (n *Navigator) MoveCursor(delta int) Boundary {
	line, clamped := n.clamp(n.line + delta)
	n.line = line
	if clamped {
		return OutOfRange
	}
	return BoundaryNone
}

// GotoLine jumps to a line, clamped to the file. No undo push.
func (n *Navigator) GotoLine(line int) Boundary {
	clampedLine, clamped := n.clamp(line)
	n.line = clampedLine
	if clamped {
		return OutOfRange
	}
	return BoundaryNone
}

// GotoParent retargets the session to the state just before the commit
// that last touched the current line: the current position is pushed
// onto the undo stack, the tree becomes the parent an ancestry walk
// would follow from the blamed commit, and the line is remapped through
// the diff between the two trees. Using the walk's own parent policy
// means a merge whose first parent never carried the file retargets to
// the parent the annotation actually came through.
//
// Reported boundaries leave the state untouched: Pending while the
// line's annotation is still being computed, AtRoot when the blamed
// commit is the repository root, AtOrigin when the blamed commit
// introduced the line or the whole file.
func (n *Navigator) GotoParent() (Boundary, error) {
	snap, ok := n.cache.Annotation(n.tree, n.path)
	if !ok {
		snap, _ = n.cache.GetOrStart(n.tree, n.path)
	}
	if snap.Err != nil {
		return BoundaryNone, snap.Err
	}
	blamed, resolved := snap.Line(n.line)
	if !resolved {
		return Pending, nil
	}

	step, err := engine.NextStep(n.src, blamed, n.path)
	if err != nil {
		return BoundaryNone, err
	}
	if step.AtRoot {
		return AtRoot, nil
	}
	if step.Created {
		return AtOrigin, nil
	}

	mapped, exists, err := engine.MapLineAcross(n.src, n.tree, n.path, step.Parent, step.ParentPath, n.line)
	if err != nil {
		return BoundaryNone, err
	}
	if !exists {
		return AtOrigin, nil
	}

	n.undo = append(n.undo, Position{Tree: n.tree, Line: n.line, Path: n.path})
	n.tree = step.Parent
	n.line = mapped
	n.path = step.ParentPath
	n.lineCount = 0 // unknown until the new tree's content loads
	return BoundaryNone, nil
}

// Undo pops the most recent forward move and restores that exact
// position.
func (n *Navigator) Undo() Boundary {
	if len(n.undo) == 0 {
		return NothingToUndo
	}
	last := n.undo[len(n.undo)-1]
	n.undo = n.undo[:len(n.undo)-1]
	n.tree = last.Tree
	n.line = last.Line
	n.path = last.Path
	n.lineCount = 0
	return BoundaryNone
}

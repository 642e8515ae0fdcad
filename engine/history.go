package engine

import (
	"context"
	"fmt"

	"github.com/blametrail/blametrail/gitx"
	"github.com/blametrail/blametrail/logging"
)

// History walks the complete edit chain of one line: starting from
// (tree, line) it follows ancestry backward and emits an entry for
// every commit that added or modified that line, newest first, ending
// with the commit that introduced it or the repository root. Steps
// where the line rode along unchanged are skipped silently, with the
// tracked line number remapped through the step's diff.
//
// The context is checked between ancestry steps, like Annotate.
func History(ctx context.Context, src Source, tree gitx.Hash, line int, path string, sink ChainSink) error {
	done := logging.Op("history", "tree", tree.Short(), "line", line, "path", path)
	err := history(ctx, src, tree, line, path, sink)
	done(err)
	return err
}

func history(ctx context.Context, src Source, tree gitx.Hash, line int, path string, sink ChainSink) error {
	lines, err := src.BlobLines(tree, path)
	if err != nil {
		return err
	}
	if line < 1 || line > len(lines) {
		return fmt.Errorf("line %d out of range 1..%d at %s", line, len(lines), tree.Short())
	}

	node, nodePath, cur := tree, path, line
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		step, err := NextStep(src, node, nodePath)
		if err != nil {
			return err
		}
		if step.AtRoot || step.Created {
			// Terminal: node is where the line (and possibly the whole
			// file) came into existence.
			entry, err := chainEntry(src, node, nodePath, cur)
			if err != nil {
				return err
			}
			entry.Final = true
			sink.Emit(entry)
			return nil
		}

		old := NewLineMap(step.Diff.Hunks).Map(cur)
		if old.Changed {
			entry, err := chainEntry(src, node, nodePath, cur)
			if err != nil {
				return err
			}
			if !old.Exists {
				// Pure insertion: node introduced the line.
				entry.Final = true
				sink.Emit(entry)
				return nil
			}
			sink.Emit(entry)
			cur = old.Number
		} else {
			// Unchanged through this step; just renumber.
			cur = old.Number
		}
		node, nodePath = step.Parent, step.ParentPath
	}
}

// chainEntry reads the line's content at a commit to build its entry.
func chainEntry(src Source, commit gitx.Hash, path string, line int) (ChainEntry, error) {
	lines, err := src.BlobLines(commit, path)
	if err != nil {
		return ChainEntry{}, err
	}
	entry := ChainEntry{Commit: commit, Line: line}
	if line >= 1 && line <= len(lines) {
		entry.Content = lines[line-1]
	}
	return entry, nil
}

// MapLineAcross remaps a line number from one tree to another using a
// single direct diff of the path between them. It reports false when
// the line has no counterpart at the destination tree (it was added
// somewhere after dst).
func MapLineAcross(src Source, from gitx.Hash, fromPath string, dst gitx.Hash, dstPath string, line int) (int, bool, error) {
	diff, err := src.DiffPath(dst, dstPath, from, fromPath)
	if err != nil {
		return 0, false, err
	}
	old := NewLineMap(diff.Hunks).Map(line)
	if !old.Exists {
		return 0, false, nil
	}
	return old.Number, true, nil
}

package engine

import (
	"context"
	"sort"

	"github.com/blametrail/blametrail/gitx"
	"github.com/blametrail/blametrail/logging"
)

// Annotation maps each line of a file at one tree to the commit that
// last modified it. Lines fills in incrementally while a walk is in
// progress; Complete means every line from 1 to LineCount is assigned.
type Annotation struct {
	Tree      gitx.Hash
	Path      string
	LineCount int
	Lines     map[int]gitx.Hash
	Complete  bool
}

// Line returns the commit assigned to a line, if resolved yet.
func (a *Annotation) Line(n int) (gitx.Hash, bool) {
	c, ok := a.Lines[n]
	return c, ok
}

// Annotate computes the full per-line annotation of path at tree,
// delivering batches of resolved lines to sink in ancestry order. The
// context is checked between ancestry steps; a canceled walk returns
// ctx.Err without having delivered the remaining lines.
//
// The walk keeps a shrinking set of unresolved lines, tracked by their
// line number at the current ancestor. At each step the path diff
// between ancestor and parent decides which tracked lines the ancestor
// touched: those resolve to the ancestor, the rest carry backward with
// remapped numbers. Lines surviving to the root resolve to the root.
func Annotate(ctx context.Context, src Source, tree gitx.Hash, path string, sink AnnotateSink) error {
	done := logging.Op("annotate", "tree", tree.Short(), "path", path)
	err := annotate(ctx, src, tree, path, sink)
	done(err)
	return err
}

func annotate(ctx context.Context, src Source, tree gitx.Hash, path string, sink AnnotateSink) error {
	lines, err := src.BlobLines(tree, path)
	if err != nil {
		return err
	}
	sink.Init(len(lines))

	// tracked maps the line's number at the current node to its number
	// at the starting tree.
	tracked := make(map[int]int, len(lines))
	for i := 1; i <= len(lines); i++ {
		tracked[i] = i
	}

	node, nodePath := tree, path
	for len(tracked) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}

		step, err := NextStep(src, node, nodePath)
		if err != nil {
			return err
		}
		if step.AtRoot || step.Created {
			batch := make([]ResolvedLine, 0, len(tracked))
			for _, orig := range tracked {
				batch = append(batch, ResolvedLine{Line: orig, Commit: node})
			}
			sink.Resolve(sortBatch(batch))
			return nil
		}

		lineMap := NewLineMap(step.Diff.Hunks)
		var batch []ResolvedLine
		next := make(map[int]int, len(tracked))
		for cur, orig := range tracked {
			old := lineMap.Map(cur)
			if old.Changed || !old.Exists {
				batch = append(batch, ResolvedLine{Line: orig, Commit: node})
				continue
			}
			next[old.Number] = orig
		}
		if len(batch) > 0 {
			sink.Resolve(sortBatch(batch))
		}
		tracked = next
		node, nodePath = step.Parent, step.ParentPath
	}
	return nil
}

// sortBatch orders a batch by starting-tree line number so subscribers
// reading top to bottom see contiguous fills.
func sortBatch(batch []ResolvedLine) []ResolvedLine {
	sort.Slice(batch, func(i, j int) bool { return batch[i].Line < batch[j].Line })
	return batch
}

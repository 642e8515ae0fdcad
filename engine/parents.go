package engine

import (
	"github.com/blametrail/blametrail/gitx"
)

// ParentDiff is one candidate parent during a walk step: the parent
// commit, the path the file has there, and the diff of that path
// between the parent and the current node.
type ParentDiff struct {
	Parent gitx.Hash
	Path   string
	Diff   gitx.FileDiff
}

// ChooseParent picks which candidate parent an ancestry walk follows
// at a merge boundary: the parent whose diff against the current
// content is smallest, ties broken by declaration order. This is a
// deterministic policy, not a proof of which parent "really" carried
// the line.
func ChooseParent(candidates []ParentDiff) int {
	best := 0
	for i := 1; i < len(candidates); i++ {
		if candidates[i].Diff.ChangedLines() < candidates[best].Diff.ChangedLines() {
			best = i
		}
	}
	return best
}

// Step describes one backward step of an ancestry walk: where the
// walk goes next and the diff that crosses the boundary.
type Step struct {
	Parent     gitx.Hash
	ParentPath string
	Diff       gitx.FileDiff
	AtRoot     bool // node has no parents
	Created    bool // no parent carries the path: node introduced the file
}

// NextStep resolves the parent to follow from node for path. The first
// parent is followed whenever it still carries the path; otherwise the
// step looks for a rename, then falls back to scoring every parent
// that has the path under any name. Both walk engines and backward
// navigation use this one policy, so "older" always goes where a walk
// would have gone.
func NextStep(src Source, node gitx.Hash, path string) (Step, error) {
	parents, err := src.Parents(node)
	if err != nil {
		return Step{}, err
	}
	if len(parents) == 0 {
		return Step{AtRoot: true}, nil
	}

	var candidates []ParentDiff
	for i, parent := range parents {
		parentPath := path
		renamed := false
		_, err := src.BlobLines(parent, parentPath)
		if gitx.IsNotFound(err) {
			oldPath, ok, rerr := src.RenamedFrom(node, parent, path)
			if rerr != nil {
				return Step{}, rerr
			}
			if !ok {
				continue
			}
			parentPath = oldPath
			renamed = true
		} else if err != nil {
			return Step{}, err
		}

		diff, err := src.DiffPath(parent, parentPath, node, path)
		if err != nil {
			return Step{}, err
		}
		cand := ParentDiff{Parent: parent, Path: parentPath, Diff: diff}

		// The first parent wins outright when the path survives to it
		// under the same name. A rename opens the step to scoring.
		if i == 0 && !renamed {
			return Step{Parent: cand.Parent, ParentPath: cand.Path, Diff: cand.Diff}, nil
		}
		candidates = append(candidates, cand)
	}

	if len(candidates) == 0 {
		return Step{Created: true}, nil
	}
	chosen := candidates[ChooseParent(candidates)]
	return Step{Parent: chosen.Parent, ParentPath: chosen.Path, Diff: chosen.Diff}, nil
}

package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blametrail/blametrail/engine/enginetest"
	"github.com/blametrail/blametrail/gitx"
)

// collectAnnotation gathers sink output for assertions.
type collectAnnotation struct {
	lineCount int
	batches   [][]ResolvedLine
	lines     map[int]gitx.Hash
}

func newCollectAnnotation() *collectAnnotation {
	return &collectAnnotation{lines: make(map[int]gitx.Hash)}
}

func (c *collectAnnotation) Init(lineCount int) {
	c.lineCount = lineCount
}

func (c *collectAnnotation) Resolve(batch []ResolvedLine) {
	c.batches = append(c.batches, batch)
	for _, r := range batch {
		c.lines[r.Line] = r.Commit
	}
}

// threeCommitRepo is the canonical scenario: C1 creates lines 1-3,
// C2 modifies line 2, C3 modifies line 1.
func threeCommitRepo() *enginetest.Repo {
	return enginetest.NewRepo().
		Add("c1", enginetest.Commit{Files: map[string]string{
			"f.txt": "one\ntwo\nthree\n",
		}}).
		Add("c2", enginetest.Commit{Parents: []gitx.Hash{"c1"}, Files: map[string]string{
			"f.txt": "one\ntwo changed\nthree\n",
		}}).
		Add("c3", enginetest.Commit{Parents: []gitx.Hash{"c2"}, Files: map[string]string{
			"f.txt": "one changed\ntwo changed\nthree\n",
		}})
}

func TestAnnotateThreeCommits(t *testing.T) {
	repo := threeCommitRepo()
	sink := newCollectAnnotation()

	err := Annotate(context.Background(), repo, "c3", "f.txt", sink)
	require.NoError(t, err)

	assert.Equal(t, 3, sink.lineCount)
	assert.Equal(t, map[int]gitx.Hash{1: "c3", 2: "c2", 3: "c1"}, sink.lines)

	// Delivery is in ancestry order: the nearest commit's lines first.
	require.Len(t, sink.batches, 3)
	assert.Equal(t, []ResolvedLine{{Line: 1, Commit: "c3"}}, sink.batches[0])
	assert.Equal(t, []ResolvedLine{{Line: 2, Commit: "c2"}}, sink.batches[1])
	assert.Equal(t, []ResolvedLine{{Line: 3, Commit: "c1"}}, sink.batches[2])
}

func TestAnnotateEarlierTree(t *testing.T) {
	repo := threeCommitRepo()
	sink := newCollectAnnotation()

	err := Annotate(context.Background(), repo, "c2", "f.txt", sink)
	require.NoError(t, err)

	assert.Equal(t, map[int]gitx.Hash{1: "c1", 2: "c2", 3: "c1"}, sink.lines)
}

func TestAnnotateSingleCommit(t *testing.T) {
	repo := enginetest.NewRepo().
		Add("root", enginetest.Commit{Files: map[string]string{
			"f.txt": "a\nb\n",
		}})
	sink := newCollectAnnotation()

	err := Annotate(context.Background(), repo, "root", "f.txt", sink)
	require.NoError(t, err)

	assert.Equal(t, map[int]gitx.Hash{1: "root", 2: "root"}, sink.lines)
}

func TestAnnotateCreationBoundary(t *testing.T) {
	// The file appears in c2; untouched lines must blame to c2, not
	// walk past it to c1.
	repo := enginetest.NewRepo().
		Add("c1", enginetest.Commit{Files: map[string]string{
			"other.txt": "unrelated\n",
		}}).
		Add("c2", enginetest.Commit{Parents: []gitx.Hash{"c1"}, Files: map[string]string{
			"other.txt": "unrelated\n",
			"f.txt":     "a\nb\n",
		}}).
		Add("c3", enginetest.Commit{Parents: []gitx.Hash{"c2"}, Files: map[string]string{
			"other.txt": "unrelated\n",
			"f.txt":     "a\nb\nc\n",
		}})
	sink := newCollectAnnotation()

	err := Annotate(context.Background(), repo, "c3", "f.txt", sink)
	require.NoError(t, err)

	assert.Equal(t, map[int]gitx.Hash{1: "c2", 2: "c2", 3: "c3"}, sink.lines)
}

func TestAnnotateFollowsRename(t *testing.T) {
	repo := enginetest.NewRepo().
		Add("c1", enginetest.Commit{Files: map[string]string{
			"old.txt": "a\nb\n",
		}}).
		Add("c2", enginetest.Commit{Parents: []gitx.Hash{"c1"},
			Files:   map[string]string{"new.txt": "a\nb\n"},
			Renames: map[string]string{"new.txt": "old.txt"},
		})
	sink := newCollectAnnotation()

	err := Annotate(context.Background(), repo, "c2", "new.txt", sink)
	require.NoError(t, err)

	// Content is untouched by the rename, so both lines blame to c1.
	assert.Equal(t, map[int]gitx.Hash{1: "c1", 2: "c1"}, sink.lines)
}

func TestAnnotateMergePicksClosestParent(t *testing.T) {
	// The path is absent from the merge's first parent; of the two
	// remaining parents, p2 matches the merged content exactly and p3
	// differs, so the walk follows p2.
	repo := enginetest.NewRepo().
		Add("base", enginetest.Commit{Files: map[string]string{
			"other.txt": "x\n",
		}}).
		Add("p1", enginetest.Commit{Parents: []gitx.Hash{"base"}, Files: map[string]string{
			"other.txt": "x\n",
		}}).
		Add("p2", enginetest.Commit{Parents: []gitx.Hash{"base"}, Files: map[string]string{
			"other.txt": "x\n",
			"f.txt":     "a\nb\n",
		}}).
		Add("p3", enginetest.Commit{Parents: []gitx.Hash{"base"}, Files: map[string]string{
			"other.txt": "x\n",
			"f.txt":     "completely\ndifferent\ncontent\n",
		}}).
		Add("m", enginetest.Commit{Parents: []gitx.Hash{"p1", "p2", "p3"}, Files: map[string]string{
			"other.txt": "x\n",
			"f.txt":     "a\nb\n",
		}})
	sink := newCollectAnnotation()

	err := Annotate(context.Background(), repo, "m", "f.txt", sink)
	require.NoError(t, err)

	assert.Equal(t, map[int]gitx.Hash{1: "p2", 2: "p2"}, sink.lines)
}

func TestAnnotateCanceled(t *testing.T) {
	repo := threeCommitRepo()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Annotate(ctx, repo, "c3", "f.txt", newCollectAnnotation())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAnnotateMissingPath(t *testing.T) {
	repo := threeCommitRepo()

	err := Annotate(context.Background(), repo, "c3", "nope.txt", newCollectAnnotation())
	assert.True(t, gitx.IsNotFound(err))
}

// Package engine computes line provenance for git-tracked files: which
// commit last touched each line of a file at a given tree, and the full
// chain of commits that ever touched one specific line. Walks are
// incremental and deliver partial results in ancestry order so an
// interactive caller can render while a long history is still being
// read.
//
// The engine never opens a repository itself; it reads through the
// narrow Source interface and leaves object access, diffing and rename
// detection to the accessor behind it.
package engine

import (
	"github.com/blametrail/blametrail/gitx"
)

// Source is the read-only repository surface the engine consumes.
// *gitx.Repo implements it; tests substitute an in-memory fake.
type Source interface {
	// Parents returns the ordered parent hashes of a commit.
	Parents(commit gitx.Hash) ([]gitx.Hash, error)
	// BlobLines returns the lines of path at a commit, or an error for
	// which gitx.IsNotFound is true when the path is absent there.
	BlobLines(commit gitx.Hash, path string) ([]string, error)
	// DiffPath diffs a path between two trees. oldPath differs from
	// newPath only across a rename boundary.
	DiffPath(oldCommit gitx.Hash, oldPath string, newCommit gitx.Hash, newPath string) (gitx.FileDiff, error)
	// RenamedFrom reports the pre-rename name of path, if the commit
	// renamed it relative to the given parent.
	RenamedFrom(commit, parent gitx.Hash, path string) (string, bool, error)
	// Commit returns commit metadata.
	Commit(commit gitx.Hash) (gitx.CommitMeta, error)
}

// ResolvedLine assigns one line of the starting tree to the commit
// that introduced its current content.
type ResolvedLine struct {
	Line   int // 1-based line number in the starting tree
	Commit gitx.Hash
}

// AnnotateSink receives annotation results as the ancestry walk makes
// progress. Init is called once, before any Resolve call, with the
// file's line count at the starting tree. Resolve batches arrive in
// ancestry order: lines touched by commits nearest the starting tree
// come first.
type AnnotateSink interface {
	Init(lineCount int)
	Resolve(batch []ResolvedLine)
}

// ChainEntry is one edit in a line's history: the commit that changed
// the line, the line's number in that commit's tree, and its content
// there. Final marks the entry that introduced the line (or the root
// commit, whichever the walk reaches first).
type ChainEntry struct {
	Commit  gitx.Hash
	Line    int
	Content string
	Final   bool
}

// ChainSink receives line-history entries newest-first as the walk
// proceeds.
type ChainSink interface {
	Emit(entry ChainEntry)
}

// AnnotateFunc adapts a function to the AnnotateSink interface when
// the caller does not care about Init.
type AnnotateFunc func(batch []ResolvedLine)

func (f AnnotateFunc) Init(int)                     {}
func (f AnnotateFunc) Resolve(batch []ResolvedLine) { f(batch) }

// ChainFunc adapts a function to the ChainSink interface.
type ChainFunc func(entry ChainEntry)

func (f ChainFunc) Emit(entry ChainEntry) { f(entry) }

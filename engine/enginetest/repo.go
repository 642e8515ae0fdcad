// Package enginetest provides an in-memory engine.Source for tests.
// Histories are declared commit by commit; diffs are computed the same
// way the real accessor computes them, so walks behave identically
// without a git binary or an on-disk repository.
package enginetest

import (
	"fmt"
	"sync"
	"time"

	"github.com/blametrail/blametrail/gitx"
)

// Commit is one declared commit: its parents, its full file contents,
// and any renames it performed (new path -> old path).
type Commit struct {
	Parents []gitx.Hash
	Files   map[string]string
	Renames map[string]string
}

// Repo is an in-memory commit graph implementing engine.Source.
type Repo struct {
	mu      sync.Mutex
	commits map[gitx.Hash]Commit
	order   []gitx.Hash

	// BlobReads counts BlobLines calls per commit/path, for asserting
	// that duplicate cache requests share one walk.
	BlobReads map[string]int
}

// NewRepo returns an empty graph.
func NewRepo() *Repo {
	return &Repo{
		commits:   make(map[gitx.Hash]Commit),
		BlobReads: make(map[string]int),
	}
}

// Add declares a commit. Files hold the complete tree at that commit.
func (r *Repo) Add(hash gitx.Hash, c Commit) *Repo {
	if c.Files == nil {
		c.Files = map[string]string{}
	}
	r.commits[hash] = c
	r.order = append(r.order, hash)
	return r
}

func (r *Repo) commit(hash gitx.Hash) (Commit, error) {
	c, ok := r.commits[hash]
	if !ok {
		return Commit{}, &gitx.RepoError{Op: "commit", Ref: string(hash), Err: fmt.Errorf("unknown commit")}
	}
	return c, nil
}

// Parents implements engine.Source.
func (r *Repo) Parents(hash gitx.Hash) ([]gitx.Hash, error) {
	c, err := r.commit(hash)
	if err != nil {
		return nil, err
	}
	return c.Parents, nil
}

// BlobLines implements engine.Source.
func (r *Repo) BlobLines(hash gitx.Hash, path string) ([]string, error) {
	r.mu.Lock()
	r.BlobReads[string(hash)+":"+path]++
	r.mu.Unlock()

	c, err := r.commit(hash)
	if err != nil {
		return nil, err
	}
	content, ok := c.Files[path]
	if !ok {
		return nil, &gitx.RepoError{Op: "blob", Ref: string(hash), Path: path,
			Err: gitx.NotFound("path " + path + " not present")}
	}
	return gitx.SplitLines(content), nil
}

// DiffPath implements engine.Source using the same line matcher as the
// real accessor.
func (r *Repo) DiffPath(oldCommit gitx.Hash, oldPath string, newCommit gitx.Hash, newPath string) (gitx.FileDiff, error) {
	oldLines, err := r.BlobLines(oldCommit, oldPath)
	if err != nil && !gitx.IsNotFound(err) {
		return gitx.FileDiff{}, err
	}
	newLines, err := r.BlobLines(newCommit, newPath)
	if err != nil && !gitx.IsNotFound(err) {
		return gitx.FileDiff{}, err
	}
	return gitx.FileDiff{
		OldPath: oldPath,
		NewPath: newPath,
		Hunks:   gitx.DiffLines(oldLines, newLines),
	}, nil
}

// RenamedFrom implements engine.Source.
func (r *Repo) RenamedFrom(commit, parent gitx.Hash, path string) (string, bool, error) {
	c, err := r.commit(commit)
	if err != nil {
		return "", false, err
	}
	old, ok := c.Renames[path]
	return old, ok, nil
}

// Commit implements engine.Source. Commit times follow declaration
// order so newer commits sort later.
func (r *Repo) Commit(hash gitx.Hash) (gitx.CommitMeta, error) {
	c, err := r.commit(hash)
	if err != nil {
		return gitx.CommitMeta{}, err
	}
	index := 0
	for i, h := range r.order {
		if h == hash {
			index = i
			break
		}
	}
	return gitx.CommitMeta{
		Hash:    hash,
		Parents: c.Parents,
		Author:  "Test Author",
		Email:   "test@example.com",
		When:    time.Unix(int64(1700000000+index*3600), 0),
		Summary: "commit " + string(hash),
	}, nil
}

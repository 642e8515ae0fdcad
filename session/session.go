package session

import (
	"runtime"

	"github.com/blametrail/blametrail/gitx"
)

// Session wires one repository, one cache with its worker pool, and
// one navigator together for the lifetime of an interactive run.
type Session struct {
	Repo  *gitx.Repo
	Cache *Cache
	Nav   *Navigator

	// Path is the repo-relative path the session started at. The
	// navigator's path is authoritative once backward moves begin,
	// since they can cross rename boundaries.
	Path string
}

// New opens the repository containing file and positions the session
// at the given rev (empty means HEAD) and line.
func New(file, rev string, line int) (*Session, error) {
	repo, err := gitx.Open(file)
	if err != nil {
		return nil, err
	}
	rel, err := repo.RelPath(file)
	if err != nil {
		return nil, err
	}
	tree, err := repo.Resolve(rev)
	if err != nil {
		return nil, err
	}

	workers := runtime.NumCPU()
	if workers > 4 {
		workers = 4
	}
	cache := NewCache(repo, workers)
	nav := NewNavigator(repo, cache, rel, tree, line)

	return &Session{Repo: repo, Cache: cache, Nav: nav, Path: rel}, nil
}

// Annotate requests the annotation of the current tree, starting the
// background walk on first call.
func (s *Session) Annotate() (AnnotationSnapshot, *Sub) {
	return s.Cache.GetOrStart(s.Nav.Tree(), s.Nav.Path())
}

// LineHistory requests the current line's full edit chain.
func (s *Session) LineHistory() (ChainSnapshot, *Sub) {
	return s.Cache.GetOrStartHistory(s.Nav.Tree(), s.Nav.Line(), s.Nav.Path())
}

// CurrentCommit returns the commit blamed for the current line, if the
// annotation has resolved it yet.
func (s *Session) CurrentCommit() (gitx.Hash, bool) {
	snap, ok := s.Cache.Annotation(s.Nav.Tree(), s.Nav.Path())
	if !ok {
		return "", false
	}
	return snap.Line(s.Nav.Line())
}

// Close tears down the background workers. In-flight walks observe
// the cancellation between ancestry steps.
func (s *Session) Close() {
	s.Cache.Close()
}

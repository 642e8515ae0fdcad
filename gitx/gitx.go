// Package gitx provides read-only access to git repositories for blame
// computation. It shells out to the git binary for object reads and
// computes path-restricted diffs in-process. Consumers interact with
// pure Go types; no git plumbing output leaks out of this package.
package gitx

import (
	"strings"
	"time"
)

// Hash identifies a commit. The zero value means "no commit".
type Hash string

// IsZero reports whether h identifies no commit.
func (h Hash) IsZero() bool {
	return h == ""
}

// Short returns the abbreviated form used for display.
func (h Hash) Short() string {
	if len(h) < 8 {
		return string(h)
	}
	return string(h[:8])
}

// CommitMeta holds the commit metadata the blame views display.
type CommitMeta struct {
	Hash    Hash
	Parents []Hash
	Author  string
	Email   string
	When    time.Time
	Summary string
}

// Hunk is one changed region of a path-restricted diff. Starts are
// 1-based; a zero-length side means pure insertion or pure deletion.
// OldStart/NewStart of an empty side is the position the change would
// occupy, matching unified diff conventions.
type Hunk struct {
	OldStart int
	OldLines int
	NewStart int
	NewLines int
}

// FileDiff is the diff of one path between two trees. Hunks are in
// ascending order and do not overlap.
type FileDiff struct {
	OldPath string
	NewPath string
	Hunks   []Hunk
}

// ChangedLines is the total number of lines added plus removed. It is
// the score used when choosing among merge parents.
func (d FileDiff) ChangedLines() int {
	n := 0
	for _, h := range d.Hunks {
		n += h.OldLines + h.NewLines
	}
	return n
}

// SplitLines splits blob content into lines without trailing newlines.
// An empty blob has zero lines; a trailing newline does not produce a
// final empty line, matching what git blame counts.
func SplitLines(content string) []string {
	if content == "" {
		return nil
	}
	content = strings.TrimSuffix(content, "\n")
	return strings.Split(content, "\n")
}

package gitx

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// DiffPath diffs one path between two trees. oldPath and newPath are
// usually equal; they differ across a rename boundary. A missing side
// is treated as empty, so creations and deletions come back as one
// all-insert or all-delete hunk.
//
// Line matching is done in-process on the two blobs; git is only asked
// for object content. Hunks come back in ascending order.
func (r *Repo) DiffPath(oldCommit Hash, oldPath string, newCommit Hash, newPath string) (FileDiff, error) {
	oldLines, err := r.BlobLines(oldCommit, oldPath)
	if err != nil && !IsNotFound(err) {
		return FileDiff{}, err
	}
	newLines, err := r.BlobLines(newCommit, newPath)
	if err != nil && !IsNotFound(err) {
		return FileDiff{}, err
	}
	return FileDiff{
		OldPath: oldPath,
		NewPath: newPath,
		Hunks:   DiffLines(oldLines, newLines),
	}, nil
}

// DiffLines computes the changed regions between two line slices using
// difflib's sequence matcher. Equal opcodes are dropped; everything
// else becomes a Hunk.
func DiffLines(oldLines, newLines []string) []Hunk {
	m := difflib.NewMatcher(oldLines, newLines)
	var hunks []Hunk
	for _, op := range m.GetOpCodes() {
		if op.Tag == 'e' {
			continue
		}
		hunks = append(hunks, Hunk{
			OldStart: op.I1 + 1,
			OldLines: op.I2 - op.I1,
			NewStart: op.J1 + 1,
			NewLines: op.J2 - op.J1,
		})
	}
	return hunks
}

// RenamedFrom reports the old name of path if the commit renamed or
// copied it from somewhere else relative to the given parent. Rename
// detection is git's, via diff-tree -M.
func (r *Repo) RenamedFrom(commit, parent Hash, path string) (string, bool, error) {
	out, err := runGit(r.root, "diff-tree", "-r", "-M", "--name-status",
		"--diff-filter=RC", string(parent), string(commit))
	if err != nil {
		return "", false, &RepoError{Op: "diff", Ref: string(commit), Path: path, Err: err}
	}
	old, ok := parseRenames(out)[path]
	return old, ok, nil
}

// parseRenames parses `diff-tree --name-status` output filtered to
// renames/copies into a newPath -> oldPath map. Lines look like:
//
//	R100<TAB>old/name.go<TAB>new/name.go
func parseRenames(out string) map[string]string {
	renames := make(map[string]string)
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Split(line, "\t")
		if len(fields) != 3 {
			continue
		}
		status := fields[0]
		if status == "" || (status[0] != 'R' && status[0] != 'C') {
			continue
		}
		renames[fields[2]] = fields[1]
	}
	return renames
}

// ShowCommit returns the human-readable `git show --stat` output for a
// commit, used by the show-commit view.
func (r *Repo) ShowCommit(commit Hash) (string, error) {
	out, err := runGit(r.root, "show", "--stat", "--format=medium", string(commit))
	if err != nil {
		return "", &RepoError{Op: "show", Ref: string(commit), Err: err}
	}
	return out, nil
}

// DiffForCommit returns the unified diff a commit applied, optionally
// restricted to one path, used by the show-diff view.
func (r *Repo) DiffForCommit(commit Hash, path string) (string, error) {
	args := []string{"show", "--format=medium", string(commit)}
	if path != "" {
		args = append(args, "--", path)
	}
	out, err := runGit(r.root, args...)
	if err != nil {
		return "", &RepoError{Op: "show", Ref: string(commit), Path: path, Err: err}
	}
	return out, nil
}

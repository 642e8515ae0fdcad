package gitx

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// initTestRepo builds a throwaway repository with two commits touching
// one file and a rename in the second. Tests that need a live git
// binary skip when none is installed.
func initTestRepo(t *testing.T) *Repo {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skipf("git not installed: %v", err)
	}
	dir := t.TempDir()
	git := func(args ...string) string {
		t.Helper()
		out, err := runGit(dir, args...)
		require.NoError(t, err, "git %v", args)
		return out
	}
	git("init", "-q", "-b", "main")
	git("config", "user.name", "Test")
	git("config", "user.email", "test@example.com")

	write := func(name, content string) {
		t.Helper()
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}

	write("file.txt", "one\ntwo\nthree\n")
	git("add", "file.txt")
	git("commit", "-q", "-m", "add file")

	write("file.txt", "one\ntwo changed\nthree\n")
	git("add", "file.txt")
	git("commit", "-q", "-m", "change line two")

	repo, err := Open(dir)
	require.NoError(t, err)
	return repo
}

func TestRepoResolveAndCommit(t *testing.T) {
	repo := initTestRepo(t)

	head, err := repo.Resolve("HEAD")
	require.NoError(t, err)
	assert.Len(t, string(head), 40)

	meta, err := repo.Commit(head)
	require.NoError(t, err)
	assert.Equal(t, head, meta.Hash)
	assert.Equal(t, "change line two", meta.Summary)
	assert.Equal(t, "Test", meta.Author)
	require.Len(t, meta.Parents, 1)

	root, err := repo.Commit(meta.Parents[0])
	require.NoError(t, err)
	assert.Empty(t, root.Parents)
}

func TestRepoResolveBadRef(t *testing.T) {
	repo := initTestRepo(t)
	_, err := repo.Resolve("no-such-ref")
	assert.Error(t, err)
}

func TestRepoBlobLines(t *testing.T) {
	repo := initTestRepo(t)
	head, err := repo.Resolve("")
	require.NoError(t, err)

	lines, err := repo.BlobLines(head, "file.txt")
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two changed", "three"}, lines)

	_, err = repo.BlobLines(head, "missing.txt")
	assert.True(t, IsNotFound(err))
}

func TestRepoBlobLinesIndex(t *testing.T) {
	// A zero commit reads the staged copy from the index, not any
	// committed tree.
	repo := initTestRepo(t)

	path := filepath.Join(repo.Root(), "file.txt")
	require.NoError(t, os.WriteFile(path, []byte("staged\ncontent\n"), 0o644))
	_, err := runGit(repo.Root(), "add", "file.txt")
	require.NoError(t, err)

	lines, err := repo.BlobLines("", "file.txt")
	require.NoError(t, err)
	assert.Equal(t, []string{"staged", "content"}, lines)
}

func TestRepoDiffPath(t *testing.T) {
	repo := initTestRepo(t)
	head, err := repo.Resolve("HEAD")
	require.NoError(t, err)
	parents, err := repo.Parents(head)
	require.NoError(t, err)
	require.Len(t, parents, 1)

	diff, err := repo.DiffPath(parents[0], "file.txt", head, "file.txt")
	require.NoError(t, err)
	require.Len(t, diff.Hunks, 1)
	assert.Equal(t, Hunk{OldStart: 2, OldLines: 1, NewStart: 2, NewLines: 1}, diff.Hunks[0])
}

func TestRepoRenamedFrom(t *testing.T) {
	repo := initTestRepo(t)

	_, err := runGit(repo.Root(), "mv", "file.txt", "renamed.txt")
	require.NoError(t, err)
	_, err = runGit(repo.Root(), "commit", "-q", "-m", "rename")
	require.NoError(t, err)

	head, err := repo.Resolve("HEAD")
	require.NoError(t, err)
	parents, err := repo.Parents(head)
	require.NoError(t, err)

	old, ok, err := repo.RenamedFrom(head, parents[0], "renamed.txt")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "file.txt", old)

	_, ok, err = repo.RenamedFrom(head, parents[0], "unrelated.txt")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRepoRelPath(t *testing.T) {
	repo := initTestRepo(t)

	rel, err := repo.RelPath(filepath.Join(repo.Root(), "sub", "x.go"))
	require.NoError(t, err)
	assert.Equal(t, "sub/x.go", rel)

	_, err = repo.RelPath(filepath.Join(repo.Root(), "..", "outside.go"))
	assert.Error(t, err)
}

func TestRepoShowCommit(t *testing.T) {
	repo := initTestRepo(t)
	head, err := repo.Resolve("HEAD")
	require.NoError(t, err)

	out, err := repo.ShowCommit(head)
	require.NoError(t, err)
	assert.Contains(t, out, "change line two")
}

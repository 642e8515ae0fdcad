package gitx

import (
	"bytes"
	"fmt"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/blametrail/blametrail/logging"
)

// Repo is an open git repository. All methods are synchronous reads
// against the on-disk repository and are safe for concurrent use.
type Repo struct {
	root string // working tree root, absolute

	mu    sync.Mutex
	blobs map[blobKey][]string // blob line cache, never evicted
	metas map[Hash]CommitMeta
}

type blobKey struct {
	commit Hash
	path   string
}

// Open locates the repository containing path and returns a Repo
// rooted at its working tree. The path may be a file inside the
// repository or the repository directory itself.
func Open(path string) (*Repo, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	dir := abs
	if !isDir(dir) {
		dir = filepath.Dir(dir)
	}
	out, err := runGit(dir, "rev-parse", "--show-toplevel")
	if err != nil {
		return nil, &RepoError{Op: "open", Ref: path, Err: err}
	}
	return &Repo{
		root:  strings.TrimSpace(out),
		blobs: make(map[blobKey][]string),
		metas: make(map[Hash]CommitMeta),
	}, nil
}

func isDir(path string) bool {
	cmd := exec.Command("git", "rev-parse", "--is-inside-work-tree")
	cmd.Dir = path
	return cmd.Run() == nil
}

// Root returns the absolute working tree root.
func (r *Repo) Root() string {
	return r.root
}

// RelPath converts an absolute or cwd-relative file path to the
// slash-separated path git uses inside the tree.
func (r *Repo) RelPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(r.root, abs)
	if err != nil {
		return "", err
	}
	if strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("%s is outside repository %s", path, r.root)
	}
	return filepath.ToSlash(rel), nil
}

// Resolve resolves a ref ("HEAD", branch, tag, abbreviated hash) to a
// full commit hash. An empty ref resolves to HEAD.
func (r *Repo) Resolve(ref string) (Hash, error) {
	if ref == "" {
		ref = "HEAD"
	}
	out, err := runGit(r.root, "rev-parse", "--verify", ref+"^{commit}")
	if err != nil {
		return "", &RepoError{Op: "resolve", Ref: ref, Err: err}
	}
	return Hash(strings.TrimSpace(out)), nil
}

// Parents returns the ordered parent hashes of a commit.
func (r *Repo) Parents(commit Hash) ([]Hash, error) {
	meta, err := r.Commit(commit)
	if err != nil {
		return nil, err
	}
	return meta.Parents, nil
}

// commitFormat produces one record per line:
// hash<US>parents<US>author<US>email<US>unix-time<US>summary
const commitFormat = "%H%x1f%P%x1f%an%x1f%ae%x1f%at%x1f%s"

// Commit returns the metadata of a single commit. Results are cached
// for the lifetime of the Repo.
func (r *Repo) Commit(commit Hash) (CommitMeta, error) {
	r.mu.Lock()
	meta, ok := r.metas[commit]
	r.mu.Unlock()
	if ok {
		return meta, nil
	}

	done := logging.Op("commit", "hash", commit.Short())
	out, err := runGit(r.root, "log", "-1", "--format="+commitFormat, string(commit), "--")
	done(err)
	if err != nil {
		return CommitMeta{}, &RepoError{Op: "commit", Ref: string(commit), Err: err}
	}
	meta, err = parseCommitMeta(strings.TrimRight(out, "\n"))
	if err != nil {
		return CommitMeta{}, &RepoError{Op: "commit", Ref: string(commit), Err: err}
	}

	r.mu.Lock()
	r.metas[commit] = meta
	r.mu.Unlock()
	return meta, nil
}

// parseCommitMeta parses one commitFormat record.
func parseCommitMeta(line string) (CommitMeta, error) {
	fields := strings.Split(line, "\x1f")
	if len(fields) != 6 {
		return CommitMeta{}, fmt.Errorf("malformed commit record %q", line)
	}
	meta := CommitMeta{
		Hash:    Hash(fields[0]),
		Author:  fields[2],
		Email:   fields[3],
		Summary: fields[5],
	}
	for _, p := range strings.Fields(fields[1]) {
		meta.Parents = append(meta.Parents, Hash(p))
	}
	if fields[4] != "" {
		sec, err := strconv.ParseInt(fields[4], 10, 64)
		if err != nil {
			return CommitMeta{}, fmt.Errorf("malformed commit time %q", fields[4])
		}
		meta.When = time.Unix(sec, 0)
	}
	return meta, nil
}

// BlobLines returns the content of path at the given commit, split
// into lines. It returns a not-found error (see IsNotFound) when the
// path does not exist in that tree. A zero commit reads the staged
// copy from the index, the newest content git itself knows about.
func (r *Repo) BlobLines(commit Hash, path string) ([]string, error) {
	key := blobKey{commit, path}
	r.mu.Lock()
	lines, ok := r.blobs[key]
	r.mu.Unlock()
	if ok {
		return lines, nil
	}

	spec := string(commit) + ":" + path
	if commit.IsZero() {
		spec = ":0:" + path
	}
	out, err := runGit(r.root, "cat-file", "blob", spec)
	if err != nil {
		if strings.Contains(err.Error(), "does not exist") ||
			strings.Contains(err.Error(), "Not a valid object name") ||
			strings.Contains(err.Error(), "Invalid object name") {
			return nil, &RepoError{Op: "blob", Ref: string(commit), Path: path,
				Err: &errNotFound{fmt.Sprintf("path %s not present", path)}}
		}
		return nil, &RepoError{Op: "blob", Ref: string(commit), Path: path, Err: err}
	}
	lines = SplitLines(out)

	r.mu.Lock()
	r.blobs[key] = lines
	r.mu.Unlock()
	return lines, nil
}

// runGit executes git in dir and returns stdout. Stderr is folded into
// the error so callers can report what git actually complained about.
func runGit(dir string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return "", fmt.Errorf("git %s: %s", args[0], msg)
	}
	return stdout.String(), nil
}

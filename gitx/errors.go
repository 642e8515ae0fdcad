package gitx

import "fmt"

// RepoError is returned for failed repository reads. It carries the
// failing operation and the identifiers involved so walk failures can
// be reported against the exact object that broke.
type RepoError struct {
	Op   string // "resolve", "blob", "diff", "commit", "parents"
	Ref  string // commit hash or ref name, if any
	Path string // path inside the tree, if any
	Err  error
}

func (e *RepoError) Error() string {
	switch {
	case e.Ref != "" && e.Path != "":
		return fmt.Sprintf("git %s %s:%s: %v", e.Op, e.Ref, e.Path, e.Err)
	case e.Ref != "":
		return fmt.Sprintf("git %s %s: %v", e.Op, e.Ref, e.Err)
	default:
		return fmt.Sprintf("git %s: %v", e.Op, e.Err)
	}
}

func (e *RepoError) Unwrap() error {
	return e.Err
}

// errNotFound marks objects or paths absent from a tree. Callers test
// for it with IsNotFound rather than comparing messages.
type errNotFound struct{ msg string }

func (e *errNotFound) Error() string { return e.msg }

// NotFound builds an error satisfying IsNotFound. Accessor
// implementations (including test fakes) use it to signal an absent
// path rather than a repository failure.
func NotFound(msg string) error {
	return &errNotFound{msg}
}

// IsNotFound reports whether err means an object or path does not
// exist at the requested tree, as opposed to a repository failure.
func IsNotFound(err error) bool {
	for err != nil {
		if _, ok := err.(*errNotFound); ok {
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

package interactive

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/blametrail/blametrail/engine"
	"github.com/blametrail/blametrail/gitx"
	"github.com/blametrail/blametrail/session"
)

// buildChainOptions labels each chain entry for the select list:
// hash, date, author, then the line as it looked at that commit.
func buildChainOptions(sess *session.Session, entries []engine.ChainEntry) []huh.Option[int] {
	var options []huh.Option[int]
	for i, e := range entries {
		options = append(options, huh.NewOption(chainLabel(commitMeta(sess, e.Commit), e), i))
	}
	return options
}

func commitMeta(sess *session.Session, commit gitx.Hash) gitx.CommitMeta {
	meta, err := sess.Repo.Commit(commit)
	if err != nil {
		return gitx.CommitMeta{Hash: commit}
	}
	return meta
}

// chainLabel formats one select row. Pure, so the layout is testable
// without a repository.
func chainLabel(meta gitx.CommitMeta, e engine.ChainEntry) string {
	label := e.Commit.Short()
	if !meta.When.IsZero() {
		label += " " + meta.When.Format("2006-01-02")
	}
	if meta.Author != "" {
		label += " " + meta.Author
	}
	label += fmt.Sprintf("  %d: %s", e.Line, strings.TrimSpace(e.Content))
	if e.Final {
		label += " (introduced)"
	}
	return label
}

// printCommit writes the commit details and its diff for the blamed
// path to stdout.
func printCommit(sess *session.Session, commit gitx.Hash) error {
	show, err := sess.Repo.ShowCommit(commit)
	if err != nil {
		return err
	}
	fmt.Print(show)

	diff, err := sess.Repo.DiffForCommit(commit, sess.Path)
	if err != nil {
		return err
	}
	fmt.Print(diff)
	return nil
}

// parseLine validates a line-number input against the file length.
func parseLine(s string, max int) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("not a number: %s", s)
	}
	if n < 1 || n > max {
		return 0, fmt.Errorf("line %d out of range (1-%d)", n, max)
	}
	return n, nil
}

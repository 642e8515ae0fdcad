// Package interactive implements the non-TUI quick mode: pick a line,
// walk its edit history, inspect the chosen commit. It reuses the
// engine synchronously; there is no background scheduling here.
package interactive

import (
	"context"
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/blametrail/blametrail/engine"
	"github.com/blametrail/blametrail/session"
)

// Run starts the quick picker for one file. rev selects the starting
// tree (empty means HEAD); line preselects the line, zero prompts for
// one.
func Run(file, rev string, line int) error {
	sess, err := session.New(file, rev, line)
	if err != nil {
		return err
	}
	defer sess.Close()

	lines, err := sess.Repo.BlobLines(sess.Nav.Tree(), sess.Path)
	if err != nil {
		return err
	}
	if line < 1 {
		line, err = promptLine(lines)
		if err != nil {
			return err // cancelled
		}
	}
	if line > len(lines) {
		return fmt.Errorf("line %d out of range (file has %d lines)", line, len(lines))
	}

	var entries []engine.ChainEntry
	err = engine.History(context.Background(), sess.Repo, sess.Nav.Tree(), line, sess.Path,
		engine.ChainFunc(func(e engine.ChainEntry) {
			entries = append(entries, e)
		}))
	if err != nil {
		return fmt.Errorf("line history failed: %w", err)
	}

	options := buildChainOptions(sess, entries)
	if len(options) == 0 {
		fmt.Println("No history for this line")
		return nil
	}

	var pick int
	err = huh.NewSelect[int]().
		Title(fmt.Sprintf("History of %s:%d", sess.Path, line)).
		Options(options...).
		Value(&pick).
		Run()
	if err != nil {
		return nil // user cancelled
	}

	return printCommit(sess, entries[pick].Commit)
}

// promptLine asks for a 1-based line number within the file.
func promptLine(lines []string) (int, error) {
	var input string
	err := huh.NewInput().
		Title(fmt.Sprintf("Line number (1-%d)", len(lines))).
		Validate(func(s string) error {
			_, err := parseLine(s, len(lines))
			return err
		}).
		Value(&input).
		Run()
	if err != nil {
		return 0, err
	}
	return parseLine(input, len(lines))
}

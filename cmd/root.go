// Package cmd wires the command line surface: one root command that
// opens a file's blame view, with flags for the starting revision and
// line, logging, and the non-TUI quick mode.
package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/blametrail/blametrail/interactive"
	"github.com/blametrail/blametrail/logging"
	"github.com/blametrail/blametrail/session"
	"github.com/blametrail/blametrail/ui"
)

var (
	flagRev      string
	flagLine     int
	flagLogFile  string
	flagLogLevel string
	flagQuick    bool
)

var rootCmd = &cobra.Command{
	Use:   "blametrail [flags] <file>",
	Short: "Interactive line history for git-tracked files",
	Long: `blametrail annotates a file with the commit that last touched each
line and lets you walk every line's edit history interactively:
step to older revisions, undo back, inspect commits and diffs.`,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagLogFile != "" {
			if err := logging.Init(flagLogFile, logging.LevelFromString(flagLogLevel)); err != nil {
				return fmt.Errorf("open log file: %w", err)
			}
		}

		file := args[0]
		if flagQuick {
			return interactive.Run(file, flagRev, flagLine)
		}

		sess, err := session.New(file, flagRev, flagLine)
		if err != nil {
			return err
		}
		defer sess.Close()

		p := tea.NewProgram(ui.NewApp(sess), tea.WithAltScreen())
		_, err = p.Run()
		return err
	},
}

func init() {
	rootCmd.Flags().StringVar(&flagRev, "rev", "", "start at this revision instead of HEAD")
	rootCmd.Flags().IntVar(&flagLine, "line", 1, "start at this line")
	rootCmd.Flags().StringVar(&flagLogFile, "log-file", "", "write debug logs to this file")
	rootCmd.Flags().StringVar(&flagLogLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.Flags().BoolVarP(&flagQuick, "interactive", "i", false, "quick mode: pick a line, print its history")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

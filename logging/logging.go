// Package logging sets up the file-backed logger. The TUI owns the
// terminal, so log output always goes to a file; with no file
// configured, logging is disabled entirely.
package logging

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

var (
	logger     *log.Logger
	loggerOnce sync.Once
	logEnabled bool
)

// init picks up configuration from the environment. Set
// BLAMETRAIL_LOG_FILE to enable logging and BLAMETRAIL_LOG_LEVEL to
// control verbosity (debug, info, warn, error).
func init() {
	logPath := os.Getenv("BLAMETRAIL_LOG_FILE")
	if logPath == "" {
		return
	}
	if err := Init(logPath, LevelFromString(os.Getenv("BLAMETRAIL_LOG_LEVEL"))); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}
}

// LevelFromString maps a level name to a log level, defaulting to info.
func LevelFromString(s string) log.Level {
	switch strings.ToLower(s) {
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// Init points the logger at a file. The first call wins; later calls
// are no-ops so the env-var setup and the --log-file flag don't fight.
func Init(logPath string, level log.Level) error {
	var initErr error
	loggerOnce.Do(func() {
		if logPath == "" {
			return
		}
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			initErr = err
			return
		}
		logger = log.NewWithOptions(f, log.Options{
			Level:           level,
			ReportTimestamp: true,
		})
		logEnabled = true
	})
	return initErr
}

// SetLogger injects a custom logger, for tests.
func SetLogger(l *log.Logger) {
	logger = l
	logEnabled = l != nil
}

// Debugf logs at debug level when logging is enabled.
func Debugf(format string, args ...any) {
	if logEnabled && logger != nil {
		logger.Debugf(format, args...)
	}
}

// Errorf logs at error level when logging is enabled.
func Errorf(format string, args ...any) {
	if logEnabled && logger != nil {
		logger.Errorf(format, args...)
	}
}

// Op times an operation. The returned func is called on completion
// with the operation's error.
//
// Usage:
//
//	done := logging.Op("annotate", "tree", tree.Short())
//	defer done(err)
func Op(op string, keyvals ...any) func(error) {
	if !logEnabled || logger == nil {
		return func(error) {}
	}
	start := time.Now()
	return func(err error) {
		args := make([]any, 0, len(keyvals)+4)
		args = append(args, "op", op, "duration", time.Since(start).String())
		args = append(args, keyvals...)
		if err != nil {
			args = append(args, "error", err.Error())
			logger.Error("operation failed", args...)
			return
		}
		logger.Debug("operation complete", args...)
	}
}

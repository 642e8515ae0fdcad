package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestLevelFromString(t *testing.T) {
	cases := map[string]log.Level{
		"debug":   log.DebugLevel,
		"warn":    log.WarnLevel,
		"warning": log.WarnLevel,
		"error":   log.ErrorLevel,
		"info":    log.InfoLevel,
		"":        log.InfoLevel,
		"bogus":   log.InfoLevel,
	}
	for in, want := range cases {
		if got := LevelFromString(in); got != want {
			t.Errorf("LevelFromString(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestDebugfWritesThroughInjectedLogger(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel}))
	defer SetLogger(nil)

	Debugf("scheduling annotation walk %s %s", "abcd1234", "main.go")
	if !strings.Contains(buf.String(), "scheduling annotation walk abcd1234 main.go") {
		t.Fatalf("debug output missing, got %q", buf.String())
	}
}

func TestDebugfDisabledWithoutLogger(t *testing.T) {
	SetLogger(nil)
	// Must not panic with logging disabled.
	Debugf("dropped %d", 1)
	Errorf("dropped %d", 2)
	Op("noop")(nil)
}

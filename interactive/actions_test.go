package interactive

import (
	"strings"
	"testing"
	"time"

	"github.com/blametrail/blametrail/engine"
	"github.com/blametrail/blametrail/gitx"
)

func TestChainLabel(t *testing.T) {
	meta := gitx.CommitMeta{
		Hash:   "abcdef1234567890",
		Author: "Ada",
		When:   time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	entry := engine.ChainEntry{Commit: "abcdef1234567890", Line: 12, Content: "  return nil\n"}

	label := chainLabel(meta, entry)
	for _, want := range []string{"abcdef12", "2024-03-01", "Ada", "12: return nil"} {
		if !strings.Contains(label, want) {
			t.Errorf("label %q missing %q", label, want)
		}
	}
	if strings.Contains(label, "(introduced)") {
		t.Errorf("label %q should not mark a non-final entry", label)
	}
}

func TestChainLabelFinalEntry(t *testing.T) {
	entry := engine.ChainEntry{Commit: "1234567890abcdef", Line: 1, Content: "x", Final: true}
	label := chainLabel(gitx.CommitMeta{}, entry)
	if !strings.Contains(label, "(introduced)") {
		t.Errorf("label %q missing introduction marker", label)
	}
}

func TestChainLabelWithoutMeta(t *testing.T) {
	entry := engine.ChainEntry{Commit: "1234567890abcdef", Line: 3, Content: "y"}
	label := chainLabel(gitx.CommitMeta{}, entry)
	if !strings.HasPrefix(label, "12345678") {
		t.Errorf("label %q should start with the short hash", label)
	}
}

func TestParseLine(t *testing.T) {
	tests := []struct {
		input   string
		max     int
		want    int
		wantErr bool
	}{
		{"12", 100, 12, false},
		{" 3 ", 10, 3, false},
		{"0", 10, 0, true},
		{"11", 10, 0, true},
		{"abc", 10, 0, true},
		{"", 10, 0, true},
	}
	for _, tt := range tests {
		got, err := parseLine(tt.input, tt.max)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseLine(%q, %d) error = %v, wantErr %v", tt.input, tt.max, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parseLine(%q, %d) = %d, want %d", tt.input, tt.max, got, tt.want)
		}
	}
}

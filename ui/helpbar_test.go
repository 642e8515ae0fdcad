package ui

import (
	"testing"
)

func TestActionHintsPerMode(t *testing.T) {
	tests := []struct {
		name          string
		ctx           HelpBarContext
		expectedCount int
		firstKey      string
	}{
		{
			name:          "Blame view without active search",
			ctx:           HelpBarContext{Mode: modeBlame},
			expectedCount: 6,
			firstKey:      "←",
		},
		{
			name:          "Blame view with active search adds repeat hint",
			ctx:           HelpBarContext{Mode: modeBlame, HasSearch: true},
			expectedCount: 7,
			firstKey:      "←",
		},
		{
			name:          "Pager overlay",
			ctx:           HelpBarContext{Mode: modePager},
			expectedCount: 2,
			firstKey:      "↑↓",
		},
		{
			name:          "History overlay",
			ctx:           HelpBarContext{Mode: modeHistory},
			expectedCount: 2,
			firstKey:      "↑↓",
		},
		{
			name:          "Prompt",
			ctx:           HelpBarContext{Mode: modePrompt},
			expectedCount: 2,
			firstKey:      "↵",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hints := actionHints(tt.ctx)
			if len(hints) != tt.expectedCount {
				t.Errorf("Expected %d hints, got %d", tt.expectedCount, len(hints))
			}
			if len(hints) > 0 && hints[0].Key != tt.firstKey {
				t.Errorf("Expected first key %q, got %q", tt.firstKey, hints[0].Key)
			}
		})
	}
}

func TestNavigationHintsOnlyInBlameView(t *testing.T) {
	if hints := navigationHints(HelpBarContext{Mode: modeBlame}); len(hints) != 3 {
		t.Errorf("Expected 3 navigation hints in blame view, got %d", len(hints))
	}
	for _, mode := range []viewMode{modePager, modeHistory, modePrompt} {
		if hints := navigationHints(HelpBarContext{Mode: mode}); len(hints) != 0 {
			t.Errorf("Expected no navigation hints in mode %d, got %d", mode, len(hints))
		}
	}
}

func TestAlwaysHints(t *testing.T) {
	hints := alwaysHints()
	if len(hints) != 2 {
		t.Fatalf("Expected 2 always hints, got %d", len(hints))
	}
	expectedKeys := []string{"?", "q"}
	for i, k := range expectedKeys {
		if hints[i].Key != k {
			t.Errorf("Expected key %q, got %q", k, hints[i].Key)
		}
	}
}

func TestHelpHintFormat(t *testing.T) {
	formatted := HelpHint{Key: "c", Desc: "copy"}.Format()
	if len(formatted) < len("c copy") {
		t.Errorf("Formatted hint seems too short: %q", formatted)
	}
}

func TestFormatHints(t *testing.T) {
	if got := formatHints(nil); got != "" {
		t.Errorf("Expected empty result for no hints, got %q", got)
	}
	if got := formatHints([]HelpHint{{Key: "q", Desc: "quit"}}); got == "" {
		t.Error("Expected non-empty result for one hint")
	}
}

func TestRenderHelpBar(t *testing.T) {
	for _, width := range []int{120, 80, 20} {
		if got := RenderHelpBar(HelpBarContext{Mode: modeBlame}, width); got == "" {
			t.Errorf("Expected non-empty help bar at width %d", width)
		}
	}
}

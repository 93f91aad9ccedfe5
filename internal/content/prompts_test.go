package content

import (
	"fmt"
	"slices"
	"testing"
)

func TestPrompts(t *testing.T) {
	if len(Prompts) != 30 {
		t.Fatalf("len(Prompts) = %d, want 30", len(Prompts))
	}
	for i, p := range Prompts {
		if p == "" {
			t.Errorf("prompt %d is empty", i)
		}
	}
}

func TestDailyPromptStable(t *testing.T) {
	for _, date := range []string{"2024-06-01", "2024-06-04", "2025-01-01"} {
		first := DailyPrompt(date)
		if !slices.Contains(Prompts, first) {
			t.Errorf("DailyPrompt(%s) = %q, not in the set", date, first)
		}
		if again := DailyPrompt(date); again != first {
			t.Errorf("DailyPrompt(%s) changed: %q then %q", date, first, again)
		}
	}

	seen := map[string]bool{}
	for d := 1; d <= 28; d++ {
		seen[DailyPrompt(fmt.Sprintf("2024-02-%02d", d))] = true
	}
	if len(seen) < 2 {
		t.Error("DailyPrompt returned one prompt for a whole month")
	}
}

func TestRandomPrompt(t *testing.T) {
	for i := 0; i < 20; i++ {
		if p := RandomPrompt(); !slices.Contains(Prompts, p) {
			t.Fatalf("RandomPrompt() = %q, not in the set", p)
		}
	}
}

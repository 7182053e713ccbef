package match

import (
	"strings"
	"testing"
)

func TestScore(t *testing.T) {
	tests := []struct {
		target, label string
		want          int
	}{
		{"submit", "Submit", 100},
		{"Submit", "submit", 100},
		{"log", "Login", 50 + 3},
		{"sign in to your account", "Sign in to your account now", 50 + 23},
		{strings.Repeat("a", 40), strings.Repeat("a", 50), 50 + 30},
		{"click the big red button", "button", 20},
		{"submit", "Cancel", 0},
		{"", "Submit", 0},
		{"submit", "", 0},
	}
	for _, tt := range tests {
		if got := Score(tt.target, tt.label); got != tt.want {
			t.Errorf("Score(%q, %q) = %d, want %d", tt.target, tt.label, got, tt.want)
		}
	}
}

func TestBest_ExactBeatsContainment(t *testing.T) {
	// A button labeled exactly "Submit" must win over "Submit Form".
	res := Best("Submit", []string{"Submit Form", "Submit"})
	if !res.Matched {
		t.Fatalf("expected a match, got reason %q", res.Reason)
	}
	if res.Index != 1 || res.Label != "Submit" {
		t.Fatalf("expected exact match at index 1, got index %d label %q", res.Index, res.Label)
	}
	if res.Score != 100 {
		t.Fatalf("expected score 100, got %d", res.Score)
	}
}

func TestBest_StableOnTies(t *testing.T) {
	// Equal top scores keep the first candidate in document order.
	res := Best("next", []string{"Next page", "Next page"})
	if !res.Matched {
		t.Fatalf("expected a match, got reason %q", res.Reason)
	}
	if res.Index != 0 {
		t.Fatalf("tie must keep first-seen candidate, got index %d", res.Index)
	}
}

func TestBest_Threshold(t *testing.T) {
	// Reverse containment scores 20 and must never be selected.
	res := Best("open the settings menu please", []string{"settings", "menu"})
	if res.Matched {
		t.Fatalf("score-20 candidates must not be selected, got %+v", res)
	}
	if !strings.Contains(res.Reason, "no good match") {
		t.Fatalf("expected descriptive reason, got %q", res.Reason)
	}
}

func TestBest_EmptyTarget(t *testing.T) {
	res := Best("   ", []string{"Submit"})
	if res.Matched {
		t.Fatal("empty target must fail")
	}
	if res.Reason != "missing target" {
		t.Fatalf("expected %q, got %q", "missing target", res.Reason)
	}
}

func TestBest_EmptyCandidates(t *testing.T) {
	for _, labels := range [][]string{nil, {}, {"", "  "}} {
		res := Best("submit", labels)
		if res.Matched {
			t.Fatalf("expected failure for candidates %v", labels)
		}
		if res.Reason == "" {
			t.Fatal("failure must carry a reason")
		}
	}
}

func TestBest_NeverBelowThreshold(t *testing.T) {
	targets := []string{"go", "submit the order", "x"}
	labels := []string{"Home", "About us", "Contact", "submit", "the"}
	for _, target := range targets {
		res := Best(target, labels)
		if res.Matched && res.Score < AcceptThreshold {
			t.Fatalf("Best(%q) selected below threshold: %+v", target, res)
		}
	}
}

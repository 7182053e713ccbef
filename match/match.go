// Package match resolves a free-text target phrase against the visible
// labels of clickable page elements. It is the core of the "click <target>"
// command: candidates are enumerated fresh from the live page, scored here,
// and the winner is clicked exactly once by the caller.
package match

import (
	"fmt"
	"strings"
)

// AcceptThreshold is the minimum score a candidate must reach to be
// selected. Reverse containment alone (score 20) never qualifies.
const AcceptThreshold = 30

// Result is the outcome of a matching pass. A negative result is a normal
// value, not an error: Reason carries the user-facing explanation.
type Result struct {
	Matched bool   `json:"matched"`
	Index   int    `json:"index,omitempty"`
	Label   string `json:"label,omitempty"`
	Score   int    `json:"score,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

// Score rates how well a candidate label answers the target phrase.
// Both inputs are compared case-insensitively:
//
//	exact equality            → 100
//	label contains target     → 50 + min(30, len(target))
//	target contains label     → 20
//	no relationship           → 0
func Score(target, label string) int {
	t := strings.ToLower(strings.TrimSpace(target))
	l := strings.ToLower(strings.TrimSpace(label))
	if t == "" || l == "" {
		return 0
	}
	switch {
	case l == t:
		return 100
	case strings.Contains(l, t):
		bonus := len(t)
		if bonus > 30 {
			bonus = 30
		}
		return 50 + bonus
	case strings.Contains(t, l):
		return 20
	default:
		return 0
	}
}

// Best scores every candidate label against target and returns the winner.
// Only a strictly greater score replaces the running best, so among equal
// top scores the first candidate in document order wins. Candidates with an
// empty label are excluded. The best match is accepted only at or above
// AcceptThreshold.
func Best(target string, labels []string) Result {
	target = strings.TrimSpace(target)
	if target == "" {
		return Result{Reason: "missing target"}
	}

	best := Result{Index: -1}
	for i, label := range labels {
		if strings.TrimSpace(label) == "" {
			continue
		}
		s := Score(target, label)
		if s > best.Score {
			best = Result{Index: i, Label: strings.TrimSpace(label), Score: s}
		}
	}

	if best.Index < 0 || best.Score < AcceptThreshold {
		return Result{Reason: fmt.Sprintf("no good match for %q", target)}
	}
	best.Matched = true
	return best
}

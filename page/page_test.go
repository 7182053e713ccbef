package page

import (
	"strings"
	"testing"

	"github.com/ysmood/gson"
)

func TestClickResult(t *testing.T) {
	out := clickResult(gson.NewFrom(`{"ok": true}`), "Submit")
	if !out.Clicked || out.Label != "Submit" {
		t.Fatalf("ok verdict: %+v", out)
	}

	// Label at the matched index changed between match and click: no click.
	out = clickResult(gson.NewFrom(`{"ok": false, "reason": "changed"}`), "Submit")
	if out.Clicked {
		t.Fatal("changed verdict must not report a click")
	}
	if out.Reason != "page changed before click" {
		t.Fatalf("reason = %q", out.Reason)
	}

	out = clickResult(gson.NewFrom(`{"ok": false, "reason": "gone"}`), "Submit")
	if out.Clicked || out.Reason != "element disappeared before click" {
		t.Fatalf("gone verdict: %+v", out)
	}
}

func TestClickScriptGuardsLabel(t *testing.T) {
	// The click script must re-check the label before clicking: the DOM can
	// mutate between the candidate enumeration and the click evaluation, and
	// then the index alone would address a different element.
	for _, want := range []string{"!== label", "reason: 'changed'"} {
		if !strings.Contains(clickByIndexJS, want) {
			t.Fatalf("click script missing label guard fragment %q", want)
		}
	}
}

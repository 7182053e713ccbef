package command

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		raw    string
		kind   Kind
		target string
	}{
		{"summarise", Summarise, ""},
		{"summarize", Summarise, ""},
		{"  Summarise  ", Summarise, ""},
		{"read summary", ReadSummary, ""},
		{"extract text", ExtractText, ""},
		{"focus mode on", FocusOn, ""},
		{"focus mode off", FocusOff, ""},
		{"scroll down", ScrollDown, ""},
		{"scroll up", ScrollUp, ""},
		{"click Submit", Click, "Submit"},
		{"Click  Sign In  ", Click, "Sign In"},
		{"clicking noises", Unknown, ""},
		{"make me a sandwich", Unknown, ""},
		{"", Unknown, ""},
	}
	for _, tt := range tests {
		cmd := Parse(tt.raw)
		if cmd.Kind != tt.kind {
			t.Errorf("Parse(%q).Kind = %v, want %v", tt.raw, cmd.Kind, tt.kind)
		}
		if cmd.Target != tt.target {
			t.Errorf("Parse(%q).Target = %q, want %q", tt.raw, cmd.Target, tt.target)
		}
		if cmd.Raw != tt.raw {
			t.Errorf("Parse(%q).Raw = %q, want input preserved", tt.raw, cmd.Raw)
		}
	}
}

func TestKindString(t *testing.T) {
	kinds := []Kind{Summarise, ReadSummary, ExtractText, FocusOn, FocusOff, ScrollDown, ScrollUp}
	for _, k := range kinds {
		// Canonical forms must round-trip through Parse.
		if got := Parse(k.String()).Kind; got != k {
			t.Errorf("Parse(%q) = %v, want %v", k.String(), got, k)
		}
	}
}

// Package command defines the fixed page-control vocabulary and its parser.
//
// Commands arrive from two producers: the local control surface (a button
// maps directly to one Kind) and the assistant's intent interpretation
// (free text normalised server-side to one vocabulary entry). Both funnel
// into Parse, and the session dispatches on the resulting tagged value —
// adding a command means adding a Kind, not another string comparison at
// the call site.
package command

import "strings"

// Kind tags one entry of the command vocabulary.
type Kind int

const (
	Unknown Kind = iota
	Summarise
	ReadSummary
	ExtractText
	FocusOn
	FocusOff
	ScrollDown
	ScrollUp
	Click
)

// String returns the canonical vocabulary form of the kind.
func (k Kind) String() string {
	switch k {
	case Summarise:
		return "summarise"
	case ReadSummary:
		return "read summary"
	case ExtractText:
		return "extract text"
	case FocusOn:
		return "focus mode on"
	case FocusOff:
		return "focus mode off"
	case ScrollDown:
		return "scroll down"
	case ScrollUp:
		return "scroll up"
	case Click:
		return "click"
	default:
		return "unknown"
	}
}

// Command is one parsed instruction. Target is set only for Click. Raw
// preserves the input verbatim for the fallback display.
type Command struct {
	Kind   Kind
	Target string
	Raw    string
}

// Parse normalises raw input and maps it onto the vocabulary. Unrecognised
// input yields Kind Unknown with Raw preserved — the caller shows it back
// with a usage hint rather than treating it as an error.
func Parse(raw string) Command {
	c := strings.ToLower(strings.TrimSpace(raw))

	switch c {
	case "summarise", "summarize":
		return Command{Kind: Summarise, Raw: raw}
	case "read summary":
		return Command{Kind: ReadSummary, Raw: raw}
	case "extract text":
		return Command{Kind: ExtractText, Raw: raw}
	case "focus mode on":
		return Command{Kind: FocusOn, Raw: raw}
	case "focus mode off":
		return Command{Kind: FocusOff, Raw: raw}
	case "scroll down":
		return Command{Kind: ScrollDown, Raw: raw}
	case "scroll up":
		return Command{Kind: ScrollUp, Raw: raw}
	}

	if strings.HasPrefix(c, "click ") {
		// Strip the prefix from the original input so the target keeps its
		// casing for display; matching is case-insensitive anyway.
		target := strings.TrimSpace(strings.TrimSpace(raw)[len("click "):])
		return Command{Kind: Click, Target: target, Raw: raw}
	}

	return Command{Kind: Unknown, Raw: raw}
}

// UsageHint lists the commands a user can try, shown on the fallback path.
const UsageHint = "Try: summarise / extract text / scroll down / click <target>"

// Package snapshot produces the normalized text of a web page.
//
// A snapshot is a single string: visible text, whitespace-collapsed,
// trimmed, and truncated to MaxChars. It is created fresh on every request
// and never cached — the page may have mutated between calls. Two producers
// exist: the live-tab path (rendered innerText out of the browser, already
// plain text) and the HTTP-only path (raw HTML parsed here).
package snapshot

import (
	"io"
	"strings"
	"unicode"
)

// MaxChars caps snapshot length. 12,000 characters keeps the full prompt
// within what the assistant service accepts on its side.
const MaxChars = 12000

// Normalize collapses whitespace runs to single spaces, trims, and
// truncates to MaxChars. Safe on any input; empty in, empty out.
func Normalize(text string) string {
	return Truncate(collapse(text), MaxChars)
}

// Truncate cuts text to at most max characters without splitting a rune.
func Truncate(text string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max])
}

// FromHTML parses raw HTML and returns the normalized visible text of its
// primary content region: the first <article> or <main> element if present,
// otherwise <body>. Script, style, nav, header, footer, and hidden-styled
// subtrees are skipped. Always succeeds with at worst an empty string when
// the markup parses; a parse error is returned as-is.
func FromHTML(r io.Reader) (string, error) {
	text, err := visibleText(r)
	if err != nil {
		return "", err
	}
	return Normalize(text), nil
}

func collapse(text string) string {
	var sb strings.Builder
	sb.Grow(len(text))
	prevSpace := false
	for _, r := range text {
		if unicode.IsSpace(r) {
			if !prevSpace && sb.Len() > 0 {
				sb.WriteByte(' ')
				prevSpace = true
			}
		} else {
			sb.WriteRune(r)
			prevSpace = false
		}
	}
	return strings.TrimRight(sb.String(), " ")
}

package snapshot

import (
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"   ", ""},
		{"hello", "hello"},
		{"hello   world", "hello world"},
		{"  a \t b \n\n c  ", "a b c"},
		{"one\r\ntwo", "one two"},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalize_Bound(t *testing.T) {
	in := strings.Repeat("word ", 10000)
	out := Normalize(in)
	if n := len([]rune(out)); n > MaxChars {
		t.Fatalf("normalized length %d exceeds bound %d", n, MaxChars)
	}
	if strings.Contains(out, "  ") {
		t.Fatal("normalized output contains a whitespace run")
	}
}

func TestTruncate_RuneSafe(t *testing.T) {
	in := strings.Repeat("é", 10)
	out := Truncate(in, 4)
	if out != "éééé" {
		t.Fatalf("Truncate split runes: %q", out)
	}
}

func TestFromHTML_PrefersArticle(t *testing.T) {
	page := `<html><body>
		<nav>Site navigation</nav>
		<article><p>Main   story	text.</p></article>
		<footer>Footer junk</footer>
	</body></html>`

	text, err := FromHTML(strings.NewReader(page))
	if err != nil {
		t.Fatal(err)
	}
	if text != "Main story text." {
		t.Fatalf("got %q", text)
	}
}

func TestFromHTML_FallsBackToBody(t *testing.T) {
	page := `<html><body>
		<script>var x = 1;</script>
		<div style="display: none">hidden text</div>
		<p>Visible paragraph.</p>
	</body></html>`

	text, err := FromHTML(strings.NewReader(page))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(text, "hidden") || strings.Contains(text, "var x") {
		t.Fatalf("boilerplate leaked into snapshot: %q", text)
	}
	if !strings.Contains(text, "Visible paragraph.") {
		t.Fatalf("body text missing: %q", text)
	}
}

func TestFromHTML_Empty(t *testing.T) {
	text, err := FromHTML(strings.NewReader("<html><body></body></html>"))
	if err != nil {
		t.Fatal(err)
	}
	if text != "" {
		t.Fatalf("expected empty snapshot, got %q", text)
	}
}

func TestMarkdown(t *testing.T) {
	md := Markdown(`<article><h1>Title</h1><p>Some <strong>bold</strong> text.</p></article>`, "https://example.com")
	if !strings.Contains(md, "Title") || !strings.Contains(md, "bold") {
		t.Fatalf("markdown lost content: %q", md)
	}
}

func TestMarkdown_StripsScripts(t *testing.T) {
	md := Markdown(`<p>ok</p><script>alert(1)</script>`, "https://example.com")
	if strings.Contains(md, "alert") {
		t.Fatalf("script content leaked: %q", md)
	}
}

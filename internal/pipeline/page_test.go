package pipeline

// Notes:
// - BuildPage output is checked by substring: the exact template
//   whitespace is not part of the contract.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestBuildPage - Paper box layout
// ---------------------------------------------------------------------------

func TestBuildPage(t *testing.T) {
	t.Parallel()

	page := BuildPage(Page{
		Title:    "A4 · 210 × 297mm",
		Fragment: Fragment{Body: "<p>hi</p>", Styles: []string{"p { color: blue; }"}},
		CSS:      "body { font-family: serif; }",
		WidthPx:  793.7008,
		HeightPx: 1122.5197,
	})

	checks := []string{
		"<!DOCTYPE html>",
		`<div id="paper">`,
		"<p>hi</p>",
		"width: 793.7008px !important",
		"height: 1122.5197px !important",
		"p { color: blue; }",
		"body { font-family: serif; }",
		"<title>A4 · 210 × 297mm</title>",
	}
	for _, want := range checks {
		if !strings.Contains(page, want) {
			t.Errorf("page missing %q", want)
		}
	}

	// Surface styles come before the user CSS, and both before the pinned box.
	surface := strings.Index(page, "color: blue")
	user := strings.Index(page, "font-family: serif")
	pinned := strings.Index(page, "!important")
	if surface >= user || user >= pinned {
		t.Errorf("style order = surface %d, user %d, pinned %d", surface, user, pinned)
	}
}

func TestBuildPage_EscapesTitleAndStyles(t *testing.T) {
	t.Parallel()

	page := BuildPage(Page{
		Title:    `<script>x</script>`,
		Fragment: Fragment{Styles: []string{"p{}</style><script>bad()</script>"}},
		WidthPx:  10,
		HeightPx: 10,
	})

	if strings.Contains(page, "<title><script>") {
		t.Error("title was not escaped")
	}
	if strings.Contains(page, "</style><script>bad()") {
		t.Error("style content closed the element early")
	}
}

func TestBuildPage_DefaultTitle(t *testing.T) {
	t.Parallel()

	page := BuildPage(Page{WidthPx: 1, HeightPx: 1})
	if !strings.Contains(page, "<title>Surface</title>") {
		t.Error("empty title should default to Surface")
	}
}

package paperpdf

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestSurfaces - HTML and Markdown constructors
// ---------------------------------------------------------------------------

func TestNewHTMLSurface(t *testing.T) {
	t.Parallel()

	s := NewHTMLSurface("id-1", "<p>x</p>")
	if s.ID != "id-1" || s.HTML != "<p>x</p>" || s.SourceDir != "" {
		t.Errorf("NewHTMLSurface() = %+v", s)
	}
}

func TestNewMarkdownSurface(t *testing.T) {
	t.Parallel()

	s, err := NewMarkdownSurface(context.Background(), "md", "# Plan\n\n- one\n- two")
	if err != nil {
		t.Fatalf("NewMarkdownSurface() error = %v", err)
	}
	if s.ID != "md" {
		t.Errorf("ID = %q, want md", s.ID)
	}
	if !strings.Contains(s.HTML, "<h1") || !strings.Contains(s.HTML, "<li>one</li>") {
		t.Errorf("HTML = %q", s.HTML)
	}
}

func TestNewMarkdownSurface_Empty(t *testing.T) {
	t.Parallel()

	for _, md := range []string{"", "   ", "\n\t\n"} {
		if _, err := NewMarkdownSurface(context.Background(), "md", md); !errors.Is(err, ErrEmptyMarkdown) {
			t.Errorf("NewMarkdownSurface(%q) error = %v, want ErrEmptyMarkdown", md, err)
		}
	}
}

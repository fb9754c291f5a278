package paperpdf

import (
	"context"
	"strings"

	"github.com/alnah/go-paperpdf/internal/pipeline"
)

// Surface is the rendered region to export. The pipeline never inspects
// the markup; it only lays it out on the page and captures its pixels.
type Surface struct {
	// ID keys the re-entrancy guard: one export per surface at a time.
	ID string

	// HTML is a full document or a fragment.
	HTML string

	// SourceDir resolves relative image paths (optional).
	SourceDir string
}

// NewHTMLSurface wraps HTML content as a surface.
func NewHTMLSurface(id, htmlContent string) *Surface {
	return &Surface{ID: id, HTML: htmlContent}
}

var defaultMarkdownRenderer pipeline.MarkdownRenderer = pipeline.NewGoldmarkRenderer()

// NewMarkdownSurface renders Markdown to HTML and wraps it as a surface.
func NewMarkdownSurface(ctx context.Context, id, markdown string) (*Surface, error) {
	if strings.TrimSpace(markdown) == "" {
		return nil, ErrEmptyMarkdown
	}
	body, err := defaultMarkdownRenderer.ToHTML(ctx, markdown)
	if err != nil {
		return nil, err
	}
	return &Surface{ID: id, HTML: body}, nil
}

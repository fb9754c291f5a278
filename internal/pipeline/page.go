package pipeline

import (
	"fmt"
	"html"
	"strings"
)

// PaperElementID is the id of the page box the capturer screenshots.
const PaperElementID = "paper"

// PaperSelector selects the page box.
const PaperSelector = "#" + PaperElementID

// pageTemplate lays the surface out in a white box of exact CSS pixel size.
// User styles come after the base rules so they can restyle content, but
// the box geometry is pinned with !important.
const pageTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
<style>
html, body { margin: 0; padding: 0; background: #ffffff; }
#%s { box-sizing: border-box; position: relative; overflow: hidden; background: #ffffff; }
</style>
%s<style>
#%s { width: %.4fpx !important; height: %.4fpx !important; margin: 0 !important; }
</style>
</head>
<body>
<div id="%s">
%s
</div>
</body>
</html>`

// Page describes one paper-sized surface ready for capture.
type Page struct {
	Title    string
	Fragment Fragment
	CSS      string  // extra CSS applied after the surface's own styles
	WidthPx  float64 // page box width in CSS pixels
	HeightPx float64 // page box height in CSS pixels
}

// BuildPage renders a standalone HTML5 document for the page.
func BuildPage(p Page) string {
	var styles strings.Builder
	for _, s := range p.Fragment.Styles {
		writeStyle(&styles, s)
	}
	writeStyle(&styles, p.CSS)

	title := p.Title
	if title == "" {
		title = "Surface"
	}

	return fmt.Sprintf(pageTemplate,
		html.EscapeString(title),
		PaperElementID,
		styles.String(),
		PaperElementID, p.WidthPx, p.HeightPx,
		PaperElementID,
		p.Fragment.Body,
	)
}

func writeStyle(b *strings.Builder, css string) {
	if strings.TrimSpace(css) == "" {
		return
	}
	// A literal </style> would close the element early.
	css = strings.ReplaceAll(css, "</style", `<\/style`)
	b.WriteString("<style>\n")
	b.WriteString(css)
	b.WriteString("\n</style>\n")
}

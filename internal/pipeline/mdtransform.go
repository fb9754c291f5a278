package pipeline

import (
	"regexp"
	"strings"
)

// Highlight placeholders use Unicode Private Use Area characters. They pass
// through Goldmark unchanged, so ==text== becomes <mark> without enabling
// raw HTML in the renderer.
const (
	markStart = "\uE000"
	markEnd   = "\uE001"
)

var (
	crlfOrCR           = regexp.MustCompile(`\r\n?`)
	multipleBlankLines = regexp.MustCompile(`\n{3,}`)
	highlightPattern   = regexp.MustCompile(`==(.*?)==`)
)

// preprocessMarkdown normalizes line endings, swaps ==highlights== for
// placeholders and limits runs of blank lines to one.
func preprocessMarkdown(content string) string {
	content = crlfOrCR.ReplaceAllString(content, "\n")
	content = highlightPattern.ReplaceAllString(content, markStart+"$1"+markEnd)
	return multipleBlankLines.ReplaceAllString(content, "\n\n")
}

// finishMarks turns highlight placeholders into <mark> elements.
func finishMarks(htmlContent string) string {
	return strings.NewReplacer(markStart, "<mark>", markEnd, "</mark>").Replace(htmlContent)
}

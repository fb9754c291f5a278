// Package pipeline turns surface content into a capturable page.
//
// It covers the content-side stages of an export:
//   - Markdown to HTML fragment conversion via Goldmark
//   - Normalizing HTML surfaces (style extraction, script removal,
//     relative path rewriting, cross-origin image marking)
//   - Building a standalone page whose #paper box has the exact CSS pixel
//     size of the chosen paper
//
// Rasterization and PDF assembly live in the root paperpdf package. This
// package never talks to a browser.
package pipeline

package paperpdf

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"
)

// DefaultCanvasFilename names exports of canvases without a name.
const DefaultCanvasFilename = "canvas"

// pdfExtension is appended to derived filenames.
const pdfExtension = ".pdf"

// File permission constants.
const (
	dirPermissions  = 0o750
	filePermissions = 0o644
)

// FilenameForPaper derives "paper-<id>.pdf".
func FilenameForPaper(p PaperSize) string {
	id := sanitizeFilename(p.ID)
	if id == "" {
		id = DefaultPaperSize().ID
	}
	return "paper-" + id + pdfExtension
}

// FilenameForCanvas derives "<name>.pdf", using DefaultCanvasFilename
// when the name is blank.
func FilenameForCanvas(name string) string {
	base := sanitizeFilename(name)
	if base == "" {
		base = DefaultCanvasFilename
	}
	return base + pdfExtension
}

// resolveFilename turns an optional hint into a safe PDF filename.
func resolveFilename(hint string, paper PaperSize) string {
	if strings.TrimSpace(hint) == "" {
		return FilenameForPaper(paper)
	}
	hint = strings.TrimSpace(hint)
	if ext := filepath.Ext(hint); strings.EqualFold(ext, pdfExtension) {
		hint = strings.TrimSuffix(hint, ext)
	}
	return FilenameForCanvas(hint)
}

// sanitizeFilename strips path separators, control characters and
// leading dots so the name cannot escape the output directory.
func sanitizeFilename(name string) string {
	name = strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == '\\' || r == ':' || r == 0:
			return '-'
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, strings.TrimSpace(name))
	return strings.TrimLeft(name, ".")
}

// Deliverer hands a finished document to the user.
type Deliverer interface {
	Deliver(ctx context.Context, filename string, pdf []byte) (location string, err error)
}

var _ Deliverer = (*DirDeliverer)(nil)

// DirDeliverer writes documents into a directory, the local equivalent
// of a browser download.
type DirDeliverer struct {
	Dir string
}

// Deliver writes pdf to Dir/filename, creating Dir if needed.
func (d *DirDeliverer) Deliver(ctx context.Context, filename string, pdf []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	dir := d.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, dirPermissions); err != nil {
		return "", fmt.Errorf("%w: %v", ErrWritePDF, err)
	}

	path := filepath.Join(dir, filepath.Base(filename))
	// #nosec G306 -- PDF output files are intended to be readable
	if err := os.WriteFile(path, pdf, filePermissions); err != nil {
		return "", fmt.Errorf("%w: %v", ErrWritePDF, err)
	}
	return path, nil
}

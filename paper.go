package paperpdf

import (
	"fmt"
	"strconv"
	"strings"
)

// Orientation is derived from paper dimensions, never stored.
type Orientation string

// Orientation values.
const (
	OrientationPortrait  Orientation = "portrait"
	OrientationLandscape Orientation = "landscape"
)

// PaperSize is a named physical page format measured in millimeters.
type PaperSize struct {
	ID          string  `json:"id"`
	Label       string  `json:"label"`
	WidthMM     float64 `json:"widthMm"`
	HeightMM    float64 `json:"heightMm"`
	Description string  `json:"description"`
}

// Orientation reports landscape when the page is wider than it is tall.
// Square pages are portrait.
func (p PaperSize) Orientation() Orientation {
	if p.WidthMM > p.HeightMM {
		return OrientationLandscape
	}
	return OrientationPortrait
}

// PixelSize returns the page box in CSS pixels.
func (p PaperSize) PixelSize() (width, height float64) {
	return MMToPixels(p.WidthMM), MMToPixels(p.HeightMM)
}

// Validate checks that both dimensions are positive.
func (p PaperSize) Validate() error {
	if p.WidthMM <= 0 || p.HeightMM <= 0 {
		return fmt.Errorf("%w: %q is %gx%gmm (dimensions must be positive)", ErrInvalidPaperSize, p.ID, p.WidthMM, p.HeightMM)
	}
	return nil
}

// Paper size identifiers in the built-in catalog.
const (
	PaperA5     = "a5"
	PaperA4     = "a4"
	PaperLetter = "letter"
	PaperLegal  = "legal"
)

// paperSizes is ordered for display. Index 1 is the default.
var paperSizes = []PaperSize{
	{ID: PaperA5, Label: "A5 · 148 × 210mm", WidthMM: 148, HeightMM: 210, Description: "handbooks, notes"},
	{ID: PaperA4, Label: "A4 · 210 × 297mm", WidthMM: 210, HeightMM: 297, Description: "everyday printing"},
	{ID: PaperLetter, Label: "Letter · 8.5 × 11in", WidthMM: 215.9, HeightMM: 279.4, Description: "North American standard"},
	{ID: PaperLegal, Label: "Legal · 8.5 × 14in", WidthMM: 215.9, HeightMM: 355.6, Description: "contracts and agreements"},
}

// defaultPaperIndex points at A4.
const defaultPaperIndex = 1

// PaperSizes returns the catalog in display order. The slice is a copy.
func PaperSizes() []PaperSize {
	out := make([]PaperSize, len(paperSizes))
	copy(out, paperSizes)
	return out
}

// DefaultPaperSize returns the catalog default (A4).
func DefaultPaperSize() PaperSize {
	return paperSizes[defaultPaperIndex]
}

// LookupPaperSize finds a catalog entry by id (case-insensitive).
func LookupPaperSize(id string) (PaperSize, bool) {
	key := strings.ToLower(strings.TrimSpace(id))
	for _, p := range paperSizes {
		if p.ID == key {
			return p, true
		}
	}
	return PaperSize{}, false
}

// ResolvePaperSize returns the catalog entry for id, or the default when
// the id is unknown. It never fails.
func ResolvePaperSize(id string) PaperSize {
	if p, ok := LookupPaperSize(id); ok {
		return p
	}
	return DefaultPaperSize()
}

// CustomPaperSize builds a non-catalog size. Call Validate before use.
func CustomPaperSize(widthMM, heightMM float64) PaperSize {
	w := strconv.FormatFloat(widthMM, 'f', -1, 64)
	h := strconv.FormatFloat(heightMM, 'f', -1, 64)
	return PaperSize{
		ID:       "custom-" + w + "x" + h,
		Label:    "Custom · " + w + " × " + h + "mm",
		WidthMM:  widthMM,
		HeightMM: heightMM,
	}
}

package paperpdf

import (
	"bytes"
	"fmt"
	"math"
	"time"

	"github.com/go-pdf/fpdf"
)

// PagePolicy decides the PDF page size for an export.
type PagePolicy string

// Page policies. An exporter applies one policy to every export.
const (
	// PageMatchPaper sizes the page to the chosen paper.
	PageMatchPaper PagePolicy = "paper"
	// PageFixedA4 always emits a portrait A4 page.
	PageFixedA4 PagePolicy = "a4"
)

// Valid reports whether p is a known policy.
func (p PagePolicy) Valid() bool {
	return p == PageMatchPaper || p == PageFixedA4
}

// PageGeometry is the physical page of the exported document.
type PageGeometry struct {
	Orientation Orientation `json:"orientation"`
	WidthMM     float64     `json:"widthMm"`
	HeightMM    float64     `json:"heightMm"`
}

// GeometryFor derives the page for paper under the given policy.
func GeometryFor(paper PaperSize, policy PagePolicy) PageGeometry {
	if policy == PageFixedA4 {
		a4, _ := LookupPaperSize(PaperA4)
		return PageGeometry{Orientation: OrientationPortrait, WidthMM: a4.WidthMM, HeightMM: a4.HeightMM}
	}
	return PageGeometry{
		Orientation: paper.Orientation(),
		WidthMM:     paper.WidthMM,
		HeightMM:    paper.HeightMM,
	}
}

// ImagePlacement is where the raster lands on the page, in millimeters.
type ImagePlacement struct {
	X, Y, Width, Height float64
}

// Document is an assembled single-page PDF.
type Document struct {
	PDF        []byte
	PageWidth  float64 // as reported by the PDF writer, mm
	PageHeight float64 // as reported by the PDF writer, mm
	Image      ImagePlacement
}

// pdfComposer abstracts PDF assembly to allow testing without fpdf output.
type pdfComposer interface {
	Compose(geom PageGeometry, raster *Raster, title string) (*Document, error)
}

var _ pdfComposer = (*fpdfComposer)(nil)

// fpdfComposer assembles documents with go-pdf/fpdf.
type fpdfComposer struct {
	now func() time.Time
}

func newFPDFComposer() *fpdfComposer {
	return &fpdfComposer{now: time.Now}
}

// rasterImageName is the registration key of the single page image.
const rasterImageName = "surface"

// Compose builds a one-page document in millimeters with zero margins and
// places the raster full-bleed at the origin, scaled to the page.
func (c *fpdfComposer) Compose(geom PageGeometry, raster *Raster, title string) (*Document, error) {
	if raster == nil || len(raster.PNG) == 0 {
		return nil, fmt.Errorf("%w: no raster to place", ErrEncodingFailure)
	}
	if geom.WidthMM <= 0 || geom.HeightMM <= 0 {
		return nil, fmt.Errorf("%w: page %gx%gmm", ErrInvalidPaperSize, geom.WidthMM, geom.HeightMM)
	}

	// fpdf swaps the size for landscape, so hand it the portrait form.
	orientation := "P"
	if geom.Orientation == OrientationLandscape {
		orientation = "L"
	}
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: orientation,
		UnitStr:        "mm",
		Size: fpdf.SizeType{
			Wd: math.Min(geom.WidthMM, geom.HeightMM),
			Ht: math.Max(geom.WidthMM, geom.HeightMM),
		},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCreator("go-paperpdf", true)
	if title != "" {
		pdf.SetTitle(title, true)
	}
	pdf.SetCreationDate(c.now())
	pdf.AddPage()

	w, h := pdf.GetPageSize()

	opts := fpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
	pdf.RegisterImageOptionsReader(rasterImageName, opts, bytes.NewReader(raster.PNG))
	pdf.ImageOptions(rasterImageName, 0, 0, w, h, false, opts, 0, "")

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncodingFailure, err)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("%w: writing PDF: %v", ErrEncodingFailure, err)
	}

	return &Document{
		PDF:        buf.Bytes(),
		PageWidth:  w,
		PageHeight: h,
		Image:      ImagePlacement{X: 0, Y: 0, Width: w, Height: h},
	}, nil
}

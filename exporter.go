package paperpdf

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"

	"github.com/alnah/go-paperpdf/internal/pipeline"
)

// ExportFailedMessage is the single retryable notice shown on failure.
const ExportFailedMessage = "Export failed, please try again."

// Notifier surfaces export failures to the user without blocking.
type Notifier interface {
	Alert(message string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(message string)

// Alert calls f(message).
func (f NotifierFunc) Alert(message string) { f(message) }

// ExportResult describes a finished export.
type ExportResult struct {
	ID           string
	Filename     string
	Location     string // where the deliverer put the file, if any
	PDF          []byte
	Geometry     PageGeometry
	RasterWidth  int
	RasterHeight int
	Scale        float64
	Duration     time.Duration
}

// Exporter runs the capture, encode, compose and deliver pipeline.
// Create with NewExporter, call Export, and Close when done.
type Exporter struct {
	cfg       exporterConfig
	capturer  Capturer
	composer  pdfComposer
	deliverer Deliverer
	notifier  Notifier
	log       logrus.FieldLogger

	mu       sync.Mutex
	inFlight map[string]struct{}
}

// NewExporter creates an Exporter with adaptive scale and paper-sized pages.
// The browser starts lazily on the first capture.
func NewExporter(opts ...Option) *Exporter {
	e := &Exporter{
		cfg: exporterConfig{
			timeout:          defaultTimeout,
			scalePolicy:      ScaleAdaptive,
			pagePolicy:       PageMatchPaper,
			devicePixelRatio: 1,
			crossOrigin:      true,
		},
		composer: newFPDFComposer(),
		log:      logrus.StandardLogger(),
		inFlight: make(map[string]struct{}),
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.notifier == nil {
		e.notifier = logNotifier{log: e.log}
	}

	// Create capturer if not injected (e.g., by tests)
	if e.capturer == nil {
		e.capturer = newRodCapturer(e.cfg.timeout, e.cfg.browserBin)
	}

	return e
}

// Scale returns the render scale this exporter uses.
func (e *Exporter) Scale() float64 {
	if e.cfg.scalePolicy == ScaleFixed {
		return MinScale
	}
	return math.Max(MinScale, e.cfg.devicePixelRatio)
}

// PagePolicy returns the page sizing policy this exporter uses.
func (e *Exporter) PagePolicy() PagePolicy {
	return e.cfg.pagePolicy
}

// Exporting reports whether an export for surfaceID is in flight.
// UIs disable their export trigger while this is true.
func (e *Exporter) Exporting(surfaceID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, busy := e.inFlight[surfaceID]
	return busy
}

func (e *Exporter) begin(surfaceID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, busy := e.inFlight[surfaceID]; busy {
		return false
	}
	e.inFlight[surfaceID] = struct{}{}
	return true
}

func (e *Exporter) end(surfaceID string) {
	e.mu.Lock()
	delete(e.inFlight, surfaceID)
	e.mu.Unlock()
}

// Export renders surface onto a single page sized for paper and delivers
// it under a filename derived from filenameHint (or the paper id when the
// hint is empty).
//
// A nil surface is a no-op and returns (nil, nil). A second call for the
// same surface while one is in flight returns ErrExportInProgress without
// capturing. Capture and encoding failures are logged, reported once to
// the Notifier, and returned wrapping ErrCaptureFailure or
// ErrEncodingFailure; the in-flight flag is always released so the user
// can retry.
func (e *Exporter) Export(ctx context.Context, surface *Surface, paper PaperSize, filenameHint string) (result *ExportResult, err error) {
	if surface == nil {
		return nil, nil
	}
	if err := paper.Validate(); err != nil {
		return nil, err
	}
	if !e.begin(surface.ID) {
		return nil, ErrExportInProgress
	}
	defer e.end(surface.ID)

	id := ulid.Make().String()
	log := e.log.WithFields(logrus.Fields{
		"export_id":  id,
		"surface_id": surface.ID,
		"paper_size": paper.ID,
	})
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("%w: internal error: %v", ErrEncodingFailure, r)
		}
		if err != nil {
			log.WithError(err).Error("Export failed")
			e.notifier.Alert(ExportFailedMessage)
			return
		}
		log.WithFields(logrus.Fields{
			"filename":    result.Filename,
			"location":    result.Location,
			"duration_ms": result.Duration.Milliseconds(),
		}).Info("Export completed")
	}()

	raster, scale, err := e.capture(ctx, surface, paper)
	if err != nil {
		return nil, err
	}

	geom := GeometryFor(paper, e.cfg.pagePolicy)
	filename := resolveFilename(filenameHint, paper)

	doc, err := e.composer.Compose(geom, raster, filename)
	if err != nil {
		if !errors.Is(err, ErrEncodingFailure) {
			err = fmt.Errorf("%w: %v", ErrEncodingFailure, err)
		}
		return nil, err
	}

	result = &ExportResult{
		ID:           id,
		Filename:     filename,
		PDF:          doc.PDF,
		Geometry:     geom,
		RasterWidth:  raster.Width,
		RasterHeight: raster.Height,
		Scale:        scale,
	}

	if e.deliverer != nil {
		location, err := e.deliverer.Deliver(ctx, filename, doc.PDF)
		if err != nil {
			return nil, err
		}
		result.Location = location
	}

	result.Duration = time.Since(start)
	return result, nil
}

// capture is the single suspension point: lay the surface out on the
// paper, rasterize it in the browser, then flatten and encode the bitmap.
func (e *Exporter) capture(ctx context.Context, surface *Surface, paper PaperSize) (*Raster, float64, error) {
	frag, err := pipeline.Prepare(surface.HTML, pipeline.PrepareOptions{
		SourceDir:   surface.SourceDir,
		CrossOrigin: e.cfg.crossOrigin,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("%w: parsing surface: %v", ErrCaptureFailure, err)
	}

	widthPx, heightPx := paper.PixelSize()
	pageHTML := pipeline.BuildPage(pipeline.Page{
		Title:    paper.Label,
		Fragment: frag,
		CSS:      e.cfg.css,
		WidthPx:  widthPx,
		HeightPx: heightPx,
	})

	scale := e.Scale()
	captured, err := e.capturer.Capture(ctx, pageHTML, CaptureOptions{
		WidthPx:    widthPx,
		HeightPx:   heightPx,
		Scale:      scale,
		Background: White,
	})
	if err != nil {
		if !errors.Is(err, ErrCaptureFailure) && !errors.Is(err, ErrInvalidScale) {
			err = fmt.Errorf("%w: %w", ErrCaptureFailure, err)
		}
		return nil, 0, err
	}

	raster, err := encodeRaster(captured, White)
	if err != nil {
		return nil, 0, err
	}
	return raster, scale, nil
}

// Close releases the browser.
func (e *Exporter) Close() error {
	if e.capturer != nil {
		return e.capturer.Close()
	}
	return nil
}

// logNotifier reports failures to the log when no UI channel is wired.
type logNotifier struct {
	log logrus.FieldLogger
}

func (n logNotifier) Alert(message string) {
	n.log.Warn(message)
}

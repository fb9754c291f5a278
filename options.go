package paperpdf

import (
	"time"

	"github.com/sirupsen/logrus"
)

// ScalePolicy picks the render scale for captures.
type ScalePolicy string

// Scale policies. Both render at least MinScale device pixels per CSS pixel.
const (
	// ScaleAdaptive renders at max(2, devicePixelRatio).
	ScaleAdaptive ScalePolicy = "adaptive"
	// ScaleFixed always renders at 2.
	ScaleFixed ScalePolicy = "fixed"
)

// Valid reports whether p is a known policy.
func (p ScalePolicy) Valid() bool {
	return p == ScaleAdaptive || p == ScaleFixed
}

// defaultTimeout is used when no timeout is specified.
const defaultTimeout = 30 * time.Second

// exporterConfig holds internal configuration for Exporter.
type exporterConfig struct {
	timeout          time.Duration
	scalePolicy      ScalePolicy
	pagePolicy       PagePolicy
	devicePixelRatio float64
	crossOrigin      bool
	css              string
	browserBin       string
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithTimeout bounds the browser wait of each export.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("paperpdf: WithTimeout duration must be positive")
	}
	return func(e *Exporter) {
		e.cfg.timeout = d
	}
}

// WithScalePolicy selects adaptive or fixed render scale.
// Unknown policies fall back to ScaleAdaptive.
func WithScalePolicy(p ScalePolicy) Option {
	return func(e *Exporter) {
		if !p.Valid() {
			p = ScaleAdaptive
		}
		e.cfg.scalePolicy = p
	}
}

// WithDevicePixelRatio sets the display density used by ScaleAdaptive.
// Panics if r <= 0.
func WithDevicePixelRatio(r float64) Option {
	if r <= 0 {
		panic("paperpdf: WithDevicePixelRatio ratio must be positive")
	}
	return func(e *Exporter) {
		e.cfg.devicePixelRatio = r
	}
}

// WithPagePolicy selects paper-sized or fixed A4 pages.
// Unknown policies fall back to PageMatchPaper.
func WithPagePolicy(p PagePolicy) Option {
	return func(e *Exporter) {
		if !p.Valid() {
			p = PageMatchPaper
		}
		e.cfg.pagePolicy = p
	}
}

// WithCrossOrigin controls whether remote images are requested with
// crossorigin="anonymous". Enabled by default.
func WithCrossOrigin(enabled bool) Option {
	return func(e *Exporter) {
		e.cfg.crossOrigin = enabled
	}
}

// WithCSS adds a style sheet to every captured page.
func WithCSS(css string) Option {
	return func(e *Exporter) {
		e.cfg.css = css
	}
}

// WithBrowserBin points the capturer at a specific Chrome binary.
func WithBrowserBin(path string) Option {
	return func(e *Exporter) {
		e.cfg.browserBin = path
	}
}

// WithDeliverer sets where finished documents go. Without a deliverer the
// PDF is only returned in the result.
func WithDeliverer(d Deliverer) Option {
	return func(e *Exporter) {
		e.deliverer = d
	}
}

// WithNotifier sets the user-facing failure channel.
func WithNotifier(n Notifier) Option {
	return func(e *Exporter) {
		if n != nil {
			e.notifier = n
		}
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(e *Exporter) {
		if l != nil {
			e.log = l
		}
	}
}

// WithCapturer replaces the headless Chrome capturer with another
// DOM-capture backend.
func WithCapturer(c Capturer) Option {
	return func(e *Exporter) {
		e.capturer = c
	}
}

// withComposer injects a PDF composer (tests).
func withComposer(c pdfComposer) Option {
	return func(e *Exporter) {
		e.composer = c
	}
}

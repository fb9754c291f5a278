package paperpdf

import (
	"context"
	"fmt"
	"image/color"
	"math"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-paperpdf/internal/fileutil"
	"github.com/alnah/go-paperpdf/internal/pipeline"
	"github.com/alnah/go-paperpdf/internal/process"
)

// MinScale is the lowest render scale the pipeline accepts: never fewer than
// two device pixels per CSS pixel.
const MinScale = 2.0

// White is the opaque capture background.
var White = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

// CaptureOptions configures one rasterization.
type CaptureOptions struct {
	WidthPx    float64 // page box width in CSS pixels
	HeightPx   float64 // page box height in CSS pixels
	Scale      float64 // device pixels per CSS pixel, >= MinScale
	Background color.RGBA
}

// Validate checks the page box and scale.
func (o CaptureOptions) Validate() error {
	if o.WidthPx <= 0 || o.HeightPx <= 0 {
		return fmt.Errorf("%w: %.2fx%.2fpx", ErrEmptySurface, o.WidthPx, o.HeightPx)
	}
	if o.Scale < MinScale || math.IsNaN(o.Scale) || math.IsInf(o.Scale, 0) {
		return fmt.Errorf("%w: %v (minimum %v)", ErrInvalidScale, o.Scale, MinScale)
	}
	return nil
}

// Capturer rasterizes a page document into a PNG bitmap of its page box.
type Capturer interface {
	Capture(ctx context.Context, pageHTML string, opts CaptureOptions) ([]byte, error)
	Close() error
}

var _ Capturer = (*rodCapturer)(nil)

// waitImagesJS resolves once every image has either loaded or failed.
const waitImagesJS = `() => Promise.all(Array.from(document.images).map(img =>
  img.complete ? null : new Promise(resolve => { img.onload = img.onerror = resolve })))`

// brokenImagesJS lists images that did not produce pixels.
const brokenImagesJS = `() => Array.from(document.images)
  .filter(img => img.naturalWidth === 0)
  .map(img => img.currentSrc || img.src)
  .join("\n")`

// boxAreaJS returns the rendered area of the element matched by sel.
const boxAreaJS = `(sel) => {
  const el = document.querySelector(sel);
  if (!el) return 0;
  const r = el.getBoundingClientRect();
  return r.width * r.height;
}`

// rodCapturer captures pages with headless Chrome via go-rod.
// Rod downloads Chromium on first run if no browser is found.
type rodCapturer struct {
	timeout    time.Duration
	browserBin string

	mu       sync.Mutex
	launcher *launcher.Launcher
	browser  *rod.Browser
}

// newRodCapturer creates a capturer with the given page timeout.
func newRodCapturer(timeout time.Duration, browserBin string) *rodCapturer {
	return &rodCapturer{timeout: timeout, browserBin: browserBin}
}

// ensureBrowser lazily launches and connects to the browser.
func (r *rodCapturer) ensureBrowser() (*rod.Browser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.browser != nil {
		return r.browser, nil
	}

	l := launcher.New()

	bin := r.browserBin
	if bin == "" {
		bin = os.Getenv("ROD_BROWSER_BIN")
	}
	if bin != "" {
		l = l.Bin(bin)
	}

	// Containers and CI runners usually cannot use the Chrome sandbox.
	if os.Getenv("ROD_NO_SANDBOX") == "1" || os.Getenv("CI") == "true" || bin != "" {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	r.launcher = l
	r.browser = browser
	return browser, nil
}

// Close releases browser resources and reaps the Chrome process tree.
func (r *rodCapturer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var err error
	if r.browser != nil {
		err = r.browser.Close()
		r.browser = nil
	}
	if r.launcher != nil {
		if pid := r.launcher.PID(); pid > 0 {
			process.KillProcessGroup(pid)
		}
		r.launcher.Kill()
		r.launcher = nil
	}
	return err
}

// Capture loads pageHTML from a temp file, sizes the viewport to the page
// box at the requested scale and screenshots the box as PNG.
func (r *rodCapturer) Capture(ctx context.Context, pageHTML string, opts CaptureOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	browser, err := r.ensureBrowser()
	if err != nil {
		return nil, err
	}

	tmpPath, cleanup, err := fileutil.WriteTempFile(pageHTML, "html")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer cleanup()

	timeout := r.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return nil, context.DeadlineExceeded
		}
	}

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer page.Close()

	p := page.Context(ctx).Timeout(timeout)
	defer p.CancelTimeout()

	if err := p.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             int(math.Ceil(opts.WidthPx)),
		Height:            int(math.Ceil(opts.HeightPx)),
		DeviceScaleFactor: opts.Scale,
	}); err != nil {
		return nil, fmt.Errorf("%w: setting viewport: %v", ErrPageCreate, err)
	}

	bg := opts.Background
	if err := (proto.EmulationSetDefaultBackgroundColorOverride{
		Color: &proto.DOMRGBA{R: int(bg.R), G: int(bg.G), B: int(bg.B)},
	}).Call(p); err != nil {
		return nil, fmt.Errorf("%w: setting background: %v", ErrPageCreate, err)
	}

	if err := p.Navigate(pathToFileURL(tmpPath)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	if err := p.WaitLoad(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	if _, err := p.Eval(waitImagesJS); err != nil {
		return nil, fmt.Errorf("%w: waiting for images: %v", ErrPageLoad, err)
	}

	broken, err := p.Eval(brokenImagesJS)
	if err != nil {
		return nil, fmt.Errorf("%w: inspecting images: %v", ErrPageLoad, err)
	}
	if srcs := strings.TrimSpace(broken.Value.Str()); srcs != "" {
		return nil, fmt.Errorf("%w: %s", ErrCrossOriginBlocked, strings.ReplaceAll(srcs, "\n", ", "))
	}

	area, err := p.Eval(boxAreaJS, pipeline.PaperSelector)
	if err != nil {
		return nil, fmt.Errorf("%w: measuring page box: %v", ErrPageLoad, err)
	}
	if area.Value.Num() <= 0 {
		return nil, ErrEmptySurface
	}

	el, err := p.Element(pipeline.PaperSelector)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	png, err := el.Screenshot(proto.PageCaptureScreenshotFormatPng, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: screenshot: %v", ErrCaptureFailure, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return png, nil
}

// pathToFileURL converts an absolute path to a file:// URL.
func pathToFileURL(path string) string {
	path = strings.ReplaceAll(path, "\\", "/")
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return "file://" + path
}

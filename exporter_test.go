package paperpdf

// Notes:
// - Exporter is tested with a fake Capturer; the real composer runs so
//   results carry real PDF bytes. Browser captures are covered by the
//   integration tests.
// - The re-entrancy test blocks the first capture on a channel to hold the
//   in-flight flag deterministically.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"bytes"
	"context"
	"errors"
	"image/color"
	"strings"
	"sync"
	"testing"

	logtest "github.com/sirupsen/logrus/hooks/test"
)

// ---------------------------------------------------------------------------
// Test Infrastructure - Fakes
// ---------------------------------------------------------------------------

type fakeCapturer struct {
	mu      sync.Mutex
	calls   []CaptureOptions
	pages   []string
	png     []byte
	err     error
	panics  bool
	started chan struct{} // signaled when Capture begins, if set
	release chan struct{} // Capture waits on it, if set
	closed  bool
}

var _ Capturer = (*fakeCapturer)(nil)

func newFakeCapturer(t *testing.T) *fakeCapturer {
	t.Helper()
	return &fakeCapturer{png: pngOf(t, 16, 22, color.NRGBA{B: 0xff, A: 0xff})}
}

func (f *fakeCapturer) Capture(ctx context.Context, pageHTML string, opts CaptureOptions) ([]byte, error) {
	f.mu.Lock()
	f.calls = append(f.calls, opts)
	f.pages = append(f.pages, pageHTML)
	f.mu.Unlock()

	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.release != nil {
		<-f.release
	}
	if f.panics {
		panic("renderer exploded")
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.png, nil
}

func (f *fakeCapturer) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeCapturer) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// recordingNotifier counts alerts.
type recordingNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (n *recordingNotifier) Alert(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, message)
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.messages)
}

// memDeliverer keeps delivered files in memory.
type memDeliverer struct {
	mu    sync.Mutex
	files map[string][]byte
	err   error
}

func (d *memDeliverer) Deliver(_ context.Context, filename string, pdf []byte) (string, error) {
	if d.err != nil {
		return "", d.err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.files == nil {
		d.files = make(map[string][]byte)
	}
	d.files[filename] = pdf
	return "mem://" + filename, nil
}

func quietLogger() Option {
	log, _ := logtest.NewNullLogger()
	return WithLogger(log)
}

// ---------------------------------------------------------------------------
// TestExporter_Export - Successful exports
// ---------------------------------------------------------------------------

func TestExporter_Export_A4(t *testing.T) {
	t.Parallel()

	capt := newFakeCapturer(t)
	deliver := &memDeliverer{}
	exp := NewExporter(WithCapturer(capt), WithDeliverer(deliver), quietLogger())
	defer exp.Close()

	res, err := exp.Export(context.Background(), NewHTMLSurface("s1", "<p>hello</p>"), DefaultPaperSize(), "")
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	if res.Filename != "paper-a4.pdf" || res.Location != "mem://paper-a4.pdf" {
		t.Errorf("Filename = %q, Location = %q", res.Filename, res.Location)
	}
	if res.ID == "" {
		t.Error("ID is empty")
	}
	if res.Geometry != (PageGeometry{OrientationPortrait, 210, 297}) {
		t.Errorf("Geometry = %+v", res.Geometry)
	}
	if res.RasterWidth != 16 || res.RasterHeight != 22 {
		t.Errorf("raster = %dx%d, want 16x22", res.RasterWidth, res.RasterHeight)
	}
	if !bytes.Contains(res.PDF, []byte("/MediaBox [0 0 595.28 841.89]")) {
		t.Error("PDF page is not A4")
	}
	if !bytes.Equal(deliver.files["paper-a4.pdf"], res.PDF) {
		t.Error("delivered bytes differ from the result")
	}

	opts := capt.calls[0]
	wantW, wantH := DefaultPaperSize().PixelSize()
	if opts.WidthPx != wantW || opts.HeightPx != wantH {
		t.Errorf("capture box = %gx%g, want %gx%g", opts.WidthPx, opts.HeightPx, wantW, wantH)
	}
	if opts.Scale != MinScale || res.Scale != MinScale {
		t.Errorf("scale = %g / %g, want %g", opts.Scale, res.Scale, MinScale)
	}
	if opts.Background != White {
		t.Errorf("Background = %v, want white", opts.Background)
	}
	if !strings.Contains(capt.pages[0], "<p>hello</p>") {
		t.Error("captured page is missing the surface markup")
	}
}

func TestExporter_Export_Landscape(t *testing.T) {
	t.Parallel()

	exp := NewExporter(WithCapturer(newFakeCapturer(t)), quietLogger())
	res, err := exp.Export(context.Background(), NewHTMLSurface("s", "<p/>"), CustomPaperSize(297, 210), "wide")
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if res.Geometry.Orientation != OrientationLandscape {
		t.Errorf("Orientation = %s, want landscape", res.Geometry.Orientation)
	}
	if res.Filename != "wide.pdf" {
		t.Errorf("Filename = %q, want wide.pdf", res.Filename)
	}
	if !bytes.Contains(res.PDF, []byte("/MediaBox [0 0 841.89 595.28]")) {
		t.Error("PDF page is not landscape A4")
	}
}

func TestExporter_Export_FixedA4Policy(t *testing.T) {
	t.Parallel()

	capt := newFakeCapturer(t)
	exp := NewExporter(WithCapturer(capt), WithPagePolicy(PageFixedA4), quietLogger())
	res, err := exp.Export(context.Background(), NewHTMLSurface("s", "<p/>"), ResolvePaperSize("legal"), "")
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	if res.Geometry != (PageGeometry{OrientationPortrait, 210, 297}) {
		t.Errorf("Geometry = %+v, want portrait A4", res.Geometry)
	}
	// The capture still uses the chosen paper's box.
	_, legalH := ResolvePaperSize("legal").PixelSize()
	if capt.calls[0].HeightPx != legalH {
		t.Errorf("capture height = %g, want legal %g", capt.calls[0].HeightPx, legalH)
	}
	if res.Filename != "paper-legal.pdf" {
		t.Errorf("Filename = %q, want paper-legal.pdf", res.Filename)
	}
}

func TestExporter_Scale(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		opts []Option
		want float64
	}{
		{"default adaptive at dpr 1", nil, 2},
		{"adaptive at dpr 3", []Option{WithDevicePixelRatio(3)}, 3},
		{"adaptive at dpr 1.5", []Option{WithDevicePixelRatio(1.5)}, 2},
		{"fixed ignores dpr", []Option{WithScalePolicy(ScaleFixed), WithDevicePixelRatio(3)}, 2},
		{"unknown policy is adaptive", []Option{WithScalePolicy("huge"), WithDevicePixelRatio(2.5)}, 2.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			exp := NewExporter(append(tt.opts, WithCapturer(newFakeCapturer(t)))...)
			if got := exp.Scale(); got != tt.want {
				t.Errorf("Scale() = %g, want %g", got, tt.want)
			}
		})
	}
}

func TestExporter_CrossOriginAndCSS(t *testing.T) {
	t.Parallel()

	remote := `<img src="https://cdn.example.com/a.png">`

	capt := newFakeCapturer(t)
	exp := NewExporter(WithCapturer(capt), WithCSS("h1 { color: teal; }"), quietLogger())
	if _, err := exp.Export(context.Background(), NewHTMLSurface("a", remote), DefaultPaperSize(), ""); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(capt.pages[0], `crossorigin="anonymous"`) {
		t.Error("remote image not marked crossorigin by default")
	}
	if !strings.Contains(capt.pages[0], "color: teal") {
		t.Error("extra CSS missing from page")
	}

	capt = newFakeCapturer(t)
	exp = NewExporter(WithCapturer(capt), WithCrossOrigin(false), quietLogger())
	if _, err := exp.Export(context.Background(), NewHTMLSurface("b", remote), DefaultPaperSize(), ""); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(capt.pages[0], "crossorigin") {
		t.Error("crossorigin set although disabled")
	}
}

// ---------------------------------------------------------------------------
// TestExporter_Export_Guards - No-op, validation, re-entrancy
// ---------------------------------------------------------------------------

func TestExporter_Export_NilSurface(t *testing.T) {
	t.Parallel()

	capt := newFakeCapturer(t)
	notes := &recordingNotifier{}
	exp := NewExporter(WithCapturer(capt), WithNotifier(notes), quietLogger())

	res, err := exp.Export(context.Background(), nil, DefaultPaperSize(), "")
	if res != nil || err != nil {
		t.Errorf("Export(nil) = %v, %v, want nil, nil", res, err)
	}
	if capt.callCount() != 0 || notes.count() != 0 {
		t.Error("nil surface must not capture or alert")
	}
}

func TestExporter_Export_InvalidPaper(t *testing.T) {
	t.Parallel()

	capt := newFakeCapturer(t)
	exp := NewExporter(WithCapturer(capt), quietLogger())

	_, err := exp.Export(context.Background(), NewHTMLSurface("s", "x"), CustomPaperSize(0, 10), "")
	if !errors.Is(err, ErrInvalidPaperSize) {
		t.Errorf("error = %v, want ErrInvalidPaperSize", err)
	}
	if capt.callCount() != 0 {
		t.Error("invalid paper must not capture")
	}
}

func TestExporter_Export_InProgress(t *testing.T) {
	t.Parallel()

	capt := newFakeCapturer(t)
	capt.started = make(chan struct{}, 1)
	capt.release = make(chan struct{})
	exp := NewExporter(WithCapturer(capt), quietLogger())
	surface := NewHTMLSurface("busy", "<p/>")

	done := make(chan error, 1)
	go func() {
		_, err := exp.Export(context.Background(), surface, DefaultPaperSize(), "")
		done <- err
	}()
	<-capt.started

	if !exp.Exporting("busy") {
		t.Error("Exporting() = false during capture")
	}
	_, err := exp.Export(context.Background(), surface, DefaultPaperSize(), "")
	if !errors.Is(err, ErrExportInProgress) {
		t.Errorf("second Export() error = %v, want ErrExportInProgress", err)
	}

	// Another surface is not blocked.
	capt.started = nil
	other := make(chan error, 1)
	go func() {
		_, err := exp.Export(context.Background(), NewHTMLSurface("other", "<p/>"), DefaultPaperSize(), "")
		other <- err
	}()

	close(capt.release)
	if err := <-done; err != nil {
		t.Errorf("first Export() error = %v", err)
	}
	if err := <-other; err != nil {
		t.Errorf("other Export() error = %v", err)
	}
	if exp.Exporting("busy") {
		t.Error("Exporting() = true after completion")
	}
	if n := capt.callCount(); n != 2 {
		t.Errorf("captures = %d, want 2", n)
	}
}

// ---------------------------------------------------------------------------
// TestExporter_Export_Failures - Alerting and flag release
// ---------------------------------------------------------------------------

func TestExporter_Export_Failures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		setup   func(*fakeCapturer)
		opts    []Option
		wantErr error
	}{
		{
			name:    "capture error",
			setup:   func(c *fakeCapturer) { c.err = errors.New("tab crashed") },
			wantErr: ErrCaptureFailure,
		},
		{
			name:    "cross origin blocked",
			setup:   func(c *fakeCapturer) { c.err = ErrCrossOriginBlocked },
			wantErr: ErrCrossOriginBlocked,
		},
		{
			name:    "undecodable bitmap",
			setup:   func(c *fakeCapturer) { c.png = []byte("garbage") },
			wantErr: ErrEncodingFailure,
		},
		{
			name:    "panic in capture",
			setup:   func(c *fakeCapturer) { c.panics = true },
			wantErr: ErrEncodingFailure,
		},
		{
			name:    "delivery failure",
			setup:   func(*fakeCapturer) {},
			opts:    []Option{WithDeliverer(&memDeliverer{err: ErrWritePDF})},
			wantErr: ErrWritePDF,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			capt := newFakeCapturer(t)
			tt.setup(capt)
			notes := &recordingNotifier{}
			log, hook := logtest.NewNullLogger()
			opts := append([]Option{WithCapturer(capt), WithNotifier(notes), WithLogger(log)}, tt.opts...)
			exp := NewExporter(opts...)

			res, err := exp.Export(context.Background(), NewHTMLSurface("s", "<p/>"), DefaultPaperSize(), "")
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
			if res != nil {
				t.Errorf("result = %+v, want nil", res)
			}
			if notes.count() != 1 || notes.messages[0] != ExportFailedMessage {
				t.Errorf("alerts = %q, want one %q", notes.messages, ExportFailedMessage)
			}
			if hook.LastEntry() == nil || hook.LastEntry().Message != "Export failed" {
				t.Error("failure was not logged")
			}
			if exp.Exporting("s") {
				t.Error("in-flight flag not released after failure")
			}
		})
	}
}

func TestExporter_Export_RetryAfterFailure(t *testing.T) {
	t.Parallel()

	capt := newFakeCapturer(t)
	capt.err = errors.New("flaky")
	exp := NewExporter(WithCapturer(capt), WithNotifier(&recordingNotifier{}), quietLogger())
	surface := NewHTMLSurface("s", "<p/>")

	if _, err := exp.Export(context.Background(), surface, DefaultPaperSize(), ""); err == nil {
		t.Fatal("first Export() succeeded, want failure")
	}
	capt.err = nil
	if _, err := exp.Export(context.Background(), surface, DefaultPaperSize(), ""); err != nil {
		t.Errorf("retry Export() error = %v", err)
	}
}

func TestExporter_Export_ComposerFailure(t *testing.T) {
	t.Parallel()

	notes := &recordingNotifier{}
	exp := NewExporter(
		WithCapturer(newFakeCapturer(t)),
		WithNotifier(notes),
		withComposer(composerFunc(func(PageGeometry, *Raster, string) (*Document, error) {
			return nil, errors.New("disk full")
		})),
		quietLogger(),
	)

	_, err := exp.Export(context.Background(), NewHTMLSurface("s", "<p/>"), DefaultPaperSize(), "")
	if !errors.Is(err, ErrEncodingFailure) {
		t.Errorf("error = %v, want ErrEncodingFailure", err)
	}
	if notes.count() != 1 {
		t.Errorf("alerts = %d, want 1", notes.count())
	}
}

type composerFunc func(PageGeometry, *Raster, string) (*Document, error)

func (f composerFunc) Compose(g PageGeometry, r *Raster, title string) (*Document, error) {
	return f(g, r, title)
}

// ---------------------------------------------------------------------------
// TestOptions - Option validation
// ---------------------------------------------------------------------------

func TestOptions_PanicOnInvalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		fn   func()
	}{
		{"zero timeout", func() { WithTimeout(0) }},
		{"negative dpr", func() { WithDevicePixelRatio(-1) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			defer func() {
				if recover() == nil {
					t.Errorf("%s: expected panic", tt.name)
				}
			}()
			tt.fn()
		})
	}
}

func TestOptions_Defaults(t *testing.T) {
	t.Parallel()

	capt := newFakeCapturer(t)
	exp := NewExporter(WithCapturer(capt), WithPagePolicy("sideways"))
	if exp.PagePolicy() != PageMatchPaper {
		t.Errorf("PagePolicy() = %q, want paper", exp.PagePolicy())
	}
	if err := exp.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if !capt.closed {
		t.Error("Close() did not close the capturer")
	}
}

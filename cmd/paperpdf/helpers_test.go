package main

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"strings"
	"sync"
	"testing"
	"time"

	paperpdf "github.com/alnah/go-paperpdf"
)

// ---------------------------------------------------------------------------
// Test Infrastructure - Fake capturer and environment
// ---------------------------------------------------------------------------

// fakeCapturer returns a small opaque PNG instead of driving a browser.
type fakeCapturer struct {
	mu    sync.Mutex
	pages []string
	err   error
}

func (f *fakeCapturer) Capture(_ context.Context, pageHTML string, _ paperpdf.CaptureOptions) ([]byte, error) {
	f.mu.Lock()
	f.pages = append(f.pages, pageHTML)
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}

	img := image.NewRGBA(image.Rect(0, 0, 8, 12))
	for y := 0; y < 12; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, color.RGBA{R: 0x20, G: 0x40, B: 0x80, A: 0xff})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (f *fakeCapturer) Close() error { return nil }

func (f *fakeCapturer) captured() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.pages...)
}

// testEnv builds an isolated environment: no PAPERPDF_* variables, captured
// output and the fake capturer.
func testEnv(t *testing.T, capturer *fakeCapturer, vars map[string]string) (*Environment, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()

	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	env := &Environment{
		Now:    func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) },
		Stdout: stdout,
		Stderr: stderr,
		Getenv: func(k string) string { return vars[k] },
		Environ: func() []string {
			out := make([]string, 0, len(vars))
			for k, v := range vars {
				out = append(out, k+"="+v)
			}
			return out
		},
	}
	if capturer != nil {
		env.ExporterOptions = []paperpdf.Option{paperpdf.WithCapturer(capturer)}
	}
	return env, stdout, stderr
}

// run invokes runMain with the program name prepended.
func run(env *Environment, args ...string) int {
	return runMain(append([]string{"paperpdf"}, args...), env)
}

func containsAll(s string, subs ...string) bool {
	for _, sub := range subs {
		if !strings.Contains(s, sub) {
			return false
		}
	}
	return true
}

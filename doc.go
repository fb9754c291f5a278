// Package paperpdf exports paper-sized HTML surfaces as print-accurate,
// single-page PDF documents using headless Chrome.
//
// # Quick Start
//
// Create an exporter, export a surface, and close when done:
//
//	exp := paperpdf.NewExporter(
//	    paperpdf.WithDeliverer(&paperpdf.DirDeliverer{Dir: "out"}),
//	)
//	defer exp.Close()
//
//	surface := paperpdf.NewHTMLSurface("notes", "<h1>Hello</h1>")
//	res, err := exp.Export(ctx, surface, paperpdf.ResolvePaperSize("a4"), "")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(res.Location) // out/paper-a4.pdf
//
// # Paper Sizes
//
// PaperSizes lists the built-in formats (A5, A4, Letter, Legal) in display
// order. ResolvePaperSize never fails: unknown ids resolve to A4. Page
// boxes are laid out in CSS pixels with MMToPixels (96 / 25.4 px per mm),
// so on-screen proportions match the physical paper.
//
// # Export Pipeline
//
// Export runs these stages:
//
//  1. Layout: the surface is placed in a white #paper box of the paper's
//     CSS pixel size
//  2. Capture: Chrome screenshots the box at a scale of at least 2 device
//     pixels per CSS pixel
//  3. Encode: the bitmap is flattened onto opaque white and encoded as PNG
//  4. Compose: a one-page PDF (mm units, zero margins) embeds the PNG at
//     (0,0), scaled to the full page
//  5. Deliver: the optional Deliverer stores the file (DirDeliverer writes
//     it to a directory)
//
// Only one export per surface runs at a time; a concurrent call returns
// ErrExportInProgress. Failures wrap ErrCaptureFailure or
// ErrEncodingFailure, are logged, and are reported once to the Notifier.
//
// # Policies
//
// Scale and page sizing are fixed per exporter:
//
//	paperpdf.WithScalePolicy(paperpdf.ScaleFixed)  // always 2x
//	paperpdf.WithDevicePixelRatio(3)               // adaptive: max(2, 3)
//	paperpdf.WithPagePolicy(paperpdf.PageFixedA4)  // portrait A4 regardless of paper
//
// # Parallel Processing
//
// For batch exports, use ExporterPool to run several browsers:
//
//	pool := paperpdf.NewExporterPool(paperpdf.ResolvePoolSize(0))
//	defer pool.Close()
//	results := paperpdf.ExportBatch(ctx, pool, jobs)
//
// # Browser Requirements
//
// Capture requires Chrome/Chromium. The go-rod library downloads a managed
// Chromium on first run (~/.cache/rod/browser/).
//
// For containers and CI environments, set ROD_NO_SANDBOX=1 to disable the
// Chrome sandbox. Use ROD_BROWSER_BIN to specify a custom Chrome binary.
package paperpdf

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	paperpdf "github.com/alnah/go-paperpdf"
	"github.com/alnah/go-paperpdf/internal/config"
	"github.com/alnah/go-paperpdf/internal/fileutil"
)

// Input extensions accepted by export.
var (
	htmlExtensions     = []string{".html", ".htm"}
	markdownExtensions = []string{".md", ".markdown"}
)

// runExport captures each input file onto a single PDF page.
func runExport(ctx context.Context, args []string, env *Environment) error {
	f, inputs, err := parseExportFlags(args)
	if err != nil {
		return err
	}
	if len(inputs) == 0 {
		return fmt.Errorf("%w: export needs at least one .html or .md file", ErrNoInput)
	}

	var css string
	if f.css != "" {
		data, err := os.ReadFile(f.css) // #nosec G304 -- user-provided path
		if err != nil {
			return fmt.Errorf("%w: %w", ErrReadInput, err)
		}
		css = string(data)
	}

	s, err := openSession(&f.common, env, func(cfg *config.Config) {
		mergeExportFlags(cfg, f, css)
	})
	if err != nil {
		return err
	}

	paper, err := resolvePaperFlag(f.paper, s.cfg.Paper.Default)
	if err != nil {
		return err
	}

	// Naming after a canvas looks it up in the library.
	baseName := f.name
	surfaceID := ""
	if f.canvasID != "" {
		lib, release, err := s.openLibrary()
		if err != nil {
			return err
		}
		id, err := matchCanvas(lib, f.canvasID)
		if err != nil {
			release()
			return err
		}
		rec, _ := lib.Get(id)
		release()
		surfaceID = rec.ID
		if baseName == "" {
			baseName = rec.Name
		}
	}

	jobs, err := buildJobs(ctx, inputs, paper, baseName, surfaceID)
	if err != nil {
		return err
	}

	opts := append(exporterOptions(s.cfg, s.log),
		paperpdf.WithDeliverer(&paperpdf.DirDeliverer{Dir: s.cfg.Export.OutputDir}),
		paperpdf.WithNotifier(paperpdf.NotifierFunc(func(msg string) {
			fmt.Fprintln(env.Stderr, msg)
		})),
	)
	// Options from the environment go last so they win over the config.
	opts = append(opts, env.ExporterOptions...)

	poolSize := min(paperpdf.ResolvePoolSize(s.cfg.Export.Workers), len(jobs))
	pool := paperpdf.NewExporterPool(poolSize, opts...)
	defer func() {
		if err := pool.Close(); err != nil {
			s.log.WithError(err).Warn("Failed to close browsers")
		}
	}()

	s.log.WithFields(logrus.Fields{
		"inputs":  len(jobs),
		"workers": poolSize,
		"paper":   paper.ID,
	}).Debug("Starting export")

	start := env.Now()
	results := paperpdf.ExportBatch(ctx, pool, jobs)
	return reportResults(env, f.common, results, env.Now().Sub(start).Milliseconds())
}

// mergeExportFlags applies explicitly set export flags.
func mergeExportFlags(cfg *config.Config, f *exportFlags, css string) {
	if f.output != "" {
		cfg.Export.OutputDir = f.output
	}
	if f.scalePolicy != "" {
		cfg.Export.ScalePolicy = f.scalePolicy
	}
	if f.pagePolicy != "" {
		cfg.Export.PagePolicy = f.pagePolicy
	}
	if f.dpr > 0 {
		cfg.Export.DevicePixelRatio = f.dpr
	}
	if f.workers > 0 {
		cfg.Export.Workers = f.workers
	}
	if f.timeout > 0 {
		cfg.Export.Timeout = f.timeout.String()
	}
	if css != "" {
		cfg.Export.CSS = css
	}
	if f.noCrossOrig {
		cfg.Export.CrossOrigin = false
	}
}

// resolvePaperFlag is strict about an explicit --paper and falls back
// to the configured default otherwise.
func resolvePaperFlag(flagValue, configured string) (paperpdf.PaperSize, error) {
	if flagValue == "" {
		return paperpdf.ResolvePaperSize(configured), nil
	}
	p, ok := paperpdf.LookupPaperSize(flagValue)
	if !ok {
		return paperpdf.PaperSize{}, fmt.Errorf("%w: %q", paperpdf.ErrInvalidPaperSize, flagValue)
	}
	return p, nil
}

// buildJobs reads every input into a surface. With one input the file is
// named after baseName (or the paper when empty); with several, each
// input's base name is appended and repeated names get a -2, -3 suffix so
// outputs never collide. Inputs naming the same file are exported once.
func buildJobs(ctx context.Context, inputs []string, paper paperpdf.PaperSize, baseName, surfaceID string) ([]paperpdf.ExportJob, error) {
	inputs = uniqueInputs(inputs)
	used := make(map[string]bool, len(inputs))

	jobs := make([]paperpdf.ExportJob, 0, len(inputs))
	for _, path := range inputs {
		surface, err := readSurface(ctx, path)
		if err != nil {
			return nil, err
		}

		hint := baseName
		if len(inputs) > 1 {
			base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
			hint = base
			if baseName != "" {
				hint = baseName + "-" + base
			}
			hint = claimName(used, hint)
		}
		if surfaceID != "" && len(inputs) == 1 {
			surface.ID = surfaceID
		}

		jobs = append(jobs, paperpdf.ExportJob{Surface: surface, Paper: paper, Filename: hint})
	}
	return jobs, nil
}

// uniqueInputs drops inputs that resolve to a path already listed,
// keeping the first occurrence.
func uniqueInputs(inputs []string) []string {
	seen := make(map[string]bool, len(inputs))
	out := make([]string, 0, len(inputs))
	for _, path := range inputs {
		key, err := filepath.Abs(path)
		if err != nil {
			key = filepath.Clean(path)
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, path)
	}
	return out
}

// claimName returns name, or name-N for the first N >= 2 not yet used.
// Names compare case-insensitively since output directories may be on a
// case-insensitive filesystem.
func claimName(used map[string]bool, name string) string {
	candidate := name
	for n := 2; used[strings.ToLower(candidate)]; n++ {
		candidate = fmt.Sprintf("%s-%d", name, n)
	}
	used[strings.ToLower(candidate)] = true
	return candidate
}

// readSurface loads an HTML or Markdown file. Relative image paths
// resolve against the file's directory.
func readSurface(ctx context.Context, path string) (*paperpdf.Surface, error) {
	isHTML := fileutil.HasExtension(path, htmlExtensions...)
	isMarkdown := fileutil.HasExtension(path, markdownExtensions...)
	if !isHTML && !isMarkdown {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedInput, path)
	}

	data, err := os.ReadFile(path) // #nosec G304 -- user-provided path
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadInput, err)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}

	var surface *paperpdf.Surface
	if isHTML {
		surface = paperpdf.NewHTMLSurface(absPath, string(data))
	} else {
		surface, err = paperpdf.NewMarkdownSurface(ctx, absPath, string(data))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	surface.SourceDir = filepath.Dir(absPath)
	return surface, nil
}

// reportResults prints one line per export and returns an error when any
// export failed. The error wraps the first failure so the exit code
// follows its class.
func reportResults(env *Environment, common commonFlags, results []paperpdf.BatchResult, totalMs int64) error {
	var firstErr error
	failed := 0
	for _, r := range results {
		input := r.Job.Surface.ID
		if r.Err != nil {
			failed++
			if firstErr == nil {
				firstErr = r.Err
			}
			fmt.Fprintf(env.Stderr, "error: %s: %v%s\n", input, r.Err, hintFor(r.Err))
			continue
		}
		if r.Result == nil || common.quiet {
			continue
		}
		if common.verbose {
			fmt.Fprintf(env.Stdout, "Created %s (%dx%d px, %.0fx, %dms)\n",
				r.Result.Location, r.Result.RasterWidth, r.Result.RasterHeight, r.Result.Scale, r.Duration.Milliseconds())
		} else {
			fmt.Fprintf(env.Stdout, "Created %s\n", r.Result.Location)
		}
	}

	if len(results) > 1 && !common.quiet {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed (%dms)\n", len(results)-failed, failed, totalMs)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d exports failed: %w", failed, len(results), firstErr)
	}
	return nil
}

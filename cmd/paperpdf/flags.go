package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// exportFlags holds flags for the export command.
type exportFlags struct {
	common      commonFlags
	paper       string
	output      string
	canvasID    string
	name        string
	scalePolicy string
	pagePolicy  string
	dpr         float64
	workers     int
	timeout     time.Duration
	css         string
	noCrossOrig bool
}

// canvasFlags holds flags for the canvas command.
type canvasFlags struct {
	common  commonFlags
	json    bool
	backend string
	path    string
}

// serveFlags holds flags for the serve command.
type serveFlags struct {
	common  commonFlags
	addr    string
	backend string
	path    string
}

// sizesFlags holds flags for the sizes command.
type sizesFlags struct {
	json bool
}

func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug logs and timings")
}

func addStorageFlags(fs *flag.FlagSet, backend, path *string) {
	fs.StringVar(backend, "storage", "", "storage backend: file, sqlite, memory")
	fs.StringVar(path, "storage-path", "", "store file or database path")
}

// newFlagSet builds a quiet, non-exiting flag set; parse errors are
// reported by runMain.
func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.SortFlags = false
	return fs
}

// parseFlagSet parses args and wraps failures as usage errors.
// flag.ErrHelp is returned unwrapped so runMain can print command help.
func parseFlagSet(fs *flag.FlagSet, args []string) ([]string, error) {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}
	return fs.Args(), nil
}

func parseExportFlags(args []string) (*exportFlags, []string, error) {
	f := &exportFlags{}
	fs := newFlagSet("export")
	addCommonFlags(fs, &f.common)
	fs.StringVarP(&f.paper, "paper", "p", "", "paper size: a5, a4, letter, legal")
	fs.StringVarP(&f.output, "output", "o", "", "output directory")
	fs.StringVar(&f.canvasID, "canvas", "", "canvas id (or unique prefix) to name the export after")
	fs.StringVar(&f.name, "name", "", "output file name (without .pdf)")
	fs.StringVar(&f.scalePolicy, "scale-policy", "", "render scale: adaptive, fixed")
	fs.StringVar(&f.pagePolicy, "page-policy", "", "page size: paper, a4")
	fs.Float64Var(&f.dpr, "dpr", 0, "device pixel ratio for the adaptive scale")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel browsers (0 = auto)")
	fs.DurationVarP(&f.timeout, "timeout", "t", 0, "capture timeout per export (e.g. 30s, 2m)")
	fs.StringVar(&f.css, "css", "", "extra CSS file applied to every page")
	fs.BoolVar(&f.noCrossOrig, "no-cross-origin", false, "load remote images without crossorigin=anonymous")

	rest, err := parseFlagSet(fs, args)
	return f, rest, err
}

func parseCanvasFlags(args []string) (*canvasFlags, []string, error) {
	f := &canvasFlags{}
	fs := newFlagSet("canvas")
	addCommonFlags(fs, &f.common)
	addStorageFlags(fs, &f.backend, &f.path)
	fs.BoolVar(&f.json, "json", false, "print JSON")

	rest, err := parseFlagSet(fs, args)
	return f, rest, err
}

func parseServeFlags(args []string) (*serveFlags, []string, error) {
	f := &serveFlags{}
	fs := newFlagSet("serve")
	addCommonFlags(fs, &f.common)
	fs.StringVar(&f.addr, "addr", "", "listen address (host:port)")
	addStorageFlags(fs, &f.backend, &f.path)

	rest, err := parseFlagSet(fs, args)
	return f, rest, err
}

func parseSizesFlags(args []string) (*sizesFlags, []string, error) {
	f := &sizesFlags{}
	fs := newFlagSet("sizes")
	fs.BoolVar(&f.json, "json", false, "print JSON")

	rest, err := parseFlagSet(fs, args)
	return f, rest, err
}

func parseConfigFlags(args []string) (*commonFlags, []string, error) {
	f := &commonFlags{}
	fs := newFlagSet("config")
	addCommonFlags(fs, f)

	rest, err := parseFlagSet(fs, args)
	return f, rest, err
}

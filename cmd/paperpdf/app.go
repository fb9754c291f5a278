package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	flag "github.com/spf13/pflag"

	paperpdf "github.com/alnah/go-paperpdf"
	"github.com/alnah/go-paperpdf/internal/config"
	"github.com/alnah/go-paperpdf/internal/hints"
)

// Sentinel errors for CLI operations.
var (
	ErrUsage            = errors.New("invalid usage")
	ErrNoInput          = errors.New("no input specified")
	ErrReadInput        = errors.New("failed to read input file")
	ErrUnsupportedInput = errors.New("input must be .html, .htm, .md, or .markdown")
	ErrCanvasNotFound   = errors.New("canvas not found")
	ErrAmbiguousCanvas  = errors.New("canvas id prefix matches several canvases")
)

// runMain dispatches a command and returns the process exit code.
func runMain(args []string, env *Environment) int {
	if len(args) < 2 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	ctx, stop := notifyContext(context.Background())
	defer stop()

	cmd, rest := args[1], args[2:]

	var err error
	switch cmd {
	case "sizes":
		err = runSizes(rest, env)
	case "canvas":
		err = runCanvas(rest, env)
	case "export":
		err = runExport(ctx, rest, env)
	case "serve":
		err = runServe(ctx, rest, env)
	case "config":
		err = runConfigCmd(rest, env)
	case "version", "--version":
		fmt.Fprintf(env.Stdout, "paperpdf %s\n", Version)
		return ExitSuccess
	case "help", "-h", "--help":
		runHelp(rest, env)
		return ExitSuccess
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", cmd)
		printUsage(env.Stderr)
		return ExitUsage
	}

	if errors.Is(err, flag.ErrHelp) {
		runHelp([]string{cmd}, env)
		return ExitSuccess
	}
	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v%s\n", err, hintFor(err))
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// loadConfig resolves the effective configuration:
// defaults, then the config file, then PAPERPDF_* variables.
// Command flags are merged by the caller, which validates the result.
func loadConfig(common *commonFlags, env *Environment) (*config.Config, error) {
	envCfg := loadEnvConfig(env.Getenv)

	nameOrPath := common.config
	if nameOrPath == "" {
		nameOrPath = envCfg.ConfigPath
	}

	cfg := config.DefaultConfig()
	if nameOrPath != "" {
		loaded, err := config.LoadConfig(nameOrPath)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}

	applyEnvConfig(envCfg, cfg)
	return cfg, nil
}

// newLogger builds the diagnostic logger from config and flags.
// --verbose forces debug, --quiet keeps errors only.
func newLogger(cfg config.LogConfig, common *commonFlags, w io.Writer) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(w)

	if cfg.Format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	switch {
	case common.verbose:
		level = logrus.DebugLevel
	case common.quiet:
		level = logrus.ErrorLevel
	}
	log.SetLevel(level)
	return log
}

// exporterOptions maps the export config onto exporter options.
// cfg must be validated.
func exporterOptions(cfg *config.Config, log logrus.FieldLogger) []paperpdf.Option {
	opts := []paperpdf.Option{
		paperpdf.WithScalePolicy(paperpdf.ScalePolicy(cfg.Export.ScalePolicy)),
		paperpdf.WithPagePolicy(paperpdf.PagePolicy(cfg.Export.PagePolicy)),
		paperpdf.WithDevicePixelRatio(cfg.Export.DevicePixelRatio),
		paperpdf.WithCrossOrigin(cfg.Export.CrossOrigin),
		paperpdf.WithLogger(log),
	}
	if d, err := cfg.Export.TimeoutDuration(); err == nil && d > 0 {
		opts = append(opts, paperpdf.WithTimeout(d))
	}
	if cfg.Export.BrowserBin != "" {
		opts = append(opts, paperpdf.WithBrowserBin(cfg.Export.BrowserBin))
	}
	if cfg.Export.CSS != "" {
		opts = append(opts, paperpdf.WithCSS(cfg.Export.CSS))
	}
	return opts
}

// paperIDs lists the catalog ids for hints.
func paperIDs() []string {
	sizes := paperpdf.PaperSizes()
	ids := make([]string, len(sizes))
	for i, p := range sizes {
		ids[i] = p.ID
	}
	return ids
}

// hintFor returns an actionable hint for well-known failures.
func hintFor(err error) string {
	switch {
	case errors.Is(err, paperpdf.ErrBrowserConnect):
		return hints.ForBrowserConnect()
	case errors.Is(err, paperpdf.ErrCrossOriginBlocked):
		return hints.ForCrossOrigin()
	case errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	case errors.Is(err, config.ErrConfigNotFound):
		return hints.ForConfigNotFound(config.SearchedPaths(err))
	case errors.Is(err, paperpdf.ErrInvalidPaperSize):
		return hints.ForPaperSize(paperIDs())
	case errors.Is(err, paperpdf.ErrWritePDF):
		return hints.ForOutputDirectory()
	}
	return ""
}

package main

import (
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/alnah/go-paperpdf/internal/config"
)

// envPrefix marks the environment variables this CLI reads.
const envPrefix = "PAPERPDF_"

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath     string        // PAPERPDF_CONFIG: config name or path
	StorageBackend string        // PAPERPDF_STORAGE_BACKEND: file, sqlite, memory
	StoragePath    string        // PAPERPDF_STORAGE_PATH: store file or database
	OutputDir      string        // PAPERPDF_OUTPUT_DIR: export directory
	PaperSize      string        // PAPERPDF_PAPER_SIZE: a5, a4, letter, legal
	Workers        int           // PAPERPDF_WORKERS: parallel exporters
	Timeout        time.Duration // PAPERPDF_TIMEOUT: capture timeout
	Addr           string        // PAPERPDF_ADDR: HTTP listen address
	LogLevel       string        // PAPERPDF_LOG_LEVEL: debug, info, warn, error
}

// knownEnvVars lists valid PAPERPDF_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"PAPERPDF_CONFIG":          true,
	"PAPERPDF_STORAGE_BACKEND": true,
	"PAPERPDF_STORAGE_PATH":    true,
	"PAPERPDF_OUTPUT_DIR":      true,
	"PAPERPDF_PAPER_SIZE":      true,
	"PAPERPDF_WORKERS":         true,
	"PAPERPDF_TIMEOUT":         true,
	"PAPERPDF_ADDR":            true,
	"PAPERPDF_LOG_LEVEL":       true,
}

// loadEnvConfig reads configuration from environment variables.
// Malformed numbers and durations are ignored.
func loadEnvConfig(getenv func(string) string) *envConfig {
	cfg := &envConfig{
		ConfigPath:     getenv("PAPERPDF_CONFIG"),
		StorageBackend: getenv("PAPERPDF_STORAGE_BACKEND"),
		StoragePath:    getenv("PAPERPDF_STORAGE_PATH"),
		OutputDir:      getenv("PAPERPDF_OUTPUT_DIR"),
		PaperSize:      getenv("PAPERPDF_PAPER_SIZE"),
		Addr:           getenv("PAPERPDF_ADDR"),
		LogLevel:       getenv("PAPERPDF_LOG_LEVEL"),
	}

	if timeout := getenv("PAPERPDF_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	if workers := getenv("PAPERPDF_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized PAPERPDF_* variables.
// Helps catch typos like PAPERPDF_WORKER instead of PAPERPDF_WORKERS.
func warnUnknownEnvVars(environ []string, log logrus.FieldLogger) {
	for _, env := range environ {
		if !strings.HasPrefix(env, envPrefix) {
			continue
		}
		name, _, _ := strings.Cut(env, "=")
		if !knownEnvVars[name] {
			log.WithField("variable", name).Warn("Unknown environment variable (typo?)")
		}
	}
}

// applyEnvConfig overrides config file values with environment values.
// Precedence: CLI flags > env vars > config file > defaults
// (CLI flags are applied afterwards by each command).
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.StorageBackend != "" {
		cfg.Storage.Backend = env.StorageBackend
	}
	if env.StoragePath != "" {
		cfg.Storage.Path = env.StoragePath
	}
	if env.OutputDir != "" {
		cfg.Export.OutputDir = env.OutputDir
	}
	if env.PaperSize != "" {
		cfg.Paper.Default = env.PaperSize
	}
	if env.Workers > 0 {
		cfg.Export.Workers = env.Workers
	}
	if env.Timeout > 0 {
		cfg.Export.Timeout = env.Timeout.String()
	}
	if env.Addr != "" {
		cfg.Server.Addr = env.Addr
	}
	if env.LogLevel != "" {
		cfg.Log.Level = env.LogLevel
	}
}

// Package config loads the YAML configuration shared by the paperpdf CLI
// and HTTP server.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	paperpdf "github.com/alnah/go-paperpdf"
	"github.com/alnah/go-paperpdf/internal/fileutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrInvalidValue    = errors.New("invalid config value")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
)

// AppDirName is the per-user directory under os.UserConfigDir holding
// named configs and the default canvas store.
const AppDirName = "go-paperpdf"

// Storage backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// DefaultStorageKey is the key the canvas list is stored under.
const DefaultStorageKey = "paperpdf:canvases"

// Field length limits.
const (
	MaxPathLength = 4096
	MaxKeyLength  = 200
	MaxCSSLength  = 1 << 16
)

// Maximums for numeric fields.
const (
	MaxWorkers          = 32
	MaxDevicePixelRatio = 8
)

// Config holds all configuration for the CLI and server.
type Config struct {
	Storage StorageConfig `yaml:"storage"`
	Export  ExportConfig  `yaml:"export"`
	Paper   PaperConfig   `yaml:"paper"`
	Server  ServerConfig  `yaml:"server"`
	Log     LogConfig     `yaml:"log"`
}

// StorageConfig selects where the canvas library persists.
type StorageConfig struct {
	Backend string `yaml:"backend"` // "file", "sqlite", "memory" (default: "file")
	Path    string `yaml:"path"`    // Empty = file in the user config dir
	Key     string `yaml:"key"`     // Storage key (default: "paperpdf:canvases")
}

// ExportConfig defines how surfaces are captured and where PDFs go.
type ExportConfig struct {
	OutputDir        string  `yaml:"outputDir"`        // Default: current directory
	ScalePolicy      string  `yaml:"scalePolicy"`      // "adaptive", "fixed"
	PagePolicy       string  `yaml:"pagePolicy"`       // "paper", "a4"
	DevicePixelRatio float64 `yaml:"devicePixelRatio"` // Used by the adaptive policy
	Timeout          string  `yaml:"timeout"`          // Go duration, e.g. "30s"
	Workers          int     `yaml:"workers"`          // 0 = auto
	CrossOrigin      bool    `yaml:"crossOrigin"`      // Request remote images anonymously
	BrowserBin       string  `yaml:"browserBin"`       // Empty = managed Chromium
	CSS              string  `yaml:"css"`              // Extra style sheet for every page
}

// PaperConfig defines paper defaults.
type PaperConfig struct {
	Default string `yaml:"default"` // Catalog id (default: "a4")
}

// ServerConfig defines the HTTP API listener.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// LogConfig defines diagnostic logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "text", "json"
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{Backend: BackendFile, Key: DefaultStorageKey},
		Export: ExportConfig{
			OutputDir:        ".",
			ScalePolicy:      string(paperpdf.ScaleAdaptive),
			PagePolicy:       string(paperpdf.PageMatchPaper),
			DevicePixelRatio: 1,
			Timeout:          "30s",
			CrossOrigin:      true,
		},
		Paper:  PaperConfig{Default: paperpdf.PaperA4},
		Server: ServerConfig{Addr: "127.0.0.1:8080"},
		Log:    LogConfig{Level: "info", Format: "text"},
	}
}

// Validate checks enumerations, ranges and field lengths.
// Called automatically by LoadConfig, but available for callers that
// construct or override a Config in code.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendFile, BackendSQLite, BackendMemory:
	default:
		return invalid("storage.backend", c.Storage.Backend, "must be file, sqlite, or memory")
	}
	if err := validateFieldLength("storage.path", c.Storage.Path, MaxPathLength); err != nil {
		return err
	}
	if strings.TrimSpace(c.Storage.Key) == "" {
		return invalid("storage.key", c.Storage.Key, "must not be empty")
	}
	if err := validateFieldLength("storage.key", c.Storage.Key, MaxKeyLength); err != nil {
		return err
	}

	if !paperpdf.ScalePolicy(c.Export.ScalePolicy).Valid() {
		return invalid("export.scalePolicy", c.Export.ScalePolicy, "must be adaptive or fixed")
	}
	if !paperpdf.PagePolicy(c.Export.PagePolicy).Valid() {
		return invalid("export.pagePolicy", c.Export.PagePolicy, "must be paper or a4")
	}
	if c.Export.DevicePixelRatio <= 0 || c.Export.DevicePixelRatio > MaxDevicePixelRatio {
		return fmt.Errorf("%w: export.devicePixelRatio: must be in (0, %d], got %.2f",
			ErrInvalidValue, MaxDevicePixelRatio, c.Export.DevicePixelRatio)
	}
	if _, err := c.Export.TimeoutDuration(); err != nil {
		return err
	}
	if c.Export.Workers < 0 || c.Export.Workers > MaxWorkers {
		return fmt.Errorf("%w: export.workers: must be between 0 and %d, got %d",
			ErrInvalidValue, MaxWorkers, c.Export.Workers)
	}
	if err := validateFieldLength("export.outputDir", c.Export.OutputDir, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("export.browserBin", c.Export.BrowserBin, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("export.css", c.Export.CSS, MaxCSSLength); err != nil {
		return err
	}

	if _, ok := paperpdf.LookupPaperSize(c.Paper.Default); !ok {
		return invalid("paper.default", c.Paper.Default, "unknown paper size")
	}

	if strings.TrimSpace(c.Server.Addr) == "" {
		return invalid("server.addr", c.Server.Addr, "must not be empty")
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return invalid("log.level", c.Log.Level, "must be debug, info, warn, or error")
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return invalid("log.format", c.Log.Format, "must be text or json")
	}

	return nil
}

// TimeoutDuration parses Timeout. Empty means the exporter default.
func (e ExportConfig) TimeoutDuration() (time.Duration, error) {
	if e.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(e.Timeout)
	if err != nil || d <= 0 {
		return 0, invalid("export.timeout", e.Timeout, "must be a positive duration like 30s")
	}
	return d, nil
}

// ResolvedPath returns Path, or the default store file for the backend
// inside the user config directory.
func (s StorageConfig) ResolvedPath() string {
	if s.Path != "" {
		return s.Path
	}
	name := "canvases.json"
	if s.Backend == BackendSQLite {
		name = "canvases.db"
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return name
	}
	return filepath.Join(dir, AppDirName, name)
}

func invalid(field, value, reason string) error {
	return fmt.Errorf("%w: %s: %q %s", ErrInvalidValue, field, value, reason)
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Fields missing from the file keep their DefaultConfig values.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &NotFoundError{Paths: []string{configPath}}
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := unmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/go-paperpdf/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, AppDirName, name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", &NotFoundError{Paths: triedPaths, Searched: true}
}

// NotFoundError reports the config locations that were checked.
// It matches ErrConfigNotFound with errors.Is.
type NotFoundError struct {
	Paths    []string
	Searched bool // Paths came from a name lookup rather than an explicit path
}

func (e *NotFoundError) Error() string {
	if e.Searched {
		return ErrConfigNotFound.Error() + ": tried " + strings.Join(e.Paths, ", ")
	}
	return ErrConfigNotFound.Error() + ": " + strings.Join(e.Paths, ", ")
}

func (e *NotFoundError) Unwrap() error { return ErrConfigNotFound }

// SearchedPaths returns the locations listed by a NotFoundError in err's
// chain, or nil.
func SearchedPaths(err error) []string {
	var nf *NotFoundError
	if errors.As(err, &nf) {
		return nf.Paths
	}
	return nil
}

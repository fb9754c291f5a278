package main

// Notes:
// - loadEnvConfig: we test every PAPERPDF_* variable through an injected
//   getenv, plus malformed durations and worker counts (ignored, not errors).
// - warnUnknownEnvVars: we test typo detection with a logrus test hook.
// - applyEnvConfig: we test that env values override the config file and
//   that empty values leave it untouched.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"

	"github.com/alnah/go-paperpdf/internal/config"
)

func getenvFrom(vars map[string]string) func(string) string {
	return func(k string) string { return vars[k] }
}

// ---------------------------------------------------------------------------
// TestLoadEnvConfig - Environment variable loading
// ---------------------------------------------------------------------------

func TestLoadEnvConfig(t *testing.T) {
	t.Parallel()

	cfg := loadEnvConfig(getenvFrom(map[string]string{
		"PAPERPDF_CONFIG":          "/etc/paperpdf.yaml",
		"PAPERPDF_STORAGE_BACKEND": "sqlite",
		"PAPERPDF_STORAGE_PATH":    "/var/lib/paperpdf.db",
		"PAPERPDF_OUTPUT_DIR":      "/out",
		"PAPERPDF_PAPER_SIZE":      "letter",
		"PAPERPDF_WORKERS":         "3",
		"PAPERPDF_TIMEOUT":         "2m",
		"PAPERPDF_ADDR":            ":9000",
		"PAPERPDF_LOG_LEVEL":       "debug",
	}))

	want := envConfig{
		ConfigPath:     "/etc/paperpdf.yaml",
		StorageBackend: "sqlite",
		StoragePath:    "/var/lib/paperpdf.db",
		OutputDir:      "/out",
		PaperSize:      "letter",
		Workers:        3,
		Timeout:        2 * time.Minute,
		Addr:           ":9000",
		LogLevel:       "debug",
	}
	if *cfg != want {
		t.Errorf("loadEnvConfig() = %+v, want %+v", *cfg, want)
	}
}

func TestLoadEnvConfig_MalformedNumbers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		workers string
		timeout string
	}{
		{"not a number", "many", "soon"},
		{"negative", "-2", "-5s"},
		{"zero", "0", "0s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := loadEnvConfig(getenvFrom(map[string]string{
				"PAPERPDF_WORKERS": tt.workers,
				"PAPERPDF_TIMEOUT": tt.timeout,
			}))
			if cfg.Workers != 0 {
				t.Errorf("Workers = %d, want 0", cfg.Workers)
			}
			if cfg.Timeout != 0 {
				t.Errorf("Timeout = %v, want 0", cfg.Timeout)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestWarnUnknownEnvVars - Typo detection
// ---------------------------------------------------------------------------

func TestWarnUnknownEnvVars(t *testing.T) {
	t.Parallel()

	log, hook := logtest.NewNullLogger()
	warnUnknownEnvVars([]string{
		"PAPERPDF_WORKERS=2",
		"PAPERPDF_WORKER=2",
		"HOME=/root",
		"PAPERPDF_PAPERSIZE=a5",
	}, log)

	entries := hook.AllEntries()
	if len(entries) != 2 {
		t.Fatalf("got %d warnings, want 2", len(entries))
	}
	for i, name := range []string{"PAPERPDF_WORKER", "PAPERPDF_PAPERSIZE"} {
		if entries[i].Level != logrus.WarnLevel {
			t.Errorf("entry %d level = %v, want warn", i, entries[i].Level)
		}
		if entries[i].Data["variable"] != name {
			t.Errorf("entry %d variable = %v, want %s", i, entries[i].Data["variable"], name)
		}
	}
}

// ---------------------------------------------------------------------------
// TestApplyEnvConfig - Env overrides config file values
// ---------------------------------------------------------------------------

func TestApplyEnvConfig(t *testing.T) {
	t.Parallel()

	t.Run("overrides", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		cfg.Export.OutputDir = "from-file"
		applyEnvConfig(&envConfig{
			StorageBackend: "memory",
			StoragePath:    "/tmp/x.json",
			OutputDir:      "from-env",
			PaperSize:      "a5",
			Workers:        4,
			Timeout:        45 * time.Second,
			Addr:           ":7000",
			LogLevel:       "warn",
		}, cfg)

		if cfg.Storage.Backend != "memory" || cfg.Storage.Path != "/tmp/x.json" {
			t.Errorf("Storage = %+v", cfg.Storage)
		}
		if cfg.Export.OutputDir != "from-env" {
			t.Errorf("OutputDir = %q, want from-env", cfg.Export.OutputDir)
		}
		if cfg.Paper.Default != "a5" {
			t.Errorf("Paper.Default = %q, want a5", cfg.Paper.Default)
		}
		if cfg.Export.Workers != 4 {
			t.Errorf("Workers = %d, want 4", cfg.Export.Workers)
		}
		if cfg.Export.Timeout != "45s" {
			t.Errorf("Timeout = %q, want 45s", cfg.Export.Timeout)
		}
		if cfg.Server.Addr != ":7000" {
			t.Errorf("Addr = %q, want :7000", cfg.Server.Addr)
		}
		if cfg.Log.Level != "warn" {
			t.Errorf("Log.Level = %q, want warn", cfg.Log.Level)
		}
	})

	t.Run("empty env keeps file values", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		cfg.Export.OutputDir = "from-file"
		cfg.Export.Workers = 2
		applyEnvConfig(&envConfig{}, cfg)

		if cfg.Export.OutputDir != "from-file" || cfg.Export.Workers != 2 {
			t.Errorf("Export = %+v, want file values kept", cfg.Export)
		}
		if cfg.Paper.Default != config.DefaultConfig().Paper.Default {
			t.Errorf("Paper.Default = %q, want default", cfg.Paper.Default)
		}
	})
}

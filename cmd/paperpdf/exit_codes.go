package main

import (
	"errors"
	"os"

	paperpdf "github.com/alnah/go-paperpdf"
	"github.com/alnah/go-paperpdf/internal/config"
	"github.com/alnah/go-paperpdf/internal/storage"
)

// Exit codes for the paperpdf CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Command completed
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or arguments
	ExitIO      = 3 // File not found, permission denied, write failure
	ExitBrowser = 4 // Browser or capture errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser/capture errors (exit 4). The specific sentinels wrap
	// ErrCaptureFailure.
	if errors.Is(err, paperpdf.ErrCaptureFailure) {
		return ExitBrowser
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadInput) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, paperpdf.ErrWritePDF) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrUnsupportedInput) ||
		errors.Is(err, ErrCanvasNotFound) ||
		errors.Is(err, ErrAmbiguousCanvas) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, storage.ErrUnknownBackend) ||
		errors.Is(err, paperpdf.ErrInvalidPaperSize) ||
		errors.Is(err, paperpdf.ErrInvalidScale) ||
		errors.Is(err, paperpdf.ErrEmptyMarkdown) {
		return ExitUsage
	}

	return ExitGeneral
}
